package service

import (
	"go.uber.org/zap"

	"github.com/zhanghx0905/AssetManagementBackend/config"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/jwt"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Department DepartmentService
	Category   CategoryService
	Asset      AssetService
	Issue      IssueService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	deptSvc := NewDepartmentService(cfg, repo, logger)
	assetSvc := NewAssetService(repo, logger)
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, rdb, logger),
		User:       NewUserService(cfg, repo, rdb, logger),
		Department: deptSvc,
		Category:   NewCategoryService(repo, logger),
		Asset:      assetSvc,
		Issue:      NewIssueService(repo, assetSvc, deptSvc, logger),
		Export:     NewExportService(assetSvc, logger),
	}
}
