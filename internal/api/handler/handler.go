package handler

import "github.com/zhanghx0905/AssetManagementBackend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Department *DepartmentHandler
	Category   *CategoryHandler
	Asset      *AssetHandler
	Issue      *IssueHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
		Category:   NewCategoryHandler(svc.Category),
		Asset:      NewAssetHandler(svc.Asset),
		Issue:      NewIssueHandler(svc.Issue),
		Export:     NewExportHandler(svc.Export),
	}
}
