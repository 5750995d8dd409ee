package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/config"
	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/tree"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound   = errors.New("部门不存在")
	ErrDepartmentNameExists = errors.New("部门名称已存在")
	// ErrRootProtected 根节点不允许删除
	ErrRootProtected = errors.New("顶层节点不能删除")
	// ErrNodeInUse 节点下还有子节点或引用者，删除被拒绝
	ErrNodeInUse = errors.New("节点下存在子节点或关联对象，无法删除")
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Tree(ctx context.Context) (*tree.View, error)
	Add(ctx context.Context, req *dto.AddNodeRequest) (*model.Department, error)
	Edit(ctx context.Context, req *dto.EditNodeRequest) error
	Delete(ctx context.Context, id uint) error
	// FindAssetManager 从部门出发沿祖先链找资产管理员，找不到则回退到超级管理员
	FindAssetManager(ctx context.Context, departmentID uint) (*model.User, error)
}

type departmentService struct {
	adminUsername string
	repo          *repository.Repository
	logger        *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{
		adminUsername: cfg.Auth.AdminUsername,
		repo:          repo,
		logger:        logger,
	}
}

// forest 取全量部门快照构建层级引擎
func (s *departmentService) forest(ctx context.Context) (*tree.Forest, error) {
	depts, err := s.repo.Department.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}
	nodes := make([]tree.Node, 0, len(depts))
	for i := range depts {
		nodes = append(nodes, tree.Node{
			ID:       depts[i].ID,
			ParentID: depts[i].ParentID,
			Name:     depts[i].Name,
		})
	}
	return tree.NewForest(nodes), nil
}

func (s *departmentService) Tree(ctx context.Context) (*tree.View, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	root, err := forest.Root()
	if err != nil {
		// 根缺失/多根意味着不变量被破坏，按内部错误处理
		s.logger.Error("部门树不变量被破坏", zap.Error(err))
		return nil, err
	}
	return forest.BuildView(root.ID)
}

func (s *departmentService) Add(ctx context.Context, req *dto.AddNodeRequest) (*model.Department, error) {
	if _, err := s.repo.Department.GetByID(ctx, req.ParentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	parentID := req.ParentID
	dept := &model.Department{Name: req.Name, ParentID: &parentID}
	// 重名交给唯一索引裁决，并发下两个同名插入只会成功一个
	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("添加部门", zap.String("name", dept.Name))
	return dept, nil
}

func (s *departmentService) Edit(ctx context.Context, req *dto.EditNodeRequest) error {
	dept, err := s.repo.Department.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	oldName := dept.Name
	dept.Name = req.Name
	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDepartmentNameExists
		}
		s.logger.Error("更新部门失败", zap.Uint("id", req.ID), zap.Error(err))
		return err
	}
	s.logger.Info("修改部门", zap.String("old", oldName), zap.String("new", dept.Name))
	return nil
}

func (s *departmentService) Delete(ctx context.Context, id uint) error {
	forest, err := s.forest(ctx)
	if err != nil {
		return err
	}
	if err := forest.ValidateDelete(id); err != nil {
		switch {
		case errors.Is(err, tree.ErrProtectedRoot):
			return ErrRootProtected
		case errors.Is(err, tree.ErrNodeMissing):
			return ErrDepartmentNotFound
		default:
			return err
		}
	}
	// 有子部门或在职用户时拒绝删除
	if forest.HasChildren(id) {
		return ErrNodeInUse
	}
	count, err := s.repo.Department.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrNodeInUse
	}

	if err := s.repo.Department.Delete(ctx, id); err != nil {
		s.logger.Error("删除部门失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *departmentService) FindAssetManager(ctx context.Context, departmentID uint) (*model.User, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	ancestors, err := forest.Ancestors(departmentID, true)
	if err != nil {
		if errors.Is(err, tree.ErrNodeMissing) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	// 自内向外逐级找持有 ASSET 角色的用户
	for _, node := range ancestors {
		manager, err := s.repo.User.FindRoleHolder(ctx, node.ID, model.RoleAsset)
		if err == nil {
			return manager, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// 兜底：超级管理员
	admin, err := s.repo.User.GetByUsername(ctx, s.adminUsername)
	if err != nil {
		s.logger.Error("超级管理员缺失", zap.String("username", s.adminUsername), zap.Error(err))
		return nil, err
	}
	return admin, nil
}
