package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/tree"
)

// ── 类别模块业务错误 ──

var (
	ErrCategoryNotFound = errors.New("资产类别不存在")
	// ErrCategoryNameExists 类别名称全局唯一，与父节点无关
	ErrCategoryNameExists = errors.New("资产类别名称已存在")
)

// CategoryService 资产类别业务接口
type CategoryService interface {
	Tree(ctx context.Context) (*tree.View, error)
	Add(ctx context.Context, req *dto.AddNodeRequest) (*model.AssetCategory, error)
	Edit(ctx context.Context, req *dto.EditNodeRequest) error
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

func (s *categoryService) forest(ctx context.Context) (*tree.Forest, error) {
	categories, err := s.repo.Category.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出资产类别失败", zap.Error(err))
		return nil, err
	}
	nodes := make([]tree.Node, 0, len(categories))
	for i := range categories {
		nodes = append(nodes, tree.Node{
			ID:       categories[i].ID,
			ParentID: categories[i].ParentID,
			Name:     categories[i].Name,
		})
	}
	return tree.NewForest(nodes), nil
}

func (s *categoryService) Tree(ctx context.Context) (*tree.View, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	root, err := forest.Root()
	if err != nil {
		s.logger.Error("类别树不变量被破坏", zap.Error(err))
		return nil, err
	}
	return forest.BuildView(root.ID)
}

func (s *categoryService) Add(ctx context.Context, req *dto.AddNodeRequest) (*model.AssetCategory, error) {
	if _, err := s.repo.Category.GetByID(ctx, req.ParentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	parentID := req.ParentID
	category := &model.AssetCategory{Name: req.Name, ParentID: &parentID}
	// 重名交给唯一索引裁决，并发下两个同名插入只会成功一个
	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryNameExists
		}
		s.logger.Error("创建资产类别失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("添加资产类别", zap.String("name", category.Name))
	return category, nil
}

func (s *categoryService) Edit(ctx context.Context, req *dto.EditNodeRequest) error {
	category, err := s.repo.Category.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	category.Name = req.Name
	if err := s.repo.Category.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCategoryNameExists
		}
		s.logger.Error("更新资产类别失败", zap.Uint("id", req.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	forest, err := s.forest(ctx)
	if err != nil {
		return err
	}
	if err := forest.ValidateDelete(id); err != nil {
		switch {
		case errors.Is(err, tree.ErrProtectedRoot):
			return ErrRootProtected
		case errors.Is(err, tree.ErrNodeMissing):
			return ErrCategoryNotFound
		default:
			return err
		}
	}
	// 有子类别或下挂资产时拒绝删除
	if forest.HasChildren(id) {
		return ErrNodeInUse
	}
	count, err := s.repo.Category.CountAssets(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrNodeInUse
	}

	if err := s.repo.Category.Delete(ctx, id); err != nil {
		s.logger.Error("删除资产类别失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}
