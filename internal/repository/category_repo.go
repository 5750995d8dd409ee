package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

// CategoryRepository 资产类别数据访问接口
type CategoryRepository interface {
	// Create 依赖 name 的全局唯一索引，重名返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, category *model.AssetCategory) error
	GetByID(ctx context.Context, id uint) (*model.AssetCategory, error)
	GetByName(ctx context.Context, name string) (*model.AssetCategory, error)
	ListAll(ctx context.Context) ([]model.AssetCategory, error)
	Update(ctx context.Context, category *model.AssetCategory) error
	Delete(ctx context.Context, id uint) error
	CountAssets(ctx context.Context, categoryID uint) (int64, error)
}

// categoryRepo CategoryRepository 的 GORM 实现
type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.AssetCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.AssetCategory, error) {
	var category model.AssetCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.AssetCategory, error) {
	var category model.AssetCategory
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) ListAll(ctx context.Context) ([]model.AssetCategory, error) {
	var categories []model.AssetCategory
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, category *model.AssetCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.AssetCategory{}, id).Error
}

func (r *categoryRepo) CountAssets(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
