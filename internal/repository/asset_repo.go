package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

// AssetFilters 类型化的资产查询条件，零值字段表示不限制
type AssetFilters struct {
	NameContains        string
	DescriptionContains string
	CategoryID          *uint
	DepartmentID        *uint
	Status              string
}

// AssetRepository 资产数据访问接口
type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id uint) (*model.Asset, error)
	// ListAll 返回全量资产快照，树运算（从属校验、级联收集）在内存中做
	ListAll(ctx context.Context) ([]model.Asset, error)
	Update(ctx context.Context, asset *model.Asset) error
	Query(ctx context.Context, filters AssetFilters) ([]model.Asset, error)
	// ListIdle 某部门内某类别下所有闲置资产，领用审批的备选集
	ListIdle(ctx context.Context, departmentID, categoryID uint) ([]model.Asset, error)
	// ApplyStatusOwner 把同一份 owner/status 变更应用到 ids 的全部资产，
	// 并为每条资产追加一条历史记录；整体在一个事务中完成
	ApplyStatusOwner(ctx context.Context, ids []uint, status string, ownerID uint, histories []model.HistoryRecord) error
}

// assetRepo AssetRepository 的 GORM 实现
type assetRepo struct {
	db *gorm.DB
}

// NewAssetRepo 创建 AssetRepository 实例
func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *assetRepo) GetByID(ctx context.Context, id uint) (*model.Asset, error) {
	var asset model.Asset
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Owner").
		Preload("Owner.Department").
		First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) ListAll(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&assets).Error
	return assets, err
}

func (r *assetRepo) Update(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *assetRepo) Query(ctx context.Context, filters AssetFilters) ([]model.Asset, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Preload("Category").
		Preload("Owner").
		Preload("Owner.Department")

	if filters.NameContains != "" {
		q = q.Where("assets.name LIKE ?", "%"+filters.NameContains+"%")
	}
	if filters.DescriptionContains != "" {
		q = q.Where("assets.description LIKE ?", "%"+filters.DescriptionContains+"%")
	}
	if filters.CategoryID != nil {
		q = q.Where("assets.category_id = ?", *filters.CategoryID)
	}
	if filters.Status != "" {
		q = q.Where("assets.status = ?", filters.Status)
	}
	if filters.DepartmentID != nil {
		q = q.Joins("JOIN users owner_u ON owner_u.id = assets.owner_id").
			Where("owner_u.department_id = ?", *filters.DepartmentID)
	}

	var assets []model.Asset
	err := q.Order("assets.id ASC").Find(&assets).Error
	return assets, err
}

func (r *assetRepo) ListIdle(ctx context.Context, departmentID, categoryID uint) ([]model.Asset, error) {
	var assets []model.Asset
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Owner").
		Joins("JOIN users owner_u ON owner_u.id = assets.owner_id").
		Where("assets.status = ? AND assets.category_id = ? AND owner_u.department_id = ?",
			model.AssetIdle, categoryID, departmentID).
		Order("assets.id ASC").
		Find(&assets).Error
	return assets, err
}

func (r *assetRepo) ApplyStatusOwner(ctx context.Context, ids []uint, status string, ownerID uint, histories []model.HistoryRecord) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"owner_id":   ownerID,
			"updated_at": time.Now(),
		}
		if status != "" {
			updates["status"] = status
		}
		if err := tx.Model(&model.Asset{}).
			Where("id IN ?", ids).
			Updates(updates).Error; err != nil {
			return err
		}
		if len(histories) > 0 {
			if err := tx.Create(&histories).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
