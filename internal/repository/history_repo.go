package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

// HistoryRepository 资产历史记录数据访问接口（只追加）
type HistoryRepository interface {
	Create(ctx context.Context, record *model.HistoryRecord) error
	// ListByAsset 按创建时间正序返回某资产的全部历史
	ListByAsset(ctx context.Context, assetID uint) ([]model.HistoryRecord, error)
}

// historyRepo HistoryRepository 的 GORM 实现
type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepo 创建 HistoryRepository 实例
func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Create(ctx context.Context, record *model.HistoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *historyRepo) ListByAsset(ctx context.Context, assetID uint) ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}
