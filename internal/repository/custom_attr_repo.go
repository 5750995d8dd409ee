package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

// CustomAttrRepository 自定义属性数据访问接口
type CustomAttrRepository interface {
	GetOrCreate(ctx context.Context, name string) (*model.CustomAttr, error)
	// SetValue 写入某资产某属性的值，存在则覆盖
	SetValue(ctx context.Context, assetID, attrID uint, value string) error
	// MapByAsset 返回某资产的全部属性 name -> value
	MapByAsset(ctx context.Context, assetID uint) (map[string]string, error)
}

// customAttrRepo CustomAttrRepository 的 GORM 实现
type customAttrRepo struct {
	db *gorm.DB
}

// NewCustomAttrRepo 创建 CustomAttrRepository 实例
func NewCustomAttrRepo(db *gorm.DB) CustomAttrRepository {
	return &customAttrRepo{db: db}
}

func (r *customAttrRepo) GetOrCreate(ctx context.Context, name string) (*model.CustomAttr, error) {
	var attr model.CustomAttr
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&attr).Error
	if err == nil {
		return &attr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	attr = model.CustomAttr{Name: name}
	if err := r.db.WithContext(ctx).Create(&attr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发创建同名属性，读回已有的那条
			var existing model.CustomAttr
			if err2 := r.db.WithContext(ctx).
				Where("name = ?", name).
				First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &attr, nil
}

func (r *customAttrRepo) SetValue(ctx context.Context, assetID, attrID uint, value string) error {
	row := model.AssetCustomAttr{AssetID: assetID, AttrID: attrID, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}, {Name: "attr_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&row).Error
}

func (r *customAttrRepo) MapByAsset(ctx context.Context, assetID uint) (map[string]string, error) {
	type attrRow struct {
		Name  string
		Value string
	}
	var rows []attrRow
	err := r.db.WithContext(ctx).
		Table("asset_custom_attrs").
		Select("custom_attrs.name, asset_custom_attrs.value").
		Joins("JOIN custom_attrs ON custom_attrs.id = asset_custom_attrs.attr_id").
		Where("asset_custom_attrs.asset_id = ?", assetID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[string]string, len(rows))
	for _, row := range rows {
		res[row.Name] = row.Value
	}
	return res, nil
}
