package model

// AssetCategory 资产类别表 — 单根树
// 名称全局唯一（不按父节点区分），数据库侧有唯一索引兜底
type AssetCategory struct {
	BaseModel
	Name     string `gorm:"type:varchar(30);not null;uniqueIndex" json:"name"`
	ParentID *uint  `json:"parent_id,omitempty"`

	// 关联
	Parent *AssetCategory `gorm:"foreignKey:ParentID" json:"-"`
}

// TableName 指定表名
func (AssetCategory) TableName() string { return "asset_categories" }
