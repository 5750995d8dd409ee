package model

import "time"

// CustomAttr 自定义属性定义表
type CustomAttr struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (CustomAttr) TableName() string { return "custom_attrs" }

// AssetCustomAttr 资产自定义属性值表
type AssetCustomAttr struct {
	AssetID uint   `gorm:"primaryKey" json:"asset_id"`
	AttrID  uint   `gorm:"primaryKey" json:"attr_id"`
	Value   string `gorm:"type:varchar(100);not null;default:''" json:"value"`
}

// TableName 指定表名
func (AssetCustomAttr) TableName() string { return "asset_custom_attrs" }
