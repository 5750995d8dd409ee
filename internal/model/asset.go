package model

import "time"

// 资产状态
const (
	AssetIdle       = "IDLE"        // 闲置
	AssetInUse      = "IN_USE"      // 使用中
	AssetInMaintain = "IN_MAINTAIN" // 维保中
	AssetRetired    = "RETIRED"     // 已清退
	AssetDeleted    = "DELETED"     // 已删除（逻辑删除）
)

// 资产计数类型
const (
	AssetTypeItem   = "ITEM"   // 单件计价资产
	AssetTypeAmount = "AMOUNT" // 按数量管理的资产
)

// Asset 资产表
// parent_id 构成独立于类别树的资产从属树：子资产随父资产一起维保/转移
type Asset struct {
	BaseModel
	Name        string `gorm:"type:varchar(30);not null"             json:"name"`
	CategoryID  uint   `gorm:"not null"                              json:"category_id"`
	TypeName    string `gorm:"type:varchar(10);not null;default:'ITEM'" json:"type_name"`
	Quantity    int    `gorm:"not null;default:1"                    json:"quantity"`
	Value       int64  `gorm:"not null;default:1"                    json:"value"`
	Description string `gorm:"type:varchar(150);not null;default:''" json:"description"`
	ParentID    *uint  `json:"parent_id,omitempty"`
	Status      string `gorm:"type:varchar(15);not null;default:'IDLE'" json:"status"`
	OwnerID     uint   `gorm:"not null"                              json:"owner_id"`
	ServiceLife int    `gorm:"not null;default:5"                    json:"service_life"`
	// StartTime 入账时间，折旧按其与当前时刻的间隔计算
	StartTime time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"start_time"`

	// 关联
	Category *AssetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Owner    *User          `gorm:"foreignKey:OwnerID"    json:"owner,omitempty"`
	Parent   *Asset         `gorm:"foreignKey:ParentID"   json:"-"`
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }

// CurrentValue 线性折旧后的当前价值，读取时实时计算，从不落库。
// 已清退资产价值恒为 0；折旧满年限后价值归 0。
func (a *Asset) CurrentValue(now time.Time) float64 {
	if a.Status == AssetRetired {
		return 0
	}
	if a.ServiceLife <= 0 {
		return 0
	}
	elapsedYears := int(now.Sub(a.StartTime).Hours() / 24 / 365)
	if elapsedYears < 0 {
		elapsedYears = 0
	}
	remaining := a.ServiceLife - elapsedYears
	if remaining <= 0 {
		return 0
	}
	return float64(a.Value) * float64(remaining) / float64(a.ServiceLife)
}
