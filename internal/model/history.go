package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 历史记录操作类型
const (
	HistoryCreate = "+"
	HistoryUpdate = "~"
	HistoryDelete = "-"
)

// FieldChange 一个字段的前后值
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ChangeList 字段变更集合，落库为 JSONB
type ChangeList []FieldChange

// Scan 实现 sql.Scanner
func (l *ChangeList) Scan(src interface{}) error {
	if src == nil {
		*l = ChangeList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("ChangeList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Value 实现 driver.Valuer
func (l ChangeList) Value() (driver.Value, error) {
	if l == nil {
		l = ChangeList{}
	}
	return json.Marshal(l)
}

// HistoryRecord 资产历史记录表 — 只追加，随资产删除而删除，此外从不修改
type HistoryRecord struct {
	ID      uint       `gorm:"primaryKey" json:"id"`
	AssetID uint       `gorm:"not null"   json:"asset_id"`
	Op      string     `gorm:"type:char(1);not null" json:"op"`
	Changes ChangeList `gorm:"type:jsonb;not null;default:'[]'" json:"changes"`
	// Operator 操作人用户名，系统自动操作时为 unknown
	Operator string `gorm:"type:varchar(30);not null;default:'unknown'" json:"operator"`
	// Reason 人工给出的变更事由，展示时覆盖默认的 创建/更新/删除 标签
	Reason    string    `gorm:"type:varchar(100);not null;default:''" json:"reason"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (HistoryRecord) TableName() string { return "history_records" }
