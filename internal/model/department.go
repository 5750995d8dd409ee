package model

// Department 部门表 — 单根树，parent_id 为空表示顶层部门
type Department struct {
	BaseModel
	Name     string `gorm:"type:varchar(30);not null;uniqueIndex" json:"name"`
	ParentID *uint  `json:"parent_id,omitempty"`

	// 关联
	Parent *Department `gorm:"foreignKey:ParentID" json:"-"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
