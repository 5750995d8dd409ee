package model

// 用户权限角色
const (
	RoleIT     = "IT"     // IT 管理员
	RoleAsset  = "ASSET"  // 资产管理员
	RoleSystem = "SYSTEM" // 系统管理员
	RoleStaff  = "STAFF"  // 普通员工，所有用户都具有
)

// User 用户表
type User struct {
	BaseModel
	Username     string      `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	PasswordHash string      `gorm:"type:varchar(100);not null"            json:"-"`
	DepartmentID uint        `gorm:"not null"                              json:"department_id"`
	Roles        StringArray `gorm:"type:text[];not null;default:'{}'"     json:"roles"`
	Active       bool        `gorm:"not null;default:true"                 json:"active"`

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// HasRole 判断用户是否持有指定角色，STAFF 对所有用户生效
func (u *User) HasRole(role string) bool {
	if role == RoleStaff {
		return true
	}
	return u.Roles.Contains(role)
}

// RoleList 返回下发给前端的角色列表（含 STAFF）
func (u *User) RoleList() []string {
	return append(append([]string{}, u.Roles...), RoleStaff)
}
