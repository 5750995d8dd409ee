package dto

// CreateUserRequest 创建用户请求（SYSTEM 权限）
type CreateUserRequest struct {
	Username     string   `json:"username" binding:"required,max=30"`
	Password     string   `json:"password" binding:"required,min=6"`
	DepartmentID uint     `json:"department_id" binding:"required"`
	Roles        []string `json:"roles"`
}

// UpdateUserRequest 编辑用户请求，空字段不修改
type UpdateUserRequest struct {
	ID           uint      `json:"id" binding:"required"`
	Password     *string   `json:"password,omitempty"`
	DepartmentID *uint     `json:"department_id,omitempty"`
	Roles        *[]string `json:"roles,omitempty"`
}

// LockUserRequest 锁定/解锁用户请求
type LockUserRequest struct {
	ID     uint  `json:"id" binding:"required"`
	Active *bool `json:"active" binding:"required"`
}

// DeleteUserRequest 删除用户请求
type DeleteUserRequest struct {
	ID uint `json:"id" binding:"required"`
}

// UserResponse 用户视图
type UserResponse struct {
	ID         uint     `json:"id"`
	Username   string   `json:"username"`
	Department string   `json:"department"`
	Roles      []string `json:"roles"`
	Active     bool     `json:"active"`
}
