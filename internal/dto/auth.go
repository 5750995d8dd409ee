package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=30"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string `json:"token"`
}

// UserInfoResponse 当前用户信息
type UserInfoResponse struct {
	ID         uint     `json:"id"`
	Username   string   `json:"username"`
	Department string   `json:"department"`
	Roles      []string `json:"roles"`
}
