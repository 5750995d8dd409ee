package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/service"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AuthFail(c, response.CodeParamError, "请求参数缺失或非法")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongCredential):
			response.AuthFail(c, response.CodeParamError, "用户名或密码错误")
		case errors.Is(err, service.ErrUserLocked):
			response.AuthFail(c, response.CodeConflict, "用户已被锁定")
		default:
			response.InternalError(c)
		}
		return
	}

	response.AuthOK(c, result)
}

// Logout 用户登出，清除服务端会话
// POST /api/user/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		response.InternalError(c)
		return
	}
	response.AuthOK(c, nil)
}

// Info 当前用户信息
// GET /api/user/info
func (h *AuthHandler) Info(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	info, err := h.authSvc.Info(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.AuthFail(c, response.CodeNotFound, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.AuthOK(c, info)
}
