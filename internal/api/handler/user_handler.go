package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/service"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// UserHandler 用户管理 HTTP 处理器（SYSTEM 权限）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// handleUserError 用户模块业务错误到响应码的映射
func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrDepartmentNotFound):
		response.Fail(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrAdminProtected):
		response.Fail(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrUnknownRole):
		response.Fail(c, response.CodeParamError, err.Error())
	default:
		response.InternalError(c)
	}
}

// List 全部用户列表
// GET /api/user/list
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, users, "")
}

// Create 创建用户
// POST /api/user/add
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, user, "")
}

// Update 编辑用户
// POST /api/user/edit
func (h *UserHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userSvc.Update(c.Request.Context(), req.ID, &req, callerID)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, user, "")
}

// Lock 锁定/解锁用户
// POST /api/user/lock
func (h *UserHandler) Lock(c *gin.Context) {
	var req dto.LockUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userSvc.Lock(c.Request.Context(), req.ID, *req.Active); err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Delete 删除用户
// POST /api/user/delete
func (h *UserHandler) Delete(c *gin.Context) {
	var req dto.DeleteUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), req.ID); err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, nil, "")
}
