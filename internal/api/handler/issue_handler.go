package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/service"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// IssueHandler 待办事项 HTTP 处理器
type IssueHandler struct {
	issueSvc service.IssueService
}

// NewIssueHandler 创建 IssueHandler
func NewIssueHandler(issueSvc service.IssueService) *IssueHandler {
	return &IssueHandler{issueSvc: issueSvc}
}

// handleIssueError 事项模块业务错误到响应码的映射
func handleIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIssueNotFound),
		errors.Is(err, service.ErrAssetNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrDepartmentNotFound):
		response.Fail(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrIssueConflict),
		errors.Is(err, service.ErrIssueFinished),
		errors.Is(err, service.ErrNotHandler),
		errors.Is(err, service.ErrAssetNotIdle),
		errors.Is(err, service.ErrAssetWrongCategory),
		errors.Is(err, service.ErrAssetNotOperatable):
		response.Fail(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrUnknownIssueType):
		response.Fail(c, response.CodeParamError, err.Error())
	default:
		response.InternalError(c)
	}
}

// Require 按类别发起领用
// POST /api/issue/require
func (h *IssueHandler) Require(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RequireRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.Require(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Fix 发起维保
// POST /api/issue/fix
func (h *IssueHandler) Fix(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.FixRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.Fix(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Transfer 发起转移
// POST /api/issue/transfer
func (h *IssueHandler) Transfer(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.Transfer(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Return 发起退还
// POST /api/issue/return
func (h *IssueHandler) Return(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.Return(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Handle 处理待办事项
// POST /api/issue/handle
func (h *IssueHandler) Handle(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.HandleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.Handle(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// PermitRequire 批准领用并分配资产
// POST /api/issue/permit-require
func (h *IssueHandler) PermitRequire(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.PermitRequireRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.PermitRequire(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Delete 删除事项记录
// POST /api/issue/delete
func (h *IssueHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.DeleteIssueRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.issueSvc.Delete(c.Request.Context(), &req, userID); err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Handling 名下进行中的待办
// GET /api/issue/handling
func (h *IssueHandler) Handling(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	issues, err := h.issueSvc.Handling(c.Request.Context(), userID)
	if err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, issues, "")
}

// Waiting 已发起的事项
// GET /api/issue/waiting
func (h *IssueHandler) Waiting(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	issues, err := h.issueSvc.Waiting(c.Request.Context(), userID)
	if err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, issues, "")
}

// RequireAssetList 审批领用时的备选闲置资产
// POST /api/issue/require-asset-list
func (h *IssueHandler) RequireAssetList(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RequireAssetListRequest
	if !bindJSON(c, &req) {
		return
	}
	assets, err := h.issueSvc.RequireAssetList(c.Request.Context(), &req, userID)
	if err != nil {
		handleIssueError(c, err)
		return
	}
	response.OK(c, assets, "")
}
