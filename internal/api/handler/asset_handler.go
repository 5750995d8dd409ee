package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/service"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// AssetHandler 资产登记 HTTP 处理器
type AssetHandler struct {
	assetSvc service.AssetService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// handleAssetError 资产模块业务错误到响应码的映射
func handleAssetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssetNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrDepartmentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		response.Fail(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidParent):
		response.Fail(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrUnknownType):
		response.Fail(c, response.CodeParamError, err.Error())
	default:
		response.InternalError(c)
	}
}

// List 按条件查询资产
// GET /api/asset/list
func (h *AssetHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.AssetQueryRequest
	if !bindQuery(c, &req) {
		return
	}
	assets, err := h.assetSvc.Query(c.Request.Context(), &req, userID)
	if err != nil {
		handleAssetError(c, err)
		return
	}
	response.OK(c, assets, "")
}

// Add 登记资产
// POST /api/asset/add
func (h *AssetHandler) Add(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateAssetRequest
	if !bindJSON(c, &req) {
		return
	}
	asset, err := h.assetSvc.Add(c.Request.Context(), &req, userID)
	if err != nil {
		handleAssetError(c, err)
		return
	}
	response.OK(c, asset, "")
}

// Edit 编辑资产基本信息
// POST /api/asset/edit
func (h *AssetHandler) Edit(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}
	var req dto.EditAssetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.assetSvc.Edit(c.Request.Context(), &req, username); err != nil {
		handleAssetError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Retire 清退资产（连同子资产）
// POST /api/asset/retire
func (h *AssetHandler) Retire(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}
	var req struct {
		ID uint `json:"id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.assetSvc.Retire(c.Request.Context(), req.ID, username); err != nil {
		handleAssetError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// History 资产完整历史
// GET /api/asset/history?id=
func (h *AssetHandler) History(c *gin.Context) {
	var req struct {
		ID uint `form:"id" binding:"required"`
	}
	if !bindQuery(c, &req) {
		return
	}
	records, err := h.assetSvc.History(c.Request.Context(), req.ID)
	if err != nil {
		handleAssetError(c, err)
		return
	}
	response.OK(c, records, "")
}

// SetCustomAttr 设置资产自定义属性
// POST /api/asset/attr
func (h *AssetHandler) SetCustomAttr(c *gin.Context) {
	var req dto.SetCustomAttrRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.assetSvc.SetCustomAttr(c.Request.Context(), &req); err != nil {
		handleAssetError(c, err)
		return
	}
	response.OK(c, nil, "")
}
