package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/service"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// CategoryHandler 资产类别树 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// handleCategoryError 类别模块业务错误到响应码的映射
func handleCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		response.Fail(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrCategoryNameExists),
		errors.Is(err, service.ErrRootProtected),
		errors.Is(err, service.ErrNodeInUse):
		response.Fail(c, response.CodeConflict, err.Error())
	default:
		response.InternalError(c)
	}
}

// Tree 完整类别树
// GET /api/category/tree
func (h *CategoryHandler) Tree(c *gin.Context) {
	view, err := h.categorySvc.Tree(c.Request.Context())
	if err != nil {
		handleCategoryError(c, err)
		return
	}
	response.OK(c, view, "")
}

// Add 新增类别
// POST /api/category/add
func (h *CategoryHandler) Add(c *gin.Context) {
	var req dto.AddNodeRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categorySvc.Add(c.Request.Context(), &req)
	if err != nil {
		handleCategoryError(c, err)
		return
	}
	response.OK(c, category, "")
}

// Edit 重命名类别
// POST /api/category/edit
func (h *CategoryHandler) Edit(c *gin.Context) {
	var req dto.EditNodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.categorySvc.Edit(c.Request.Context(), &req); err != nil {
		handleCategoryError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Delete 删除类别
// POST /api/category/delete
func (h *CategoryHandler) Delete(c *gin.Context) {
	var req dto.DeleteNodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.categorySvc.Delete(c.Request.Context(), req.ID); err != nil {
		handleCategoryError(c, err)
		return
	}
	response.OK(c, nil, "")
}
