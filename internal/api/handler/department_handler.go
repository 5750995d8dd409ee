package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/service"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// DepartmentHandler 部门树 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// handleDepartmentError 部门模块业务错误到响应码的映射
func handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.Fail(c, response.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrDepartmentNameExists),
		errors.Is(err, service.ErrRootProtected),
		errors.Is(err, service.ErrNodeInUse):
		response.Fail(c, response.CodeConflict, err.Error())
	default:
		response.InternalError(c)
	}
}

// Tree 完整部门树
// GET /api/department/tree
func (h *DepartmentHandler) Tree(c *gin.Context) {
	view, err := h.deptSvc.Tree(c.Request.Context())
	if err != nil {
		handleDepartmentError(c, err)
		return
	}
	response.OK(c, view, "")
}

// Add 新增部门
// POST /api/department/add
func (h *DepartmentHandler) Add(c *gin.Context) {
	var req dto.AddNodeRequest
	if !bindJSON(c, &req) {
		return
	}
	dept, err := h.deptSvc.Add(c.Request.Context(), &req)
	if err != nil {
		handleDepartmentError(c, err)
		return
	}
	response.OK(c, dept, "")
}

// Edit 重命名部门
// POST /api/department/edit
func (h *DepartmentHandler) Edit(c *gin.Context) {
	var req dto.EditNodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.deptSvc.Edit(c.Request.Context(), &req); err != nil {
		handleDepartmentError(c, err)
		return
	}
	response.OK(c, nil, "")
}

// Delete 删除部门
// POST /api/department/delete
func (h *DepartmentHandler) Delete(c *gin.Context) {
	var req dto.DeleteNodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.deptSvc.Delete(c.Request.Context(), req.ID); err != nil {
		handleDepartmentError(c, err)
		return
	}
	response.OK(c, nil, "")
}
