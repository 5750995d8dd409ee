package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 认证中间件未正确注入时写入 401 响应，调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, "未认证")
		return 0, false
	}
	return id, true
}

// MustGetUsername 从 Gin 上下文中安全提取 username。
func MustGetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// bindJSON 解析并校验请求体。
// 字段校验失败返回 400 并附逐字段信息，其余解析错误按参数缺失（201）处理。
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			response.FailWithData(c, response.CodeValidationError, "字段校验失败", fields)
			return false
		}
		response.Fail(c, response.CodeParamError, "请求参数缺失或非法")
		return false
	}
	return true
}

// bindQuery 解析查询串参数，失败按 201 处理
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Fail(c, response.CodeParamError, "请求参数缺失或非法")
		return false
	}
	return true
}
