package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务码约定（与前端既有约定保持兼容，业务结果的 HTTP 状态恒为 200）：
//   200 成功
//   201 请求参数缺失或非法
//   202 引用的对象不存在
//   203 业务冲突（重复名称、待办冲突、根节点保护、自环挂载等）
//   400 字段校验失败（附带逐字段信息）
//   405 HTTP 方法不被允许
const (
	CodeOK               = 200
	CodeParamError       = 201
	CodeNotFound         = 202
	CodeConflict         = 203
	CodeValidationError  = 400
	CodeMethodNotAllowed = 405
)

// Response 统一响应结构
// Status 仅用于登录/登出/用户信息等认证相关接口：0 成功 / 1 失败
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Status  *int        `json:"status,omitempty"`
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	})
}

// Fail 业务失败响应，code 取本包常量
func Fail(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// FailWithData 带数据的失败响应（如逐字段校验信息）
func FailWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// MethodNotAllowed 405 方法错误
func MethodNotAllowed(c *gin.Context, method string) {
	Fail(c, CodeMethodNotAllowed, "Http 方法 "+method+" 是不被允许的")
}

// InternalError 内部错误（存储不可用或不变量被破坏，详情见日志）
func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:    500,
		Message: "服务器内部错误",
	})
}

// ── 认证相关接口：status 0/1 双通道 ──

// AuthOK 认证流程成功响应，status=0
func AuthOK(c *gin.Context, data interface{}) {
	zero := 0
	c.JSON(http.StatusOK, Response{
		Code:   CodeOK,
		Data:   data,
		Status: &zero,
	})
}

// AuthFail 认证流程失败响应，status=1
func AuthFail(c *gin.Context, code int, message string) {
	one := 1
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Status:  &one,
	})
}

// Unauthorized 401 未认证/权限不足（仅认证中间件使用）
func Unauthorized(c *gin.Context, message string) {
	one := 1
	c.JSON(http.StatusUnauthorized, Response{
		Code:    401,
		Message: message,
		Status:  &one,
	})
}
