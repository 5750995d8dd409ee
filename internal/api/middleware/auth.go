package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zhanghx0905/AssetManagementBackend/pkg/jwt"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/redis"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token，
// 再与 Redis 中的会话比对：同一用户只保留最近一次登录的 token，
// 旧 token 即使未过期也会在这里被拒绝
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Token 无效或已过期")
			c.Abort()
			return
		}

		session, err := rdb.GetSession(c.Request.Context(), claims.UserID)
		if err != nil {
			response.InternalError(c)
			c.Abort()
			return
		}
		if session != parts[1] {
			response.Unauthorized(c, "会话已失效，请重新登录")
			c.Abort()
			return
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("department_id", claims.DepartmentID)
		c.Set("roles", claims.Roles)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("roles")
		if !exists {
			response.Unauthorized(c, "未认证")
			c.Abort()
			return
		}

		roles, ok := v.([]string)
		if !ok {
			response.Unauthorized(c, "未认证")
			c.Abort()
			return
		}
		for _, have := range roles {
			for _, want := range allowedRoles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		response.Fail(c, response.CodeConflict, "没有执行该操作的权限")
		c.Abort()
	}
}
