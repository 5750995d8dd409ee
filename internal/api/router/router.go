package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zhanghx0905/AssetManagementBackend/config"
	"github.com/zhanghx0905/AssetManagementBackend/internal/api/handler"
	"github.com/zhanghx0905/AssetManagementBackend/internal/api/middleware"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/jwt"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/redis"
	"github.com/zhanghx0905/AssetManagementBackend/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// HTTP 方法不匹配按约定返回业务码 405
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c, c.Request.Method)
	})

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 登录无需认证
		api.POST("/user/login", h.Auth.Login)

		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块
			authorized.POST("/user/logout", h.Auth.Logout)
			authorized.GET("/user/info", h.Auth.Info)

			// 用户管理（SYSTEM 权限）
			user := authorized.Group("/user", middleware.RoleAuth(model.RoleSystem))
			{
				user.GET("/list", h.User.List)
				user.POST("/add", h.User.Create)
				user.POST("/edit", h.User.Update)
				user.POST("/lock", h.User.Lock)
				user.POST("/delete", h.User.Delete)
			}

			// 部门树（查询全员可见，改动需 SYSTEM 权限）
			department := authorized.Group("/department")
			{
				department.GET("/tree", h.Department.Tree)
				department.POST("/add", middleware.RoleAuth(model.RoleSystem), h.Department.Add)
				department.POST("/edit", middleware.RoleAuth(model.RoleSystem), h.Department.Edit)
				department.POST("/delete", middleware.RoleAuth(model.RoleSystem), h.Department.Delete)
			}

			// 类别树（查询全员可见，改动需 ASSET 权限）
			category := authorized.Group("/category")
			{
				category.GET("/tree", h.Category.Tree)
				category.POST("/add", middleware.RoleAuth(model.RoleAsset), h.Category.Add)
				category.POST("/edit", middleware.RoleAuth(model.RoleAsset), h.Category.Edit)
				category.POST("/delete", middleware.RoleAuth(model.RoleAsset), h.Category.Delete)
			}

			// 资产登记（查询全员可见并按部门裁剪，改动需 ASSET 权限）
			asset := authorized.Group("/asset")
			{
				asset.GET("/list", h.Asset.List)
				asset.GET("/history", h.Asset.History)
				asset.GET("/export", middleware.RoleAuth(model.RoleAsset), h.Export.ExportAssets)
				asset.POST("/add", middleware.RoleAuth(model.RoleAsset), h.Asset.Add)
				asset.POST("/edit", middleware.RoleAuth(model.RoleAsset), h.Asset.Edit)
				asset.POST("/retire", middleware.RoleAuth(model.RoleAsset), h.Asset.Retire)
				asset.POST("/attr", middleware.RoleAuth(model.RoleAsset), h.Asset.SetCustomAttr)
			}

			// 待办事项（全员可发起，处理人鉴权在 Service 层）
			issue := authorized.Group("/issue")
			{
				issue.POST("/require", h.Issue.Require)
				issue.POST("/fix", h.Issue.Fix)
				issue.POST("/transfer", h.Issue.Transfer)
				issue.POST("/return", h.Issue.Return)
				issue.POST("/handle", h.Issue.Handle)
				issue.POST("/permit-require", h.Issue.PermitRequire)
				issue.POST("/delete", h.Issue.Delete)
				issue.GET("/handling", h.Issue.Handling)
				issue.GET("/waiting", h.Issue.Waiting)
				issue.POST("/require-asset-list", h.Issue.RequireAssetList)
			}
		}
	}

	return r
}
