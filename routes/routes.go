package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"go-plantshelf/config"
	"go-plantshelf/controllers"
	"go-plantshelf/middleware"
	"go-plantshelf/sources"
	"go-plantshelf/store"
	"go-plantshelf/utils"
)

// SetupRouter 配置所有路由
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.Default()

	// 路径存在但方法不对时返回 405 而不是 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(utils.MethodNotAllowed)

	// 存储层
	plantStore := store.NewPlantStore(db)
	photoStore := store.NewPhotoStore(db)
	rateStore := store.NewRateLimitStore(db)

	// 外部数据源客户端
	trefle := sources.NewTrefleClient(cfg.TrefleAPIKey)
	perenual := sources.NewPerenualClient(cfg.PerenualAPIKey)

	// 创建控制器实例
	plantController := controllers.NewPlantController(plantStore)
	searchController := controllers.NewSearchController(trefle, perenual, perenual)
	compareController := controllers.NewCompareController(trefle, perenual, perenual)
	photoController := controllers.NewPhotoController(photoStore, cfg.BaseURL)
	authController := controllers.NewAuthController(db, cfg.JWTSecret)

	limiter := middleware.NewRateLimiter(rateStore)

	// 公共路由，按来源 IP 限流
	public := r.Group("/api")
	public.Use(limiter.ByIP(middleware.IPMaxRequests))
	{
		// 用户认证相关路由
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)

		// 外部数据源搜索
		public.GET("/trefle", searchController.SearchTrefle)
		public.GET("/perenual", searchController.SearchPerenual)
		public.GET("/perenual-care", searchController.PerenualCare)

		// 跨来源匹配与合并
		public.POST("/compare", compareController.Compare)

		// 植物读取
		public.GET("/plants/get", plantController.Get)
		public.GET("/plants/list", plantController.List)

		// 照片读取
		public.GET("/photos/*key", photoController.Serve)
	}

	// 需要认证的路由，按用户限流
	protected := r.Group("/api")
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))
	protected.Use(limiter.ByUser(middleware.UserMaxRequests))
	{
		// 植物写入相关路由
		protected.POST("/plants", plantController.Create)
		protected.PUT("/plants/update", plantController.Update)
		protected.PATCH("/plants/update", plantController.Update)

		// 照片上传
		protected.POST("/plants/upload-photo", photoController.Upload)
	}

	return r
}
