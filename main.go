package main

import (
	"log"
	"time"

	"go-plantshelf/config"
	"go-plantshelf/routes"
	"go-plantshelf/store"
)

func main() {
	// 读取配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库连接
	db, err := config.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 定期清理过期的限流记录
	rateStore := store.NewRateLimitStore(db)
	go func() {
		ticker := time.NewTicker(2 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := rateStore.PurgeStale(5 * time.Minute); err != nil {
				log.Printf("Failed to purge stale rate limits: %v", err)
			}
		}
	}()

	// 设置路由
	r := routes.SetupRouter(cfg, db)

	// 启动服务器
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
