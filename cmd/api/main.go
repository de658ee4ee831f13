package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"contactbook/internal/core/auth"
	"contactbook/internal/core/cache"
	"contactbook/internal/core/config"
	"contactbook/internal/core/database"
	"contactbook/internal/core/logger"
	"contactbook/internal/core/server"
	"contactbook/internal/feature/address"
	"contactbook/internal/feature/contact"
	"contactbook/internal/feature/user"
	"contactbook/internal/repo"
	"contactbook/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 会话缓存（可选）
	sessions := openCache(cfg, log)
	if sessions != nil {
		defer sessions.Close()
	}
	ttl := time.Duration(cfg.Auth.SessionCacheTTLSec) * time.Second

	// 依赖
	users := repo.NewUserRepo(db)
	userSvc := user.NewService(users, auth.Bcrypt{Cost: cfg.Auth.BcryptCost}, auth.UUIDTokens{}, sessions, log)
	contactSvc := contact.NewService(repo.NewContactRepo(db), log)
	addressSvc := address.NewService(repo.NewAddressRepo(db), contactSvc.Guard(), log)

	reg := router.NewRegistry(
		user.NewModule(userSvc, log),
		contact.NewModule(contactSvc, log),
		address.NewModule(addressSvc, log),
	)

	// 路由（用户端）
	h := cfg.App.HTTP
	r := router.NewAPIEngine(log, router.Options{
		Name:           cfg.App.Name,
		Mode:           ginMode(cfg.App.Env),
		RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
		RateLimitRPS:   h.RateLimitRPS,
		RateLimitBurst: h.RateLimitBurst,
		MaxConcurrent:  h.MaxConcurrent,
		MaxBodyBytes:   1 << 20,
		Health:         pinger(db),
	}, user.NewResolver(users, sessions, ttl), reg)

	// HTTP Server
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	baseURL := server.HumanURL(h.Host, h.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)
	server.Serve(srv, log, "user api")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	w, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             w,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// openCache 未配置或连不上时返回 nil，解析令牌直接查库
func openCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, session cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("session cache enabled", zap.String("addr", cfg.Redis.Addr))
	return c
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func ginMode(env string) string {
	if env == "prod" || env == "production" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
