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

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is required for the admin api")
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 启动时给运维签一枚令牌
	if sub := cfg.App.Admin.BootstrapSubject; sub != "" {
		tok, err := jwter.Issue(sub, "admin")
		if err != nil {
			log.Fatal("issue operator token", zap.Error(err))
		}
		log.Info("operator token issued", zap.String("subject", sub), zap.Duration("ttl", jwter.TTL), zap.String("token", tok))
	}

	// DB 连接（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 与用户端共用 Redis，强制下线时同步失效缓存
	sessions := openCache(cfg, log)
	if sessions != nil {
		defer sessions.Close()
	}

	userSvc := user.NewService(repo.NewUserRepo(db), auth.Bcrypt{Cost: cfg.Auth.BcryptCost}, auth.UUIDTokens{}, sessions, log)
	reg := router.NewRegistry(user.NewAdminModule(userSvc, log))

	// 路由（后台端）
	r := router.NewAdminEngine(log, router.Options{
		Name:           cfg.App.Name + "-admin",
		Mode:           ginMode(cfg.App.Env),
		RequestTimeout: 10 * time.Second,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		PerIPRPS:       10,
		PerIPBurst:     20,
		MaxConcurrent:  50,
		MaxBodyBytes:   1 << 20,
		Health:         pinger(db),
	}, jwter, reg)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	baseURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)
	server.Serve(srv, log, "admin api")
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

func openCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, revoke will not invalidate cached sessions", zap.Error(err))
		_ = c.Close()
		return nil
	}
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
