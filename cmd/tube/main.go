package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/storage/s3"
	myHttp "github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/dto"
	accountsvc "github.com/Miraines/MoonyAndStarry/tube-service/internal/app/account/service"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/app/auth/password"
	appsvc "github.com/Miraines/MoonyAndStarry/tube-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/server"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	uploader, err := s3.NewUploader(rootCtx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("failed to init media storage", zap.Error(err))
	}

	hasher, err := password.New(cfg.PasswordHasher, cfg.PasswordPepper)
	if err != nil {
		zapLog.Fatal("failed to init password hasher", zap.Error(err))
	}
	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	validate := dto.NewValidator()
	accountRepo := myPostgresRepo.NewPostgresAccountRepo(db)
	channelRepo := myPostgresRepo.NewPostgresChannelRepo(db)
	tokenRepo := myRedisRepo.NewRedisTokenRepo(redisCli)

	authSvc := appsvc.New(accountRepo, tokenRepo, jwtUtil, hasher, uploader, validate, zapLog)
	accountSvc := accountsvc.New(accountRepo, channelRepo, uploader, validate, zapLog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := myHttp.NewHandler(authSvc, accountSvc, db, redisCli, cfg.UploadDir, cfg.CookieDomain, zapLog)

	g, ctx := errgroup.WithContext(rootCtx)
	router := myHttp.NewRouter(ctx, handler, authSvc, reg, myHttp.RouterConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowCredentials,
		RateLimit:        cfg.RateLimit,
		RateBurst:        cfg.RateBurst,
	}, zapLog)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})

	<-ctx.Done()
	zapLog.Info("shutdown signal received")
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
