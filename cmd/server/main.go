package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"edgebook/internal/betting"
	"edgebook/internal/cache"
	"edgebook/internal/client/nbastats"
	"edgebook/internal/client/oddsapi"
	"edgebook/internal/client/weatherapi"
	"edgebook/internal/config"
	cronrunner "edgebook/internal/cron"
	"edgebook/internal/db"
	"edgebook/internal/handler"
	"edgebook/internal/logger"
	gormrepository "edgebook/internal/repository/gorm"
	"edgebook/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("EB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("EB_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	statsCache := cache.New(cfg.Redis)
	defer statsCache.Close()
	if err := statsCache.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, stats cache disabled for pings", zap.Error(err))
	}

	oddsHTTP := &http.Client{Timeout: cfg.OddsAPI.Timeout}
	oddsClient := oddsapi.NewClient(oddsHTTP, cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey)
	statsHTTP := &http.Client{Timeout: cfg.StatsAPI.Timeout}
	statsClient := nbastats.NewClient(statsHTTP, cfg.StatsAPI.BaseURL)
	weatherHTTP := &http.Client{Timeout: cfg.Weather.Timeout}
	weatherClient := weatherapi.NewClient(weatherHTTP, cfg.Weather.BaseURL, cfg.Weather.APIKey)

	store := gormrepository.New(dbConn.Gorm)

	bettingCfg := betting.DefaultConfig()
	bettingCfg.SameGameDefault = cfg.Betting.SameGameDefaultCorrelation
	bettingCfg.SameSport = cfg.Betting.SameSportCorrelation
	bettingCfg.DampingFactor = cfg.Betting.DampingFactor
	bettingCfg.SGPWarningThreshold = cfg.Betting.SGPWarningThreshold

	oddsSync := &service.OddsSyncService{
		Store:   store,
		Odds:    oddsClient,
		Logger:  logger,
		Regions: cfg.OddsAPI.Regions,
		Config:  cfg.OddsSync,
	}
	scoreSync := &service.ScoreSyncService{
		Store:  store,
		Odds:   oddsClient,
		Logger: logger,
		Config: cfg.OddsSync,
	}
	settlementSvc := &service.SettlementService{
		Store:     store,
		Resolver:  &betting.Resolver{Logger: logger},
		Logger:    logger,
		Notify:    cfg.Notify.Enabled,
		BatchSize: cfg.Settlement.BatchSize,
	}
	weatherSvc := &service.WeatherService{
		Store:   store,
		Weather: weatherClient,
		Logger:  logger,
		Cities:  cfg.Weather.Cities,
	}
	statsSvc := &service.StatsService{
		Stats:  statsClient,
		Cache:  statsCache,
		Logger: logger,
		Season: cfg.StatsAPI.Season,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())
	engine.Use(handler.RequireBearer(cfg.Server.AuthToken))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	parlayHandler := &handler.ParlayHandler{Config: bettingCfg}
	parlayHandler.Register(engine)
	betHandler := &handler.BetHandler{Repo: store, Logger: logger}
	betHandler.Register(engine)
	settlementHandler := &handler.SettlementHandler{Service: settlementSvc}
	settlementHandler.Register(engine)
	gameHandler := &handler.GameHandler{Repo: store}
	gameHandler.Register(engine)
	oddsHandler := &handler.OddsHandler{Repo: store}
	oddsHandler.Register(engine)
	statsHandler := &handler.StatsHandler{Service: statsSvc}
	statsHandler.Register(engine)
	weatherHandler := &handler.WeatherHandler{Repo: store}
	weatherHandler.Register(engine)
	notificationHandler := &handler.NotificationHandler{Repo: store}
	notificationHandler.Register(engine)
	analyticsHandler := &handler.AnalyticsHandler{Repo: store}
	analyticsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		if cfg.OddsSync.Enabled {
			_, err = cronRunner.Add("odds_sync", cfg.Cron.OddsSync, func(ctx context.Context) {
				if _, err := oddsSync.Sync(ctx); err != nil {
					logger.Warn("cron odds sync failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("cron register odds sync failed", zap.Error(err))
			}
		}
		_, err = cronRunner.Add("score_sync", cfg.Cron.ScoreSync, func(ctx context.Context) {
			if _, err := scoreSync.Sync(ctx); err != nil {
				logger.Warn("cron score sync failed", zap.Error(err))
				return
			}
			if !cfg.Settlement.Enabled {
				return
			}
			if _, err := settlementSvc.Run(ctx); err != nil {
				logger.Warn("cron settlement pass failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register score sync failed", zap.Error(err))
		}
		if cfg.Weather.Enabled {
			_, err = cronRunner.Add("weather_poll", cfg.Cron.WeatherPoll, func(ctx context.Context) {
				if _, err := weatherSvc.Poll(ctx); err != nil {
					logger.Warn("cron weather poll failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("cron register weather poll failed", zap.Error(err))
			}
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
