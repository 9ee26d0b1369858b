package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"moneyline/internal/client/oddsapi"
	"moneyline/internal/client/polymarket/clob"
	polymarketgamma "moneyline/internal/client/polymarket/gamma"
	"moneyline/internal/config"
	"moneyline/internal/consensus"
	cronrunner "moneyline/internal/cron"
	"moneyline/internal/db"
	"moneyline/internal/handler"
	"moneyline/internal/logger"
	gormrepository "moneyline/internal/repository/gorm"
	"moneyline/internal/service"

	_ "moneyline/docs"
)

func main() {
	cfgPath := os.Getenv("ML_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("ML_ENV_ONLY"); envOnlyRaw != "" {
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

	oddsHTTP := &http.Client{Timeout: cfg.OddsAPI.Timeout}
	oddsClient := oddsapi.NewClient(oddsHTTP, cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey)
	gammaHTTP := &http.Client{Timeout: cfg.Gamma.Timeout}
	gammaClient := polymarketgamma.NewClientWithHost(gammaHTTP, cfg.Gamma.BaseURL)
	clobHTTP := &http.Client{Timeout: cfg.ClobREST.Timeout}
	clobClient := clob.NewClient(clobHTTP, cfg.ClobREST.BaseURL)
	store := gormrepository.New(dbConn.Gorm)

	weights, err := consensus.NewWeightTable(cfg.Consensus.Weights)
	if err != nil {
		logger.Fatal("invalid consensus weights", zap.Error(err))
	}

	scanLoc := cfg.Scan.Location()
	resolverService := &service.ResolverService{
		Store:   store,
		OddsAPI: oddsClient,
		Gamma:   gammaClient,
		Logger:  logger,
		Opts: service.ResolverOptions{
			Sports:    cfg.Scan.Sports,
			Regions:   cfg.OddsAPI.Regions,
			TagID:     cfg.Scan.TagID,
			PageLimit: cfg.Scan.PageLimit,
			MaxPages:  cfg.Scan.MaxPages,
		},
	}
	consensusService := &service.ConsensusService{
		Store:    store,
		Resolver: resolverService,
		OddsAPI:  oddsClient,
		Weights:  weights,
		Logger:   logger,
		Opts: service.ConsensusOptions{
			Sports:     cfg.Scan.Sports,
			Regions:    cfg.OddsAPI.Regions,
			Markets:    cfg.OddsAPI.Markets,
			OddsFormat: cfg.OddsAPI.OddsFormat,
		},
	}
	marketService := &service.MarketService{
		Store:    store,
		Resolver: resolverService,
		Clob:     clobClient,
		Logger:   logger,
	}
	compareService := &service.CompareService{
		Consensus: consensusService,
		Market:    marketService,
		Logger:    logger,
		MinEdge:   cfg.Compare.MinEdge,
	}
	scanService := &service.ScanService{
		Store:     store,
		OddsAPI:   oddsClient,
		Gamma:     gammaClient,
		Consensus: consensusService,
		Market:    marketService,
		Logger:    logger,
		Opts: service.ScanOptions{
			Sports:     cfg.Scan.Sports,
			Regions:    cfg.OddsAPI.Regions,
			Markets:    cfg.OddsAPI.Markets,
			OddsFormat: cfg.OddsAPI.OddsFormat,
			TagID:      cfg.Scan.TagID,
			PageLimit:  cfg.Scan.PageLimit,
			MaxPages:   cfg.Scan.MaxPages,
			MinEdge:    cfg.Compare.MinEdge,
			Location:   scanLoc,
		},
	}
	streamService := &service.StreamService{Store: store, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	gamesHandler := &handler.GamesHandler{Store: store, Logger: logger}
	gamesHandler.Register(engine)
	consensusHandler := &handler.ConsensusHandler{
		Service:  consensusService,
		Logger:   logger,
		Location: scanLoc,
	}
	consensusHandler.Register(engine)
	marketsHandler := &handler.MarketsHandler{
		Service:  marketService,
		Logger:   logger,
		Location: scanLoc,
	}
	marketsHandler.Register(engine)
	compareHandler := &handler.CompareHandler{
		Service:  compareService,
		Logger:   logger,
		Location: scanLoc,
	}
	compareHandler.Register(engine)
	scanHandler := &handler.ScanHandler{Service: scanService, Logger: logger}
	scanHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Scan, func(ctx context.Context) {
			result, err := scanService.Scan(ctx)
			if err != nil {
				logger.Warn("cron scan failed", zap.Error(err))
				return
			}
			logger.Info("cron scan ok",
				zap.Int("sports", result.Sports),
				zap.Int("games", result.Games),
				zap.Int("linked", result.Linked),
				zap.Int("tokens", result.Tokens),
				zap.Int("consensus", result.Consensus),
				zap.Int("value_bets", result.ValueBets),
				zap.Int("errors", result.Errors),
			)
		})
		if err != nil {
			logger.Warn("cron register scan failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	if cfg.ClobStream.Enabled {
		go func() {
			err := streamService.RunMarketStream(ctx, service.StreamOptions{
				URL:             cfg.ClobStream.URL,
				RefreshInterval: cfg.ClobStream.RefreshInterval,
				MaxAssets:       cfg.ClobStream.MaxAssets,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("clob stream stopped", zap.Error(err))
			}
		}()
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

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
