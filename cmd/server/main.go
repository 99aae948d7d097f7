package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/cache"
	"github.com/ferremix/storefront/internal/config"
	"github.com/ferremix/storefront/internal/es"
	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/handlers/admin"
	"github.com/ferremix/storefront/internal/handlers/cart"
	"github.com/ferremix/storefront/internal/logging"
	authmw "github.com/ferremix/storefront/internal/middleware/auth"
	"github.com/ferremix/storefront/internal/mykafka"
	"github.com/ferremix/storefront/internal/notifier"
	"github.com/ferremix/storefront/internal/service"
	"github.com/ferremix/storefront/internal/service/token"
	"github.com/ferremix/storefront/internal/store"
	httpserver "github.com/ferremix/storefront/internal/transport/http"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	st := store.NewGorm(db)

	var producer mykafka.Publisher = mykafka.Nop{}
	var kafkaProducer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		kafkaProducer = mykafka.NewProducer([]string{cfg.KafkaAddress})
		producer = kafkaProducer
	} else {
		logger.Warn("KAFKA_ADDRESS not set, events disabled")
	}

	var index *es.ProductIndexer
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		index = es.NewProductIndexer(esClient)
	} else {
		logger.Warn("ES_URL not set, search disabled")
	}

	var summaryCache cache.SummaryCache = cache.Nop{}
	var redisCache *cache.Redis
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis init: %v", err)
		}
		summaryCache = redisCache
	}

	var emails *notifier.EmailNotifier
	emailCfg := notifier.EmailConfig{
		Region:    cfg.SESRegion,
		AccessKey: cfg.SESAccessKey,
		SecretKey: cfg.SESSecretKey,
		Sender:    cfg.SESSender,
	}
	if emailCfg.Enabled() {
		emails, err = notifier.NewEmailNotifier(ctx, emailCfg)
		if err != nil {
			log.Fatalf("notifier init: %v", err)
		}
	}

	tokens := &token.Service{
		Store:         st,
		JWTSecret:     []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
	}
	carts := &service.CartService{Store: st}
	checkout := &service.CheckoutService{Store: st, InitialStatus: cfg.OrderInitialStatus}
	orders := &service.OrderService{Store: st}

	e := echo.New()
	e.HideBanner = true
	httpserver.Common(e, logger)

	httpserver.Register(e, &httpserver.Deps{
		Auth:    &authmw.Middleware{Tokens: tokens},
		AuthH:   &handlers.AuthHandler{Store: st, Tokens: tokens, Producer: producer},
		Catalog: &handlers.CatalogHandler{Store: st},
		Cart: &cart.CartHandler{
			Carts:    carts,
			Checkout: checkout,
			Store:    st,
			Cache:    summaryCache,
			Producer: producer,
			Notifier: emails,
		},
		Orders: &handlers.OrderHandler{Svc: orders},
		Search: &handlers.SearchHandler{Index: index},
		Admin:  &admin.Handler{Store: st, Producer: producer, Index: index},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
