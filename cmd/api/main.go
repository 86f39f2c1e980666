package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog-service/internal/blobstore"
	"catalog-service/internal/cache"
	"catalog-service/internal/config"
	"catalog-service/internal/db"
	"catalog-service/internal/httpserver"
	productrepo "catalog-service/internal/repository/product"
	productsvc "catalog-service/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	opts := []productsvc.Option{
		productsvc.WithLogger(logger),
		productsvc.WithMaxLimit(cfg.ListMaxLimit),
	}

	productCache := cache.New(cfg.Redis, logger)
	if productCache != nil {
		defer productCache.Close()
		opts = append(opts, productsvc.WithCache(productCache))
		logger.Printf("product cache enabled addr=%s ttl=%s", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	var images productsvc.ImageStore
	if cfg.Storage.Bucket != "" {
		store, err := blobstore.NewS3(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatalf("init blob store: %v", err)
		}
		images = store
	} else {
		logger.Printf("AWS_BUCKET_NAME not set, image uploads disabled")
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo, images, opts...)

	deps := httpserver.Deps{
		ProductSvc:     productService,
		DB:             dbpool,
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}
	if productCache != nil {
		deps.Cache = productCache
	}
	if cfg.JWTSecret == "" {
		logger.Printf("JWT_SECRET not set, /products is unauthenticated")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, deps)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
