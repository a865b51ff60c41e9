package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"brewline/internal/auth"
	"brewline/internal/config"
	"brewline/internal/infrastructure/logger"
	"brewline/internal/infrastructure/mysql"
	"brewline/internal/order"
	"brewline/internal/queue"
	"brewline/internal/server"
	"brewline/internal/shop"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.RunMigrations(db); err != nil {
		zapLogger.Fatal("migrating database", zap.Error(err))
	}

	authMod := auth.NewModule(db, cfg.Auth, zapLogger)
	shopMod := shop.NewModule(db, zapLogger)
	queueMod := queue.NewModule(db, cfg, zapLogger)
	orderMod := order.NewModule(db, queueMod.Service, zapLogger)

	router := server.NewRouter(authMod, shopMod, orderMod, queueMod, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
