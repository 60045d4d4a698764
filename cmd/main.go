package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dhandho/internal/config"
	httpapi "dhandho/internal/http"
	"dhandho/internal/repository"
	"dhandho/internal/service"

	_ "dhandho/docs"
)

// @title Dhandho API
// @version 1.0
// @description B2B ordering and business relationship service
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := config.NewLogger()

	// an empty secret would let anyone mint valid tokens
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, err := cfg.OpenDatabase()
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	store := repository.NewGormStore(db)

	businessesSvc := service.NewBusinessService(store)
	productsSvc := service.NewProductService(store)
	relationsSvc := service.NewRelationService(store, store)
	ordersSvc := service.NewOrderService(store, store, store, log)
	employeesSvc := service.NewEmployeeService(store, store)

	srv := httpapi.NewServer(businessesSvc, productsSvc, ordersSvc, relationsSvc, employeesSvc, log, []byte(cfg.JWTSecret))

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Infof("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
