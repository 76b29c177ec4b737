package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/config"
	"github.com/mikepea/linky/pkg/linky/database"
	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/server"
	"github.com/mikepea/linky/pkg/linky/store"
)

// @title Linky API
// @version 1.0
// @description Share links, vote on them, and list them ranked by likes minus dislikes.

// @contact.name Linky Support
// @contact.url https://github.com/mikepea/linky

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /api

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Init(cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database (runs migrations)
	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Database migrations completed")

	// Redis is optional; without it every list goes to the database
	linkCache := cache.Connect(context.Background(), cfg.RedisURL, cfg.CacheTTL())
	defer linkCache.Close()

	s := store.New(database.GetDB())
	r := server.New(cfg, s, linkCache)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting Linky server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
