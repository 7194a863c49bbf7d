package main

import (
	"log"
	"time"

	"covid-trends/internal/config"
	"covid-trends/internal/dashboard"
	"covid-trends/internal/dataset"
	"covid-trends/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Run history is read-only here; InitDB just ensures the tables exist.
	if err := store.InitDB(cfg.RunDBPath); err != nil {
		log.Fatalf("failed to open run database: %v", err)
	}

	loader := dashboard.NewLoader(
		dataset.NewFileStore(cfg.DataDir),
		time.Duration(cfg.CacheTTL)*time.Second,
	)

	gin.SetMode(gin.ReleaseMode)
	r := dashboard.NewRouter(dashboard.NewHandlers(loader))

	log.Printf("🚀 Starting dashboard server on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
