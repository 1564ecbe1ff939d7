package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/PredictNCure/internal/app"
	"github.com/Skufu/PredictNCure/internal/config"
	"github.com/Skufu/PredictNCure/internal/feedback"
	"github.com/Skufu/PredictNCure/internal/httpapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	res, err := app.Load(ctx, app.Options{
		ModelPath: cfg.ModelPath,
		VocabPath: cfg.VocabPath,
		InfoFiles: cfg.InfoFiles,
		Policy:    cfg.Policy,
	})
	if err != nil {
		log.Fatalf("load resources: %v", err)
	}

	var store feedback.Store
	if cfg.EnableDB {
		store, err = feedback.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer store.Close()
	}

	router := setupRouter(cfg, res, store)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on :%s", cfg.Port)
	waitForShutdown(server)
}

func setupRouter(cfg *config.Config, res *app.Resources, store feedback.Store) *gin.Engine {
	if cfg.AdminToken == "" && store != nil {
		log.Printf("ADMIN_TOKEN not set; admin routes disabled")
	}
	return httpapi.NewRouter(httpapi.Deps{
		Engine:      res.Engine,
		Catalog:     res.Catalog,
		Store:       store,
		AdminToken:  cfg.AdminToken,
		MinSymptoms: cfg.MinSymptoms,
	})
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
