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

	"edubot-backend/internal/config"
	"edubot-backend/internal/database"
	"edubot-backend/internal/llm"
	"edubot-backend/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// connect storage; unreachable storage is fatal at startup
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("connect storage: %v", err)
	}

	if err := database.EnsureCollections(ctx, db); err != nil {
		log.Fatalf("bootstrap collections: %v", err)
	}

	llmClient := llm.NewClient(cfg.Ollama)

	// setup router
	r := router.SetupRouter(cfg, db, llmClient)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("run server: %v", err)
		}
	}()

	// wait for SIGINT/SIGTERM, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown server: %v", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Printf("close storage: %v", err)
	}
}
