package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"totsuki/internal/config"
	"totsuki/internal/database"
	"totsuki/internal/pantry"
	"totsuki/internal/receipt"
	"totsuki/internal/recipe"
	"totsuki/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Missing Telegram configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	pantryRepo := pantry.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	receiptRepo := receipt.NewRepository(db.SQL)

	if _, err := recipeRepo.Seed(context.Background()); err != nil {
		log.Fatalf("Failed to seed recipe catalog: %v", err)
	}

	bot, err := telegram.NewBot(cfg, pantryRepo, recipeRepo, receiptRepo)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
