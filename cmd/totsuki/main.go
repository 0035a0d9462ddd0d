package main

import (
	"context"
	"fmt"
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
	"totsuki/internal/server"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	pantryRepo := pantry.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	receiptRepo := receipt.NewRepository(db.SQL)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "serve":
		seedCatalog(ctx, recipeRepo)
		runServer(cfg, server.NewServer(pantryRepo, recipeRepo, receiptRepo))
	case "seed":
		n, err := recipeRepo.Seed(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		if n == 0 {
			fmt.Println("Recipe catalog already seeded.")
		} else {
			fmt.Printf("Seeded %d recipes.\n", n)
		}
	case "import-html":
		if len(os.Args) < 3 {
			log.Fatal("Usage: totsuki import-html <url>")
		}
		importRecipe(ctx, recipeRepo, os.Args[2])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// seedCatalog makes sure the catalog is populated before serving; an
// empty catalog would make every plan request fail with 503.
func seedCatalog(ctx context.Context, repo *recipe.Repository) {
	n, err := repo.Seed(ctx)
	if err != nil {
		log.Fatalf("Failed to seed recipe catalog: %v", err)
	}
	if n > 0 {
		log.Printf("Seeded %d recipes into an empty catalog", n)
	}
}

func runServer(cfg *config.Config, api *server.Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Routes(),
	}

	go func() {
		log.Printf("Totsuki API listening on %s", cfg.HTTPAddr)
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

func importRecipe(ctx context.Context, repo *recipe.Repository, url string) {
	extractor := recipe.NewExtractor()

	extracted, err := extractor.ExtractURL(ctx, url)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	saved, err := repo.Create(ctx, extracted.Recipe())
	if err != nil {
		log.Fatalf("Failed to save recipe: %v", err)
	}

	fmt.Printf("Imported %q (id %d): %d ingredients, %d steps.\n",
		saved.Title, saved.ID, len(saved.Ingredients), len(saved.Steps))
}

func printUsage() {
	fmt.Println("Usage: totsuki <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve          Start the HTTP API server")
	fmt.Println("  seed           Load the embedded recipe catalog")
	fmt.Println("  import-html    Import a recipe from a web page URL")
}
