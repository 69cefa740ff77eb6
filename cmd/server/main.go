package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/recipecart/backend/config"
	"github.com/recipecart/backend/internal/app"
	httpDelivery "github.com/recipecart/backend/internal/delivery/http"
	"github.com/recipecart/backend/internal/infrastructure/kroger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RecipeCart Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s (dir: %s)", cfg.Cache.Type, cfg.Cache.Dir)
	log.Printf("Storage: %s", cfg.Storage.Path)

	// Authorization codes arrive on /oauth/callback
	callbacks := kroger.NewCallbackCodeProvider()

	// Initialize infrastructure and usecase layers
	a, err := app.New(context.Background(), cfg, callbacks)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	if a.Cart != nil {
		log.Printf("Kroger API configured: %s (client: %s, location: %q)",
			cfg.Kroger.APIBaseURL, cfg.Kroger.ClientID, cfg.Kroger.LocationID)
		log.Printf("Kroger redirect URL: %s", cfg.Kroger.RedirectURL)
	} else {
		log.Printf("WARNING: Kroger API not configured - cart endpoints will return 501")
	}

	log.Printf("Matching: fuzzy=%v, threshold=%.2f, debug=%v",
		cfg.Matching.Fuzzy,
		cfg.Matching.FuzzyThreshold,
		cfg.Debug)

	// Create HTTP handler with dependencies
	services := httpDelivery.Services{
		Recipes:    a.Recipes,
		Normalizer: a.Normalizer,
		Allergens:  a.Allergens,
		Cart:       a.Cart,
	}
	if a.Cart != nil {
		services.Callbacks = callbacks
	}
	handler := httpDelivery.NewHandler(services)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
