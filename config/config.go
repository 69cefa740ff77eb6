package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/recipecart/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Debug      bool              `mapstructure:"debug"`
	Server     ServerConfig      `mapstructure:"server"`
	Site       SiteConfig        `mapstructure:"site"`
	Kroger     KrogerConfig      `mapstructure:"kroger"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Storage    StorageConfig     `mapstructure:"storage"`
	Normalizer NormalizerConfig  `mapstructure:"normalizer"`
	Matching   MatchingConfig    `mapstructure:"matching"`
	RateLimit  RateLimitConfig   `mapstructure:"ratelimit"`
	Extraction domain.FieldSpecs `mapstructure:"extraction"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SiteConfig holds recipe site configuration
type SiteConfig struct {
	SearchBase   string        `mapstructure:"search_base"`
	RecipePrefix string        `mapstructure:"recipe_prefix"`
	LinkSelector string        `mapstructure:"link_selector"`
	UserAgent    string        `mapstructure:"user_agent"`
	From         string        `mapstructure:"from"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxResults   int           `mapstructure:"max_results"`
}

// KrogerConfig holds Kroger API configuration
type KrogerConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURL  string        `mapstructure:"redirect_url"`
	AuthURL      string        `mapstructure:"auth_url"`
	TokenURL     string        `mapstructure:"token_url"`
	APIBaseURL   string        `mapstructure:"api_base_url"`
	LocationID   string        `mapstructure:"location_id"`
	ResultLimit  int           `mapstructure:"result_limit"`
	Concurrency  int           `mapstructure:"concurrency"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string `mapstructure:"type"` // "file" or "memory"
	Dir  string `mapstructure:"dir"`
}

// StorageConfig holds record storage configuration
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// NormalizerConfig holds ingredient normalizer configuration
type NormalizerConfig struct {
	ExtraStopWords []string `mapstructure:"extra_stop_words"`
}

// MatchingConfig holds product matching configuration
type MatchingConfig struct {
	Fuzzy          bool    `mapstructure:"fuzzy"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`
	SiteRPS   float64 `mapstructure:"site_rps"`
	SiteBurst int     `mapstructure:"site_burst"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	// Secrets usually live in .env; a missing file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[CONFIG] Could not load .env file: %v", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recipecart/")

	// Environment variable settings: RECIPECART_KROGER_CLIENT_ID -> kroger.client_id
	v.SetEnvPrefix("RECIPECART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Recipe site defaults
	v.SetDefault("site.search_base", "https://www.allrecipes.com/search/results/")
	v.SetDefault("site.recipe_prefix", "https://www.allrecipes.com/recipe/")
	v.SetDefault("site.link_selector", "#searchResultsApp article.fixed-recipe-card div.fixed-recipe-card__info a")
	v.SetDefault("site.user_agent", "RecipeCart/1.0 (recipe scraping)")
	v.SetDefault("site.from", "")
	v.SetDefault("site.timeout", "30s")
	v.SetDefault("site.max_results", 10)

	// Kroger defaults
	v.SetDefault("kroger.client_id", "")
	v.SetDefault("kroger.client_secret", "")
	v.SetDefault("kroger.redirect_url", "http://localhost:8080/oauth/callback")
	v.SetDefault("kroger.auth_url", "https://api.kroger.com/v1/connect/oauth2/authorize")
	v.SetDefault("kroger.token_url", "https://api.kroger.com/v1/connect/oauth2/token")
	v.SetDefault("kroger.api_base_url", "https://api.kroger.com")
	v.SetDefault("kroger.location_id", "")
	v.SetDefault("kroger.result_limit", 1)
	v.SetDefault("kroger.concurrency", 4)
	v.SetDefault("kroger.timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.type", "file")
	v.SetDefault("cache.dir", ".cache")

	// Storage defaults
	v.SetDefault("storage.path", "recipe.sqlite")

	// Normalizer defaults
	v.SetDefault("normalizer.extra_stop_words", []string{})

	// Matching defaults
	v.SetDefault("matching.fuzzy", true)
	v.SetDefault("matching.fuzzy_threshold", 0.9)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.site_rps", 1.0)
	v.SetDefault("ratelimit.site_burst", 5)

	// Extraction defaults follow the known allrecipes page shape
	d := domain.DefaultFieldSpecs()
	v.SetDefault("extraction.name_container", d.NameContainer)
	v.SetDefault("extraction.name_tag", d.NameTag)
	v.SetDefault("extraction.rating_container", d.RatingContainer)
	v.SetDefault("extraction.rating_item", d.RatingItem)
	v.SetDefault("extraction.rating_separator", d.RatingSeparator)
	v.SetDefault("extraction.rating_count_container", d.RatingCountContainer)
	v.SetDefault("extraction.rating_count_item", d.RatingCountItem)
	v.SetDefault("extraction.rating_count_word", d.RatingCountWord)
	v.SetDefault("extraction.reviews_container", d.ReviewsContainer)
	v.SetDefault("extraction.review_item", d.ReviewItem)
	v.SetDefault("extraction.review_line_index", d.ReviewLineIndex)
	v.SetDefault("extraction.review_count_container", d.ReviewCountContainer)
	v.SetDefault("extraction.review_count_item", d.ReviewCountItem)
	v.SetDefault("extraction.review_count_word", d.ReviewCountWord)
	v.SetDefault("extraction.servings_item", d.ServingsItem)
	v.SetDefault("extraction.ingredients_container", d.IngredientsContainer)
	v.SetDefault("extraction.ingredient_item", d.IngredientItem)
	v.SetDefault("extraction.directions_container", d.DirectionsContainer)
	v.SetDefault("extraction.direction_item", d.DirectionItem)
	v.SetDefault("extraction.nutrition_container", d.NutritionContainer)
	v.SetDefault("extraction.nutrition_item", d.NutritionItem)
	v.SetDefault("extraction.nutrition_line_index", d.NutritionLineIndex)
	v.SetDefault("extraction.nutrition_separator", d.NutritionSeparator)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "file" && config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'file' or 'memory', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "file" && config.Cache.Dir == "" {
		return fmt.Errorf("cache dir is required when cache type is 'file'")
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required (set RECIPECART_STORAGE_PATH)")
	}

	if (config.Kroger.ClientID == "") != (config.Kroger.ClientSecret == "") {
		return fmt.Errorf("Kroger client ID and secret must be set together (RECIPECART_KROGER_CLIENT_ID, RECIPECART_KROGER_CLIENT_SECRET)")
	}

	if config.Kroger.Concurrency < 1 {
		return fmt.Errorf("kroger concurrency must be at least 1, got: %d", config.Kroger.Concurrency)
	}

	if config.Kroger.ResultLimit < 1 {
		return fmt.Errorf("kroger result limit must be at least 1, got: %d", config.Kroger.ResultLimit)
	}

	if config.Matching.FuzzyThreshold <= 0 || config.Matching.FuzzyThreshold > 1 {
		return fmt.Errorf("matching fuzzy threshold must be in (0, 1], got: %v", config.Matching.FuzzyThreshold)
	}

	if config.Extraction.NameContainer == "" || config.Extraction.NameTag == "" {
		return fmt.Errorf("extraction name container and tag are required")
	}

	return nil
}

// KrogerConfigured reports whether Kroger credentials were supplied
func (c *Config) KrogerConfigured() bool {
	return c.Kroger.ClientID != "" && c.Kroger.ClientSecret != ""
}
