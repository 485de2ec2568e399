package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTP struct {
	Addr string
	// AllowedOrigins is the CORS whitelist for the dashboard frontend.
	AllowedOrigins []string
}

type Feed struct {
	// TickInterval is the period between synthetic ticks pushed to an
	// active subscription.
	TickInterval time.Duration
}

type Storage struct {
	// OrdersDir holds one <SYMBOL>.json file per symbol.
	OrdersDir string
	// SymbolsFile is the catalog loaded once at startup.
	SymbolsFile string
}

type Config struct {
	HTTP    HTTP
	Feed    Feed
	Storage Storage
	LogFile string
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:           ":4000",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Feed: Feed{
			TickInterval: 2 * time.Second,
		},
		Storage: Storage{
			OrdersDir:   "data/orders",
			SymbolsFile: "symbols.json",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.HTTP.Addr = addr
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		// Example: "http://localhost:3000,https://dash.example.com"
		cfg.HTTP.AllowedOrigins = strings.Split(origins, ",")
	}

	if tick := os.Getenv("TICK_INTERVAL_MS"); tick != "" {
		if ms, err := strconv.Atoi(tick); err == nil && ms > 0 {
			cfg.Feed.TickInterval = time.Duration(ms) * time.Millisecond
		}
	}

	if dir := os.Getenv("ORDERS_DIR"); dir != "" {
		cfg.Storage.OrdersDir = dir
	}

	if file := os.Getenv("SYMBOLS_FILE"); file != "" {
		cfg.Storage.SymbolsFile = file
	}

	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg
}
