package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	DataDir      string
	CacheTTL     time.Duration
	DemoMode     bool
	StrictErrors bool
	Debug        bool

	// Command and its arguments, after flag parsing.
	Command string
	Args    []string
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables. A .env file in the working
// directory is read first, without overriding the real environment.
func Load() *Config {
	// Missing .env is the normal case
	_ = godotenv.Load()

	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.APIKey = getEnv("THREATLENS_API_KEY", "")
	cfg.BaseURL = getEnv("THREATLENS_BASE_URL", "")
	cfg.DataDir = getEnv("THREATLENS_DATA_DIR", getDefaultDataDir())
	cfg.CacheTTL = getEnvDuration("THREATLENS_CACHE_TTL", 30*time.Minute)
	cfg.DemoMode = getEnvBool("THREATLENS_DEMO", false)
	cfg.StrictErrors = getEnvBool("THREATLENS_STRICT", false)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "NVD API key (higher rate limits)")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for cache and user data")
	flag.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Time-to-live for cached API responses")
	flag.BoolVar(&cfg.DemoMode, "demo", cfg.DemoMode, "Serve the bundled dataset, never contact the API")
	flag.BoolVar(&cfg.StrictErrors, "strict", cfg.StrictErrors, "Fail on API errors instead of degrading to the bundled dataset")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	cfg.Command = flag.Arg(0)
	if flag.NArg() > 1 {
		cfg.Args = flag.Args()[1:]
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getDefaultDataDir returns the default data directory in user's home.
// Creates the directory if it doesn't exist.
func getDefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return ".threatlens"
	}

	dir := filepath.Join(home, ".threatlens")

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .threatlens directory, using current dir: %v", err)
		return ".threatlens"
	}

	return dir
}
