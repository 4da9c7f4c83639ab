package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings read from the environment
type Config struct {
	Port string

	DBDriver   string // postgres or sqlite
	SQLitePath string

	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string

	JWTSecret string
	TokenTTL  time.Duration

	// APIBaseURL is where the page handlers send their API calls.
	APIBaseURL string

	// RedirectDelay is how long the submission confirmation stays on screen.
	RedirectDelay time.Duration

	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and the process environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		SQLitePath:    getEnv("SQLITE_PATH", "dormitory.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPass:        getEnv("DB_PASS", "postgres"),
		DBName:        getEnv("DB_NAME", "dormitory"),
		DBPort:        getEnv("DB_PORT", "5432"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		TokenTTL:      getDuration("TOKEN_TTL", 7*24*time.Hour),
		RedirectDelay: getDuration("REDIRECT_DELAY", 1500*time.Millisecond),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	cfg.APIBaseURL = getEnv("API_BASE_URL", "http://localhost:"+cfg.Port)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("1.5s") or plain milliseconds ("1500")
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("Invalid %s %q, using %s", key, v, fallback)
	return fallback
}
