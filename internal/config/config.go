package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	MongoURI        string
	DBName          string
	SkipAuth        bool
	Environment     string
	AppId           string
	ReportingDBURL  string // Postgres DSN for the reporting export; empty disables it
	SyncSweepSpec   string // cron spec for the nightly comment sync sweep
	CommentCacheTTL time.Duration
	NotesDebounce   time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "go-studio-crm"),
		SkipAuth:        getEnv("SKIP_AUTH", "false") == "true",
		Environment:     getEnv("ENVIRONMENT", "development"),
		AppId:           getEnv("APP_ID", "go-studio-crm"),
		ReportingDBURL:  getEnv("REPORTING_DB_URL", ""),
		SyncSweepSpec:   getEnv("SYNC_SWEEP_SPEC", "0 3 * * *"),
		CommentCacheTTL: time.Duration(getEnvInt("COMMENT_CACHE_TTL_SECONDS", 30)) * time.Second,
		NotesDebounce:   time.Duration(getEnvInt("NOTES_DEBOUNCE_MS", 1000)) * time.Millisecond,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
