package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Environment string
	Port        string

	StoreDriver string
	MongoURI    string
	DatabaseID  string
	Collections Collections

	RedisURL      string
	RedisPassword string
	CacheTTL      time.Duration

	SaveConcurrency int

	RateLimitPerMinute int
	RateLimitBurst     int

	JWTSecret     string
	PublicBaseURL string

	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := getenv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	return Config{
		Environment:        getenv("APP_ENV", "development"),
		Port:               port,
		StoreDriver:        strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseID:         strings.TrimSpace(os.Getenv("TRIPS_DB")),
		Collections: Collections{
			Itineraries:      strings.TrimSpace(os.Getenv("COLLECTION_ITINERARIES")),
			BudgetBreakdowns: strings.TrimSpace(os.Getenv("COLLECTION_BUDGET_BREAKDOWNS")),
			ItineraryDays:    strings.TrimSpace(os.Getenv("COLLECTION_ITINERARY_DAYS")),
			TimeBlocks:       strings.TrimSpace(os.Getenv("COLLECTION_TIME_BLOCKS")),
			Recommendations:  strings.TrimSpace(os.Getenv("COLLECTION_RECOMMENDATIONS")),
			JourneyPaths:     strings.TrimSpace(os.Getenv("COLLECTION_JOURNEY_PATHS")),
		},
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		CacheTTL:           getenvDuration("CACHE_TTL", 10*time.Minute),
		SaveConcurrency:    getenvInt("SAVE_CONCURRENCY", 4),
		RateLimitPerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 30),
		RateLimitBurst:     getenvInt("RATE_LIMIT_BURST", 5),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		PublicBaseURL:      strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		LogFormat:          getenv("LOG_FORMAT", "json"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
