package infra

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	PostgresURL  string
	JWTSecret    string
	JWTTTL       time.Duration
	CORSOrigin   string
	CookieSecure bool
	Env          string
}

// LoadConfig reads .env then the environment. A missing secret or database
// URL is fatal: the process must not serve traffic misconfigured.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := &Config{
		Port:         envOr("PORT", "8080"),
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTTTL:       15 * time.Minute,
		CORSOrigin:   os.Getenv("CORS_ORIGIN"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		Env:          envOr("APP_ENV", "development"),
	}

	if minutes := os.Getenv("JWT_TTL_MINUTES"); minutes != "" {
		n, err := strconv.Atoi(minutes)
		if err != nil || n <= 0 {
			log.Fatalf("Invalid JWT_TTL_MINUTES: %q", minutes)
		}
		cfg.JWTTTL = time.Duration(n) * time.Minute
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is missing")
	}
	if cfg.PostgresURL == "" {
		log.Fatal("POSTGRES_URL is missing")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
