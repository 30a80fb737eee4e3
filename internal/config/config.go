package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	JWTSecret     string
	SiteURL       string

	// SMTP for password-reset mail. Mail is disabled when any of these
	// is empty.
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// GCS for pre-signed image uploads. Uploads are disabled when any
	// of these is empty.
	GCSBucket     string
	GCSAccessID   string
	GCSPrivateKey string

	// How many reply levels a post detail fetch nests before clients
	// have to expand lazily.
	CommentTreeDepth int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=goddit port=5432 sslmode=disable"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		JWTSecret:     getenv("JWT_SECRET", "jwt_key_change_me"),
		SiteURL:       getenv("SITE_URL", "http://localhost:8080"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		GCSBucket:     os.Getenv("GCS_BUCKET"),
		GCSAccessID:   os.Getenv("GCS_ACCESS_ID"),
		GCSPrivateKey: os.Getenv("GCS_PRIVATE_KEY"),

		CommentTreeDepth: getenvInt("COMMENT_TREE_DEPTH", 3),
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
