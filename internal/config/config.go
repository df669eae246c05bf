// Package config resolves all external configuration once at process start.
// Values come from the environment, optionally seeded from a .env file, and
// are passed explicitly to the components that need them.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting.
type Config struct {
	Addr   string
	DBPath string
	Env    string // "production" hides error details from responses

	UploadsDir string // legacy static assets served read-only under /uploads/
	CDNBaseURL string // empty disables CDN uploads

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	AdminEmail string // lead notifications go here
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	return &Config{
		Addr:       getenv("ADDR", ":8080"),
		DBPath:     getenv("DB_PATH", "boutique.sqlite3"),
		Env:        getenv("ENV", "production"),
		UploadsDir: getenv("UPLOADS_DIR", "uploads"),
		CDNBaseURL: os.Getenv("CDN_BASE_URL"),
		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getenvInt("SMTP_PORT", 587),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		MailFrom:   getenv("MAIL_FROM", "no-reply@localhost"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}
}

// Production reports whether error details should be hidden from responses.
func (c *Config) Production() bool {
	return c.Env == "production"
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
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}
