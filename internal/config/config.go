package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port         string
	DBDSN        string
	MediaDir     string
	TemplatesDir string
	StaticDir    string
	LogFile      string
	LogLevel     string

	SessionTTL   time.Duration
	CookieSecure bool
	RateLimit    int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ContactTo    string
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	ttl, err := cast.ToDurationE(env("SESSION_TTL", "336h"))
	if err != nil || ttl <= 0 {
		ttl = 14 * 24 * time.Hour // two weeks of inactivity
	}
	rate := cast.ToInt(env("RATE_LIMIT", "60"))
	if rate <= 0 {
		rate = 60
	}
	smtpPort := cast.ToInt(env("SMTP_PORT", "587"))

	return Config{
		Port:         env("PORT", "8080"),
		DBDSN:        env("DB_DSN", "nexusshop.db"), // sqlite file in project root
		MediaDir:     env("MEDIA_DIR", "./web/media"),
		TemplatesDir: env("TEMPLATES_DIR", "./web/templates"),
		StaticDir:    env("STATIC_DIR", "./web/static"),
		LogFile:      env("LOG_FILE", "./nexusshop.log"),
		LogLevel:     env("LOG_LEVEL", "info"),
		SessionTTL:   ttl,
		CookieSecure: cast.ToBool(env("COOKIE_SECURE", "false")),
		RateLimit:    rate,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ContactTo:    env("DEFAULT_FROM_EMAIL", "webmaster@localhost"),
	}
}

// Fields returns the non-secret settings for startup logging.
func (c Config) Fields() map[string]any {
	return map[string]any{
		"port":        c.Port,
		"db_dsn":      c.DBDSN,
		"media_dir":   c.MediaDir,
		"log_file":    c.LogFile,
		"session_ttl": c.SessionTTL.String(),
		"smtp_host":   c.SMTPHost,
	}
}
