package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr   string `envconfig:"HTTP_ADDR" default:":8080"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/tracker.db"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error

	// CronSecret guards the trigger endpoint. Required outside development.
	CronSecret string `envconfig:"CRON_SECRET"`
	// AdminToken guards the admin API.
	AdminToken string `envconfig:"ADMIN_TOKEN"`
	// DevMode disables schedule time-window gating for manual testing.
	DevMode bool `envconfig:"DEV_MODE" default:"false"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPEmail    string `envconfig:"SMTP_EMAIL"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`

	// BotPhone enables WhatsApp pair-code login; empty means QR login.
	BotPhone string `envconfig:"BOT_PHONE"`

	SiteURL string `envconfig:"SITE_URL" default:"https://dsa-grinders.vercel.app"`

	// UserDelayMs is the pause between users in a sweep, to avoid hammering
	// the LeetCode and messaging APIs.
	UserDelayMs int `envconfig:"USER_DELAY_MS" default:"100"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
