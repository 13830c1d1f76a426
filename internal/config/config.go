package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	Addr              string
	DbDsn             string
	JwtSecret         string
	JwtAccessMinutes  int
	OtpMinutes        int
	OtpRateLimit      string
	OtpRetentionHours int
	EmailProvider     string
	EmailFrom         string
	ResendAPIKey      string
	SmtpHost          string
	SmtpPort          int
	SmtpUser          string
	SmtpPass          string
	AllowedOriginsRaw string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		Addr:              getEnv("APP_ADDR", ":8080"),
		DbDsn:             os.Getenv("DB_DSN"),
		JwtSecret:         os.Getenv("JWT_SECRET"),
		JwtAccessMinutes:  getEnvInt("JWT_ACCESS_MINUTES", 60),
		OtpMinutes:        getEnvInt("OTP_MINUTES", 5),
		OtpRateLimit:      getEnv("OTP_RATE_LIMIT", "10-M"),
		OtpRetentionHours: getEnvInt("OTP_RETENTION_HOURS", 24),
		EmailProvider:     strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
		EmailFrom:         os.Getenv("EMAIL_FROM"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		SmtpHost:          os.Getenv("SMTP_HOST"),
		SmtpPort:          getEnvInt("SMTP_PORT", 587),
		SmtpUser:          os.Getenv("SMTP_USER"),
		SmtpPass:          os.Getenv("SMTP_PASS"),
		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JwtSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.EmailFrom == "" {
		missing = append(missing, "EMAIL_FROM")
	}
	switch cfg.EmailProvider {
	case "resend":
		if cfg.ResendAPIKey == "" {
			missing = append(missing, "RESEND_API_KEY")
		}
	case "smtp":
		if cfg.SmtpHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if cfg.SmtpUser == "" {
			missing = append(missing, "SMTP_USER")
		}
		if cfg.SmtpPass == "" {
			missing = append(missing, "SMTP_PASS")
		}
	default:
		return cfg, errors.New("unknown EMAIL_PROVIDER: " + cfg.EmailProvider)
	}

	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
