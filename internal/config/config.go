package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port     string
	BaseURL  string
	LogLevel string

	// Database
	DBPath string

	// Email (Postmark)
	PostmarkToken string
	EmailFrom     string

	// Document scanning (Gemini)
	GeminiAPIKey string
	GeminiModel  string

	// Web push
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	// Backups (S3-compatible)
	BackupBucket     string
	BackupEndpoint   string
	BackupRegion     string
	BackupAccessKey  string
	BackupSecretKey  string
	BackupPassphrase string
	BackupInterval   time.Duration
	BackupRetention  time.Duration
}

func Load() *Config {
	return &Config{
		Port:     getEnv("ESTOQUE_PORT", "8080"),
		BaseURL:  getEnv("ESTOQUE_BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("ESTOQUE_LOG_LEVEL", "info"),

		DBPath: getEnv("ESTOQUE_DB_PATH", "./data/estoque.db"),

		PostmarkToken: getEnv("ESTOQUE_POSTMARK_TOKEN", ""),
		EmailFrom:     getEnv("ESTOQUE_EMAIL_FROM", ""),

		GeminiAPIKey: getEnv("ESTOQUE_GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("ESTOQUE_GEMINI_MODEL", "gemini-2.0-flash"),

		VAPIDPublicKey:  getEnv("ESTOQUE_VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("ESTOQUE_VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    getEnv("ESTOQUE_VAPID_SUBJECT", ""),

		BackupBucket:     getEnv("ESTOQUE_BACKUP_BUCKET", ""),
		BackupEndpoint:   getEnv("ESTOQUE_BACKUP_ENDPOINT", ""),
		BackupRegion:     getEnv("ESTOQUE_BACKUP_REGION", "auto"),
		BackupAccessKey:  getEnv("ESTOQUE_BACKUP_ACCESS_KEY", ""),
		BackupSecretKey:  getEnv("ESTOQUE_BACKUP_SECRET_KEY", ""),
		BackupPassphrase: getEnv("ESTOQUE_BACKUP_PASSPHRASE", ""),
		BackupInterval:   getEnvDuration("ESTOQUE_BACKUP_INTERVAL", 24*time.Hour),
		BackupRetention:  getEnvDuration("ESTOQUE_BACKUP_RETENTION", 30*24*time.Hour),
	}
}

// Validate returns an error describing every invalid setting, or nil.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	// Email is optional (codes are logged when unset), but a token
	// without a sender address is a misconfiguration.
	if c.PostmarkToken != "" && c.EmailFrom == "" {
		errs = append(errs, "ESTOQUE_EMAIL_FROM is required when ESTOQUE_POSTMARK_TOKEN is set")
	}

	if (c.VAPIDPublicKey == "") != (c.VAPIDPrivateKey == "") {
		errs = append(errs, "VAPID public and private keys must be set together")
	}

	if c.BackupEnabled() {
		if c.BackupAccessKey == "" || c.BackupSecretKey == "" {
			errs = append(errs, "backup credentials are required when a backup bucket is set")
		}
		if c.BackupPassphrase == "" {
			errs = append(errs, "ESTOQUE_BACKUP_PASSPHRASE is required when backups are enabled")
		}
		if c.BackupInterval < time.Minute {
			errs = append(errs, fmt.Sprintf("invalid backup interval %v: must be at least 1 minute", c.BackupInterval))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) BackupEnabled() bool {
	return c.BackupBucket != ""
}

func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func (c *Config) ScanEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
