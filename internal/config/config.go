package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/MichelePan/jira-worklog/internal/jira"
	"github.com/MichelePan/jira-worklog/internal/report"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira       jira.Config
	Report     report.Config
	ListenAddr string
	LogDir     string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	domain := getEnv("JIRA_DOMAIN", "")
	email := getEnv("JIRA_EMAIL", "")
	token := getEnv("JIRA_API_TOKEN", "")
	if domain == "" || email == "" || token == "" {
		return nil, fmt.Errorf("missing Jira credentials: JIRA_DOMAIN, JIRA_EMAIL and JIRA_API_TOKEN are required")
	}

	logDir := getEnv("LOGS_FOLDER", "")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:  fmt.Sprintf("https://%s/rest/api/3", domain),
			Email:    email,
			APIToken: token,
			Timeout:  time.Duration(getEnvInt("JIRA_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Report: report.Config{
			DefaultJQL: getEnv("DEFAULT_JQL", "project = KAN"),
			MaxWorkers: getEnvInt("MAX_WORKERS", 10),
			MarginDays: getEnvInt("MARGIN_DAYS", 3),
			SearchTTL:  time.Duration(getEnvInt("SEARCH_TTL_MINUTES", 30)) * time.Minute,
			WorklogTTL: time.Duration(getEnvInt("WORKLOG_TTL_HOURS", 12)) * time.Hour,
		},
		ListenAddr: getEnv("LISTEN_ADDR", ":8787"),
		LogDir:     logDir,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}
