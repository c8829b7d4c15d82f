package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	OracleAPIKey  string
	OracleBaseURL string
	OracleModel   string
	OracleTimeout time.Duration

	TelegramBotToken string
	DoctorChatID     int64

	MaxQuestions     int
	TargetConfidence float64
	DefaultLanguage  string
}

// Load reads configuration from the environment, picking up a local .env
// file first when present. Missing values fall back to development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: getenv("DATABASE_URL", ""),

		OracleAPIKey:  getenv("ORACLE_API_KEY", ""),
		OracleBaseURL: getenv("ORACLE_BASE_URL", "https://api.deepseek.com/v1"),
		OracleModel:   getenv("ORACLE_MODEL", "deepseek-chat"),
		OracleTimeout: time.Duration(getint("ORACLE_TIMEOUT_SECONDS", 60)) * time.Second,

		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		DoctorChatID:     getint64("DOCTOR_CHAT_ID", 0),

		MaxQuestions:     getint("MAX_QUESTIONS", 20),
		TargetConfidence: getfloat("TARGET_CONFIDENCE", 70),
		DefaultLanguage:  getenv("DEFAULT_LANGUAGE", "en"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getint64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
