package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret      string
	JWTExpiryHours int64

	TwilioAccountSID      string
	TwilioAuthToken       string
	TwilioVerifyServiceID string

	RabbitMQURI      string
	RabbitMQExchange string

	UploadDir string
	BaseURL   string

	AllowOrigins []string
}

func New() *Config {
	expiryStr := getEnv("TOKEN_EXPIRY_HOURS", "24")
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || expiry <= 0 {
		expiry = 24
	}

	return &Config{
		Port:                  getEnv("PORT", "8000"),
		MongoURI:              getEnv("MONGODB_URI", ""),
		MongoDatabase:         getEnv("MONGODB_DATABASE", "quiz_backend"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTExpiryHours:        expiry,
		TwilioAccountSID:      getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:       getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioVerifyServiceID: getEnv("TWILIO_VERIFY_SERVICE_SID", ""),
		RabbitMQURI:           getEnv("RABBITMQ_URI", ""),
		RabbitMQExchange:      getEnv("RABBITMQ_EXCHANGE", ""),
		UploadDir:             getEnv("UPLOAD_DIR", "uploads"),
		BaseURL:               getEnv("BASE_URL", "http://localhost:8000"),
		AllowOrigins:          splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
