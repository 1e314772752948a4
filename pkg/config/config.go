package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	JWTSecret       string
	FirebaseProject string
	SQLitePath      string

	// Client side
	APIBaseURL        string
	SocketURL         string
	SessionToken      string
	RealtimeTransport string
	RequestTimeout    time.Duration

	RedisAddr    string
	RedisChannel string
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "marketplace.db"),

		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		SocketURL:         getEnv("SOCKET_URL", "ws://localhost:8080/ws"),
		SessionToken:      getEnv("SESSION_TOKEN", ""),
		RealtimeTransport: getEnv("REALTIME_TRANSPORT", "websocket"),
		RequestTimeout:    time.Duration(getEnvAsInt64("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisChannel: getEnv("REDIS_CHANNEL", "marketplace:messages"),
		KafkaBrokers: getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "chat-messages"),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
