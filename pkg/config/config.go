package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	GoogleProjectID   string
	GoogleCredentials string
	StorageBucket     string
	AccountCreatedSub string
	ObjectChangeSub   string
	MessageWriteSub   string
	MessageWriteTopic string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=friendlychat port=5432 sslmode=disable"),
		GoogleProjectID:   getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", ""),
		AccountCreatedSub: getEnv("ACCOUNT_CREATED_SUB", "account-created-sub"),
		ObjectChangeSub:   getEnv("OBJECT_CHANGE_SUB", "storage-changes-sub"),
		MessageWriteSub:   getEnv("MESSAGE_WRITE_SUB", "message-writes-sub"),
		MessageWriteTopic: getEnv("MESSAGE_WRITE_TOPIC", "message-writes"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
