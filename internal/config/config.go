package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// Storage выбирает бэкенд хранилища: postgres или memory.
	Storage string

	GithubWebhookSecret string
	GithubToken         string
	SlackToken          string

	SupportedRepositories []string
	SupportedChannels     []string

	// AnnounceNewPR включает событие PRPutToReview при создании агрегата.
	AnnounceNewPR bool
}

func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "pr_review_notifier"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		Storage: getEnv("STORAGE", "postgres"),

		GithubWebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
		GithubToken:         getEnv("GITHUB_TOKEN", ""),
		SlackToken:          getEnv("SLACK_TOKEN", ""),

		SupportedRepositories: getEnvList("SUPPORTED_REPOSITORIES"),
		SupportedChannels:     getEnvList("SUPPORTED_CHANNELS"),

		AnnounceNewPR: getEnv("ANNOUNCE_NEW_PR", "true") == "true",
	}, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var values []string
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
