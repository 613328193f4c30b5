package config

import (
	"fmt"
	"os"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type SES struct {
	Region    string
	FromEmail string
	FromName  string
}

type Config struct {
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURI    string
	FacebookClientID     string
	FacebookClientSecret string
	FacebookRedirectURI  string
	GeminiAPIKey         string
	PostgresURI          string
	RedisURI             string
	FrontendURL          string
	R2                   R2
	SES                  SES
	SecretKey            string
}

// LoadConfig reads configuration from the environment. Keys the server
// cannot run without are validated here so a misconfigured deployment
// fails at startup instead of on the first request that needs the key.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:    getEnv("GOOGLE_REDIRECT_URI", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		FacebookRedirectURI:  getEnv("FACEBOOK_REDIRECT_URI", ""),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", ""),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SES: SES{
			Region:    getEnv("SES_REGION", "us-east-1"),
			FromEmail: getEnv("SES_FROM_EMAIL", ""),
			FromName:  getEnv("SES_FROM_NAME", "Social Mind"),
		},
		SecretKey: getEnv("SECRET_KEY", ""),
	}

	var missing []string
	if cfg.PostgresURI == "" {
		missing = append(missing, "POSTGRES_URI")
	}
	if cfg.RedisURI == "" {
		missing = append(missing, "REDIS_URI")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
