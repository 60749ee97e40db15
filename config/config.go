package config

import (
	"errors"
	"os"
)

// 配置错误：缺少必需配置时服务不启动
var (
	ErrMissingAPIKey        = errors.New("COHERE_API_KEY is not set")
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set")
	ErrWeakSessionSecret    = errors.New("SESSION_SECRET must be at least 16 bytes")
)

const minSecretLen = 16

// Config 应用配置
type Config struct {
	Port          string
	CohereKey     string
	CohereURL     string
	CohereModel   string
	SessionSecret string
	LogLevel      string
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		CohereKey:     getEnv("COHERE_API_KEY", ""),
		CohereURL:     getEnv("COHERE_API_URL", "https://api.cohere.ai/v1/chat"),
		CohereModel:   getEnv("COHERE_MODEL", "command-r-plus"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.CohereKey == "" {
		return nil, ErrMissingAPIKey
	}
	// 不提供默认密钥
	if cfg.SessionSecret == "" {
		return nil, ErrMissingSessionSecret
	}
	if len(cfg.SessionSecret) < minSecretLen {
		return nil, ErrWeakSessionSecret
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
