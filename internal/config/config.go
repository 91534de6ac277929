package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Fixed sampling parameters sent with every completion request.
const (
	Temperature      float32 = 0.7
	MaxTokens                = 600
	PresencePenalty  float32 = 0.1
	FrequencyPenalty float32 = 0.1
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Assistant AssistantConfig
	Log       LogConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: loadAIConfig(), Assistant: assistant, Log: logCfg}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the hosted completion endpoint.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Enabled reports whether a credential was supplied.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// NewChatModel builds the chat model client with the fixed sampling parameters.
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("OPENAI_API_KEY is not configured")
	}

	temperature := Temperature
	maxTokens := MaxTokens
	presence := PresencePenalty
	frequency := FrequencyPenalty

	cfg := &ark.ChatModelConfig{
		BaseURL:          c.BaseURL,
		APIKey:           c.APIKey,
		Model:            c.Model,
		MaxTokens:        &maxTokens,
		Temperature:      &temperature,
		PresencePenalty:  &presence,
		FrequencyPenalty: &frequency,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() AIConfig {
	return AIConfig{
		APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
	}
}

// AssistantConfig tunes the turn pipeline.
type AssistantConfig struct {
	// ThinkingDelay is the pause before the completion call.
	ThinkingDelay time.Duration
}

func loadAssistantConfig() (AssistantConfig, error) {
	delay, err := parseDurationEnv("ASSISTANT_THINKING_DELAY", 1200*time.Millisecond)
	if err != nil {
		return AssistantConfig{}, err
	}
	if delay < 0 {
		return AssistantConfig{}, fmt.Errorf("invalid ASSISTANT_THINKING_DELAY value %q: must not be negative", delay)
	}
	return AssistantConfig{ThinkingDelay: delay}, nil
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() (LogConfig, error) {
	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
	if format != "json" && format != "console" {
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value %q: want json or console", format)
	}
	return LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: format,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}

	// Bare numbers are seconds, e.g. "1.2".
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
