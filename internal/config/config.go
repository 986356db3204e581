package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PlaceholderAPIKey is the sentinel shipped in sample env files. A key equal
// to it is treated the same as no key at all.
const PlaceholderAPIKey = "<PUT_YOUR_KEY_HERE>"

// Config aggregates every setting the service reads.
type Config struct {
	Server     ServerConfig
	OpenRouter OpenRouterConfig
	Weather    WeatherConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	openRouter, err := loadOpenRouterConfig()
	if err != nil {
		return nil, err
	}

	weather, err := loadWeatherConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, OpenRouter: openRouter, Weather: weather}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr      string
	StaticDir string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	staticDir := getEnvOrDefault("STATIC_DIR", "./static")

	if strings.Contains(port, ":") {
		// Accept ":3000" or "127.0.0.1:3000" as-is.
		return ServerConfig{Addr: port, StaticDir: staticDir}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, StaticDir: staticDir}, nil
}

// OpenRouterConfig describes both reply tiers that reach OpenRouter: the
// trusted proxy path and the direct authenticated path.
type OpenRouterConfig struct {
	APIKey      string
	ProxyURL    string
	BaseURL     string
	ProxyModel  string
	DirectModel string
	Referer     string
	Title       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// HasCredential reports whether a usable key is configured. The sample-file
// placeholder does not count.
func (c OpenRouterConfig) HasCredential() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

func loadOpenRouterConfig() (OpenRouterConfig, error) {
	temperature := 0.2
	if override, err := parseOptionalFloatEnv("OPENROUTER_TEMPERATURE"); err != nil {
		return OpenRouterConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 800
	if override, err := parseOptionalIntEnv("OPENROUTER_MAX_TOKENS"); err != nil {
		return OpenRouterConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	timeoutSeconds := 10
	if override, err := parseOptionalIntEnv("OPENROUTER_TIMEOUT_SECONDS"); err != nil {
		return OpenRouterConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	return OpenRouterConfig{
		APIKey:      strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		ProxyURL:    strings.TrimSpace(os.Getenv("OPENROUTER_PROXY_URL")),
		BaseURL:     getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1/chat/completions"),
		ProxyModel:  getEnvOrDefault("OPENROUTER_PROXY_MODEL", "alibaba/tongyi-deepresearch-30b-a3b:free"),
		DirectModel: getEnvOrDefault("OPENROUTER_DIRECT_MODEL", "openai/gpt-oss-20b:free"),
		Referer:     getEnvOrDefault("OPENROUTER_SITE", "https://kisanmitra.example"),
		Title:       getEnvOrDefault("OPENROUTER_TITLE", "KisanMitra"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// WeatherConfig describes the Open-Meteo forecast source. The defaults point
// at Berlin, the demo location the widget originally shipped with.
type WeatherConfig struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timeout   time.Duration
}

func loadWeatherConfig() (WeatherConfig, error) {
	latitude := 52.52
	if override, err := parseOptionalFloatEnv("WEATHER_LATITUDE"); err != nil {
		return WeatherConfig{}, err
	} else if override != nil {
		latitude = *override
	}

	longitude := 13.41
	if override, err := parseOptionalFloatEnv("WEATHER_LONGITUDE"); err != nil {
		return WeatherConfig{}, err
	} else if override != nil {
		longitude = *override
	}

	timeoutSeconds := 10
	if override, err := parseOptionalIntEnv("WEATHER_TIMEOUT_SECONDS"); err != nil {
		return WeatherConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	return WeatherConfig{
		BaseURL:   getEnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		Latitude:  latitude,
		Longitude: longitude,
		Timeout:   time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
