package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	LLM        LLMConfig
	RabbitMQ   RabbitMQConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
	Extraction ExtractionConfig
}

type AppConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LLMConfig points at an OpenAI-compatible chat completions endpoint.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
	Sampler      string
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ExtractionConfig struct {
	RosterTTL        time.Duration
	ClarificationTTL time.Duration
}

// LoadConfig reads .env when it exists and lets real environment variables win.
func LoadConfig() (*Config, error) {
	return loadFrom(".env")
}

func loadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr(v, "JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr(v, "JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		LLM: LLMConfig{
			BaseURL: v.GetString("LLM_BASE_URL"),
			APIKey:  v.GetString("LLM_API_KEY"),
			Model:   v.GetString("LLM_MODEL"),
			Timeout: durationOr(v, "LLM_TIMEOUT", 30*time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			Sampler:      v.GetString("OTEL_TRACES_SAMPLER"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Extraction: ExtractionConfig{
			RosterTTL:        durationOr(v, "EXTRACTION_ROSTER_TTL", 10*time.Minute),
			ClarificationTTL: durationOr(v, "EXTRACTION_CLARIFICATION_TTL", 15*time.Minute),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("LLM_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM_MODEL", "gpt-3.5-turbo-0125")
	v.SetDefault("RABBITMQ_EXCHANGE", "kinhealth.events")
	v.SetDefault("OTEL_SERVICE_NAME", "kinhealth-service")
	v.SetDefault("OTEL_TRACES_SAMPLER", "always_on")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

// splitList reads a comma-separated env value; blanks are dropped
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
