package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string        `validate:"required"`
	AppEnv            string        `validate:"required"`
	AppPort           string        `validate:"required"`
	DatabaseURL       string
	RedisURL          string
	DBMaxOpenConns    int           `validate:"gt=0"`
	DBMaxIdleConns    int           `validate:"gte=0"`
	DBConnMaxLifetime time.Duration `validate:"gt=0"`
	CORSAllowOrigins  string        `validate:"required"`
	JWTSecret         string        `validate:"required"`
	LLMBaseURL        string
	LLMAPIKey         string        `validate:"required"`
	LLMModel          string        `validate:"required"`
	LLMMaxTokens      int           `validate:"gt=0"`
	LLMTemperature    float32       `validate:"gte=0,lte=2"`
	LLMTopP           float32       `validate:"gte=0,lte=1"`
	LLMRequestTimeout time.Duration `validate:"gt=0"`
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

var validate = validator.New()

// Load reads configuration values from environment variables and an optional
// .env file. The assembled struct is checked against its validate tags so a
// misconfigured service (missing LLM token or JWT secret, out-of-range
// sampling parameters) never starts serving requests.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DEFEVAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Defense Eval API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.25)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("llm.request_timeout", "60s")

	timeout, err := parseDuration(v, "llm.request_timeout", "60s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid llm request timeout: %w", err)
	}

	connLifetime, err := parseDuration(v, "db.conn_max_lifetime", "30m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid db connection lifetime: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		DBMaxOpenConns:    v.GetInt("db.max_open_conns"),
		DBMaxIdleConns:    v.GetInt("db.max_idle_conns"),
		DBConnMaxLifetime: connLifetime,
		CORSAllowOrigins:  v.GetString("cors.allow_origins"),
		JWTSecret:         v.GetString("jwt.secret"),
		LLMBaseURL:        v.GetString("llm.base_url"),
		LLMAPIKey:         v.GetString("llm.api_key"),
		LLMModel:          v.GetString("llm.model"),
		LLMMaxTokens:      v.GetInt("llm.max_tokens"),
		LLMTemperature:    float32(v.GetFloat64("llm.temperature")),
		LLMTopP:           float32(v.GetFloat64("llm.top_p")),
		LLMRequestTimeout: timeout,
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		raw = fallback
	}

	return time.ParseDuration(raw)
}
