package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT"`

	// Upstream endpoints. Credentials are resolved here once at startup and
	// passed to the clients explicitly; nothing reads the environment later.
	TunnelBaseURL     string `mapstructure:"TUNNEL_BASE_URL" validate:"required,url"`
	AggregatorBaseURL string `mapstructure:"AGGREGATOR_BASE_URL" validate:"required,url"`
	AggregatorAPIKey  string `mapstructure:"AGGREGATOR_API_KEY" validate:"required"`
	YTDLBaseURL       string `mapstructure:"YTDL_BASE_URL" validate:"required,url"`
	YTDLAPIKey        string `mapstructure:"YTDL_API_KEY"`

	UpstreamTimeoutSeconds int `mapstructure:"UPSTREAM_TIMEOUT_SECONDS" validate:"gte=0"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 3000)
	viper.SetDefault("TUNNEL_BASE_URL", "https://dl.siputzx.my.id")
	viper.SetDefault("AGGREGATOR_BASE_URL", "https://www.sankavollerei.com")
	viper.SetDefault("AGGREGATOR_API_KEY", "planaai")
	viper.SetDefault("YTDL_BASE_URL", "https://ytdl.siputzx.my.id")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration",
		"port", cfg.WebServerPort,
		"tunnel", cfg.TunnelBaseURL,
		"aggregator", cfg.AggregatorBaseURL,
		"ytdl", cfg.YTDLBaseURL,
		"ytdl_key_set", cfg.YTDLAPIKey != "",
	)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
