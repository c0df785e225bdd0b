package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		LogMode     string `mapstructure:"log_mode"`
		FrontendURL string `mapstructure:"frontend_url"`
		Timezone    string `mapstructure:"timezone"`
	} `mapstructure:"server"`
	Database struct {
		Driver       string `mapstructure:"driver"`
		Host         string `mapstructure:"host"`
		Port         string `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		Name         string `mapstructure:"name"`
		SSLMode      string `mapstructure:"sslmode"`
		SQLitePath   string `mapstructure:"sqlite_path"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
	} `mapstructure:"database"`
	Storage struct {
		Provider      string `mapstructure:"provider"`
		KeyID         string `mapstructure:"key_id"`
		AppKey        string `mapstructure:"app_key"`
		Endpoint      string `mapstructure:"endpoint"`
		Region        string `mapstructure:"region"`
		Bucket        string `mapstructure:"bucket"`
		PublicBaseURL string `mapstructure:"public_base_url"`
		LocalRoot     string `mapstructure:"local_root"`
	} `mapstructure:"storage"`
	Auth struct {
		Mode          string `mapstructure:"mode"`
		JWTSecret     string `mapstructure:"jwt_secret"`
		TokenTTLHours int    `mapstructure:"token_ttl_hours"`
		AdminUsername string `mapstructure:"admin_username"`
		AdminPassword string `mapstructure:"admin_password"`
	} `mapstructure:"auth"`
	Services struct {
		ContactWebhookURL   string `mapstructure:"contact_webhook_url"`
		GooglePlacesAPIKey  string `mapstructure:"google_places_api_key"`
		GooglePlaceID       string `mapstructure:"google_place_id"`
		GooglePlacesBaseURL string `mapstructure:"google_places_base_url"`
	} `mapstructure:"services"`
	Telemetry struct {
		Enabled      bool    `mapstructure:"enabled"`
		OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
		Insecure     bool    `mapstructure:"insecure"`
		SampleRatio  float64 `mapstructure:"sample_ratio"`
	} `mapstructure:"telemetry"`
}

const (
	AuthDisabled = "disabled"
	AuthJWT      = "jwt"
)

// Load reads config.yaml (if present) and ACADEMY_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ACADEMY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register keys
	for _, key := range []string{
		"server.port",
		"server.metrics_port",
		"server.log_mode",
		"server.frontend_url",
		"server.timezone",

		"database.driver",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.name",
		"database.sslmode",
		"database.sqlite_path",
		"database.max_open_conns",

		"storage.provider",
		"storage.key_id",
		"storage.app_key",
		"storage.endpoint",
		"storage.region",
		"storage.bucket",
		"storage.public_base_url",
		"storage.local_root",

		"auth.mode",
		"auth.jwt_secret",
		"auth.token_ttl_hours",
		"auth.admin_username",
		"auth.admin_password",

		"services.contact_webhook_url",
		"services.google_places_api_key",
		"services.google_place_id",
		"services.google_places_base_url",

		"telemetry.enabled",
		"telemetry.otlp_endpoint",
		"telemetry.insecure",
		"telemetry.sample_ratio",
	} {
		_ = v.BindEnv(key)
	}

	// Defaults
	v.SetDefault("server.port", ":3001")
	v.SetDefault("server.metrics_port", ":9091")
	v.SetDefault("server.log_mode", "dev")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.timezone", "Local")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("database.sqlite_path", "academy.db")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.bucket", "media")
	v.SetDefault("storage.local_root", "./data")
	v.SetDefault("storage.public_base_url", "http://localhost:3001/media")

	// Authentication stays a pass-through until a policy is switched on.
	v.SetDefault("auth.mode", AuthDisabled)
	v.SetDefault("auth.token_ttl_hours", 24)

	v.SetDefault("services.google_places_base_url", "https://maps.googleapis.com/maps/api/place/details/json")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sample_ratio", 0.1)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: unknown timezone %q (ACADEMY_SERVER_TIMEZONE)", c.Server.Timezone)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown database driver %q (ACADEMY_DATABASE_DRIVER)", c.Database.Driver)
	}
	switch c.Storage.Provider {
	case "local", "s3":
	default:
		return fmt.Errorf("config: unknown storage provider %q (ACADEMY_STORAGE_PROVIDER)", c.Storage.Provider)
	}
	if c.Storage.Provider == "s3" && c.Storage.KeyID == "" {
		return errors.New("config: storage key id is missing (ACADEMY_STORAGE_KEY_ID)")
	}
	switch c.Auth.Mode {
	case AuthDisabled:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("config: jwt auth needs a secret (ACADEMY_AUTH_JWT_SECRET)")
		}
	default:
		return fmt.Errorf("config: unknown auth mode %q (ACADEMY_AUTH_MODE)", c.Auth.Mode)
	}
	return nil
}

// Location is the zone the weekly timetable is read in.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Server.Timezone)
}
