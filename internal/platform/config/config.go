package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgREST = "postgrest"
	StoragePgSQL     = "pgsql"
)

// configPostgRESTURLKey points at a PostgREST server whose env_configs table holds settings.
const configPostgRESTURLKey = "CONFIG_POSTGREST_URL"

// OverlayLoader reads settings kept outside the environment, keyed like environment variables.
type OverlayLoader func(ctx context.Context, baseURL string, timeout time.Duration) (map[string]string, error)

// Config holds application configuration.
type Config struct {
	Port         string `validate:"required,numeric"`
	IsProduction bool

	Timezone string `validate:"required"`
	Location *time.Location

	StorageBackend     string `validate:"oneof=postgrest pgsql"`
	PostgRESTURL       string `validate:"required_if=StorageBackend postgrest"`
	DatabaseURL        string `validate:"required_if=StorageBackend pgsql"`
	ExchangeRatesTable string `validate:"required"`
	ReservationsTable  string `validate:"required"`

	ExchangeAPI ExchangeAPIConfig

	UpstreamTimeout time.Duration `validate:"gt=0"`

	Scheduler SchedulerConfig

	SyncRateLimit      string `validate:"required"`
	CORSAllowedOrigins []string
}

// ExchangeAPIConfig holds the settings of the upstream exchange rate API.
type ExchangeAPIConfig struct {
	BaseURL            string `validate:"required,url"`
	AuthKey            string `validate:"required"`
	InsecureSkipVerify bool
}

// SchedulerConfig holds the daily sync schedule. Hour and minute are in Config.Location.
type SchedulerConfig struct {
	Enabled bool
	Hour    int `validate:"min=0,max=23"`
	Minute  int `validate:"min=0,max=59"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
// When CONFIG_POSTGREST_URL is set and loader is not nil, the env_configs overlay is
// read first; environment variables win over overlay values.
func LoadConfig(ctx context.Context, loader OverlayLoader) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_BACKEND", StoragePostgREST)
	v.SetDefault("RESERVATIONS_TABLE", "reservation_table")
	v.SetDefault("EXCHANGE_API_INSECURE_SKIP_VERIFY", false)
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("SYNC_RATE_LIMIT", "10-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.AutomaticEnv()

	if overlayURL := v.GetString(configPostgRESTURLKey); overlayURL != "" && loader != nil {
		overlay, err := loader(ctx, overlayURL, 10*time.Second)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load settings from %s: %w", apperrors.ErrConfig, overlayURL, err)
		}
		values := make(map[string]any, len(overlay))
		for k, val := range overlay {
			values[k] = val
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("%w: failed to merge settings: %w", apperrors.ErrConfig, err)
		}
		slog.Info("Loaded settings from env_configs", slog.Int("keys", len(overlay)))
	}

	var missing []string
	for _, key := range []string{"TIMEZONE", "EXCHANGE_RATES_TABLE", "EXCHANGE_API_BASE_URL", "EXCHANGE_API_AUTH_KEY", "SCHEDULER_ENABLED"} {
		if !v.IsSet(key) || strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if v.GetBool("SCHEDULER_ENABLED") {
		for _, key := range []string{"SCHEDULER_DAILY_UPDATE_HOUR", "SCHEDULER_DAILY_UPDATE_MINUTE"} {
			if !v.IsSet(key) || strings.TrimSpace(v.GetString(key)) == "" {
				missing = append(missing, key)
			}
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required settings: %s", apperrors.ErrConfig, strings.Join(missing, ", "))
	}

	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		Timezone:           strings.TrimSpace(v.GetString("TIMEZONE")),
		StorageBackend:     strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		PostgRESTURL:       strings.TrimSpace(v.GetString("POSTGREST_URL")),
		DatabaseURL:        strings.TrimSpace(v.GetString("PGSQL_URL")),
		ExchangeRatesTable: strings.TrimSpace(v.GetString("EXCHANGE_RATES_TABLE")),
		ReservationsTable:  strings.TrimSpace(v.GetString("RESERVATIONS_TABLE")),
		ExchangeAPI: ExchangeAPIConfig{
			BaseURL:            strings.TrimSpace(v.GetString("EXCHANGE_API_BASE_URL")),
			AuthKey:            strings.TrimSpace(v.GetString("EXCHANGE_API_AUTH_KEY")),
			InsecureSkipVerify: v.GetBool("EXCHANGE_API_INSECURE_SKIP_VERIFY"),
		},
		Scheduler: SchedulerConfig{
			Enabled: v.GetBool("SCHEDULER_ENABLED"),
			Hour:    v.GetInt("SCHEDULER_DAILY_UPDATE_HOUR"),
			Minute:  v.GetInt("SCHEDULER_DAILY_UPDATE_MINUTE"),
		},
		SyncRateLimit:      strings.TrimSpace(v.GetString("SYNC_RATE_LIMIT")),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	timeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid UPSTREAM_TIMEOUT %q: %w", apperrors.ErrConfig, v.GetString("UPSTREAM_TIMEOUT"), err)
	}
	cfg.UpstreamTimeout = timeout

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid TIMEZONE %q: %w", apperrors.ErrConfig, cfg.Timezone, err)
	}
	cfg.Location = loc

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfig, describeValidationError(err))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
