package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"rust-team-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort string `yaml:"server_port"`
	LogLevel   string `yaml:"log_level"`

	RankEval      RankEvalConfig      `yaml:"rankeval"`
	BattleMetrics BattleMetricsConfig `yaml:"battlemetrics"`

	EnrichmentEnabled bool     `yaml:"enrichment_enabled"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	RateLimitRPS      float64  `yaml:"rate_limit_rps"`
	RateLimitBurst    int      `yaml:"rate_limit_burst"`
	DisplayTimezone   string   `yaml:"display_timezone"`

	Location *time.Location `yaml:"-"`
}

type RankEvalConfig struct {
	BaseURL  string `yaml:"base_url"`
	ServerID string `yaml:"server_id"`
	Type     string `yaml:"type"`
}

type BattleMetricsConfig struct {
	BaseURL  string `yaml:"base_url"`
	ServerID string `yaml:"server_id"`
}

func defaults() Config {
	return Config{
		ServerPort: "8080",
		LogLevel:   "info",
		RankEval: RankEvalConfig{
			BaseURL:  constants.DefaultRankEvalBaseURL,
			ServerID: constants.DefaultRankEvalServerID,
			Type:     constants.DefaultRankEvalType,
		},
		BattleMetrics: BattleMetricsConfig{
			BaseURL:  constants.DefaultBattleMetricsBaseURL,
			ServerID: constants.DefaultBattleMetricsServerID,
		},
		EnrichmentEnabled: true,
		AllowedOrigins:    []string{"*"},
		RateLimitRPS:      2,
		RateLimitBurst:    5,
		DisplayTimezone:   "Local",
	}
}

// Load reads .env, then an optional YAML file named by CONFIG_FILE, then
// applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", cfg.DisplayTimezone, err)
	}
	cfg.Location = loc

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RankEval.BaseURL = getEnv("RANKEVAL_BASE_URL", cfg.RankEval.BaseURL)
	cfg.RankEval.ServerID = getEnv("RANKEVAL_SERVER_ID", cfg.RankEval.ServerID)
	cfg.RankEval.Type = getEnv("RANKEVAL_TYPE", cfg.RankEval.Type)
	cfg.BattleMetrics.BaseURL = getEnv("BATTLEMETRICS_BASE_URL", cfg.BattleMetrics.BaseURL)
	cfg.BattleMetrics.ServerID = getEnv("BATTLEMETRICS_SERVER_ID", cfg.BattleMetrics.ServerID)
	cfg.DisplayTimezone = getEnv("DISPLAY_TIMEZONE", cfg.DisplayTimezone)

	if v := os.Getenv("ENRICHMENT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ENRICHMENT_ENABLED %q: %w", v, err)
		}
		cfg.EnrichmentEnabled = b
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		cfg.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
		cfg.RateLimitBurst = n
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if c.RankEval.BaseURL == "" {
		errs = append(errs, errors.New("RANKEVAL_BASE_URL is required"))
	}
	if c.RankEval.ServerID == "" {
		errs = append(errs, errors.New("RANKEVAL_SERVER_ID is required"))
	}
	if c.BattleMetrics.BaseURL == "" {
		errs = append(errs, errors.New("BATTLEMETRICS_BASE_URL is required"))
	}
	if c.BattleMetrics.ServerID == "" {
		errs = append(errs, errors.New("BATTLEMETRICS_SERVER_ID is required"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// LogSummary writes the effective configuration, without secrets, at info level.
func (c *Config) LogSummary(logger zerolog.Logger) {
	logger.Info().
		Str("server_port", c.ServerPort).
		Str("log_level", c.LogLevel).
		Str("rankeval_base_url", c.RankEval.BaseURL).
		Str("rankeval_server_id", c.RankEval.ServerID).
		Str("battlemetrics_base_url", c.BattleMetrics.BaseURL).
		Str("battlemetrics_server_id", c.BattleMetrics.ServerID).
		Bool("enrichment_enabled", c.EnrichmentEnabled).
		Strs("allowed_origins", c.AllowedOrigins).
		Float64("rate_limit_rps", c.RateLimitRPS).
		Int("rate_limit_burst", c.RateLimitBurst).
		Str("display_timezone", c.DisplayTimezone).
		Msg("configuration loaded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var Module = fx.Provide(Load)
