// Package config loads application configuration from file and
// environment and wires the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	OpenRouter OpenRouterConfig `yaml:"openrouter" mapstructure:"openrouter"`
	AI         AIConfig         `yaml:"ai" mapstructure:"ai"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OpenRouterConfig holds OpenRouter API settings.
type OpenRouterConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Referer string  `yaml:"referer" mapstructure:"referer"`
	Title   string  `yaml:"title" mapstructure:"title"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
	Burst   int     `yaml:"burst" mapstructure:"burst"`
}

// AIConfig configures the completion fallback chains.
type AIConfig struct {
	// ScoreModels are tried in order for score evaluation; first
	// success wins. ChatModels and GoalModels likewise for their
	// endpoints.
	ScoreModels []string `yaml:"score_models" mapstructure:"score_models"`
	ChatModels  []string `yaml:"chat_models" mapstructure:"chat_models"`
	GoalModels  []string `yaml:"goal_models" mapstructure:"goal_models"`

	BackoffMillis      int `yaml:"backoff_millis" mapstructure:"backoff_millis"`
	AttemptTimeoutSecs int `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	RequestTimeoutSecs int `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GURU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "guru.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	// Empty default keeps the key visible to AutomaticEnv during unmarshal.
	v.SetDefault("openrouter.key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.referer", "https://moneyguru.app")
	v.SetDefault("openrouter.title", "MoneyGuru")
	v.SetDefault("openrouter.rps", 5.0)
	v.SetDefault("openrouter.burst", 5)
	v.SetDefault("ai.score_models", []string{
		"google/gemini-2.0-flash-exp:free",
		"deepseek/deepseek-r1-zero:free",
		"google/gemma-3-12b-it:free",
		"meta-llama/llama-3.2-3b-instruct:free",
		"microsoft/phi-4-reasoning-plus:free",
		"mistralai/mistral-small-3.1-24b-instruct:free",
	})
	v.SetDefault("ai.chat_models", []string{
		"google/gemma-3-12b-it:free",
		"meta-llama/llama-3.2-3b-instruct:free",
		"microsoft/phi-4-reasoning-plus:free",
		"mistralai/mistral-small-3.1-24b-instruct:free",
	})
	v.SetDefault("ai.goal_models", []string{
		"google/gemma-3-12b-it:free",
		"meta-llama/llama-3.2-3b-instruct:free",
		"microsoft/phi-4-reasoning-plus:free",
		"mistralai/mistral-small-3.1-24b-instruct:free",
	})
	v.SetDefault("ai.backoff_millis", 1000)
	v.SetDefault("ai.attempt_timeout_secs", 30)
	v.SetDefault("ai.request_timeout_secs", 120)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
