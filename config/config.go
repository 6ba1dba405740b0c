// Package config loads service settings from the environment, an optional
// .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	PredictorLocal = "local"
	PredictorHTTP  = "http"
	PredictorAMQP  = "amqp"
)

type Config struct {
	Port             int           `mapstructure:"port"`
	LogLevel         string        `mapstructure:"log_level"`
	Predictor        string        `mapstructure:"predictor"`
	PredictorURL     string        `mapstructure:"predictor_url"`
	PredictorTimeout time.Duration `mapstructure:"predictor_timeout"`
	PredictorRate    float64       `mapstructure:"predictor_rate"`
	RabbitURL        string        `mapstructure:"rabbit_url"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 5000)
	v.SetDefault("log_level", "info")
	v.SetDefault("predictor", PredictorLocal)
	v.SetDefault("predictor_url", "")
	v.SetDefault("predictor_timeout", 60*time.Second)
	v.SetDefault("predictor_rate", 10)
	v.SetDefault("rabbit_url", "")
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// Load reads configuration. Environment variables (PORT, LOG_LEVEL, ...)
// override values from path, which may be empty.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.Predictor = strings.ToLower(strings.TrimSpace(cfg.Predictor))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	switch c.Predictor {
	case PredictorLocal:
	case PredictorHTTP:
		if c.PredictorURL == "" {
			return errors.New("predictor url is empty")
		}
	case PredictorAMQP:
		if c.RabbitURL == "" {
			return errors.New("rabbit url is empty")
		}
	default:
		return fmt.Errorf("unknown predictor %q", c.Predictor)
	}

	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
