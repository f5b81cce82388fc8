package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/specialistvlad/cecplan/internal/schema"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Settings keys, shared by the settings file, CECPLAN_* environment
// variables, and command line flags.
const (
	KeyLogLevel   = "log-level"
	KeyLogFormat  = "log-format"
	KeyGeneration = "generation"
	KeyOutput     = "output"
	KeyWorkers    = "workers"
)

// EnvPrefix prefixes environment variables, e.g. CECPLAN_LOG_LEVEL.
const EnvPrefix = "CECPLAN"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string
	LogLevel  string

	// Generation is the schema generation configurations are validated
	// against.
	Generation int
	// Output is the plan format, OutputText or OutputJSON.
	Output string
	// Workers bounds how many files, and how many blocks per file, are
	// processed at once. Zero means no bound.
	Workers int
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if cfg.Generation < schema.FirstGeneration || cfg.Generation > schema.LatestGeneration {
		errs = append(errs, fmt.Errorf("invalid generation %d: must be %d to %d", cfg.Generation, schema.FirstGeneration, schema.LatestGeneration))
	}
	if cfg.Output != OutputText && cfg.Output != OutputJSON {
		errs = append(errs, fmt.Errorf("invalid output %q: must be '%s' or '%s'", cfg.Output, OutputText, OutputJSON))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("invalid workers %d: must not be negative", cfg.Workers))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewSettings returns a viper instance with every default set and
// CECPLAN_* environment variables bound.
func NewSettings() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyGeneration, schema.LatestGeneration)
	v.SetDefault(KeyOutput, OutputText)
	v.SetDefault(KeyWorkers, 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadSettingsFile merges a settings file into v. With an empty path,
// cecplan.yaml is looked up in the working directory and skipped when
// missing; an explicit path must exist.
func ReadSettingsFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("cecplan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	return nil
}

// ConfigFromSettings builds a validated Config from v.
func ConfigFromSettings(v *viper.Viper) (*Config, error) {
	return NewConfig(Config{
		LogLevel:   strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:  strings.ToLower(v.GetString(KeyLogFormat)),
		Generation: v.GetInt(KeyGeneration),
		Output:     strings.ToLower(v.GetString(KeyOutput)),
		Workers:    v.GetInt(KeyWorkers),
	})
}
