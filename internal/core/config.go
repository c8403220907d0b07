// Package core contains the host-side services for evrec: configuration
// loading and validation.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/evrec/pkg/models"
)

// ConfigurationManager defines the interface for loading and validating the
// .evrecconfig file.
type ConfigurationManager interface {
	LoadConfig() (*models.RecorderConfig, error)
	ValidateConfig(cfg *models.RecorderConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the directory where .evrecconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a RecorderConfig populated with sensible defaults.
func DefaultConfig() *models.RecorderConfig {
	return &models.RecorderConfig{
		Output: models.OutputConfig{
			Format: models.FormatText,
			Color:  true,
		},
		Run: models.RunConfig{
			Shell:       "sh",
			StopOnError: true,
		},
	}
}

// LoadConfig reads .evrecconfig from the base path. If the file does not
// exist, defaults are returned. The loaded values are validated.
func (cm *viperConfigManager) LoadConfig() (*models.RecorderConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".evrecconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("output.format", string(cfg.Output.Format))
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("output.time_layout", cfg.Output.TimeLayout)
	v.SetDefault("run.shell", cfg.Run.Shell)
	v.SetDefault("run.stop_on_error", cfg.Run.StopOnError)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .evrecconfig: %w", err)
	}

	cfg.Output.Format = models.OutputFormat(strings.ToLower(v.GetString("output.format")))
	cfg.Output.Color = v.GetBool("output.color")
	cfg.Output.TimeLayout = v.GetString("output.time_layout")
	cfg.Run.Shell = v.GetString("run.shell")
	cfg.Run.StopOnError = v.GetBool("run.stop_on_error")

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validFormats is the set of allowed OutputFormat values.
var validFormats = map[models.OutputFormat]bool{
	models.FormatText: true,
	models.FormatJSON: true,
}

// ValidateConfig checks the configuration for invalid values and returns an
// error naming every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.RecorderConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if !validFormats[cfg.Output.Format] {
		errs = append(errs, fmt.Sprintf(
			"output.format %q is invalid, must be one of: text, json",
			cfg.Output.Format,
		))
	}

	if strings.TrimSpace(cfg.Run.Shell) == "" {
		errs = append(errs, "run.shell must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
