package models

// OutputFormat selects how a recorder is rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputConfig controls how recorded events are rendered by the CLI.
type OutputConfig struct {
	Format     OutputFormat `yaml:"format" mapstructure:"format"`
	Color      bool         `yaml:"color" mapstructure:"color"`
	TimeLayout string       `yaml:"time_layout,omitempty" mapstructure:"time_layout"`
}

// RunConfig controls how step scripts are executed.
type RunConfig struct {
	Shell       string `yaml:"shell" mapstructure:"shell"`
	StopOnError bool   `yaml:"stop_on_error" mapstructure:"stop_on_error"`
}

// RecorderConfig holds settings read from .evrecconfig via Viper.
type RecorderConfig struct {
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Run    RunConfig    `yaml:"run" mapstructure:"run"`
}
