package config

// MetricsConfig holds metrics collection configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Textfile receives the registry in node exporter textfile format after a run
	Textfile string `mapstructure:"textfile" validate:"required_if=Enabled true"`

	// Runtime adds the Go and process collectors
	Runtime bool `mapstructure:"runtime"`
}
