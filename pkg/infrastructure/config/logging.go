package config

// LoggingConfig holds the simulation log categories and their rendering
type LoggingConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	Factory            bool `mapstructure:"factory"`
	Production         bool `mapstructure:"production"`
	Transport          bool `mapstructure:"transport"`
	Driver             bool `mapstructure:"driver"`
	Warehouse          bool `mapstructure:"warehouse"`
	WarehouseStock     bool `mapstructure:"warehouse_stock"`
	Steps              bool `mapstructure:"steps"`
	OnlyCompletedSteps bool `mapstructure:"only_completed_steps"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// BufferSize is the event buffer in front of the console; full buffers drop events
	BufferSize int `mapstructure:"buffer_size" validate:"min=1"`
}
