package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FSIM_OPTIMIZER_STRATEGY
const EnvPrefix = "FSIM"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Optimizer  OptimizerConfig  `mapstructure:"optimizer"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Data       DataConfig       `mapstructure:"data"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Output     OutputConfig     `mapstructure:"output"`
}

// SimulationConfig bounds a single factory run
type SimulationConfig struct {
	MaxTimeSteps int64 `mapstructure:"max_time_steps" validate:"min=1"`

	// Drivers is the default driver count when the instance declares none
	Drivers int `mapstructure:"drivers" validate:"min=0"`

	// WarehouseCapacity is used when the instance declares none; -1 is unlimited
	WarehouseCapacity int64 `mapstructure:"warehouse_capacity" validate:"min=-1"`

	UseStock         bool `mapstructure:"use_stock"`
	CondenseSupplies bool `mapstructure:"condense_supplies"`
}

// OptimizerConfig selects and tunes the scheduler
type OptimizerConfig struct {
	Strategy   string `mapstructure:"strategy" validate:"required,oneof=exhaustive greedy"`
	Trials     int    `mapstructure:"trials" validate:"min=0"`
	Workers    int    `mapstructure:"workers" validate:"min=0"`
	Seed       int64  `mapstructure:"seed"`
	OrderLimit int    `mapstructure:"order_limit" validate:"min=0"`
}

// DataConfig locates the instance to load
type DataConfig struct {
	// Source is a CSV directory or a YAML file
	Source     string `mapstructure:"source"`
	Format     string `mapstructure:"format" validate:"required,oneof=csv yaml"`
	OrdersFile string `mapstructure:"orders_file"`
}

// OutputConfig controls result rendering
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=text json csv"`
	Dir    string `mapstructure:"dir"`
	Gantt  bool   `mapstructure:"gantt"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (factorysim.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("factorysim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with every default applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal defaults: %v", err))
	}
	return &cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
