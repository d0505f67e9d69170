package config

import "github.com/spf13/viper"

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.max_time_steps", 10000)
	v.SetDefault("simulation.drivers", 4)
	v.SetDefault("simulation.warehouse_capacity", -1)
	v.SetDefault("simulation.use_stock", false)
	v.SetDefault("simulation.condense_supplies", true)

	v.SetDefault("optimizer.strategy", "exhaustive")
	v.SetDefault("optimizer.trials", 200)
	v.SetDefault("optimizer.workers", 0)
	v.SetDefault("optimizer.seed", 1)
	v.SetDefault("optimizer.order_limit", 0)

	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.factory", true)
	v.SetDefault("logging.production", true)
	v.SetDefault("logging.transport", true)
	v.SetDefault("logging.driver", true)
	v.SetDefault("logging.warehouse", true)
	v.SetDefault("logging.warehouse_stock", false)
	v.SetDefault("logging.steps", true)
	v.SetDefault("logging.only_completed_steps", false)
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.buffer_size", 4096)

	v.SetDefault("data.source", "data")
	v.SetDefault("data.format", "csv")
	v.SetDefault("data.orders_file", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("metrics.runtime", false)

	v.SetDefault("output.format", "text")
	v.SetDefault("output.dir", "")
	v.SetDefault("output.gantt", false)
}
