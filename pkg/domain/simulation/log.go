package simulation

import (
	"fmt"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// LogSource identifies the kind of object that emitted a log event
type LogSource int

const (
	SourceFactory LogSource = iota
	SourceProduction
	SourceTransporter
	SourceDriver
	SourceWarehouse
	SourceWarehouseStock
	SourceStep
)

// String method for LogSource enum
func (s LogSource) String() string {
	switch s {
	case SourceFactory:
		return "factory"
	case SourceProduction:
		return "production"
	case SourceTransporter:
		return "transporter"
	case SourceDriver:
		return "driver"
	case SourceWarehouse:
		return "warehouse"
	case SourceWarehouseStock:
		return "warehouse-stock"
	case SourceStep:
		return "step"
	default:
		return "unknown"
	}
}

// LogEvent is one structured simulation log entry
type LogEvent struct {
	TimeStep  entities.TimeStep `json:"time_step"`
	Source    LogSource         `json:"source"`
	Resource  string            `json:"resource,omitempty"`
	Message   string            `json:"message"`
	Completed bool              `json:"completed,omitempty"`
}

func (e LogEvent) String() string {
	if e.Resource == "" {
		return fmt.Sprintf("%5d %-15s %s", e.TimeStep, e.Source, e.Message)
	}
	return fmt.Sprintf("%5d %-15s %s: %s", e.TimeStep, e.Source, e.Resource, e.Message)
}

// LogSettings selects which event categories are recorded
type LogSettings struct {
	Enabled            bool
	Factory            bool
	Production         bool
	Transport          bool
	Driver             bool
	Warehouse          bool
	WarehouseStock     bool
	Steps              bool
	OnlyCompletedSteps bool
}

// DefaultLogSettings records every category
func DefaultLogSettings() LogSettings {
	return LogSettings{
		Enabled:        true,
		Factory:        true,
		Production:     true,
		Transport:      true,
		Driver:         true,
		Warehouse:      true,
		WarehouseStock: true,
		Steps:          true,
	}
}

// Allows reports whether the event passes the category filter
func (s LogSettings) Allows(event LogEvent) bool {
	if !s.Enabled {
		return false
	}
	switch event.Source {
	case SourceFactory:
		return s.Factory
	case SourceProduction:
		return s.Production
	case SourceTransporter:
		return s.Transport
	case SourceDriver:
		return s.Driver
	case SourceWarehouse:
		return s.Warehouse
	case SourceWarehouseStock:
		return s.WarehouseStock
	case SourceStep:
		return s.Steps && (event.Completed || !s.OnlyCompletedSteps)
	default:
		return false
	}
}

// LogSink receives log events. Implementations must not block the simulation;
// dropping events is acceptable.
type LogSink interface {
	Emit(event LogEvent)
}

// LogSinkFunc adapts a function to LogSink
type LogSinkFunc func(LogEvent)

// Emit calls f(event)
func (f LogSinkFunc) Emit(event LogEvent) { f(event) }
