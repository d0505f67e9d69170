package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/application/services/optimizer"
	"github.com/vsinha/factorysim/pkg/application/services/planning"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
	"github.com/vsinha/factorysim/pkg/infrastructure/config"
	"github.com/vsinha/factorysim/pkg/infrastructure/events"
	"github.com/vsinha/factorysim/pkg/infrastructure/metrics"
	csvrepo "github.com/vsinha/factorysim/pkg/infrastructure/repositories/csv"
	yamlrepo "github.com/vsinha/factorysim/pkg/infrastructure/repositories/yaml"
	"github.com/vsinha/factorysim/pkg/interfaces/cli/output"
)

// app carries the loaded configuration into the subcommands
type app struct {
	cfg     *config.Config
	verbose bool
}

// session is the infrastructure around one scheduler run
type session struct {
	runID     uuid.UUID
	store     *events.Store
	buffer    *events.BufferedSink
	collector *metrics.Collector
}

func (a *app) logSettings() simulation.LogSettings {
	l := a.cfg.Logging
	return simulation.LogSettings{
		Enabled:            l.Enabled,
		Factory:            l.Factory,
		Production:         l.Production,
		Transport:          l.Transport,
		Driver:             l.Driver,
		Warehouse:          l.Warehouse,
		WarehouseStock:     l.WarehouseStock,
		Steps:              l.Steps,
		OnlyCompletedSteps: l.OnlyCompletedSteps,
	}
}

// loadInstance reads the configured data source
func (a *app) loadInstance(ctx context.Context) (*simulation.Instance, error) {
	sim := a.cfg.Simulation
	factoryOptions := []simulation.Option{simulation.WithLogSettings(a.logSettings())}

	var (
		inst *simulation.Instance
		err  error
	)
	switch a.cfg.Data.Format {
	case "yaml":
		inst, err = yamlrepo.NewLoader(yamlrepo.Options{
			Drivers:           sim.Drivers,
			WarehouseCapacity: entities.Quantity(sim.WarehouseCapacity),
			FactoryOptions:    factoryOptions,
		}).Load(ctx, a.cfg.Data.Source)
	default:
		inst, err = csvrepo.NewLoader(csvrepo.Options{
			Drivers:           sim.Drivers,
			WarehouseCapacity: entities.Quantity(sim.WarehouseCapacity),
			OrdersFile:        a.cfg.Data.OrdersFile,
			FactoryOptions:    factoryOptions,
		}).Load(ctx, a.cfg.Data.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", a.cfg.Data.Source, err)
	}
	return inst, nil
}

// newSession wires the event store, the console and metrics for one run
func (a *app) newSession(stderr io.Writer) (*session, error) {
	s := &session{runID: uuid.New(), store: events.NewStore()}
	if a.cfg.Logging.Enabled {
		console, err := events.NewConsoleSink(stderr, a.cfg.Logging.Format)
		if err != nil {
			return nil, err
		}
		s.buffer = events.NewBufferedSink(console, a.cfg.Logging.BufferSize)
	}
	if a.cfg.Metrics.Enabled {
		s.collector = metrics.NewCollector(a.cfg.Metrics.Runtime)
	}
	return s, nil
}

// sink fans simulation events out to the store and, when enabled, the console
func (s *session) sink() simulation.LogSink {
	stored := s.store.Sink(s.runID)
	if s.buffer == nil {
		return stored
	}
	return simulation.LogSinkFunc(func(e simulation.LogEvent) {
		stored.Emit(e)
		s.buffer.Emit(e)
	})
}

func (s *session) recorder() dto.TrialRecorder {
	if s.collector == nil {
		return nil
	}
	return s.collector
}

func (a *app) optimizerOptions(s *session) optimizer.Options {
	return optimizer.Options{
		MaxTimeSteps: entities.TimeStep(a.cfg.Simulation.MaxTimeSteps),
		OrderLimit:   a.cfg.Optimizer.OrderLimit,
		Workers:      a.cfg.Optimizer.Workers,
		Seed:         a.cfg.Optimizer.Seed,
		Planning: planning.Options{
			UseStock:         a.cfg.Simulation.UseStock,
			CondenseSupplies: a.cfg.Simulation.CondenseSupplies,
		},
		Sink:     s.sink(),
		Recorder: s.recorder(),
	}
}

// close flushes the console and writes the metrics textfile
func (a *app) close(s *session, stdout io.Writer) error {
	if s.buffer != nil {
		s.buffer.Close()
		if dropped := s.buffer.Dropped(); dropped > 0 && a.verbose {
			fmt.Fprintf(stdout, "Dropped %d log events\n", dropped)
		}
	}
	if s.collector != nil {
		if err := s.collector.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			return err
		}
		if a.verbose {
			fmt.Fprintf(stdout, "Metrics written to: %s\n", a.cfg.Metrics.Textfile)
		}
	}
	return nil
}

func (a *app) outputConfig(stdout io.Writer) output.Config {
	return output.Config{
		Format:    a.cfg.Output.Format,
		OutputDir: a.cfg.Output.Dir,
		Verbose:   a.verbose,
		Writer:    stdout,
	}
}

func (a *app) writeGantt(outcome *dto.Outcome, stdout io.Writer) error {
	if !a.cfg.Output.Gantt {
		return nil
	}
	dir := a.cfg.Output.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("gantt_%s.svg", outcome.Strategy))
	if err := output.WriteSVG(outcome, filename); err != nil {
		return err
	}
	if a.verbose {
		fmt.Fprintf(stdout, "Gantt chart saved to: %s\n", filename)
	}
	return nil
}
