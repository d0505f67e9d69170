package events

import (
	"github.com/google/uuid"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

const (
	FactoryLoggedEvent        = "simulation.factory"
	ProductionLoggedEvent     = "simulation.production"
	TransporterLoggedEvent    = "simulation.transporter"
	DriverLoggedEvent         = "simulation.driver"
	WarehouseLoggedEvent      = "simulation.warehouse"
	WarehouseStockLoggedEvent = "simulation.warehouse-stock"
	StepLoggedEvent           = "simulation.step"

	RunStartedEvent  = "run.started"
	RunFinishedEvent = "run.finished"
)

// TypeFor maps a log source to its event type
func TypeFor(source simulation.LogSource) string {
	return "simulation." + source.String()
}

// StreamFor names the stream that holds one source of one run
func StreamFor(runID uuid.UUID, source simulation.LogSource) string {
	return runID.String() + "/" + source.String()
}

type RunStarted struct {
	Strategy    string `json:"strategy"`
	Fingerprint string `json:"fingerprint"`
	Budget      int    `json:"budget"`
}

type RunFinished struct {
	Outcome *dto.Outcome `json:"outcome"`
}

func NewLogEvent(runID uuid.UUID, event simulation.LogEvent) Event {
	return NewEvent(TypeFor(event.Source), StreamFor(runID, event.Source), event.TimeStep, event)
}

func NewRunStartedEvent(runID uuid.UUID, strategy string, inst *simulation.Instance, budget int) Event {
	return NewEvent(RunStartedEvent, runID.String(), 0, RunStarted{
		Strategy:    strategy,
		Fingerprint: inst.Fingerprint(),
		Budget:      budget,
	})
}

func NewRunFinishedEvent(runID uuid.UUID, outcome *dto.Outcome) Event {
	return NewEvent(RunFinishedEvent, runID.String(), outcome.CompletionTime, RunFinished{Outcome: outcome})
}
