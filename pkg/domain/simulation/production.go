package simulation

import (
	"fmt"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// Production is a manufacturing line. It holds whole batches in an input buffer,
// produces one batch at a time and parks finished batches in an output buffer.
type Production struct {
	resourceLog
	name           string
	inputCapacity  int
	outputCapacity int
	processes      []*entities.ProductionProcess

	blockedUntil entities.TimeStep
	blockedTime  entities.TimeStep
	inputBuffer  []*entities.ProductionProcess
	inProduction *entities.ProductionProcess
	outputBuffer []*entities.ProductionProcess
}

var _ Resource = (*Production)(nil)

// NewProduction creates a validated Production. Buffer capacities are counted in batches.
func NewProduction(name string, inputCapacity, outputCapacity int, processes ...*entities.ProductionProcess) (*Production, error) {
	if name == "" {
		return nil, fmt.Errorf("production name cannot be empty")
	}
	if inputCapacity <= 0 || outputCapacity <= 0 {
		return nil, fmt.Errorf("production %s: buffer capacities must be positive, got %d/%d", name, inputCapacity, outputCapacity)
	}
	seen := make(map[string]bool, len(processes))
	for _, p := range processes {
		if p == nil {
			return nil, fmt.Errorf("production %s: process cannot be nil", name)
		}
		if seen[p.Output.ID()] {
			return nil, fmt.Errorf("production %s: more than one process for %s", name, p.Output.ID())
		}
		seen[p.Output.ID()] = true
	}

	return &Production{
		name:           name,
		inputCapacity:  inputCapacity,
		outputCapacity: outputCapacity,
		processes:      append([]*entities.ProductionProcess(nil), processes...),
	}, nil
}

func (p *Production) Name() string                    { return p.name }
func (p *Production) BlockedUntil() entities.TimeStep { return p.blockedUntil }

// BlockedTime is the total production time accumulated in the current trial
func (p *Production) BlockedTime() entities.TimeStep { return p.blockedTime }

// Capacity returns the input and output buffer sizes in batches
func (p *Production) Capacity() (input, output int) { return p.inputCapacity, p.outputCapacity }

// Processes returns the processes this line can run
func (p *Production) Processes() []*entities.ProductionProcess {
	return append([]*entities.ProductionProcess(nil), p.processes...)
}

// ProcessFor returns the process producing item, or nil
func (p *Production) ProcessFor(item entities.Item) *entities.ProductionProcess {
	for _, process := range p.processes {
		if process.Produces(item) {
			return process
		}
	}
	return nil
}

// CanProduce reports whether the line has a process for item
func (p *Production) CanProduce(item entities.Item) bool {
	return p.ProcessFor(item) != nil
}

// Reset empties the buffers and clears the blocked markers
func (p *Production) Reset() {
	p.blockedUntil = 0
	p.blockedTime = 0
	p.inputBuffer = p.inputBuffer[:0]
	p.inProduction = nil
	p.outputBuffer = p.outputBuffer[:0]
	p.clear()
}

// PerformWork moves or produces exactly one batch of the step's product
func (p *Production) PerformWork(now entities.TimeStep, step *FactoryStep) error {
	process := p.ProcessFor(step.Item())
	if process == nil {
		return fmt.Errorf("%w: %s cannot produce %s: %w", ErrInvalidStep, p.name, step.Item().ID(), ErrNoSupplierForItem)
	}

	switch step.Kind() {
	case entities.MoveToInputBuffer:
		return p.moveToInputBuffer(process)
	case entities.Produce:
		return p.produce(now, process)
	case entities.MoveToOutputBuffer:
		return p.moveToOutputBuffer(now, process)
	case entities.MoveToWarehouse:
		return p.moveToWarehouse(process)
	default:
		return fmt.Errorf("%w: production %s cannot perform %s", ErrInvalidStep, p.name, step.Kind())
	}
}

func (p *Production) moveToInputBuffer(process *entities.ProductionProcess) error {
	if len(p.inputBuffer) >= p.inputCapacity {
		return fmt.Errorf("%w: %s input buffer full", ErrResourceBusy, p.name)
	}
	if err := p.factory.warehouse.RemoveAll(process.Inputs); err != nil {
		return fmt.Errorf("loading %s into %s: %w", process.ID, p.name, err)
	}
	p.inputBuffer = append(p.inputBuffer, process)
	p.record(SourceProduction, p.name, fmt.Sprintf("batch of %s loaded into input buffer", process.Output.ID()))
	return nil
}

func (p *Production) produce(now entities.TimeStep, process *entities.ProductionProcess) error {
	if now < p.blockedUntil || p.inProduction != nil {
		return fmt.Errorf("%w: %s is producing until %d", ErrResourceBusy, p.name, p.blockedUntil)
	}
	if len(p.outputBuffer) >= p.outputCapacity {
		return fmt.Errorf("%w: %s output buffer full", ErrResourceBusy, p.name)
	}
	i := indexOfProcess(p.inputBuffer, process)
	if i < 0 {
		return fmt.Errorf("%w: no batch of %s in %s input buffer", ErrInsufficientStock, process.Output.ID(), p.name)
	}

	p.inputBuffer = append(p.inputBuffer[:i], p.inputBuffer[i+1:]...)
	p.inProduction = process
	p.blockedUntil = now + process.ProductionTime
	p.blockedTime += process.ProductionTime
	p.record(SourceProduction, p.name, fmt.Sprintf("producing %d x %s until %d", process.BatchSize, process.Output.ID(), p.blockedUntil))
	return nil
}

func (p *Production) moveToOutputBuffer(now entities.TimeStep, process *entities.ProductionProcess) error {
	if p.inProduction != process {
		return fmt.Errorf("%w: %s is not producing %s", ErrInsufficientStock, p.name, process.Output.ID())
	}
	if now < p.blockedUntil {
		return fmt.Errorf("%w: %s batch ready at %d", ErrResourceBusy, p.name, p.blockedUntil)
	}
	if len(p.outputBuffer) >= p.outputCapacity {
		return fmt.Errorf("%w: %s output buffer full", ErrResourceBusy, p.name)
	}

	p.inProduction = nil
	p.outputBuffer = append(p.outputBuffer, process)
	p.record(SourceProduction, p.name, fmt.Sprintf("batch of %s moved to output buffer", process.Output.ID()))
	return nil
}

func (p *Production) moveToWarehouse(process *entities.ProductionProcess) error {
	i := indexOfProcess(p.outputBuffer, process)
	if i < 0 {
		return fmt.Errorf("%w: no batch of %s in %s output buffer", ErrInsufficientStock, process.Output.ID(), p.name)
	}
	if err := p.factory.warehouse.Add(entities.MaterialPosition{Item: process.Output, Amount: process.BatchSize}); err != nil {
		return fmt.Errorf("unloading %s: %w", p.name, err)
	}

	p.outputBuffer = append(p.outputBuffer[:i], p.outputBuffer[i+1:]...)
	p.record(SourceProduction, p.name, fmt.Sprintf("%d x %s moved to warehouse", process.BatchSize, process.Output.ID()))
	return nil
}

func (p *Production) clone() *Production {
	c, _ := NewProduction(p.name, p.inputCapacity, p.outputCapacity, p.processes...)
	return c
}

func indexOfProcess(buffer []*entities.ProductionProcess, process *entities.ProductionProcess) int {
	for i, b := range buffer {
		if b == process {
			return i
		}
	}
	return -1
}
