package planning

import (
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Policy makes the resource choices while a Builder expands orders into steps
type Policy interface {
	// ChooseProduction picks one of the lines able to run a process
	ChooseProduction(candidates []*simulation.Production, records *Records) *simulation.Production
	// ChooseTransporter picks one of the fitting transporters for a load of amount units
	ChooseTransporter(candidates []*simulation.Transporter, amount entities.Quantity, records *Records) *simulation.Transporter
	// ChooseDriver picks the driver for a trip of t; nil leaves the choice to the factory
	ChooseDriver(t *simulation.Transporter, drivers []*simulation.Driver, records *Records) *simulation.Driver
}

// EarliestAvailable binds every choice to the resource that frees up first, with
// declaration order breaking ties
type EarliestAvailable struct{}

var _ Policy = EarliestAvailable{}

func (EarliestAvailable) ChooseProduction(candidates []*simulation.Production, records *Records) *simulation.Production {
	var best *simulation.Production
	for _, p := range candidates {
		if best == nil || records.ProductionFree(p) < records.ProductionFree(best) {
			best = p
		}
	}
	return best
}

func (EarliestAvailable) ChooseTransporter(candidates []*simulation.Transporter, _ entities.Quantity, records *Records) *simulation.Transporter {
	var best *simulation.Transporter
	for _, t := range candidates {
		if best == nil || records.TransporterFree(t) < records.TransporterFree(best) {
			best = t
		}
	}
	return best
}

func (EarliestAvailable) ChooseDriver(_ *simulation.Transporter, drivers []*simulation.Driver, records *Records) *simulation.Driver {
	var best *simulation.Driver
	for _, d := range drivers {
		if best == nil || records.DriverFree(d) < records.DriverFree(best) {
			best = d
		}
	}
	return best
}
