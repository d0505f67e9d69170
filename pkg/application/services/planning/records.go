package planning

import (
	"sort"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// ResourceRecord is the planned blocked time of one resource
type ResourceRecord struct {
	Name        string
	BlockedTime entities.TimeStep
}

// Records tracks when each resource is expected to be free, so later orders see
// realistic availability without running the orchestrator
type Records struct {
	productions  map[string]entities.TimeStep
	transporters map[string]entities.TimeStep
	drivers      map[string]entities.TimeStep
}

// NewRecords creates records with every resource free at time 0
func NewRecords() *Records {
	return &Records{
		productions:  make(map[string]entities.TimeStep),
		transporters: make(map[string]entities.TimeStep),
		drivers:      make(map[string]entities.TimeStep),
	}
}

func (r *Records) ProductionFree(p *simulation.Production) entities.TimeStep {
	return r.productions[p.Name()]
}

func (r *Records) TransporterFree(t *simulation.Transporter) entities.TimeStep {
	return r.transporters[t.Name()]
}

// DriverFree returns 0 for a nil driver
func (r *Records) DriverFree(d *simulation.Driver) entities.TimeStep {
	if d == nil {
		return 0
	}
	return r.drivers[d.ID()]
}

// ReserveProduction books one batch of duration on p no earlier than ready and
// returns its start
func (r *Records) ReserveProduction(p *simulation.Production, ready, duration entities.TimeStep) entities.TimeStep {
	start := maxTime(ready, r.productions[p.Name()])
	r.productions[p.Name()] = start + duration
	return start
}

// BlockTransporter marks t busy until the given time step
func (r *Records) BlockTransporter(t *simulation.Transporter, until entities.TimeStep) {
	if until > r.transporters[t.Name()] {
		r.transporters[t.Name()] = until
	}
}

// BlockDriver marks d busy until the given time step; nil drivers are ignored
func (r *Records) BlockDriver(d *simulation.Driver, until entities.TimeStep) {
	if d != nil && until > r.drivers[d.ID()] {
		r.drivers[d.ID()] = until
	}
}

// Snapshot copies the records
func (r *Records) Snapshot() *Records {
	c := NewRecords()
	for k, v := range r.productions {
		c.productions[k] = v
	}
	for k, v := range r.transporters {
		c.transporters[k] = v
	}
	for k, v := range r.drivers {
		c.drivers[k] = v
	}
	return c
}

// Restore replaces the records with a snapshot
func (r *Records) Restore(s *Records) {
	*r = *s.Snapshot()
}

// Productions returns the production records sorted by name
func (r *Records) Productions() []ResourceRecord { return sortedRecords(r.productions) }

// Transporters returns the transporter records sorted by name
func (r *Records) Transporters() []ResourceRecord { return sortedRecords(r.transporters) }

func sortedRecords(m map[string]entities.TimeStep) []ResourceRecord {
	result := make([]ResourceRecord, 0, len(m))
	for name, t := range m {
		result = append(result, ResourceRecord{Name: name, BlockedTime: t})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func maxTime(a, b entities.TimeStep) entities.TimeStep {
	if a > b {
		return a
	}
	return b
}
