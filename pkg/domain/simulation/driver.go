package simulation

import (
	"fmt"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// Interval is a half-open work window [From, To)
type Interval struct {
	From entities.TimeStep
	To   entities.TimeStep
}

// Overlaps reports whether two windows share a time step
func (i Interval) Overlaps(other Interval) bool {
	return i.From < other.To && other.From < i.To
}

// Driver operates transporters. A driver is available at T iff T >= BlockedUntil.
type Driver struct {
	factory      *Factory
	id           string
	name         string
	blockedUntil entities.TimeStep
	assignments  []Interval
}

// NewDriver creates an idle driver
func NewDriver(id, name string) *Driver {
	if name == "" {
		name = id
	}
	return &Driver{id: id, name: name}
}

func (d *Driver) ID() string                      { return d.id }
func (d *Driver) Name() string                    { return d.name }
func (d *Driver) BlockedUntil() entities.TimeStep { return d.blockedUntil }

// IsAvailable reports whether the driver can take work at now
func (d *Driver) IsAvailable(now entities.TimeStep) bool {
	return now >= d.blockedUntil
}

// Assign blocks the driver for duration time steps starting at now
func (d *Driver) Assign(now, duration entities.TimeStep) error {
	if !d.IsAvailable(now) {
		return fmt.Errorf("%w: %s is blocked until %d", ErrDriverUnavailable, d.name, d.blockedUntil)
	}
	if duration < 0 {
		return fmt.Errorf("%w: negative work duration %d", ErrInvalidStep, duration)
	}
	d.blockedUntil = now + duration
	d.assignments = append(d.assignments, Interval{From: now, To: d.blockedUntil})
	if d.factory != nil {
		d.factory.emit(LogEvent{
			TimeStep: now,
			Source:   SourceDriver,
			Resource: d.name,
			Message:  fmt.Sprintf("assigned until %d", d.blockedUntil),
		})
	}
	return nil
}

// Assignments returns every work window of the current trial
func (d *Driver) Assignments() []Interval {
	return append([]Interval(nil), d.assignments...)
}

// Reset makes the driver idle again
func (d *Driver) Reset() {
	d.blockedUntil = 0
	d.assignments = d.assignments[:0]
}
