package simulation

import "github.com/vsinha/factorysim/pkg/domain/entities"

// Resource is a factory object that performs step work. The set is closed:
// *Production and *Transporter.
type Resource interface {
	Name() string
	// PerformWork validates and applies the step's effect at time now. It returns a
	// recoverable error (see IsRecoverable) when the work cannot happen yet.
	PerformWork(now entities.TimeStep, step *FactoryStep) error
	// BlockedUntil is the first time step at which the resource accepts new work
	BlockedUntil() entities.TimeStep
	Reset()
	Log() []LogEvent

	attach(f *Factory)
}

type resourceLog struct {
	factory *Factory
	events  []LogEvent
}

func (l *resourceLog) attach(f *Factory) { l.factory = f }

// Log returns the events recorded by this resource in the current trial
func (l *resourceLog) Log() []LogEvent {
	return append([]LogEvent(nil), l.events...)
}

func (l *resourceLog) record(source LogSource, name, message string) {
	if l.factory == nil {
		return
	}
	event := LogEvent{TimeStep: l.factory.now, Source: source, Resource: name, Message: message}
	if !l.factory.settings.Allows(event) {
		return
	}
	l.events = append(l.events, event)
	l.factory.emit(event)
}

func (l *resourceLog) clear() { l.events = l.events[:0] }
