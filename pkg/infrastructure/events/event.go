package events

import (
	"time"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// Event is one entry of a run's event log. TimeStep is the simulation clock when the
// event happened; Timestamp is the wall clock when it was recorded.
type Event interface {
	Type() string
	StreamID() string
	Data() any
	TimeStep() entities.TimeStep
	Timestamp() time.Time
	Version() int
}

// EventHandler receives events of the types it subscribed to
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type record struct {
	eventType string
	stream    string
	data      any
	at        entities.TimeStep
	recorded  time.Time
	version   int
}

func (r record) Type() string                { return r.eventType }
func (r record) StreamID() string            { return r.stream }
func (r record) Data() any                   { return r.data }
func (r record) TimeStep() entities.TimeStep { return r.at }
func (r record) Timestamp() time.Time        { return r.recorded }
func (r record) Version() int                { return r.version }

// NewEvent creates an unversioned event; the store assigns the version on append
func NewEvent(eventType, streamID string, at entities.TimeStep, data any) Event {
	return record{
		eventType: eventType,
		stream:    streamID,
		data:      data,
		at:        at,
		recorded:  time.Now(),
	}
}
