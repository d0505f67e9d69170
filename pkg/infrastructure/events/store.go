package events

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Store keeps every event in memory, grouped into versioned streams
type Store struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []Event
}

var _ EventStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
	}
}

func (s *Store) AppendEvent(streamID string, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	versioned := record{
		eventType: event.Type(),
		stream:    streamID,
		data:      event.Data(),
		at:        event.TimeStep(),
		recorded:  event.Timestamp(),
		version:   len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	s.position++

	if handlers := s.subscribers[versioned.eventType]; len(handlers) > 0 {
		go notify(append([]EventHandler(nil), handlers...), versioned)
	}

	return nil
}

func (s *Store) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *Store) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

// Position returns the number of events appended so far
func (s *Store) Position() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.position
}

func (s *Store) Subscribe(eventTypes []string, handler EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *Store) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

// Sink returns a log sink that appends simulation events to the run's streams
func (s *Store) Sink(runID uuid.UUID) simulation.LogSink {
	return simulation.LogSinkFunc(func(e simulation.LogEvent) {
		_ = s.AppendEvent(StreamFor(runID, e.Source), NewLogEvent(runID, e))
	})
}

// LogEvents returns the simulation events of one run in append order
func (s *Store) LogEvents(runID uuid.UUID) []simulation.LogEvent {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	prefix := runID.String() + "/"
	var result []simulation.LogEvent
	for _, e := range s.allEvents {
		if !strings.HasPrefix(e.StreamID(), prefix) {
			continue
		}
		if data, ok := e.Data().(simulation.LogEvent); ok {
			result = append(result, data)
		}
	}
	return result
}

func notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			fmt.Printf("Error handling event %s: %v\n", event.Type(), err)
		}
	}
}
