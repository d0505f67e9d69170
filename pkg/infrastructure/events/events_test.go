package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

type collectingHandler struct {
	mu     sync.Mutex
	events []Event
}

func (h *collectingHandler) Handle(event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *collectingHandler) CanHandle(eventType string) bool {
	return eventType == StepLoggedEvent
}

func (h *collectingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestStore_SinkGroupsStreamsBySource(t *testing.T) {
	store := NewStore()
	run := uuid.New()
	sink := store.Sink(run)

	sink.Emit(simulation.LogEvent{TimeStep: 0, Source: simulation.SourceStep, Message: "start"})
	sink.Emit(simulation.LogEvent{TimeStep: 0, Source: simulation.SourceWarehouse, Message: "added 2xSTEEL"})
	sink.Emit(simulation.LogEvent{TimeStep: 2, Source: simulation.SourceStep, Message: "done", Completed: true})

	steps, err := store.ReadEvents(StreamFor(run, simulation.SourceStep), 1)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Version())
	assert.Equal(t, 2, steps[1].Version())
	assert.Equal(t, StepLoggedEvent, steps[1].Type())
	assert.Equal(t, entities.TimeStep(2), steps[1].TimeStep())

	later, err := store.ReadEvents(StreamFor(run, simulation.SourceStep), 2)
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.True(t, later[0].Data().(simulation.LogEvent).Completed)

	missing, err := store.ReadEvents("nope", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, store.Position())

	logged := store.LogEvents(run)
	require.Len(t, logged, 3)
	assert.Equal(t, "added 2xSTEEL", logged[1].Message)
	assert.Empty(t, store.LogEvents(uuid.New()))
}

func TestStore_RunLifecycleEvents(t *testing.T) {
	store := NewStore()
	run := uuid.New()
	outcome := &dto.Outcome{RunID: run, Strategy: "greedy", CompletionTime: 9}

	require.NoError(t, store.AppendEvent(run.String(), NewRunFinishedEvent(run, outcome)))
	events, err := store.ReadEvents(run.String(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, RunFinishedEvent, events[0].Type())
	assert.Same(t, outcome, events[0].Data().(RunFinished).Outcome)
	assert.Equal(t, entities.TimeStep(9), events[0].TimeStep())

	assert.Error(t, store.AppendEvent(run.String(), nil))
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore()
	handler := &collectingHandler{}
	require.NoError(t, store.Subscribe([]string{StepLoggedEvent, FactoryLoggedEvent}, handler))

	sink := store.Sink(uuid.New())
	sink.Emit(simulation.LogEvent{Source: simulation.SourceStep, Message: "a"})
	sink.Emit(simulation.LogEvent{Source: simulation.SourceFactory, Message: "filtered by CanHandle"})
	sink.Emit(simulation.LogEvent{Source: simulation.SourceProduction, Message: "not subscribed"})

	require.Eventually(t, func() bool { return handler.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Unsubscribe(handler))
	sink.Emit(simulation.LogEvent{Source: simulation.SourceStep, Message: "b"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, handler.count())
}

func TestConsoleSink(t *testing.T) {
	event := simulation.LogEvent{TimeStep: 4, Source: simulation.SourceProduction, Resource: "press", Message: "started GEAR"}

	var text bytes.Buffer
	sink, err := NewConsoleSink(&text, "")
	require.NoError(t, err)
	sink.Emit(event)
	assert.Equal(t, event.String()+"\n", text.String())

	var js bytes.Buffer
	sink, err = NewConsoleSink(&js, FormatJSON)
	require.NoError(t, err)
	sink.Emit(event)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "production", decoded["source"])
	assert.Equal(t, "press", decoded["resource"])
	assert.EqualValues(t, 4, decoded["time_step"])
	assert.True(t, strings.HasSuffix(js.String(), "\n"))

	_, err = NewConsoleSink(&js, "xml")
	assert.Error(t, err)
}

type gatedSink struct {
	started chan struct{}
	gate    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	got     []simulation.LogEvent
}

func (g *gatedSink) Emit(event simulation.LogEvent) {
	g.once.Do(func() { close(g.started) })
	<-g.gate
	g.mu.Lock()
	g.got = append(g.got, event)
	g.mu.Unlock()
}

func TestBufferedSink_DropsWhenFull(t *testing.T) {
	next := &gatedSink{started: make(chan struct{}), gate: make(chan struct{})}
	sink := NewBufferedSink(next, 1)

	sink.Emit(simulation.LogEvent{Message: "1"})
	<-next.started
	sink.Emit(simulation.LogEvent{Message: "2"})
	sink.Emit(simulation.LogEvent{Message: "3"})
	assert.Equal(t, int64(1), sink.Dropped())

	close(next.gate)
	sink.Close()
	sink.Close()

	require.Len(t, next.got, 2)
	assert.Equal(t, "1", next.got[0].Message)
	assert.Equal(t, "2", next.got[1].Message)
}
