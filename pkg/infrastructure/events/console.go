package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ConsoleSink writes one line per simulation event
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

var _ simulation.LogSink = (*ConsoleSink)(nil)

// NewConsoleSink creates a sink writing text or JSON lines to w
func NewConsoleSink(w io.Writer, format string) (*ConsoleSink, error) {
	switch format {
	case "", FormatText:
		format = FormatText
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
	return &ConsoleSink{w: w, format: format}, nil
}

func (c *ConsoleSink) Emit(event simulation.LogEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.format == FormatJSON {
		line, err := json.Marshal(consoleEvent{
			TimeStep:  int64(event.TimeStep),
			Source:    event.Source.String(),
			Resource:  event.Resource,
			Message:   event.Message,
			Completed: event.Completed,
		})
		if err != nil {
			return
		}
		fmt.Fprintf(c.w, "%s\n", line)
		return
	}
	fmt.Fprintln(c.w, event.String())
}

type consoleEvent struct {
	TimeStep  int64  `json:"time_step"`
	Source    string `json:"source"`
	Resource  string `json:"resource,omitempty"`
	Message   string `json:"message"`
	Completed bool   `json:"completed,omitempty"`
}
