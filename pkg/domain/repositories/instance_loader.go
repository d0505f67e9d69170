package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

var (
	// ErrMalformedSource wraps every parse and structure error of an instance source
	ErrMalformedSource = errors.New("malformed source")
	// ErrUnknownItem is returned when a source references an item it never declares
	ErrUnknownItem = errors.New("unknown item")
)

// InstanceLoader builds a simulation instance from an external source
type InstanceLoader interface {
	Load(ctx context.Context, source string) (*simulation.Instance, error)
}
