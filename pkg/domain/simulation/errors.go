package simulation

import "errors"

var (
	// ErrCapacityExceeded is returned when a warehouse add would exceed capacity
	ErrCapacityExceeded = errors.New("warehouse capacity exceeded")
	// ErrInsufficientStock is returned when stock or buffered goods are missing
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrTransportConstraintViolation is returned when a transporter cannot carry an item
	ErrTransportConstraintViolation = errors.New("transport constraint violation")
	// ErrDriverUnavailable is returned when no driver is free at the current time step
	ErrDriverUnavailable = errors.New("driver unavailable")
	// ErrResourceBusy is returned when a production line or transporter is still blocked
	ErrResourceBusy = errors.New("resource busy")
	// ErrOrderNotFulfilled is returned when closing an order that still has open amount
	ErrOrderNotFulfilled = errors.New("order not fulfilled")

	// ErrPrecedenceViolation is returned when a step is executed before its prerequisites
	ErrPrecedenceViolation = errors.New("precedence violation")
	// ErrNoSupplierForItem is returned when an item has neither a process nor a supply path
	ErrNoSupplierForItem = errors.New("no supplier for item")
	// ErrInvalidStep is returned for steps a resource can never perform
	ErrInvalidStep = errors.New("invalid step")
	// ErrPrecedenceCycle is returned when the step set contains a dependency cycle
	ErrPrecedenceCycle = errors.New("precedence cycle")
	// ErrUnknownPrerequisite is returned when a prerequisite is not part of the step set
	ErrUnknownPrerequisite = errors.New("prerequisite outside step set")
)

// IsRecoverable reports whether a step failure only means "not now". Such steps stay
// pending and are retried on a later time step; every other error aborts the trial.
func IsRecoverable(err error) bool {
	switch {
	case errors.Is(err, ErrPrecedenceViolation), errors.Is(err, ErrInvalidStep):
		return false
	case errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrTransportConstraintViolation),
		errors.Is(err, ErrDriverUnavailable),
		errors.Is(err, ErrResourceBusy),
		errors.Is(err, ErrOrderNotFulfilled):
		return true
	default:
		return false
	}
}
