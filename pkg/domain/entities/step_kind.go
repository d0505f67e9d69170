package entities

// StepKind is the semantic action of a factory step
type StepKind int

const (
	NoAction StepKind = iota
	AcquireFromSupplier
	MoveToInputBuffer
	Produce
	MoveToOutputBuffer
	MoveToWarehouse
	MoveTransporterToWarehouse
	ConcludeTransportToCustomer
	CloseOrder
)

// String method for StepKind enum
func (k StepKind) String() string {
	switch k {
	case NoAction:
		return "None"
	case AcquireFromSupplier:
		return "AcquireFromSupplier"
	case MoveToInputBuffer:
		return "MoveToInputBuffer"
	case Produce:
		return "Produce"
	case MoveToOutputBuffer:
		return "MoveToOutputBuffer"
	case MoveToWarehouse:
		return "MoveToWarehouse"
	case MoveTransporterToWarehouse:
		return "MoveTransporterToWarehouse"
	case ConcludeTransportToCustomer:
		return "ConcludeTransportToCustomer"
	case CloseOrder:
		return "CloseOrder"
	default:
		return "Unknown"
	}
}

// IsProduction reports whether the kind is performed by a production line
func (k StepKind) IsProduction() bool {
	switch k {
	case MoveToInputBuffer, Produce, MoveToOutputBuffer, MoveToWarehouse:
		return true
	}
	return false
}

// IsTransport reports whether the kind is performed by a transporter
func (k StepKind) IsTransport() bool {
	switch k {
	case AcquireFromSupplier, MoveTransporterToWarehouse, ConcludeTransportToCustomer, CloseOrder:
		return true
	}
	return false
}
