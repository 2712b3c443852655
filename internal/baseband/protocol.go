package baseband

import "fmt"

// ProtocolID indexes the fixed protocol table.
type ProtocolID uint8

const (
	ProtocolBLE ProtocolID = iota
	ProtocolBLETest
	ProtocolPRBS15
	Protocol154

	// NumProtocols is the size of the protocol table.
	NumProtocols = 4

	// ProtocolNone marks the absence of a protocol in logs and metrics.
	ProtocolNone ProtocolID = 0xFF
)

func (id ProtocolID) Valid() bool {
	return id < NumProtocols
}

func (id ProtocolID) String() string {
	switch id {
	case ProtocolBLE:
		return "ble"
	case ProtocolBLETest:
		return "ble_test"
	case ProtocolPRBS15:
		return "prbs15"
	case Protocol154:
		return "15.4"
	case ProtocolNone:
		return "none"
	default:
		return fmt.Sprintf("protocol(%d)", uint8(id))
	}
}

// ParseProtocolID resolves a protocol name as produced by String.
func ParseProtocolID(name string) (ProtocolID, error) {
	for id := ProtocolID(0); id < NumProtocols; id++ {
		if id.String() == name {
			return id, nil
		}
	}
	return ProtocolNone, fmt.Errorf("%w: %q", ErrInvalidProtocol, name)
}

// Operation is one schedulable unit of radio work. The scheduler only routes
// it by protocol; payload and lifetime belong to the protocol layer.
type Operation interface {
	Protocol() ProtocolID
}

// ProtocolFuncs holds the handles for one protocol slot. Start and Stop are
// required. Execute and Cancel are nil for protocols that only hold the radio
// open.
type ProtocolFuncs struct {
	Execute func(op Operation)
	Cancel  func(op Operation)
	Start   func()
	Stop    func()
}

// Protocol is the required capability set of a protocol layer.
type Protocol interface {
	StartProtocol()
	StopProtocol()
}

// Executor is implemented by protocols that run discrete operations.
type Executor interface {
	ExecuteOperation(op Operation)
}

// Canceller is implemented by protocols that can abort an in-flight operation.
type Canceller interface {
	CancelOperation(op Operation)
}

// LowPowerHandler is implemented by protocols that save state before forced
// termination.
type LowPowerHandler interface {
	PrepareLowPower()
}

func funcsFor(p Protocol) ProtocolFuncs {
	funcs := ProtocolFuncs{
		Start: p.StartProtocol,
		Stop:  p.StopProtocol,
	}
	if e, ok := p.(Executor); ok {
		funcs.Execute = e.ExecuteOperation
	}
	if c, ok := p.(Canceller); ok {
		funcs.Cancel = c.CancelOperation
	}
	return funcs
}
