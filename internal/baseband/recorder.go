package baseband

// Recorder receives scheduler events for metrics.
type Recorder interface {
	RadioPowered(on bool)
	ProtocolSwitched(from, to ProtocolID)
	StartCountChanged(id ProtocolID, count uint32)
	OperationExecuted(id ProtocolID)
	OperationCancelled(id ProtocolID)
	OperationTerminated(id ProtocolID)
}

type nopRecorder struct{}

func (nopRecorder) RadioPowered(bool) {}

func (nopRecorder) ProtocolSwitched(ProtocolID, ProtocolID) {}

func (nopRecorder) StartCountChanged(ProtocolID, uint32) {}

func (nopRecorder) OperationExecuted(ProtocolID) {}

func (nopRecorder) OperationCancelled(ProtocolID) {}

func (nopRecorder) OperationTerminated(ProtocolID) {}
