package baseband

// Execute runs op on the radio. A different active protocol is stopped and
// op's protocol started before the execute handle runs. Submitting while
// another operation is in flight replaces it.
func (s *Scheduler) Execute(op Operation) error {
	if op == nil {
		return ErrNilOperation
	}
	id := op.Protocol()
	if err := s.registered(id); err != nil {
		return err
	}

	if prev := s.active.Load(); prev != nil {
		s.logger.Debug().
			Stringer("protocol", id).
			Stringer("replaced", prev.op.Protocol()).
			Msg("operation submitted while another in flight")
	}
	s.active.Store(&inflight{op: op})
	s.terminate.Store(false)

	s.radio.Enable()
	if !s.radioStarted {
		s.metrics.RadioPowered(true)
	}

	from := ProtocolNone
	if s.radioStarted && s.activeProtocol != id {
		from = s.activeProtocol
		s.slots[from].funcs.Stop()
		s.radioStarted = false
		s.logger.Debug().
			Stringer("from", from).
			Stringer("to", id).
			Msg("protocol hand-off")
	}
	if !s.radioStarted {
		s.activate(from, id)
	}

	s.metrics.OperationExecuted(id)
	if exec := s.slots[id].funcs.Execute; exec != nil {
		exec(op)
	}

	if s.terminate.Load() {
		s.active.Store(nil)
	}
	return nil
}

// Cancel aborts the operation in flight, if any. The completion handler is
// not invoked.
func (s *Scheduler) Cancel() {
	cur := s.active.Load()
	if cur == nil {
		return
	}
	id := cur.op.Protocol()
	if cancel := s.slots[id].funcs.Cancel; cancel != nil {
		cancel(cur.op)
	}
	s.active.Store(nil)
	s.metrics.OperationCancelled(id)
	s.logger.Debug().Stringer("protocol", id).Msg("operation cancelled")
}

// RequestTermination flags the operation in flight for teardown. It is the
// only entry point safe to call from an interrupt-equivalent goroutine and
// invokes no handlers.
func (s *Scheduler) RequestTermination() {
	if s.active.Load() != nil {
		s.terminate.Store(true)
	}
}

// Terminate ends the operation in flight and reports completion. The active
// protocol's low power hook runs first. Completion is reported even when no
// operation is in flight.
func (s *Scheduler) Terminate() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if s.complete == nil {
		return ErrNoCompletionHandler
	}

	id := ProtocolNone
	if cur := s.active.Load(); cur != nil {
		id = cur.op.Protocol()
		if lowPower := s.slots[id].lowPower; lowPower != nil {
			lowPower()
		}
	}
	s.active.Store(nil)
	s.terminate.Store(true)
	s.metrics.OperationTerminated(id)

	s.complete()
	return nil
}
