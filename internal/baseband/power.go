package baseband

import "fmt"

// Start takes a reference on the radio for id. The radio is powered and id
// becomes active only when no protocol is active; a Start for a different
// protocol while one is active only counts.
func (s *Scheduler) Start(id ProtocolID) error {
	if err := s.registered(id); err != nil {
		return err
	}
	if !s.radioStarted {
		s.radio.Enable()
		s.metrics.RadioPowered(true)
		s.activate(ProtocolNone, id)
	} else if s.activeProtocol != id {
		s.logger.Debug().
			Stringer("protocol", id).
			Stringer("active", s.activeProtocol).
			Msg("start counted; other protocol holds the radio")
	}
	sl := &s.slots[id]
	sl.startCount++
	s.metrics.StartCountChanged(id, sl.startCount)
	return nil
}

// Stop releases one reference taken by Start. The final release of the active
// protocol stops it and disables the radio.
func (s *Scheduler) Stop(id ProtocolID) error {
	if err := s.registered(id); err != nil {
		return err
	}
	sl := &s.slots[id]
	if sl.startCount == 0 {
		return fmt.Errorf("%w: %s", ErrStopWithoutStart, id)
	}
	sl.startCount--
	s.metrics.StartCountChanged(id, sl.startCount)

	if s.radioStarted && s.activeProtocol == id && sl.startCount == 0 {
		sl.funcs.Stop()
		s.radioStarted = false
		s.radio.Disable()
		s.metrics.RadioPowered(false)
		s.logger.Debug().Stringer("protocol", id).Msg("protocol stopped")
	}
	return nil
}

// activate selects id on the backend and runs its start handle.
func (s *Scheduler) activate(from, id ProtocolID) {
	s.activeProtocol = id
	s.radioStarted = true
	s.radio.SetActiveProtocol(uint8(id))
	s.slots[id].funcs.Start()
	s.metrics.ProtocolSwitched(from, id)
	s.logger.Debug().Stringer("protocol", id).Msg("protocol started")
}
