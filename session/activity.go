package session

import "github.com/jrsteele09/go-crypto-dash/internal/metrics"

// Activity records user input (pointer movement, key press). While
// authenticated it restarts the inactivity window; otherwise it does nothing.
func (s *Store) Activity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.IsAuthenticated() {
		s.armLocked()
	}
}

// armLocked (re)starts the inactivity timer. Caller holds s.mu.
func (s *Store) armLocked() {
	s.disarmLocked()
	if s.inactivity <= 0 || s.closed {
		return
	}
	gen := s.timerGen
	s.timer = s.afterFunc(s.inactivity, func() {
		s.onInactive(gen)
	})
}

// disarmLocked stops the timer; any callback already running sees a newer
// generation and returns. Caller holds s.mu.
func (s *Store) disarmLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) onInactive(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || !s.session.IsAuthenticated() {
		s.mu.Unlock()
		return
	}
	s.logger.Info().Dur("window", s.inactivity).Msg("inactivity timeout reached")
	s.clearLocked()
	s.mu.Unlock()
	s.finishLogout(metrics.ReasonInactivity, true)
}
