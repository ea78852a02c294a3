package pipeline

import "sync/atomic"

// State is the process-wide control state shared by the controller and the
// dispatcher. The halt flag is set once after a fatal session error under the
// halt policy and is never cleared within a run.
type State struct {
	halted atomic.Bool
}

// NewState returns a state with the halt flag cleared.
func NewState() *State {
	return &State{}
}

// Halt sets the halt flag.
func (s *State) Halt() {
	s.halted.Store(true)
}

// Halted reports whether processing has been halted.
func (s *State) Halted() bool {
	return s.halted.Load()
}
