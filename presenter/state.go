package presenter

import (
	"fmt"

	"github.com/triskis777/ketaverso-bot/psychonautwiki/entities"
)

// State is one (record, index) position of the interactive ROA view. It is a value: Select returns a new State.
type State struct {
	record entities.Substance
	index  int
}

// NewState enters the initial state at index 0. Records without ROAs never enter the state machine.
func NewState(record entities.Substance) (State, error) {
	if len(record.Roas) == 0 {
		return State{}, ErrNoROAs
	}
	return State{record: record, index: 0}, nil
}

// Select moves to ROA j
func (s State) Select(j int) (State, error) {
	if j < 0 || j >= len(s.record.Roas) {
		return s, fmt.Errorf("%w: %d not in [0, %d)", ErrROAIndexOutOfRange, j, len(s.record.Roas))
	}
	return State{record: s.record, index: j}, nil
}

func (s State) Index() int {
	return s.index
}

func (s State) Record() entities.Substance {
	return s.record
}

// Interactive reports whether the record needs navigation controls
func (s State) Interactive() bool {
	return len(s.record.Roas) > 1
}

// View renders the state, with navigation controls when there is more than one ROA
func (p *Presenter) View(s State) View {
	v := p.Render(s.record, s.index)
	if s.Interactive() {
		v.Controls = Controls(s.record, s.index)
	}
	return v
}

// Record renders the first view for a resolved record: the base view without ROAs,
// a static ROA view for exactly one ROA, otherwise the interactive view at index 0.
// The returned State is valid only when ok is true.
func (p *Presenter) Record(record entities.Substance) (v View, state State, ok bool) {
	state, err := NewState(record)
	if err != nil {
		return p.Base(record), State{}, false
	}
	return p.View(state), state, true
}
