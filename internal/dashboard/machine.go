// Package dashboard holds the daily plan lifecycle and the user's
// standing (streak, points, achievements).
package dashboard

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidTransition is returned when an event is not allowed in the
// current state.
var ErrInvalidTransition = errors.New("invalid transition")

type State int

const (
	// Idle has no plan on screen.
	Idle State = iota
	// Running is waiting for the plan service.
	Running
	// Showing displays a plan awaiting the user's verdict.
	Showing
	// Stored has a plan the user accepted or skipped.
	Stored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Showing:
		return "showing"
	case Stored:
		return "stored"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Event int

const (
	Generate Event = iota
	Generated
	Failed
	Accept
	Skip
	Modify
	// RestoreFresh restores a saved plan not yet accepted today.
	RestoreFresh
	// RestoreAccepted restores a saved plan accepted today.
	RestoreAccepted
)

func (e Event) String() string {
	switch e {
	case Generate:
		return "generate"
	case Generated:
		return "generated"
	case Failed:
		return "failed"
	case Accept:
		return "accept"
	case Skip:
		return "skip"
	case Modify:
		return "modify"
	case RestoreFresh, RestoreAccepted:
		return "restore"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Restore picks the restore event for a saved plan.
func Restore(acceptedToday bool) Event {
	if acceptedToday {
		return RestoreAccepted
	}
	return RestoreFresh
}

type transition struct {
	from  State
	event Event
}

var transitions = map[transition]State{
	{Idle, Generate}:        Running,
	{Running, Generated}:    Showing,
	{Running, Failed}:       Idle,
	{Showing, Accept}:       Stored,
	{Showing, Skip}:         Stored,
	{Showing, Modify}:       Idle,
	{Idle, RestoreFresh}:    Showing,
	{Idle, RestoreAccepted}: Stored,
}

// Machine tracks the dashboard's lifecycle state. It is safe for
// concurrent use.
type Machine struct {
	mu    sync.Mutex
	state State
}

func NewMachine() *Machine {
	return &Machine{state: Idle}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Fire applies ev. Disallowed events leave the state unchanged and
// return ErrInvalidTransition.
func (m *Machine) Fire(ev Event) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := transitions[transition{m.state, ev}]
	if !ok {
		return m.state, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, m.state)
	}
	m.state = next
	return next, nil
}

// Can reports whether ev is allowed in the current state.
func (m *Machine) Can(ev Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := transitions[transition{m.state, ev}]
	return ok
}
