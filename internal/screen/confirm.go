// Package screen holds the view state shared by the CLI and the web console:
// paginated list screens, create/edit forms and confirmation dialogs.
package screen

import (
	"errors"
	"sync"
)

// ConfirmState is the state of a confirmation dialog
type ConfirmState int

const (
	Closed ConfirmState = iota
	Confirming
	Confirmed
	Cancelled
)

func (s ConfirmState) String() string {
	switch s {
	case Confirming:
		return "confirming"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "closed"
	}
}

var (
	// ErrAlreadyConfirming is returned by Open while another target awaits an answer.
	ErrAlreadyConfirming = errors.New("a confirmation is already pending")
	// ErrNotConfirming is returned by Confirm and Cancel with nothing pending.
	ErrNotConfirming = errors.New("no confirmation is pending")
)

// Confirmation is a modal yes/no question about one target
type Confirmation[T any] struct {
	mu     sync.Mutex
	state  ConfirmState
	target T
}

// Open asks about target.
func (c *Confirmation[T]) Open(target T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Confirming {
		return ErrAlreadyConfirming
	}
	c.state = Confirming
	c.target = target
	return nil
}

// Confirm accepts the pending question and returns its target.
func (c *Confirmation[T]) Confirm() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Confirming {
		var zero T
		return zero, ErrNotConfirming
	}
	c.state = Confirmed
	return c.target, nil
}

// Cancel rejects the pending question.
func (c *Confirmation[T]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Confirming {
		return ErrNotConfirming
	}
	c.state = Cancelled
	return nil
}

// State returns the current state.
func (c *Confirmation[T]) State() ConfirmState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Target returns the target while a question is pending.
func (c *Confirmation[T]) Target() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Confirming {
		var zero T
		return zero, false
	}
	return c.target, true
}
