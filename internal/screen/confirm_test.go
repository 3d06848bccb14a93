package screen

import (
	"errors"
	"testing"
)

func TestConfirmation(t *testing.T) {
	var c Confirmation[int64]

	if c.State() != Closed {
		t.Fatalf("initial state = %v", c.State())
	}
	if _, err := c.Confirm(); !errors.Is(err, ErrNotConfirming) {
		t.Errorf("Confirm() while closed error = %v", err)
	}

	if err := c.Open(7); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c.Open(8); !errors.Is(err, ErrAlreadyConfirming) {
		t.Errorf("second Open() error = %v", err)
	}
	if id, ok := c.Target(); !ok || id != 7 {
		t.Errorf("Target() = %d, %v", id, ok)
	}

	id, err := c.Confirm()
	if err != nil || id != 7 {
		t.Fatalf("Confirm() = %d, %v", id, err)
	}
	if c.State() != Confirmed {
		t.Errorf("state = %v, want confirmed", c.State())
	}
	if _, err := c.Confirm(); !errors.Is(err, ErrNotConfirming) {
		t.Errorf("confirming twice error = %v", err)
	}

	if err := c.Open(9); err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if err := c.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if c.State() != Cancelled {
		t.Errorf("state = %v, want cancelled", c.State())
	}
	if _, ok := c.Target(); ok {
		t.Error("Target() after cancel should report nothing pending")
	}
}
