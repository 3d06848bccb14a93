package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedule_OnlyLastRuns(t *testing.T) {
	d := New(30 * time.Millisecond)

	var last atomic.Int32
	var runs atomic.Int32
	done := make(chan struct{}, 1)

	for i := int32(1); i <= 5; i++ {
		n := i
		d.Schedule(func() {
			last.Store(n)
			runs.Add(1)
			done <- struct{}{}
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last = %d, want 5", got)
	}
}

func TestSchedule_ZeroDelayIsSynchronous(t *testing.T) {
	d := New(0)
	ran := false
	d.Schedule(func() { ran = true })
	if !ran {
		t.Error("zero delay should run inline")
	}
}

func TestCancel(t *testing.T) {
	d := New(20 * time.Millisecond)
	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })

	if !d.Cancel() {
		t.Error("Cancel() = false, want true with a pending call")
	}
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != 0 {
		t.Error("cancelled call ran")
	}
	if d.Cancel() {
		t.Error("Cancel() = true with nothing pending")
	}
}
