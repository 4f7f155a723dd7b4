package circuit

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return errBoom }); !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d: expected boom, got %v", i, err)
		}
	}

	if b.State() != StateOpen {
		t.Fatalf("expected open state, got %v", b.State())
	}

	ran := false
	err := b.Execute(func() error { ran = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("expected ErrOpen, got %v", err)
	}
	if ran {
		t.Error("action should not run while open")
	}
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	b := New(1, 10*time.Millisecond)

	b.Execute(func() error { return errBoom })
	if b.State() != StateOpen {
		t.Fatal("expected open state")
	}

	time.Sleep(20 * time.Millisecond)

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe should run: %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("expected closed state after probe, got %v", b.State())
	}
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := New(2, time.Minute)

	b.Execute(func() error { return errBoom })
	b.Execute(func() error { return nil })
	b.Execute(func() error { return errBoom })

	if b.State() != StateClosed {
		t.Errorf("one failure after a success should not open, got %v", b.State())
	}
}
