package sync

import (
	"testing"
	"time"
)

func TestLock_SecondAcquireRefusedWhileRunning(t *testing.T) {
	l := NewLock(time.Minute)

	ok, _ := l.TryAcquire()
	if !ok {
		t.Fatal("first acquire must succeed")
	}
	if ok, _ := l.TryAcquire(); ok {
		t.Fatal("second acquire must fail while in flight")
	}
	if !l.Busy() {
		t.Fatal("expected busy")
	}
}

func TestLock_CooldownOutlivesRelease(t *testing.T) {
	l := NewLock(time.Minute)

	if ok, _ := l.TryAcquire(); !ok {
		t.Fatal("first acquire must succeed")
	}
	l.Release()

	if l.Busy() {
		t.Fatal("expected not busy after release")
	}
	ok, wait := l.TryAcquire()
	if ok {
		t.Fatal("acquire inside cooldown must fail")
	}
	if wait <= 0 || wait > time.Minute {
		t.Fatalf("unexpected remaining cooldown %s", wait)
	}
}

func TestLock_AcquireAfterCooldown(t *testing.T) {
	l := NewLock(10 * time.Millisecond)

	if ok, _ := l.TryAcquire(); !ok {
		t.Fatal("first acquire must succeed")
	}
	l.Release()

	time.Sleep(20 * time.Millisecond)
	if ok, _ := l.TryAcquire(); !ok {
		t.Fatal("acquire after cooldown must succeed")
	}
}

func TestLock_CooldownRemaining(t *testing.T) {
	l := NewLock(time.Minute)
	if l.CooldownRemaining() != 0 {
		t.Fatal("expected no cooldown before the first sync")
	}

	l.TryAcquire()
	l.Release()

	remaining := l.CooldownRemaining()
	if remaining <= 0 || remaining > time.Minute {
		t.Fatalf("unexpected cooldown remaining %s", remaining)
	}
}

func TestLock_ZeroCooldownUsesDefault(t *testing.T) {
	l := NewLock(0)
	if l.cooldown != DefaultCooldown {
		t.Fatalf("expected default cooldown, got %s", l.cooldown)
	}
}
