package sync

import (
	stdsync "sync"
	"time"
)

const DefaultCooldown = 5 * time.Minute

// Lock serializes externally triggered syncs. At most one sync runs at a
// time, and after one starts no new trigger is accepted until the
// cooldown window has passed. In-process only; multi-instance
// deployments need coordination this does not provide.
type Lock struct {
	mu        stdsync.Mutex
	inFlight  bool
	lastStart time.Time
	cooldown  time.Duration
}

func NewLock(cooldown time.Duration) *Lock {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Lock{cooldown: cooldown}
}

// TryAcquire claims the lock. Returns false, with the remaining wait,
// when a sync is in flight or the cooldown since the last start has not
// elapsed.
func (l *Lock) TryAcquire() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inFlight {
		return false, l.cooldown - time.Since(l.lastStart)
	}
	if remaining := l.cooldown - time.Since(l.lastStart); !l.lastStart.IsZero() && remaining > 0 {
		return false, remaining
	}

	l.inFlight = true
	l.lastStart = time.Now()
	return true, 0
}

// Release clears the in-flight flag. The cooldown keeps running from the
// start time, not from release.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
}

// Busy reports whether a sync is currently running.
func (l *Lock) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// CooldownRemaining returns how long until the next trigger would be
// accepted, zero once the window has passed.
func (l *Lock) CooldownRemaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastStart.IsZero() {
		return 0
	}
	if remaining := l.cooldown - time.Since(l.lastStart); remaining > 0 {
		return remaining
	}
	return 0
}

// LastStart returns when the most recent sync began.
func (l *Lock) LastStart() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastStart
}
