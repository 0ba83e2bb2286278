package utils

import (
	"context"
	"sync"
	"time"

	"boss-challenge-bot/model"
)

// Locker serializes submissions per key. TryLock never blocks: a held key
// returns model.ErrLockHeld.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), err error)
}

// SubmissionKey is the lock key of one user's submissions in a guild.
func SubmissionKey(guildID, userID string) string {
	return "submit:" + guildID + ":" + userID
}

// MemoryLocker is the in-process Locker. Entries expire after ttl so a
// stuck workflow cannot block a user forever.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &MemoryLocker{locks: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if acquired, ok := l.locks[key]; ok && now.Sub(acquired) < l.ttl {
		return nil, model.ErrLockHeld
	}
	l.locks[key] = now

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.locks[key].Equal(now) {
				delete(l.locks, key)
			}
		})
	}, nil
}
