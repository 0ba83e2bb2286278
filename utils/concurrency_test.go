package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"boss-challenge-bot/model"
)

func TestMemoryLockerExcludesSameKey(t *testing.T) {
	l := NewMemoryLocker(time.Minute)
	ctx := context.Background()
	key := SubmissionKey("g", "u")

	release, err := l.TryLock(ctx, key)
	if err != nil {
		t.Fatalf("first TryLock: %v", err)
	}
	if _, err := l.TryLock(ctx, key); !errors.Is(err, model.ErrLockHeld) {
		t.Fatalf("second TryLock err = %v, want ErrLockHeld", err)
	}
	if r, err := l.TryLock(ctx, SubmissionKey("g", "other")); err != nil {
		t.Fatalf("other key: %v", err)
	} else {
		r()
	}

	release()
	release()
	again, err := l.TryLock(ctx, key)
	if err != nil {
		t.Fatalf("TryLock after release: %v", err)
	}
	again()
}

func TestMemoryLockerExpires(t *testing.T) {
	l := NewMemoryLocker(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	stale, err := l.TryLock(ctx, "k")
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	now = now.Add(2 * time.Minute)
	fresh, err := l.TryLock(ctx, "k")
	if err != nil {
		t.Fatalf("TryLock after expiry: %v", err)
	}

	// releasing the expired holder must not free the new one
	stale()
	if _, err := l.TryLock(ctx, "k"); !errors.Is(err, model.ErrLockHeld) {
		t.Fatalf("err = %v, want ErrLockHeld", err)
	}
	fresh()
}
