package quota

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxQuestions = 3
	DefaultWindow       = 24 * time.Hour
)

// Status is the outcome of a quota evaluation for one session.
type Status struct {
	SessionID      string
	Allowed        bool
	QuestionsAsked int
	Remaining      int
	WindowStart    time.Time
}

// ResetsAt reports when the current window ends.
func (s Status) ResetsAt(window time.Duration) time.Time {
	return s.WindowStart.Add(window)
}

// Tracker enforces "at most Max questions per Window per session".
// The window is wall-clock: it restarts once more than Window has elapsed
// since WindowStart, not at midnight.
type Tracker struct {
	store  QuotaStore
	max    int
	window time.Duration
	now    func() time.Time
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func NewTracker(store QuotaStore, max int, window time.Duration, opts ...Option) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if max <= 0 {
		return nil, fmt.Errorf("max questions must be positive, got %d", max)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	t := &Tracker{
		store:  store,
		max:    max,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Tracker) Max() int {
	return t.max
}

func (t *Tracker) Window() time.Duration {
	return t.window
}

// ResolveSessionID returns the caller's session token from the Authorization
// header, or a fresh random id when there is none.
func ResolveSessionID(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token != "" {
		return token
	}
	return uuid.NewString()
}

// CheckQuota reports whether the session may ask another question. It creates
// the record on first sight and rolls an expired window, but never changes the
// question count.
func (t *Tracker) CheckQuota(ctx context.Context, sessionID string) (Status, error) {
	now := t.now()
	rec, err := t.store.Update(ctx, sessionID, func(rec *SessionRecord, exists bool) {
		t.prepare(rec, exists, now)
	})
	if err != nil {
		return Status{}, fmt.Errorf("failed to check quota for %s: %w", sessionID, err)
	}
	return t.status(rec, rec.QuestionsAsked < t.max), nil
}

// Consume charges one question. A missing record is created first. The count
// is capped at Max.
func (t *Tracker) Consume(ctx context.Context, sessionID string) error {
	now := t.now()
	_, err := t.store.Update(ctx, sessionID, func(rec *SessionRecord, exists bool) {
		t.prepare(rec, exists, now)
		if rec.QuestionsAsked < t.max {
			rec.QuestionsAsked++
		}
	})
	if err != nil {
		return fmt.Errorf("failed to consume quota for %s: %w", sessionID, err)
	}
	return nil
}

// Reserve checks and charges in one atomic step. When allowed, Remaining is
// the allowance left after this question.
func (t *Tracker) Reserve(ctx context.Context, sessionID string) (Status, error) {
	now := t.now()
	allowed := false
	rec, err := t.store.Update(ctx, sessionID, func(rec *SessionRecord, exists bool) {
		allowed = false
		t.prepare(rec, exists, now)
		if rec.QuestionsAsked < t.max {
			rec.QuestionsAsked++
			allowed = true
		}
	})
	if err != nil {
		return Status{}, fmt.Errorf("failed to reserve quota for %s: %w", sessionID, err)
	}
	return t.status(rec, allowed), nil
}

func (t *Tracker) prepare(rec *SessionRecord, exists bool, now time.Time) {
	if !exists {
		rec.QuestionsAsked = 0
		rec.WindowStart = now
		return
	}
	if now.Sub(rec.WindowStart) > t.window {
		rec.QuestionsAsked = 0
		rec.WindowStart = now
	}
}

func (t *Tracker) status(rec SessionRecord, allowed bool) Status {
	remaining := t.max - rec.QuestionsAsked
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		SessionID:      rec.SessionID,
		Allowed:        allowed,
		QuestionsAsked: rec.QuestionsAsked,
		Remaining:      remaining,
		WindowStart:    rec.WindowStart,
	}
}
