package discord

import (
	"sync"
	"time"
)

// userLimiter allows one call per user per window. It guards the commands
// that fan out to many API requests.
type userLimiter struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func newUserLimiter(window time.Duration) *userLimiter {
	return &userLimiter{next: map[string]time.Time{}, win: window, now: time.Now}
}

// Allow reports whether userID may go ahead now, and how long to wait if not.
func (l *userLimiter) Allow(userID string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[userID]; ok && now.Before(until) {
		return false, until.Sub(now)
	}
	l.next[userID] = now.Add(l.win)
	// drop stale entries so the map does not grow with every user ever seen
	if len(l.next) > 1024 {
		for id, until := range l.next {
			if !now.Before(until) {
				delete(l.next, id)
			}
		}
	}
	return true, 0
}
