package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava enforces 100 requests per 15 minutes and 1000 per day. The
// limiter tracks both windows locally and corrects from response headers.

type window struct {
	limit    int
	usage    int
	resetsAt time.Time
	span     time.Duration
}

func (w *window) resetIfExpired(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = now.Add(w.span)
	}
}

// RateLimiter paces requests to stay inside Strava's API limits.
type RateLimiter struct {
	mu sync.Mutex

	short window
	daily window

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter builds a limiter preloaded with Strava's documented limits.
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short:       window{limit: 100, resetsAt: now.Add(15 * time.Minute), span: 15 * time.Minute},
		daily:       window{limit: 1000, resetsAt: now.Truncate(24 * time.Hour).Add(24 * time.Hour), span: 24 * time.Hour},
		minInterval: 150 * time.Millisecond,
	}
}

// Wait blocks until a request can go out without exceeding either window,
// then records the request. Returns early if ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.short.resetIfExpired(now)
	r.daily.resetIfExpired(now)

	for _, w := range []*window{&r.short, &r.daily} {
		if w.usage >= w.limit {
			if err := r.sleepLocked(ctx, time.Until(w.resetsAt)); err != nil {
				return err
			}
			w.usage = 0
			w.resetsAt = time.Now().Add(w.span)
		}
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleepLocked(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()

	return nil
}

// sleepLocked releases the mutex while sleeping so header updates from
// in-flight responses still land.
func (r *RateLimiter) sleepLocked(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders corrects local counters from Strava's rate limit
// headers, which report both windows as comma-separated pairs.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage = short
		r.daily.usage = daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

func parsePair(v string) (short, daily int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	short, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	daily, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return short, daily, true
}

// Status reports remaining budget in both windows.
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}
