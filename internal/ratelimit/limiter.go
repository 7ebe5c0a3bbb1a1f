package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter bounds both the admission rate and the number of in-flight calls
// against the places provider. Tasks run on the caller's goroutine once a
// slot and a token have been acquired; a task's error propagates to the
// caller unchanged.
type Limiter struct {
	limiter *rate.Limiter
	slots   chan struct{}

	mu      sync.Mutex
	waiting int
	active  int
}

// Stats is a point-in-time observability snapshot of the limiter.
type Stats struct {
	QueueLength    int  `json:"queue_length"`
	ActiveRequests int  `json:"active_requests"`
	Busy           bool `json:"busy"`
}

// New creates a limiter admitting at most requestsPerSecond calls per second
// with at most maxConcurrent in flight.
func New(requestsPerSecond float64, maxConcurrent int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		slots:   make(chan struct{}, maxConcurrent),
	}
}

// Execute runs task once a concurrency slot and a rate token are available.
// The slot is released on every exit path, including panics inside task.
func (l *Limiter) Execute(ctx context.Context, task func() error) error {
	l.mu.Lock()
	l.waiting++
	l.mu.Unlock()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		l.mu.Lock()
		l.waiting--
		l.mu.Unlock()
		return ctx.Err()
	}

	l.mu.Lock()
	l.waiting--
	l.active++
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.active--
		l.mu.Unlock()
		<-l.slots
	}()

	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}

	return task()
}

// Stats returns the current queue length, active count and busy flag.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		QueueLength:    l.waiting,
		ActiveRequests: l.active,
		Busy:           l.waiting > 0 || l.active >= cap(l.slots),
	}
}
