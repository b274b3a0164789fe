package router

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing, rejecting requests
	CircuitHalfOpen                     // Testing if recovered
)

const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second
)

var ErrUnavailable = errors.New("all providers are unavailable")

// ProviderStats tracks health and latency of a single provider
type ProviderStats struct {
	mu sync.RWMutex

	avgLatency    time.Duration
	totalRequests int64
	totalFailures int64

	inflight atomic.Int64

	state               CircuitState
	consecutiveFailures int
	lastFailure         time.Time
}

func NewProviderStats() *ProviderStats {
	return &ProviderStats{
		state: CircuitClosed,

		// initial estimate, image generation takes seconds
		avgLatency: 10 * time.Second,
	}
}

// IsAvailable reports whether the provider may take a request.
// An open circuit turns half-open once the recovery timeout has passed.
func (s *ProviderStats) IsAvailable(recoveryTimeout time.Duration) bool {
	s.mu.RLock()
	state := s.state
	lastFailure := s.lastFailure
	s.mu.RUnlock()

	switch state {
	case CircuitOpen:
		if time.Since(lastFailure) >= recoveryTimeout {
			s.mu.Lock()
			if s.state == CircuitOpen {
				s.state = CircuitHalfOpen
			}
			s.mu.Unlock()
			return true
		}
		return false

	case CircuitHalfOpen:
		// a single probe at a time
		return s.inflight.Load() == 0

	default:
		return true
	}
}

func (s *ProviderStats) GetMetrics() (state CircuitState, avgLatency time.Duration, totalRequests, totalFailures, inflight int64) {
	s.mu.RLock()
	state = s.state
	avgLatency = s.avgLatency
	totalRequests = s.totalRequests
	totalFailures = s.totalFailures
	s.mu.RUnlock()

	inflight = s.inflight.Load()
	return
}

// RecordSuccess updates the latency average (EMA with weight alpha) and closes a half-open circuit
func (s *ProviderStats) RecordSuccess(latency time.Duration, alpha float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.consecutiveFailures = 0

	if s.totalRequests == 1 {
		s.avgLatency = latency
	} else {
		avg := float64(latency)*alpha + float64(s.avgLatency)*(1-alpha)
		s.avgLatency = time.Duration(avg)
	}

	if s.state == CircuitHalfOpen {
		s.state = CircuitClosed
	}
}

func (s *ProviderStats) RecordFailure(failureThreshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.totalFailures++
	s.consecutiveFailures++
	s.lastFailure = time.Now()

	if s.state == CircuitHalfOpen || s.consecutiveFailures >= failureThreshold {
		s.state = CircuitOpen
	}
}

func (s *ProviderStats) GetLastFailure() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFailure
}

func (s *ProviderStats) SetHalfOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = CircuitHalfOpen
}

func (s *ProviderStats) AddInflight(delta int64) int64 {
	return s.inflight.Add(delta)
}

// Record books the outcome of a call. Caller cancellation says nothing about
// provider health and is ignored.
func (s *ProviderStats) Record(err error, latency time.Duration, alpha float64, failureThreshold int) {
	if err == nil {
		s.RecordSuccess(latency, alpha)
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	s.RecordFailure(failureThreshold)
}

// Fallback returns the least recently failed provider and marks it half-open.
// It is used when every circuit is open.
func Fallback(stats []*ProviderStats) int {
	bestIndex := 0

	var oldestFailure time.Time

	for i, stat := range stats {
		lastFailure := stat.GetLastFailure()

		if i == 0 || lastFailure.Before(oldestFailure) {
			oldestFailure = lastFailure
			bestIndex = i
		}
	}

	stats[bestIndex].SetHalfOpen()

	return bestIndex
}
