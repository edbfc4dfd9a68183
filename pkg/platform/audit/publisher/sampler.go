package publisher

import (
	"math/rand/v2"
	"sync"

	audit "caseflow/pkg/platform/audit"
)

// Sampler thins out operations events. Webhooks for non-status resources
// arrive for every case change, so their ignored events can be kept at a
// fraction. Compliance events are never sampled.
type Sampler struct {
	mu           sync.RWMutex
	defaultRate  float64
	rateByReason map[string]float64
	roll         func() float64
}

// NewSampler keeps operations events with probability defaultRate, clamped
// to [0, 1].
func NewSampler(defaultRate float64) *Sampler {
	return &Sampler{
		defaultRate:  clampRate(defaultRate),
		rateByReason: make(map[string]float64),
		roll:         rand.Float64, //nolint:gosec // sampling doesn't need crypto rand
	}
}

// SetReasonRate overrides the rate for events carrying reason.
func (s *Sampler) SetReasonRate(reason string, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByReason[reason] = clampRate(rate)
}

// Keep reports whether event should be written. A nil Sampler keeps all.
func (s *Sampler) Keep(event audit.Event) bool {
	if s == nil || event.Category == audit.CategoryCompliance {
		return true
	}
	rate := s.rateFor(event.Reason)
	switch rate {
	case 0:
		return false
	case 1:
		return true
	}
	return s.roll() < rate
}

func (s *Sampler) rateFor(reason string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rate, ok := s.rateByReason[reason]; ok {
		return rate
	}
	return s.defaultRate
}

func clampRate(rate float64) float64 {
	return min(max(rate, 0), 1)
}
