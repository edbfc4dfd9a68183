package publisher

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "caseflow/pkg/platform/audit"
	"caseflow/pkg/platform/audit/store/memory"
)

func TestSamplerKeep(t *testing.T) {
	ignored := audit.Event{Category: audit.CategoryOperations, Reason: "resource_not_status"}
	delivered := audit.Event{Category: audit.CategoryCompliance}

	t.Run("nil sampler keeps everything", func(t *testing.T) {
		var s *Sampler
		assert.True(t, s.Keep(ignored))
	})

	t.Run("compliance events are never sampled", func(t *testing.T) {
		s := NewSampler(0)
		assert.True(t, s.Keep(delivered))
		assert.False(t, s.Keep(ignored))
	})

	t.Run("reason override and roll", func(t *testing.T) {
		s := NewSampler(1)
		s.SetReasonRate("resource_not_status", 0.25)
		s.roll = func() float64 { return 0.2 }
		assert.True(t, s.Keep(ignored))
		s.roll = func() float64 { return 0.3 }
		assert.False(t, s.Keep(ignored))
		assert.True(t, s.Keep(audit.Event{Category: audit.CategoryOperations, Reason: "no_roles"}))
	})

	t.Run("rates are clamped", func(t *testing.T) {
		assert.Equal(t, 1.0, NewSampler(3).defaultRate)
		assert.Equal(t, 0.0, NewSampler(-1).defaultRate)
	})
}

func TestPublisher_SamplesOperationsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithSampler(NewSampler(0)), WithMetrics(m))

	userID := uuid.New()
	ctx := context.Background()
	require.NoError(t, pub.Emit(ctx, audit.Event{UserID: userID, Action: string(audit.EventNotificationDelivered)}))
	require.NoError(t, pub.Emit(ctx, audit.Event{UserID: userID, Action: string(audit.EventNotificationDuplicate)}))

	events, err := pub.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventNotificationDelivered), events[0].Action)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.Written.WithLabelValues(string(audit.CategoryCompliance))))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Sampled))
}
