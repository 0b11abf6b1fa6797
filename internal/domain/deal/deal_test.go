package deal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusShipped, StatusCompleted, StatusDisputed, StatusCancelled}

	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusShipped: true, StatusCancelled: true, StatusDisputed: true},
		StatusShipped:   {StatusCompleted: true, StatusDisputed: true, StatusCancelled: true},
		StatusCompleted: {StatusDisputed: true},
		StatusDisputed:  {},
		StatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(from, to)
			want := allowed[from][to]
			assert.Equal(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(Status("refunded"), StatusCompleted))
	assert.False(t, CanTransition(StatusPending, Status("refunded")))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "shipped", "completed", "disputed", "cancelled"} {
		got, ok := ParseStatus(s)
		require.True(t, ok, s)
		assert.Equal(t, Status(s), got)
	}

	_, ok := ParseStatus("PENDING")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestApplyTransition(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("stamps exactly one timestamp per step", func(t *testing.T) {
		d := SafeDeal{Status: StatusPending}

		require.True(t, d.ApplyTransition(StatusShipped, now))
		require.NotNil(t, d.ShippedAt)
		assert.Equal(t, now, *d.ShippedAt)
		assert.Nil(t, d.CompletedAt)
		assert.Nil(t, d.DisputedAt)

		later := now.Add(time.Hour)
		require.True(t, d.ApplyTransition(StatusCompleted, later))
		require.NotNil(t, d.CompletedAt)
		assert.Equal(t, later, *d.CompletedAt)
		assert.Equal(t, now, *d.ShippedAt)
	})

	t.Run("cancellation stamps nothing", func(t *testing.T) {
		d := SafeDeal{Status: StatusPending}

		require.True(t, d.ApplyTransition(StatusCancelled, now))
		assert.Equal(t, StatusCancelled, d.Status)
		assert.Nil(t, d.ShippedAt)
		assert.Nil(t, d.CompletedAt)
		assert.Nil(t, d.DisputedAt)
	})

	t.Run("disallowed transition mutates nothing", func(t *testing.T) {
		d := SafeDeal{Status: StatusCancelled}

		require.False(t, d.ApplyTransition(StatusShipped, now))
		assert.Equal(t, StatusCancelled, d.Status)
		assert.Nil(t, d.ShippedAt)
	})
}

func TestTimestampColumn(t *testing.T) {
	assert.Equal(t, "shipped_at", TimestampColumn(StatusShipped))
	assert.Equal(t, "completed_at", TimestampColumn(StatusCompleted))
	assert.Equal(t, "disputed_at", TimestampColumn(StatusDisputed))
	assert.Equal(t, "", TimestampColumn(StatusCancelled))
	assert.Equal(t, "", TimestampColumn(StatusPending))
}
