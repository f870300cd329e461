package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaLimiterDailyLimit(t *testing.T) {
	l := NewQuotaLimiter(2, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.WaitAndReserve(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 0, l.Remaining())

	ok, err := l.WaitAndReserve(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuotaLimiterResetsEachDay(t *testing.T) {
	l := NewQuotaLimiter(1, 0)
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return day }

	ok, _ := l.WaitAndReserve(context.Background())
	assert.True(t, ok)
	ok, _ = l.WaitAndReserve(context.Background())
	assert.False(t, ok)

	day = day.Add(24 * time.Hour)
	assert.Equal(t, 1, l.Remaining())
	ok, _ = l.WaitAndReserve(context.Background())
	assert.True(t, ok)
}

func TestQuotaLimiterPacing(t *testing.T) {
	// 1200 per minute is one call every 50ms
	l := NewQuotaLimiter(0, 1200)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		ok, err := l.WaitAndReserve(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, -1, l.Remaining())
}

func TestQuotaLimiterHonoursContext(t *testing.T) {
	l := NewQuotaLimiter(0, 1)
	ok, err := l.WaitAndReserve(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ok, err = l.WaitAndReserve(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNilQuotaLimiterAllowsEverything(t *testing.T) {
	var l *QuotaLimiter
	ok, err := l.WaitAndReserve(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}
