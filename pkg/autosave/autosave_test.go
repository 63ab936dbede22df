package autosave

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/observability"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	for range 5 {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerFlush(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Hour, func() { calls.Add(1) })

	assert.False(t, d.Flush())
	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSaverRecordsOutcome(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	fail := true
	var seen []error

	s := NewSaver(time.Hour, func() error {
		if fail {
			return errors.New("disk full")
		}
		return nil
	}, WithMetrics(metrics), OnSaved(func(err error) { seen = append(seen, err) }))

	s.Schedule()
	require.EqualError(t, s.Flush(), "disk full")
	assert.Equal(t, 0, s.Saves())
	assert.False(t, s.Pending(), "failed saves are not retried")

	fail = false
	s.Schedule()
	require.NoError(t, s.Flush())
	assert.Equal(t, 1, s.Saves())
	assert.False(t, s.LastSaved().IsZero())

	assert.Len(t, seen, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Autosaves.WithLabelValues(observability.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Autosaves.WithLabelValues(observability.OutcomeSuccess)))
}

func TestSaverFiresAfterDelay(t *testing.T) {
	var calls atomic.Int32
	s := NewSaver(10*time.Millisecond, func() error {
		calls.Add(1)
		return nil
	})
	defer s.Stop()

	s.Schedule()
	s.Schedule()
	assert.Eventually(t, func() bool { return s.Saves() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncerCancelKeepsItUsable(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Hour, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())

	d.Trigger()
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
}
