package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh without deadline")
	}
	return r.err
}

func TestStart_ZeroIntervalSchedulesNothing(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 0, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Empty(t, s.scheduler.Jobs())
}

func TestStart_SchedulesRefreshJob(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 30*time.Minute, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Len(t, s.scheduler.Jobs(), 1)
	// The first run waits for the interval.
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestRun_CallsRefreshWithDeadline(t *testing.T) {
	r := &countingRefresher{err: errors.New("boom")}
	s := New(r, time.Minute, zerolog.Nop())

	s.run()
	assert.Equal(t, int32(1), r.calls.Load())
}
