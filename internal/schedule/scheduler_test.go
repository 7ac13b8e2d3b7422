package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	block chan struct{}
	err   error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return j.err
}

func TestAddRejectsBadSpecAndDuplicates(t *testing.T) {
	s := New()
	job := &countingJob{name: "probe"}

	require.Error(t, s.Add("every minute", job))
	require.NoError(t, s.Add("*/5 * * * *", job))
	require.Error(t, s.Add("*/10 * * * *", job))
	require.Equal(t, 1, s.Len())
}

func TestGuardSkipsOverlappingRuns(t *testing.T) {
	s := New()
	job := &countingJob{name: "slow", block: make(chan struct{})}
	run := s.guard(job)

	done := make(chan struct{})
	go func() {
		run()
		close(done)
	}()
	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	run()
	require.Equal(t, int32(1), job.runs.Load())

	close(job.block)
	<-done
	run()
	require.Equal(t, int32(2), job.runs.Load())
}

func TestGuardSurvivesJobError(t *testing.T) {
	s := New()
	job := &countingJob{name: "failing", err: errors.New("boom")}
	run := s.guard(job)
	run()
	run()
	require.Equal(t, int32(2), job.runs.Load())
}

func TestStopCancelsRunContext(t *testing.T) {
	s := New()
	s.Start(context.Background())
	ctx := s.runContext()
	s.Stop()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
