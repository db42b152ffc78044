package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/procurement-server/internal/budget"
	"github.com/godilite/procurement-server/internal/rates"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (rates.RateTable, error) {
	f.calls.Add(1)
	if f.err != nil {
		return rates.RateTable{}, f.err
	}
	return rates.RateTable{Reference: "TRY", Rates: budget.RateTable{"TRY": 1, "USD": 32}, Source: rates.SourceLive}, nil
}

type fakePurger struct {
	n   int64
	err error
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) { return f.n, f.err }

type fakePruner struct {
	PruneRateSnapshotsFunc func(ctx context.Context, keep int) (int64, error)
}

func (f *fakePruner) PruneRateSnapshots(ctx context.Context, keep int) (int64, error) {
	if f.PruneRateSnapshotsFunc != nil {
		return f.PruneRateSnapshotsFunc(ctx, keep)
	}
	return 0, errors.New("PruneRateSnapshotsFunc not implemented")
}

type blockingJob struct{ started chan struct{} }

func (b *blockingJob) Name() string { return "blocking" }

func (b *blockingJob) Run(ctx context.Context) error {
	close(b.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestRefreshRatesJob(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := &fakeRefresher{}
		job := NewRefreshRatesJob(r, zaptest.NewLogger(t))

		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, int32(1), r.calls.Load())
		assert.Equal(t, "refresh_rates", job.Name())
	})

	t.Run("upstream failure is returned", func(t *testing.T) {
		job := NewRefreshRatesJob(&fakeRefresher{err: rates.ErrUpstream}, nil)

		err := job.Run(context.Background())
		assert.ErrorIs(t, err, rates.ErrUpstream)
	})
}

func TestPurgeDraftsJob(t *testing.T) {
	job := NewPurgeDraftsJob(&fakePurger{n: 3}, zaptest.NewLogger(t))
	assert.NoError(t, job.Run(context.Background()))

	boom := errors.New("database is locked")
	job = NewPurgeDraftsJob(&fakePurger{err: boom}, nil)
	assert.ErrorIs(t, job.Run(context.Background()), boom)
}

func TestPruneRateSnapshotsJob(t *testing.T) {
	tests := []struct {
		name    string
		n       int64
		err     error
		wantErr bool
	}{
		{name: "rows pruned", n: 12},
		{name: "nothing to prune", n: 0},
		{name: "store error is returned", err: errors.New("database is locked"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotKeep int
			pruner := &fakePruner{
				PruneRateSnapshotsFunc: func(ctx context.Context, keep int) (int64, error) {
					gotKeep = keep
					return tt.n, tt.err
				},
			}
			job := NewPruneRateSnapshotsJob(pruner, 48, zaptest.NewLogger(t))

			err := job.Run(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 48, gotKeep)
			assert.Equal(t, "prune_rate_snapshots", job.Name())
		})
	}
}

func TestScheduler(t *testing.T) {
	t.Run("rejects invalid schedule", func(t *testing.T) {
		s := New(zaptest.NewLogger(t))
		err := s.AddJob("every now and then", NewRefreshRatesJob(&fakeRefresher{}, nil))
		assert.Error(t, err)
	})

	t.Run("runs registered jobs", func(t *testing.T) {
		r := &fakeRefresher{}
		s := New(zaptest.NewLogger(t))
		require.NoError(t, s.AddJob("@every 1s", NewRefreshRatesJob(r, nil)))

		s.Start()
		defer s.Stop()

		assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("run now applies the job timeout", func(t *testing.T) {
		s := New(zaptest.NewLogger(t), WithJobTimeout(20*time.Millisecond))
		job := &blockingJob{started: make(chan struct{})}

		err := s.RunNow(job)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("stop cancels running jobs", func(t *testing.T) {
		s := New(zaptest.NewLogger(t), WithJobTimeout(time.Hour))
		job := &blockingJob{started: make(chan struct{})}

		done := make(chan error, 1)
		go func() { done <- s.RunNow(job) }()
		<-job.started
		s.Stop()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("job was not cancelled")
		}
	})
}
