package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memoryRuns struct {
	mu   sync.Mutex
	runs map[string]Run
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: map[string]Run{}}
}

func (m *memoryRuns) Create(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *memoryRuns) Finish(_ context.Context, id, status string, details []byte, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	run.Status, run.Details, run.Error, run.CompletedAt = status, details, errMsg, &now
	m.runs[id] = run
	return nil
}

func (m *memoryRuns) Get(_ context.Context, id string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func TestRunNowRecordsResult(t *testing.T) {
	store := newMemoryRuns()
	svc := New(store, zaptest.NewLogger(t))

	out, err := svc.RunNow(context.Background(), JobSkillsImport, "u1", func(context.Context) (any, error) {
		return map[string]int{"rows": 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"rows": 3}, out)

	require.Len(t, store.runs, 1)
	for _, run := range store.runs {
		assert.Equal(t, StatusCompleted, run.Status)
		assert.JSONEq(t, `{"rows":3}`, string(run.Details))
	}
}

func TestEnqueueRunsOnWorker(t *testing.T) {
	store := newMemoryRuns()
	svc := New(store, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	defer func() {
		cancel()
		svc.Wait()
	}()

	id, err := svc.Enqueue(ctx, JobSkillsImport, "u1", func(context.Context) (any, error) {
		return nil, errors.New("bad workbook")
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		run, err := svc.Get(ctx, id)
		return err == nil && run.Status == StatusFailed
	}, time.Second, 5*time.Millisecond)

	run, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bad workbook", run.Error)
	assert.Equal(t, "u1", run.CreatedBy)
}

func TestEnqueueQueueFull(t *testing.T) {
	store := newMemoryRuns()
	svc := New(store, zaptest.NewLogger(t))
	svc.queue = make(chan job)

	_, err := svc.Enqueue(context.Background(), JobStoreRefresh, "", func(context.Context) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestGetUnknown(t *testing.T) {
	svc := New(newMemoryRuns(), zaptest.NewLogger(t))
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleStopsWithContext(t *testing.T) {
	store := newMemoryRuns()
	svc := New(store, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	var mu sync.Mutex
	count := 0
	svc.Schedule(ctx, 5*time.Millisecond, JobStoreRefresh, func(context.Context) (any, error) {
		mu.Lock()
		count++
		mu.Unlock()
		return nil, nil
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	svc.Wait()
}
