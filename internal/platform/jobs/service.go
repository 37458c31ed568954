package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	JobSkillsImport = "skills_import"
	JobStoreRefresh = "entity_store_refresh"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	ErrQueueFull = errors.New("job queue full")
	ErrNotFound  = errors.New("job not found")
)

type Run struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type RunStore interface {
	Create(ctx context.Context, run Run) error
	Finish(ctx context.Context, id, status string, details []byte, errMsg string) error
	Get(ctx context.Context, id string) (Run, error)
}

type Func func(context.Context) (any, error)

type job struct {
	ID   string
	Type string
	Run  Func
}

// Service runs background jobs on a single worker and records each run.
type Service struct {
	Store  RunStore
	Logger *zap.Logger
	queue  chan job
	wg     sync.WaitGroup
}

func New(store RunStore, logger *zap.Logger) *Service {
	return &Service{
		Store:  store,
		Logger: logger.Named("jobs"),
		queue:  make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
}

// Wait blocks until the worker and schedulers have stopped.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Enqueue records a queued run and hands it to the worker.
func (s *Service) Enqueue(ctx context.Context, jobType, createdBy string, run Func) (string, error) {
	id := uuid.NewString()
	if err := s.Store.Create(ctx, Run{ID: id, Type: jobType, Status: StatusQueued, CreatedBy: createdBy, CreatedAt: time.Now().UTC()}); err != nil {
		return "", err
	}
	select {
	case s.queue <- job{ID: id, Type: jobType, Run: run}:
		return id, nil
	default:
		s.Logger.Warn("job queue full", zap.String("job_type", jobType))
		_ = s.Store.Finish(ctx, id, StatusFailed, nil, ErrQueueFull.Error())
		return "", ErrQueueFull
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, createdBy string, run Func) (any, error) {
	id := uuid.NewString()
	if err := s.Store.Create(ctx, Run{ID: id, Type: jobType, Status: StatusRunning, CreatedBy: createdBy, CreatedAt: time.Now().UTC()}); err != nil {
		s.Logger.Warn("job run insert failed", zap.Error(err))
	}
	return s.runJob(ctx, job{ID: id, Type: jobType, Run: run})
}

func (s *Service) Get(ctx context.Context, id string) (Run, error) {
	return s.Store.Get(ctx, id)
}

// Schedule enqueues run every interval until ctx is done.
func (s *Service) Schedule(ctx context.Context, interval time.Duration, jobType string, run Func) {
	if interval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Enqueue(ctx, jobType, "scheduler", run); err != nil {
					s.Logger.Warn("scheduled job not queued", zap.String("job_type", jobType), zap.Error(err))
				}
			}
		}
	}()
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.Logger.Warn("job run failed", zap.String("job_type", j.Type), zap.String("job_id", j.ID), zap.Error(err))
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	details, err := j.Run(ctx)
	status := StatusCompleted
	errMsg := ""
	if err != nil {
		status = StatusFailed
		errMsg = err.Error()
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.Logger.Warn("job details marshal failed", zap.Error(marshalErr))
		detailsJSON = []byte("{}")
	}
	if updErr := s.Store.Finish(ctx, j.ID, status, detailsJSON, errMsg); updErr != nil {
		s.Logger.Warn("job run update failed", zap.Error(updErr))
	}
	return details, err
}
