package entitystore

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrconsole/internal/domain/skills"
)

// Source fetches the collections of the Entity Store. The local Postgres
// store and the remote REST client both implement it.
type Source interface {
	Employees(ctx context.Context) ([]skills.Employee, error)
	Skills(ctx context.Context) ([]skills.Skill, error)
	Certificates(ctx context.Context) ([]skills.Certificate, error)
	EmployeeSkills(ctx context.Context) ([]skills.EmployeeSkill, error)
	EmployeeCertificates(ctx context.Context) ([]skills.EmployeeCertificate, error)
}

const (
	DefaultRetries         = 2
	DefaultInitialInterval = time.Second
)

// Loader runs the batch fetch. Each source is fetched concurrently and
// retried on timeout; a failing source never cancels the others.
type Loader struct {
	Source  Source
	Logger  *zap.Logger
	Retries uint64
	// AttemptTimeout bounds each single fetch attempt; zero means no bound.
	AttemptTimeout time.Duration
	NewBackOff     func() backoff.BackOff
}

func NewLoader(source Source, logger *zap.Logger, attemptTimeout time.Duration) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Source:         source,
		Logger:         logger.Named("entity_loader"),
		Retries:        DefaultRetries,
		AttemptTimeout: attemptTimeout,
		NewBackOff:     DefaultBackOff,
	}
}

// DefaultBackOff waits 1s then 2s between attempts.
func DefaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = DefaultInitialInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Load fetches all collections. Failed sources are left empty and reported
// in the returned diagnostics.
func (l *Loader) Load(ctx context.Context) (Snapshot, Diagnostics) {
	var (
		snap Snapshot
		errs [5]error
		g    errgroup.Group
	)

	g.Go(func() error {
		snap.Employees, errs[0] = fetch(ctx, l, SourceEmployees, l.Source.Employees)
		return nil
	})
	g.Go(func() error {
		snap.Skills, errs[1] = fetch(ctx, l, SourceSkills, l.Source.Skills)
		return nil
	})
	g.Go(func() error {
		snap.Certificates, errs[2] = fetch(ctx, l, SourceCertificates, l.Source.Certificates)
		return nil
	})
	g.Go(func() error {
		snap.SkillAssignments, errs[3] = fetch(ctx, l, SourceEmployeeSkills, l.Source.EmployeeSkills)
		return nil
	})
	g.Go(func() error {
		snap.CertificateAssignments, errs[4] = fetch(ctx, l, SourceEmployeeCertificates, l.Source.EmployeeCertificates)
		return nil
	})
	_ = g.Wait()

	diag := Diagnostics{}
	for _, err := range errs {
		var le *LoadError
		if errors.As(err, &le) {
			diag[le.Source] = le
		}
	}
	snap.LoadedAt = time.Now().UTC()
	return snap, diag
}

// Refresh reloads store from the source and returns the diagnostics.
func (l *Loader) Refresh(ctx context.Context, store *Store) Diagnostics {
	snap, diag := l.Load(ctx)
	store.Replace(snap, diag)
	if diag.OK() {
		l.Logger.Info("entity store loaded",
			zap.Int("employees", len(snap.Employees)),
			zap.Int("skills", len(snap.Skills)),
			zap.Int("certificates", len(snap.Certificates)),
		)
	} else {
		l.Logger.Warn("entity store partially loaded", zap.Strings("failed", diag.Failed()))
	}
	return diag
}

func fetch[T any](ctx context.Context, l *Loader, source string, fn func(context.Context) ([]T, error)) ([]T, error) {
	var (
		out      []T
		attempts int
	)
	op := func() error {
		attempts++
		attemptCtx, cancel := l.attemptContext(ctx)
		defer cancel()

		items, err := fn(attemptCtx)
		if err == nil {
			out = items
			return nil
		}
		if ctx.Err() == nil && IsTimeout(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		l.Logger.Warn("retrying source",
			zap.String("source", source),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(l.backOff(), l.Retries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		l.Logger.Error("source failed", zap.String("source", source), zap.Int("attempts", attempts), zap.Error(err))
		return nil, &LoadError{Source: source, Attempts: attempts, Err: err}
	}
	return out, nil
}

func (l *Loader) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.AttemptTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.AttemptTimeout)
}

func (l *Loader) backOff() backoff.BackOff {
	if l.NewBackOff == nil {
		return DefaultBackOff()
	}
	return l.NewBackOff()
}
