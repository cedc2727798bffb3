package alias

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shortenerproject/shortener/internal/metrics"
)

// DefaultMaxAttempts bounds allocation when no limit is configured.
const DefaultMaxAttempts = 16

var (
	// ErrExhausted is returned when every attempt produced a taken alias.
	ErrExhausted = errors.New("alias allocation exhausted")

	// ErrConflict is returned by a commit func when the store rejected the
	// alias as a duplicate. Claim retries with a fresh candidate.
	ErrConflict = errors.New("alias conflict")
)

// Source produces alias candidates.
type Source interface {
	Generate() string
}

// Checker reports whether an alias is already in use.
type Checker interface {
	AliasExists(ctx context.Context, alias string) (bool, error)
}

// CommitFunc persists a record under alias.
type CommitFunc func(ctx context.Context, alias string) error

// Allocator combines a Source with a Checker to hand out unused aliases.
// The store's unique constraint stays authoritative; the existence check
// only avoids obviously doomed writes.
type Allocator struct {
	source      Source
	checker     Checker
	maxAttempts int
	logger      *slog.Logger
	metrics     metrics.Recorder
}

// NewAllocator creates an Allocator. A maxAttempts below 1 selects
// DefaultMaxAttempts.
func NewAllocator(source Source, checker Checker, maxAttempts int, logger *slog.Logger, recorder metrics.Recorder) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Allocator{
		source:      source,
		checker:     checker,
		maxAttempts: maxAttempts,
		logger:      logger,
		metrics:     recorder,
	}
}

// MaxAttempts returns the configured attempt budget.
func (a *Allocator) MaxAttempts() int {
	return a.maxAttempts
}

// Allocate returns an alias that was unused at the time of the check.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	return a.run(ctx, nil)
}

// Claim allocates an alias and hands it to commit. When commit reports
// ErrConflict, a new candidate is drawn from the same attempt budget.
// Any other commit error is returned unchanged.
func (a *Allocator) Claim(ctx context.Context, commit CommitFunc) (string, error) {
	return a.run(ctx, commit)
}

func (a *Allocator) run(ctx context.Context, commit CommitFunc) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := a.source.Generate()

		exists, err := a.checker.AliasExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check alias: %w", err)
		}
		if exists {
			a.collision(ctx, attempt, "exists")
			continue
		}

		if commit == nil {
			return candidate, nil
		}

		err = commit(ctx, candidate)
		if errors.Is(err, ErrConflict) {
			a.collision(ctx, attempt, "unique_violation")
			continue
		}
		if err != nil {
			return "", err
		}
		return candidate, nil
	}

	a.metrics.IncAllocationExhausted()
	a.logger.ErrorContext(ctx, "alias_allocation_exhausted",
		"attempts", a.maxAttempts,
	)
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, a.maxAttempts)
}

func (a *Allocator) collision(ctx context.Context, attempt int, reason string) {
	a.metrics.IncAliasCollision()
	a.logger.WarnContext(ctx, "alias_collision",
		"attempt", attempt,
		"max_attempts", a.maxAttempts,
		"reason", reason,
	)
}
