// Package service implements the link lifecycle: creation with a unique
// alias, owner-scoped reads and writes, and counted redirects.
package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/shortenerproject/shortener/internal/alias"
	"github.com/shortenerproject/shortener/internal/metrics"
	"github.com/shortenerproject/shortener/internal/model"
	"github.com/shortenerproject/shortener/internal/repository"
)

const maxOriginURLLength = 2048

// maxUpdateAttempts bounds how often Update re-reads a link that changed
// under it.
const maxUpdateAttempts = 3

var originURLPattern = regexp.MustCompile(`^(https?://).+`)

// LinkStore is the durable alias store. Implementations report misses with
// repository.ErrLinkNotFound, duplicate aliases with repository.ErrAliasExists,
// unknown owners with repository.ErrUserNotFound and stale updates with
// repository.ErrLinkChanged.
type LinkStore interface {
	AliasExists(ctx context.Context, alias string) (bool, error)
	CreateLink(ctx context.Context, link *model.Link) error
	GetLinkByAlias(ctx context.Context, alias string) (*model.Link, error)
	GetLinkByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Link, error)
	ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error)
	UpdateLink(ctx context.Context, link *model.Link, prev model.LinkVersion) error
	DeleteLinkByIDAndOwner(ctx context.Context, id, ownerID string) error
	IncrementVisitCount(ctx context.Context, alias string) (*model.Link, error)
}

// UserDirectory resolves owner ids to users.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// LinkService handles link business logic.
type LinkService struct {
	store     LinkStore
	users     UserDirectory
	allocator *alias.Allocator
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewLinkService creates a new LinkService.
func NewLinkService(store LinkStore, users UserDirectory, allocator *alias.Allocator, logger *slog.Logger, recorder metrics.Recorder) *LinkService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LinkService{
		store:     store,
		users:     users,
		allocator: allocator,
		logger:    logger,
		metrics:   recorder,
	}
}

// CreateLinkInput defines input for creating a link.
type CreateLinkInput struct {
	OwnerID   string
	OriginURL string
	ExpiresAt *time.Time
}

// Create validates the origin, resolves the owner, and stores a new link
// under a freshly allocated alias with a zero visit count.
func (s *LinkService) Create(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	if err := ValidateOriginURL(input.OriginURL); err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	link := &model.Link{
		ID:        ulid.Make().String(),
		OriginURL: input.OriginURL,
		OwnerID:   input.OwnerID,
		ExpiresAt: copyTime(input.ExpiresAt),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.allocator.Claim(ctx, func(ctx context.Context, candidate string) error {
		link.Alias = candidate
		return aliasConflict(s.store.CreateLink(ctx, link))
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, allocationError(err)
	}

	s.metrics.IncLinkCreated()

	return link.Clone(), nil
}

// ListByOwner returns every link of ownerID in store order. An owner
// without links gets an empty slice.
func (s *LinkService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	links, err := s.store.ListLinksByOwner(ctx, ownerID)
	if err != nil {
		return nil, unavailable(err)
	}
	if links == nil {
		links = []*model.Link{}
	}
	return links, nil
}

// FindByIDAndOwner returns the link only when id and owner both match.
func (s *LinkService) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Link, error) {
	if id == "" || ownerID == "" {
		return nil, ErrRecordNotFound
	}

	link, err := s.store.GetLinkByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, recordError(err)
	}
	return guardOwner(link, ownerID, ErrRecordNotFound)
}

// DeleteByIDAndOwner permanently removes an owned link. A foreign or
// missing link yields ErrRecordNotFound and nothing is removed.
func (s *LinkService) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return ErrRecordNotFound
	}

	if err := s.store.DeleteLinkByIDAndOwner(ctx, id, ownerID); err != nil {
		return recordError(err)
	}

	s.metrics.IncLinkDeleted()
	return nil
}

// ResolveAndRedirect counts one visit on the link under code and returns
// its origin URL. No ownership check applies. The count is incremented by
// the store in a single atomic step.
func (s *LinkService) ResolveAndRedirect(ctx context.Context, code string) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	if !alias.Valid(code) {
		s.metrics.IncRedirectNotFound()
		return "", ErrAliasNotFound
	}

	link, err := s.store.IncrementVisitCount(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			s.metrics.IncRedirectNotFound()
			return "", ErrAliasNotFound
		}
		return "", unavailable(err)
	}

	s.metrics.IncRedirectResolved()
	return link.OriginURL, nil
}

// GetStats returns the visit counter of an owned alias.
func (s *LinkService) GetStats(ctx context.Context, code, ownerID string) (*model.LinkStats, error) {
	link, err := s.ownedByAlias(ctx, code, ownerID)
	if err != nil {
		return nil, err
	}
	stats := link.Stats()
	return &stats, nil
}

// FindOriginURL returns the origin of an owned alias without counting a visit.
func (s *LinkService) FindOriginURL(ctx context.Context, code, ownerID string) (string, error) {
	link, err := s.ownedByAlias(ctx, code, ownerID)
	if err != nil {
		return "", err
	}
	return link.OriginURL, nil
}

// UpdateLinkInput defines input for updating a link. OriginURL is
// required; ExpiresAt replaces the stored expiry, nil clears it.
type UpdateLinkInput struct {
	ID        string
	OwnerID   string
	OriginURL string
	ExpiresAt *time.Time
}

// Update replaces origin and expiry of an owned link. A changed origin
// gets a new alias and the old one is released. The visit count is kept.
// The write applies only to the version that was read; a concurrent
// change makes Update re-read and start over.
func (s *LinkService) Update(ctx context.Context, input UpdateLinkInput) (*model.Link, error) {
	if err := ValidateOriginURL(input.OriginURL); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		link, err := s.updateOnce(ctx, input)
		if !errors.Is(err, repository.ErrLinkChanged) {
			return link, err
		}
		if attempt == maxUpdateAttempts {
			return nil, unavailable(err)
		}
		s.logger.WarnContext(ctx, "link_update_conflict",
			"link_id", input.ID,
			"attempt", attempt,
		)
	}
}

func (s *LinkService) updateOnce(ctx context.Context, input UpdateLinkInput) (*model.Link, error) {
	current, err := s.FindByIDAndOwner(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}
	prev := current.Version()

	updated := current.Clone()
	updated.OriginURL = input.OriginURL
	updated.ExpiresAt = copyTime(input.ExpiresAt)
	updated.UpdatedAt = time.Now().UTC()

	if updated.OriginURL == current.OriginURL {
		err = s.store.UpdateLink(ctx, updated, prev)
	} else {
		_, err = s.allocator.Claim(ctx, func(ctx context.Context, candidate string) error {
			updated.Alias = candidate
			return aliasConflict(s.store.UpdateLink(ctx, updated, prev))
		})
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLinkNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, repository.ErrLinkChanged):
			return nil, err
		}
		return nil, allocationError(err)
	}

	if updated.Alias != current.Alias {
		s.logger.InfoContext(ctx, "alias_reissued",
			"link_id", updated.ID,
			"old_alias", current.Alias,
			"new_alias", updated.Alias,
		)
	}
	s.metrics.IncLinkUpdated()

	return updated.Clone(), nil
}

// ValidateOriginURL checks that origin is an http or https URL of at most
// maxOriginURLLength characters. Length counts runes, as the request
// validator does.
func ValidateOriginURL(origin string) error {
	if utf8.RuneCountInString(origin) > maxOriginURLLength {
		return ErrOriginURLTooLong
	}
	if !originURLPattern.MatchString(origin) {
		return ErrInvalidOriginURL
	}
	return nil
}

func (s *LinkService) requireOwner(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return ErrOwnerNotFound
	}
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrOwnerNotFound
		}
		return unavailable(err)
	}
	return nil
}

func (s *LinkService) ownedByAlias(ctx context.Context, code, ownerID string) (*model.Link, error) {
	if !alias.Valid(code) {
		return nil, ErrAliasNotFound
	}

	link, err := s.store.GetLinkByAlias(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrAliasNotFound
		}
		return nil, unavailable(err)
	}
	return guardOwner(link, ownerID, ErrAliasNotFound)
}

// aliasConflict turns the store's duplicate-alias error into the signal
// the allocator retries on.
func aliasConflict(err error) error {
	if errors.Is(err, repository.ErrAliasExists) {
		return alias.ErrConflict
	}
	return err
}

func allocationError(err error) error {
	if errors.Is(err, ErrAllocationExhausted) {
		return err
	}
	return unavailable(err)
}

func recordError(err error) error {
	if errors.Is(err, repository.ErrLinkNotFound) {
		return ErrRecordNotFound
	}
	return unavailable(err)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
