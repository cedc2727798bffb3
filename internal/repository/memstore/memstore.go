// Package memstore is an in-process link and user store with the same
// contract as the PostgreSQL repository. Aliases are unique, visit counts
// are incremented under the store lock, and returned records are copies.
package memstore

import (
	"context"
	"sync"

	"github.com/shortenerproject/shortener/internal/model"
	"github.com/shortenerproject/shortener/internal/repository"
)

// Store keeps links and users in memory.
type Store struct {
	mu      sync.RWMutex
	links   map[string]*model.Link // by id
	aliases map[string]string      // alias -> id
	order   []string               // link ids in insertion order
	users   map[string]*model.User // by id
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		links:   make(map[string]*model.Link),
		aliases: make(map[string]string),
		users:   make(map[string]*model.User),
	}
}

// CreateUser adds a user. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// AliasExists checks if an alias is already taken.
func (s *Store) AliasExists(ctx context.Context, alias string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.aliases[alias]
	return ok, nil
}

// CreateLink inserts a link, rejecting duplicate aliases and unknown owners.
func (s *Store) CreateLink(ctx context.Context, link *model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.aliases[link.Alias]; ok {
		return repository.ErrAliasExists
	}
	if _, ok := s.users[link.OwnerID]; !ok {
		return repository.ErrUserNotFound
	}

	s.links[link.ID] = link.Clone()
	s.aliases[link.Alias] = link.ID
	s.order = append(s.order, link.ID)
	return nil
}

// GetLinkByAlias retrieves a link by its alias.
func (s *Store) GetLinkByAlias(ctx context.Context, alias string) (*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.aliases[alias]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return s.links[id].Clone(), nil
}

// GetLinkByIDAndOwner retrieves a link only when both id and owner match.
func (s *Store) GetLinkByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok || !link.OwnedBy(ownerID) {
		return nil, repository.ErrLinkNotFound
	}
	return link.Clone(), nil
}

// ListLinksByOwner returns every link of an owner in insertion order.
func (s *Store) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*model.Link, 0)
	for _, id := range s.order {
		if link := s.links[id]; link.OwnedBy(ownerID) {
			links = append(links, link.Clone())
		}
	}
	return links, nil
}

// UpdateLink writes alias, origin and expiry of an owned link that still
// carries version prev, and fills in the stored visit count and creation
// time.
func (s *Store) UpdateLink(ctx context.Context, link *model.Link, prev model.LinkVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.links[link.ID]
	if !ok || !stored.OwnedBy(link.OwnerID) {
		return repository.ErrLinkNotFound
	}
	if stored.Version() != prev {
		return repository.ErrLinkChanged
	}
	if id, taken := s.aliases[link.Alias]; taken && id != link.ID {
		return repository.ErrAliasExists
	}

	delete(s.aliases, stored.Alias)
	s.aliases[link.Alias] = link.ID

	stored.Alias = link.Alias
	stored.OriginURL = link.OriginURL
	stored.ExpiresAt = link.Clone().ExpiresAt
	stored.UpdatedAt = link.UpdatedAt

	link.VisitCount = stored.VisitCount
	link.CreatedAt = stored.CreatedAt
	return nil
}

// DeleteLinkByIDAndOwner permanently removes an owned link.
func (s *Store) DeleteLinkByIDAndOwner(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[id]
	if !ok || !link.OwnedBy(ownerID) {
		return repository.ErrLinkNotFound
	}

	delete(s.links, id)
	delete(s.aliases, link.Alias)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// IncrementVisitCount adds one visit to the link under alias and returns
// the updated record.
func (s *Store) IncrementVisitCount(ctx context.Context, alias string) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.aliases[alias]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	link := s.links[id]
	link.VisitCount++
	return link.Clone(), nil
}
