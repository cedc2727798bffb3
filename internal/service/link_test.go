package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shortenerproject/shortener/internal/alias"
	"github.com/shortenerproject/shortener/internal/metrics"
	"github.com/shortenerproject/shortener/internal/model"
	"github.com/shortenerproject/shortener/internal/repository"
	"github.com/shortenerproject/shortener/internal/repository/memstore"
)

const (
	owner1 = "user-1"
	owner2 = "user-2"
)

type testEnv struct {
	svc     *LinkService
	store   *memstore.Store
	metrics *metrics.InMemoryRecorder
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv wires a LinkService over a memstore seeded with two users.
// A nil wrap uses the memstore directly.
func newTestEnv(t *testing.T, source alias.Source, wrap func(*memstore.Store) LinkStore) *testEnv {
	t.Helper()

	store := memstore.New()
	for _, id := range []string{owner1, owner2} {
		if err := store.CreateUser(context.Background(), &model.User{ID: id, Username: id}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	var linkStore LinkStore = store
	if wrap != nil {
		linkStore = wrap(store)
	}
	if source == nil {
		source = alias.NewGenerator()
	}

	recorder := metrics.NewInMemory()
	logger := discardLogger()
	allocator := alias.NewAllocator(source, linkStore, 8, logger, recorder)

	return &testEnv{
		svc:     NewLinkService(linkStore, store, allocator, logger, recorder),
		store:   store,
		metrics: recorder,
	}
}

func (e *testEnv) create(t *testing.T, ownerID, origin string) *model.Link {
	t.Helper()
	link, err := e.svc.Create(context.Background(), CreateLinkInput{OwnerID: ownerID, OriginURL: origin})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", origin, err)
	}
	return link
}

type fixedSource struct {
	values []string
	next   int
}

func (s *fixedSource) Generate() string {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestLinkService_Scenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	link := env.create(t, owner1, "http://a.com")
	if link.VisitCount != 0 {
		t.Errorf("VisitCount = %d, want 0", link.VisitCount)
	}
	if len(link.Alias) != 8 {
		t.Errorf("alias %q has length %d, want 8", link.Alias, len(link.Alias))
	}

	origin, err := env.svc.ResolveAndRedirect(ctx, link.Alias)
	if err != nil {
		t.Fatalf("ResolveAndRedirect failed: %v", err)
	}
	if origin != "http://a.com" {
		t.Errorf("origin = %q, want http://a.com", origin)
	}

	stats, err := env.svc.GetStats(ctx, link.Alias, owner1)
	if err != nil {
		t.Fatalf("GetStats(owner) failed: %v", err)
	}
	if stats.Alias != link.Alias || stats.VisitCount != 1 {
		t.Errorf("stats = %+v, want (%s, 1)", stats, link.Alias)
	}

	if _, err := env.svc.GetStats(ctx, link.Alias, owner2); !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("GetStats(other owner) error = %v, want ErrAliasNotFound", err)
	}

	if err := env.svc.DeleteByIDAndOwner(ctx, link.ID, owner2); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Delete(other owner) error = %v, want ErrRecordNotFound", err)
	}
	if _, err := env.svc.FindByIDAndOwner(ctx, link.ID, owner1); err != nil {
		t.Fatalf("link must survive a foreign delete: %v", err)
	}

	if err := env.svc.DeleteByIDAndOwner(ctx, link.ID, owner1); err != nil {
		t.Fatalf("Delete(owner) failed: %v", err)
	}

	if _, err := env.svc.ResolveAndRedirect(ctx, link.Alias); !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("ResolveAndRedirect after delete error = %v, want ErrAliasNotFound", err)
	}

	snap := env.metrics.Snapshot()
	if snap.LinksCreated != 1 || snap.LinksDeleted != 1 {
		t.Errorf("created/deleted = %d/%d, want 1/1", snap.LinksCreated, snap.LinksDeleted)
	}
	if snap.RedirectsResolved != 1 || snap.RedirectsNotFound != 1 {
		t.Errorf("redirects resolved/not found = %d/%d, want 1/1", snap.RedirectsResolved, snap.RedirectsNotFound)
	}
}

func TestLinkService_Create_RoundTrip(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	link := env.create(t, owner1, "https://example.com")

	origin, err := env.svc.ResolveAndRedirect(context.Background(), link.Alias)
	if err != nil {
		t.Fatalf("ResolveAndRedirect failed: %v", err)
	}
	if origin != "https://example.com" {
		t.Errorf("origin = %q, want https://example.com", origin)
	}
}

func TestLinkService_Create_RejectsInvalidOrigin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	_, err := env.svc.Create(ctx, CreateLinkInput{OwnerID: owner1, OriginURL: "ftp://x.com"})
	if !errors.Is(err, ErrInvalidOriginURL) {
		t.Fatalf("Create error = %v, want ErrInvalidOriginURL", err)
	}

	links, err := env.svc.ListByOwner(ctx, owner1)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("rejected create persisted %d links", len(links))
	}
}

func TestLinkService_Create_OwnerNotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	for _, ownerID := range []string{"ghost", ""} {
		_, err := env.svc.Create(context.Background(), CreateLinkInput{OwnerID: ownerID, OriginURL: "https://example.com"})
		if !errors.Is(err, ErrOwnerNotFound) {
			t.Errorf("Create(owner=%q) error = %v, want ErrOwnerNotFound", ownerID, err)
		}
	}
}

func TestLinkService_Create_KeepsExpiryAsData(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	past := time.Now().Add(-time.Hour).UTC()

	link, err := env.svc.Create(context.Background(), CreateLinkInput{
		OwnerID:   owner1,
		OriginURL: "https://example.com",
		ExpiresAt: &past,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if link.ExpiresAt == nil || !link.ExpiresAt.Equal(past) {
		t.Errorf("ExpiresAt = %v, want %v", link.ExpiresAt, past)
	}

	// Expiry is not enforced on redirect.
	if _, err := env.svc.ResolveAndRedirect(context.Background(), link.Alias); err != nil {
		t.Errorf("ResolveAndRedirect on expired link failed: %v", err)
	}
}

func TestLinkService_Create_SkipsTakenAlias(t *testing.T) {
	source := &fixedSource{values: []string{"takenAA1", "takenAA1", "freshAA1"}}
	env := newTestEnv(t, source, nil)

	first := env.create(t, owner1, "https://one.example")
	if first.Alias != "takenAA1" {
		t.Fatalf("first alias = %q, want takenAA1", first.Alias)
	}

	second := env.create(t, owner1, "https://two.example")
	if second.Alias != "freshAA1" {
		t.Errorf("second alias = %q, want freshAA1", second.Alias)
	}
	if snap := env.metrics.Snapshot(); snap.AliasCollisions != 1 {
		t.Errorf("AliasCollisions = %d, want 1", snap.AliasCollisions)
	}
}

// racingStore hides existing aliases from the pre-check, as a concurrent
// allocator on another instance would see them.
type racingStore struct {
	*memstore.Store
}

func (r racingStore) AliasExists(ctx context.Context, alias string) (bool, error) {
	return false, nil
}

func TestLinkService_Create_RetriesOnUniqueViolation(t *testing.T) {
	source := &fixedSource{values: []string{"raceAAA1", "raceAAA1", "raceBBB2"}}
	env := newTestEnv(t, source, func(s *memstore.Store) LinkStore { return racingStore{s} })

	env.create(t, owner1, "https://one.example")

	second, err := env.svc.Create(context.Background(), CreateLinkInput{OwnerID: owner2, OriginURL: "https://two.example"})
	if err != nil {
		t.Fatalf("Create after unique violation failed: %v", err)
	}
	if second.Alias != "raceBBB2" {
		t.Errorf("alias = %q, want raceBBB2", second.Alias)
	}
}

func TestLinkService_Create_AllocationExhausted(t *testing.T) {
	source := &fixedSource{values: []string{"sameAAA1"}}
	env := newTestEnv(t, source, nil)

	env.create(t, owner1, "https://one.example")

	_, err := env.svc.Create(context.Background(), CreateLinkInput{OwnerID: owner1, OriginURL: "https://two.example"})
	if !errors.Is(err, ErrAllocationExhausted) {
		t.Fatalf("Create error = %v, want ErrAllocationExhausted", err)
	}
	if errors.Is(err, ErrStoreUnavailable) {
		t.Error("exhaustion must not be reported as store unavailability")
	}
	if snap := env.metrics.Snapshot(); snap.AllocationsExhausted != 1 {
		t.Errorf("AllocationsExhausted = %d, want 1", snap.AllocationsExhausted)
	}
}

func TestLinkService_ResolveAndRedirect_ConcurrentVisits(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://example.com")

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.ResolveAndRedirect(ctx, link.Alias); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("ResolveAndRedirect failed: %v", err)
	}

	stats, err := env.svc.GetStats(ctx, link.Alias, owner1)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.VisitCount != n {
		t.Errorf("VisitCount = %d, want %d", stats.VisitCount, n)
	}
}

func TestLinkService_ResolveAndRedirect_Unknown(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	for _, code := range []string{"zzzzzzzz", "short", "has-dash", ""} {
		if _, err := env.svc.ResolveAndRedirect(context.Background(), code); !errors.Is(err, ErrAliasNotFound) {
			t.Errorf("ResolveAndRedirect(%q) error = %v, want ErrAliasNotFound", code, err)
		}
	}
}

func TestLinkService_FindByIDAndOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://example.com")

	for i := 0; i < 3; i++ {
		got, err := env.svc.FindByIDAndOwner(ctx, link.ID, owner1)
		if err != nil {
			t.Fatalf("FindByIDAndOwner(owner) #%d failed: %v", i, err)
		}
		if got.ID != link.ID || got.Alias != link.Alias || got.OriginURL != link.OriginURL {
			t.Errorf("FindByIDAndOwner #%d = %+v, want %+v", i, got, link)
		}

		if _, err := env.svc.FindByIDAndOwner(ctx, link.ID, owner2); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("FindByIDAndOwner(other) #%d error = %v, want ErrRecordNotFound", i, err)
		}
	}

	// A foreign record and a missing one look the same.
	_, foreignErr := env.svc.FindByIDAndOwner(ctx, link.ID, owner2)
	_, missingErr := env.svc.FindByIDAndOwner(ctx, "no-such-id", owner2)
	if foreignErr.Error() != missingErr.Error() {
		t.Errorf("foreign error %q differs from missing error %q", foreignErr, missingErr)
	}
}

func TestLinkService_ListByOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	empty, err := env.svc.ListByOwner(ctx, owner2)
	if err != nil {
		t.Fatalf("ListByOwner(empty) failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListByOwner(empty) = %v, want empty slice", empty)
	}

	a := env.create(t, owner1, "https://a.example")
	b := env.create(t, owner1, "https://b.example")
	env.create(t, owner2, "https://c.example")

	links, err := env.svc.ListByOwner(ctx, owner1)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(links) != 2 || links[0].ID != a.ID || links[1].ID != b.ID {
		t.Errorf("ListByOwner returned %d links, want [%s %s]", len(links), a.ID, b.ID)
	}
}

func TestLinkService_FindOriginURL(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://example.com/page")

	origin, err := env.svc.FindOriginURL(ctx, link.Alias, owner1)
	if err != nil {
		t.Fatalf("FindOriginURL failed: %v", err)
	}
	if origin != "https://example.com/page" {
		t.Errorf("origin = %q", origin)
	}

	if _, err := env.svc.FindOriginURL(ctx, link.Alias, owner2); !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("FindOriginURL(other) error = %v, want ErrAliasNotFound", err)
	}

	// Lookups do not count as visits.
	stats, _ := env.svc.GetStats(ctx, link.Alias, owner1)
	if stats.VisitCount != 0 {
		t.Errorf("VisitCount = %d, want 0", stats.VisitCount)
	}
}

func TestLinkService_Update_SameOriginKeepsAlias(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://example.com")
	_, _ = env.svc.ResolveAndRedirect(ctx, link.Alias)

	expires := time.Now().Add(24 * time.Hour).UTC()
	updated, err := env.svc.Update(ctx, UpdateLinkInput{
		ID:        link.ID,
		OwnerID:   owner1,
		OriginURL: "https://example.com",
		ExpiresAt: &expires,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Alias != link.Alias {
		t.Errorf("alias changed from %q to %q", link.Alias, updated.Alias)
	}
	if updated.ExpiresAt == nil || !updated.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", updated.ExpiresAt, expires)
	}
	if updated.VisitCount != 1 {
		t.Errorf("VisitCount = %d, want 1", updated.VisitCount)
	}

	// A nil expiry clears it.
	cleared, err := env.svc.Update(ctx, UpdateLinkInput{ID: link.ID, OwnerID: owner1, OriginURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Update (clear expiry) failed: %v", err)
	}
	if cleared.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", cleared.ExpiresAt)
	}
}

func TestLinkService_Update_NewOriginReissuesAlias(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://old.example")
	_, _ = env.svc.ResolveAndRedirect(ctx, link.Alias)
	_, _ = env.svc.ResolveAndRedirect(ctx, link.Alias)

	updated, err := env.svc.Update(ctx, UpdateLinkInput{ID: link.ID, OwnerID: owner1, OriginURL: "https://new.example"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Alias == link.Alias {
		t.Fatal("alias was not reissued after origin change")
	}
	if updated.VisitCount != 2 {
		t.Errorf("VisitCount = %d, want 2", updated.VisitCount)
	}
	if !updated.CreatedAt.Equal(link.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", link.CreatedAt, updated.CreatedAt)
	}

	if _, err := env.svc.ResolveAndRedirect(ctx, link.Alias); !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("old alias error = %v, want ErrAliasNotFound", err)
	}
	origin, err := env.svc.ResolveAndRedirect(ctx, updated.Alias)
	if err != nil || origin != "https://new.example" {
		t.Errorf("ResolveAndRedirect(new) = %q, %v", origin, err)
	}
}

func TestLinkService_Update_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://example.com")

	_, err := env.svc.Update(ctx, UpdateLinkInput{ID: link.ID, OwnerID: owner2, OriginURL: "https://evil.example"})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Update(other owner) error = %v, want ErrRecordNotFound", err)
	}

	_, err = env.svc.Update(ctx, UpdateLinkInput{ID: link.ID, OwnerID: owner1, OriginURL: "mailto:x@example.com"})
	if !errors.Is(err, ErrInvalidOriginURL) {
		t.Errorf("Update(bad origin) error = %v, want ErrInvalidOriginURL", err)
	}

	got, _ := env.svc.FindByIDAndOwner(ctx, link.ID, owner1)
	if got.OriginURL != "https://example.com" || got.Alias != link.Alias {
		t.Errorf("rejected updates changed the link: %+v", got)
	}
}

// interleavingStore runs hook once, right before the first UpdateLink
// reaches the store, so another writer can slip in between read and write.
type interleavingStore struct {
	*memstore.Store
	mu   sync.Mutex
	hook func()
}

func (s *interleavingStore) UpdateLink(ctx context.Context, link *model.Link, prev model.LinkVersion) error {
	s.mu.Lock()
	hook := s.hook
	s.hook = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return s.Store.UpdateLink(ctx, link, prev)
}

func TestLinkService_Update_StaleWriteDoesNotRestoreReleasedAlias(t *testing.T) {
	ctx := context.Background()
	var store *interleavingStore
	env := newTestEnv(t, nil, func(s *memstore.Store) LinkStore {
		store = &interleavingStore{Store: s}
		return store
	})
	link := env.create(t, owner1, "https://a.example")

	var moved *model.Link
	store.hook = func() {
		var err error
		moved, err = env.svc.Update(ctx, UpdateLinkInput{ID: link.ID, OwnerID: owner1, OriginURL: "https://b.example"})
		if err != nil {
			t.Errorf("interleaved Update failed: %v", err)
		}
	}

	expires := time.Now().Add(time.Hour).UTC()
	final, err := env.svc.Update(ctx, UpdateLinkInput{
		ID:        link.ID,
		OwnerID:   owner1,
		OriginURL: "https://a.example",
		ExpiresAt: &expires,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if moved == nil {
		t.Fatal("interleaved update did not run")
	}

	if final.Alias == link.Alias {
		t.Errorf("released alias %q was written back", link.Alias)
	}
	if final.Alias == moved.Alias {
		t.Errorf("alias %q kept although the origin changed again", moved.Alias)
	}

	for _, released := range []string{link.Alias, moved.Alias} {
		if _, err := env.svc.ResolveAndRedirect(ctx, released); !errors.Is(err, ErrAliasNotFound) {
			t.Errorf("released alias %q: error = %v, want ErrAliasNotFound", released, err)
		}
	}
	origin, err := env.svc.ResolveAndRedirect(ctx, final.Alias)
	if err != nil || origin != "https://a.example" {
		t.Errorf("ResolveAndRedirect(%q) = %q, %v", final.Alias, origin, err)
	}

	stored, _ := env.svc.FindByIDAndOwner(ctx, link.ID, owner1)
	if stored.Alias != final.Alias || stored.ExpiresAt == nil {
		t.Errorf("stored link = %+v, want alias %q with expiry", stored, final.Alias)
	}
}

// changingStore reports every update as stale.
type changingStore struct {
	*memstore.Store
}

func (changingStore) UpdateLink(context.Context, *model.Link, model.LinkVersion) error {
	return repository.ErrLinkChanged
}

func TestLinkService_Update_GivesUpOnPersistentConflict(t *testing.T) {
	env := newTestEnv(t, nil, func(s *memstore.Store) LinkStore { return changingStore{s} })
	link := env.create(t, owner1, "https://example.com")

	_, err := env.svc.Update(context.Background(), UpdateLinkInput{ID: link.ID, OwnerID: owner1, OriginURL: "https://example.com"})
	if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, repository.ErrLinkChanged) {
		t.Errorf("Update error = %v, want ErrStoreUnavailable wrapping ErrLinkChanged", err)
	}
}

func TestLinkService_CanceledContextIsNotStoreFailure(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	link := env.create(t, owner1, "https://example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.svc.Create(ctx, CreateLinkInput{OwnerID: owner1, OriginURL: "https://other.example"})
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Create error = %v, want bare context.Canceled", err)
	}

	_, err = env.svc.Update(ctx, UpdateLinkInput{ID: link.ID, OwnerID: owner1, OriginURL: "https://new.example"})
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Update error = %v, want bare context.Canceled", err)
	}
}

// failingStore fails every call after the wrapped store is seeded.
type failingStore struct {
	*memstore.Store
	err error
}

func (f failingStore) AliasExists(ctx context.Context, alias string) (bool, error) {
	return false, f.err
}

func (f failingStore) IncrementVisitCount(ctx context.Context, alias string) (*model.Link, error) {
	return nil, f.err
}

func (f failingStore) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	return nil, f.err
}

func (f failingStore) GetLinkByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Link, error) {
	return nil, f.err
}

func TestLinkService_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	env := newTestEnv(t, nil, func(s *memstore.Store) LinkStore { return failingStore{Store: s, err: cause} })

	_, err := env.svc.Create(ctx, CreateLinkInput{OwnerID: owner1, OriginURL: "https://example.com"})
	assertUnavailable(t, "Create", err, cause)

	_, err = env.svc.ResolveAndRedirect(ctx, "abcDEF12")
	assertUnavailable(t, "ResolveAndRedirect", err, cause)

	_, err = env.svc.ListByOwner(ctx, owner1)
	assertUnavailable(t, "ListByOwner", err, cause)

	_, err = env.svc.FindByIDAndOwner(ctx, "some-id", owner1)
	assertUnavailable(t, "FindByIDAndOwner", err, cause)
}

func assertUnavailable(t *testing.T, op string, err, cause error) {
	t.Helper()
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("%s error = %v, want ErrStoreUnavailable", op, err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("%s error = %v, want cause %v kept", op, err, cause)
	}
}

func TestValidateOriginURL(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		wantErr error
	}{
		{"https", "https://example.com", nil},
		{"http_with_path", "http://a.com/path?q=1", nil},
		{"ftp", "ftp://x.com", ErrInvalidOriginURL},
		{"empty", "", ErrInvalidOriginURL},
		{"scheme_only", "https://", ErrInvalidOriginURL},
		{"no_scheme", "example.com", ErrInvalidOriginURL},
		{"uppercase_scheme", "HTTPS://example.com", ErrInvalidOriginURL},
		{"too_long", "https://example.com/" + strings.Repeat("a", maxOriginURLLength), ErrOriginURLTooLong},
		{"multibyte_at_limit", "https://example.com/" + strings.Repeat("é", maxOriginURLLength-len("https://example.com/")), nil},
		{"multibyte_too_long", "https://example.com/" + strings.Repeat("é", maxOriginURLLength), ErrOriginURLTooLong},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateOriginURL(test.origin)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestErrOriginURLTooLong_IsInvalidOrigin(t *testing.T) {
	if !errors.Is(ErrOriginURLTooLong, ErrInvalidOriginURL) {
		t.Error("ErrOriginURLTooLong should match ErrInvalidOriginURL")
	}
}

func TestAliasConflict(t *testing.T) {
	if err := aliasConflict(repository.ErrAliasExists); !errors.Is(err, alias.ErrConflict) {
		t.Errorf("aliasConflict(ErrAliasExists) = %v, want alias.ErrConflict", err)
	}
	other := errors.New("boom")
	if err := aliasConflict(other); err != other {
		t.Errorf("aliasConflict(other) = %v, want it unchanged", err)
	}
	if err := aliasConflict(nil); err != nil {
		t.Errorf("aliasConflict(nil) = %v, want nil", err)
	}
}
