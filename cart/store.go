package cart

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"tours/entity"
)

// RemoteService is the backend cart API. It is the authority over cart
// contents; the store never computes merges itself.
type RemoteService interface {
	List(ctx context.Context, sessionID string) ([]entity.CartItem, error)
	Add(ctx context.Context, sessionID string, tourID string, travelDate time.Time, partyCount int) (entity.CartItem, error)
	Update(ctx context.Context, sessionID string, itemID string, partyCount int) (entity.CartItem, error)
	Remove(ctx context.Context, sessionID string, itemID string) error
	Clear(ctx context.Context, sessionID string) error
}

// Cache persists the item list (never totals) so an interrupted session
// resumes without stale tax-rate artifacts.
type Cache interface {
	Save(ctx context.Context, sessionID string, items []entity.CartItem) error
	Load(ctx context.Context, sessionID string) ([]entity.CartItem, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// Store holds one session's cart. All operations are serialized through its
// mutex, so a server response can never race a later operation on the same
// item. Local state is only ever replaced by server responses: a failed write
// leaves it untouched.
type Store struct {
	sessionID string
	remote    RemoteService
	cache     Cache

	mu    sync.Mutex
	items []entity.CartItem
}

func NewStore(sessionID string, remote RemoteService, cache Cache) *Store {
	if sessionID == "" {
		panic("missing sessionID")
	}
	if remote == nil {
		panic("missing remote cart service")
	}
	if cache == nil {
		panic("missing cart cache")
	}

	return &Store{
		sessionID: sessionID,
		remote:    remote,
		cache:     cache,
	}
}

// Restore loads the cached item list, if any. The cache is only a warm start:
// the server stays authoritative via Load.
func (s *Store) Restore(ctx context.Context) {
	items, ok, err := s.cache.Load(ctx, s.sessionID)
	if err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not restore cached cart")
		return
	}
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// Load replaces local state wholesale with the authoritative server cart.
// On failure local state is kept as last known; callers treat it as "unknown, retry".
func (s *Store) Load(ctx context.Context) error {
	items, err := s.remote.List(ctx, s.sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.persist(ctx)

	return nil
}

// Add sends the new reservation to the server and applies the server's item:
// either appended, or replacing an existing (tour, date) item the server merged
// it into.
func (s *Store) Add(
	ctx context.Context,
	tourID string,
	travelDate time.Time,
	partyCount int,
) (entity.CartItem, error) {
	if partyCount < 1 {
		return entity.CartItem{}, entity.ErrInvalidQuantity
	}

	item, err := s.remote.Add(ctx, s.sessionID, tourID, travelDate, partyCount)
	if err != nil {
		return entity.CartItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceOrAppend(item)
	s.persist(ctx)

	return item, nil
}

// SetQuantity rejects party counts below 1 locally, without touching the
// network or local state.
func (s *Store) SetQuantity(ctx context.Context, itemID string, partyCount int) (entity.CartItem, error) {
	if partyCount < 1 {
		return entity.CartItem{}, entity.ErrInvalidQuantity
	}

	item, err := s.remote.Update(ctx, s.sessionID, itemID, partyCount)
	if err != nil {
		return entity.CartItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceOrAppend(item)
	s.persist(ctx)

	return item, nil
}

// Remove deletes locally only after the server confirmed, so a stale
// background load cannot resurrect the item.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	if err := s.remote.Remove(ctx, s.sessionID, itemID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	s.persist(ctx)

	return nil
}

// Clear empties the remote and local cart.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.remote.Clear(ctx, s.sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	if err := s.cache.Delete(ctx, s.sessionID); err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not drop cached cart")
	}

	return nil
}

func (s *Store) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entity.CartItem(nil), s.items...)
}

// Totals is a pure function over the current items; nothing is cached.
func (s *Store) Totals() entity.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	return entity.CalculateTotals(s.items)
}

// replaceOrAppend applies a server-returned item: the response is the sole
// source of truth for that item.
func (s *Store) replaceOrAppend(item entity.CartItem) {
	for i, existing := range s.items {
		if existing.ID == item.ID {
			s.items[i] = item
			return
		}
		if existing.TourID == item.TourID && existing.TravelDate.Equal(item.TravelDate) {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

// persist is best effort: the server cart is authoritative, a cache write
// failure must not fail the operation. Callers hold the mutex.
func (s *Store) persist(ctx context.Context) {
	if err := s.cache.Save(ctx, s.sessionID, s.items); err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not cache cart items")
	}
}
