package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
)

var _ port.WishlistManager = (*WishlistStore)(nil)

// A WishlistStore owns a set of distinct products keyed by product ID.
type WishlistStore struct {
	mu        sync.Mutex
	emitMu    sync.Mutex
	state     domain.Wishlist
	storage   port.WishlistStorage
	notifier  port.Notifier
	observers observers[domain.Wishlist]
}

// NewWishlistStore returns the store hydrated from the storage.
//
// A nil storage keeps the wishlist in memory only.
func NewWishlistStore(
	ctx context.Context, storage port.WishlistStorage, notifier port.Notifier,
) *WishlistStore {
	const op = "NewWishlistStore"

	if notifier == nil {
		panic(op + ": nil notifier") // develop mistake
	}

	s := &WishlistStore{storage: storage, notifier: notifier}
	if storage == nil {
		return s
	}

	items, err := storage.LoadWishlist(ctx)
	if err != nil {
		slog.Error("failed to load wishlist, starting empty", "op", op, "err", err)
		items = nil
	}
	s.state = domain.Wishlist{Items: items}
	return s
}

func (s *WishlistStore) Subscribe(fn func(domain.Wishlist)) (unsubscribe func()) {
	return s.observers.subscribe(fn)
}

func (s *WishlistStore) Snapshot() domain.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *WishlistStore) IsInWishlist(productID string) bool {
	return s.Snapshot().Contains(productID)
}

// AddToWishlist appends the product unless its ID is already present.
func (s *WishlistStore) AddToWishlist(
	ctx context.Context, p domain.Product,
) domain.Wishlist {
	return s.apply(ctx, func(w domain.Wishlist) (domain.Wishlist, bool, domain.Notification) {
		if w.Contains(p.ID) {
			return w, false, domain.NewWishlistItemExists(p)
		}
		next := domain.Wishlist{Items: append(slices.Clip(w.Items), p)}
		return next, true, domain.NewWishlistItemAdded(p)
	})
}

func (s *WishlistStore) RemoveFromWishlist(
	ctx context.Context, productID string,
) domain.Wishlist {
	return s.apply(ctx, func(w domain.Wishlist) (domain.Wishlist, bool, domain.Notification) {
		i := indexOfProduct(w.Items, productID)
		if i == -1 {
			return w, false, domain.Notification{}
		}
		next := domain.Wishlist{Items: slices.Concat(w.Items[:i], w.Items[i+1:])}
		return next, true, domain.NewWishlistItemRemoved(w.Items[i])
	})
}

func (s *WishlistStore) ClearWishlist(ctx context.Context) domain.Wishlist {
	return s.apply(ctx, func(domain.Wishlist) (domain.Wishlist, bool, domain.Notification) {
		return domain.Wishlist{}, true, domain.NewWishlistCleared()
	})
}

func (s *WishlistStore) apply(
	ctx context.Context,
	transition func(domain.Wishlist) (domain.Wishlist, bool, domain.Notification),
) domain.Wishlist {
	const op = "WishlistStore.apply"

	s.mu.Lock()
	next, changed, note := transition(s.state)
	if changed {
		s.state = next
		if s.storage != nil {
			if err := s.storage.SaveWishlist(ctx, next.Items); err != nil {
				slog.Error("failed to persist wishlist", "op", op, "err", err)
			}
		}
	}
	snapshot := s.state

	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	if note.Kind != "" {
		s.notifier.Notify(ctx, note)
	}
	if changed {
		s.observers.notify(snapshot)
	}
	return snapshot
}
