package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
)

var _ port.CartManager = (*CartStore)(nil)

// A CartStore owns the active line items and the saved for later list.
//
// Every mutation replaces the snapshot with a new one, writes the changed
// lists to the storage and then emits notifications and snapshots to
// subscribers in mutation order. Subscribers may read the store but must
// not mutate it.
type CartStore struct {
	mu        sync.Mutex
	emitMu    sync.Mutex
	state     domain.Cart
	storage   port.CartStorage
	notifier  port.Notifier
	observers observers[domain.Cart]
}

// cartChange is the outcome of a pure transition over a cart snapshot.
type cartChange struct {
	next         domain.Cart
	itemsChanged bool
	savedChanged bool
	notes        []domain.Notification
}

func (c cartChange) changed() bool {
	return c.itemsChanged || c.savedChanged
}

// NewCartStore returns the store hydrated from the storage.
//
// Storage failures are logged and the store starts empty.
func NewCartStore(
	ctx context.Context, storage port.CartStorage, notifier port.Notifier,
) *CartStore {
	const op = "NewCartStore"

	if storage == nil || notifier == nil {
		panic(op + ": nil dependency") // develop mistake
	}

	s := &CartStore{storage: storage, notifier: notifier}
	s.hydrate(ctx)
	return s
}

func (s *CartStore) hydrate(ctx context.Context) {
	const op = "CartStore.hydrate"
	log := slog.With("op", op)

	items, err := s.storage.LoadCart(ctx)
	if err != nil {
		log.Error("failed to load cart, starting empty", "err", err)
		items = nil
	}

	saved, err := s.storage.LoadSaved(ctx)
	if err != nil {
		log.Error("failed to load saved items, starting empty", "err", err)
		saved = nil
	}

	s.state = domain.Cart{Items: items, Saved: saved}
	log.Debug("hydrated", "items", len(items), "saved", len(saved))
}

// Subscribe registers fn to be called with every new snapshot.
func (s *CartStore) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	return s.observers.subscribe(fn)
}

func (s *CartStore) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CartStore) Total() float64 {
	return s.Snapshot().Total()
}

func (s *CartStore) ItemCount() int {
	return s.Snapshot().ItemCount()
}

// AddToCart increments the quantity of the product line or appends a new
// line with quantity 1. It never fails and does not check stock.
func (s *CartStore) AddToCart(ctx context.Context, p domain.Product) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) cartChange {
		items, note := addItem(c.Items, p)
		return cartChange{
			next:         domain.Cart{Items: items, Saved: c.Saved},
			itemsChanged: true,
			notes:        []domain.Notification{note},
		}
	})
}

func (s *CartStore) RemoveFromCart(ctx context.Context, productID string) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) cartChange {
		return removeItem(c, productID)
	})
}

// UpdateQuantity sets the quantity of the product line.
//
// A quantity of zero or less removes the line. Unknown products are ignored.
func (s *CartStore) UpdateQuantity(
	ctx context.Context, productID string, quantity int,
) domain.Cart {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}

	return s.apply(ctx, func(c domain.Cart) cartChange {
		i := indexOfItem(c.Items, productID)
		if i == -1 {
			return cartChange{next: c}
		}
		items := slices.Clone(c.Items)
		items[i].Quantity = quantity
		return cartChange{
			next:         domain.Cart{Items: items, Saved: c.Saved},
			itemsChanged: true,
		}
	})
}

func (s *CartStore) ClearCart(ctx context.Context) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) cartChange {
		return cartChange{
			next:         domain.Cart{Saved: c.Saved},
			itemsChanged: true,
			notes:        []domain.Notification{domain.NewCartCleared()},
		}
	})
}

// SaveForLater moves the product of the line to the saved list, dropping
// its quantity.
func (s *CartStore) SaveForLater(ctx context.Context, productID string) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) cartChange {
		i := indexOfItem(c.Items, productID)
		if i == -1 {
			return cartChange{next: c}
		}
		p := c.Items[i].Product

		ch := removeItem(c, productID)
		if indexOfProduct(c.Saved, productID) == -1 {
			ch.next.Saved = append(slices.Clip(c.Saved), p)
			ch.savedChanged = true
		}
		ch.notes = append(ch.notes, domain.NewCartItemSaved(p))
		return ch
	})
}

// MoveToCart adds the saved product to the cart with add semantics and
// drops it from the saved list.
func (s *CartStore) MoveToCart(ctx context.Context, productID string) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) cartChange {
		i := indexOfProduct(c.Saved, productID)
		if i == -1 {
			return cartChange{next: c}
		}

		items, note := addItem(c.Items, c.Saved[i])
		return cartChange{
			next: domain.Cart{
				Items: items,
				Saved: slices.Concat(c.Saved[:i], c.Saved[i+1:]),
			},
			itemsChanged: true,
			savedChanged: true,
			notes:        []domain.Notification{note},
		}
	})
}

func (s *CartStore) RemoveFromSaved(ctx context.Context, productID string) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) cartChange {
		i := indexOfProduct(c.Saved, productID)
		if i == -1 {
			return cartChange{next: c}
		}
		return cartChange{
			next: domain.Cart{
				Items: c.Items,
				Saved: slices.Concat(c.Saved[:i], c.Saved[i+1:]),
			},
			savedChanged: true,
		}
	})
}

func (s *CartStore) apply(
	ctx context.Context, transition func(domain.Cart) cartChange,
) domain.Cart {
	s.mu.Lock()
	ch := transition(s.state)
	if ch.changed() {
		s.state = ch.next
		s.persist(ctx, ch)
	}
	snapshot := s.state

	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	for _, note := range ch.notes {
		s.notifier.Notify(ctx, note)
	}
	if ch.changed() {
		s.observers.notify(snapshot)
	}
	return snapshot
}

func (s *CartStore) persist(ctx context.Context, ch cartChange) {
	const op = "CartStore.persist"
	log := slog.With("op", op)

	if ch.itemsChanged {
		if err := s.storage.SaveCart(ctx, ch.next.Items); err != nil {
			log.Error("failed to persist cart", "err", err)
		}
	}

	if ch.savedChanged {
		if err := s.storage.SaveSaved(ctx, ch.next.Saved); err != nil {
			log.Error("failed to persist saved items", "err", err)
		}
	}
}

func addItem(
	items []domain.LineItem, p domain.Product,
) ([]domain.LineItem, domain.Notification) {
	i := indexOfItem(items, p.ID)
	if i == -1 {
		next := append(slices.Clip(items), domain.LineItem{Product: p, Quantity: 1})
		return next, domain.NewCartItemAdded(p)
	}

	next := slices.Clone(items)
	next[i].Quantity++
	return next, domain.NewCartQuantityIncreased(p)
}

func removeItem(c domain.Cart, productID string) cartChange {
	i := indexOfItem(c.Items, productID)
	if i == -1 {
		return cartChange{next: c}
	}

	return cartChange{
		next: domain.Cart{
			Items: slices.Concat(c.Items[:i], c.Items[i+1:]),
			Saved: c.Saved,
		},
		itemsChanged: true,
		notes:        []domain.Notification{domain.NewCartItemRemoved(c.Items[i].Product)},
	}
}

func indexOfItem(items []domain.LineItem, productID string) int {
	return slices.IndexFunc(items, func(item domain.LineItem) bool {
		return item.Product.ID == productID
	})
}

func indexOfProduct(ps []domain.Product, productID string) int {
	return slices.IndexFunc(ps, func(p domain.Product) bool {
		return p.ID == productID
	})
}
