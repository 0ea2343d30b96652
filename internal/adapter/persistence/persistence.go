package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/minizon/internal/adapter/storage"
	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
	"github.com/niksmo/minizon/pkg/retry"
)

const (
	CartKey     = "minizon-cart"
	SavedKey    = "minizon-saved"
	WishlistKey = "minizon-wishlist"
)

var (
	_ port.CartStorage     = (*Adapter)(nil)
	_ port.WishlistStorage = (*Adapter)(nil)
)

var errIncompatible = errors.New("incompatible snapshot")

type Opt func(*Adapter)

// ProfileOpt namespaces keys so several profiles can share one medium.
func ProfileOpt(profile string) Opt {
	return func(a *Adapter) {
		a.profile = profile
	}
}

// WriteAttemptsOpt sets how many times a failed write is tried.
func WriteAttemptsOpt(n int) Opt {
	return func(a *Adapter) {
		a.retryCfg.MaxAttempts = n
	}
}

// An Adapter mirrors store collections as JSON documents under well-known
// keys of a key-value medium.
type Adapter struct {
	kv       port.KeyValueStorage
	profile  string
	retryCfg retry.RetryConfig
}

func New(kv port.KeyValueStorage, opts ...Opt) Adapter {
	const op = "persistence.New"

	if kv == nil {
		panic(op + ": key-value storage is nil") // develop mistake
	}

	a := Adapter{
		kv: kv,
		retryCfg: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(50 * time.Millisecond),
			ShouldRetry: storage.IsTransient,
		},
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Key returns the medium key for the well-known name.
func (a Adapter) Key(name string) string {
	if a.profile == "" {
		return name
	}
	return a.profile + ":" + name
}

func (a Adapter) LoadCart(ctx context.Context) ([]domain.LineItem, error) {
	const op = "Adapter.LoadCart"
	items, err := load(ctx, a, a.Key(CartKey), validateLineItems)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (a Adapter) SaveCart(ctx context.Context, items []domain.LineItem) error {
	const op = "Adapter.SaveCart"
	if err := save(ctx, a, a.Key(CartKey), items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Adapter) LoadSaved(ctx context.Context) ([]domain.Product, error) {
	const op = "Adapter.LoadSaved"
	ps, err := load(ctx, a, a.Key(SavedKey), validateSavedProducts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (a Adapter) SaveSaved(ctx context.Context, ps []domain.Product) error {
	const op = "Adapter.SaveSaved"
	if err := save(ctx, a, a.Key(SavedKey), ps); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Adapter) LoadWishlist(ctx context.Context) ([]domain.Product, error) {
	const op = "Adapter.LoadWishlist"
	ps, err := load(ctx, a, a.Key(WishlistKey), validateProducts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (a Adapter) SaveWishlist(ctx context.Context, ps []domain.Product) error {
	const op = "Adapter.SaveWishlist"
	if err := save(ctx, a, a.Key(WishlistKey), ps); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// load returns a nil collection for a missing key or an empty list. A value
// that does not decode or fails validation is deleted and treated as
// missing.
func load[T any](
	ctx context.Context, a Adapter, key string, validate func([]T) error,
) ([]T, error) {
	const op = "load"
	log := slog.With("op", op, "key", key)

	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var vs []T
	err = json.Unmarshal(data, &vs)
	if err == nil {
		err = validate(vs)
	}
	if err != nil {
		log.Warn("discarding malformed snapshot", "err", err)
		if err := a.kv.Delete(ctx, key); err != nil {
			log.Error("failed to delete malformed snapshot", "err", err)
		}
		return nil, nil
	}

	if len(vs) == 0 {
		return nil, nil
	}
	return vs, nil
}

func save[T any](ctx context.Context, a Adapter, key string, vs []T) error {
	if vs == nil {
		vs = []T{}
	}

	data, err := json.Marshal(vs)
	if err != nil {
		return err
	}

	return retry.Do(ctx, a.retryCfg, func() error {
		return a.kv.Set(ctx, key, data)
	})
}

func validateLineItems(items []domain.LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d: quantity %d", errIncompatible, i, item.Quantity)
		}
		if err := validateProductID(seen, item.Product.ID); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateProducts(ps []domain.Product) error {
	seen := make(map[string]struct{}, len(ps))
	for i, p := range ps {
		if err := validateProductID(seen, p.ID); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}
	return nil
}

// validateSavedProducts allows repeated products, saved lists written by
// other clients may hold them.
func validateSavedProducts(ps []domain.Product) error {
	for i, p := range ps {
		if p.ID == "" {
			return fmt.Errorf("product %d: %w: empty product id", i, errIncompatible)
		}
	}
	return nil
}

func validateProductID(seen map[string]struct{}, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty product id", errIncompatible)
	}
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%w: duplicate product id %q", errIncompatible, id)
	}
	seen[id] = struct{}{}
	return nil
}
