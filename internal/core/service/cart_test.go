package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/niksmo/minizon/internal/adapter/persistence"
	"github.com/niksmo/minizon/internal/adapter/storage"
	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartStore(t *testing.T) (*service.CartStore, *notificationRecorder, *storage.MemoryStorage) {
	t.Helper()
	kv := storage.NewMemoryStorage()
	rec := new(notificationRecorder)
	s := service.NewCartStore(t.Context(), persistence.New(kv), rec)
	return s, rec, kv
}

func TestCartStoreScenario(t *testing.T) {
	s, _, _ := newCartStore(t)
	ctx := t.Context()
	p := product("1", 10.00)

	c := s.AddToCart(ctx, p)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.InDelta(t, 10.00, c.Total(), 1e-9)

	c = s.AddToCart(ctx, p)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.InDelta(t, 20.00, c.Total(), 1e-9)

	c = s.UpdateQuantity(ctx, "1", 0)
	assert.Empty(t, c.Items)
	assert.InDelta(t, 0.00, c.Total(), 1e-9)
	assert.Zero(t, s.ItemCount())
}

func TestCartStoreAddToCart(t *testing.T) {
	t.Run("Uniqueness", func(t *testing.T) {
		s, _, _ := newCartStore(t)
		ids := []string{"1", "2", "1", "3", "2", "1", "4", "3", "1"}
		want := make(map[string]int)

		for _, id := range ids {
			s.AddToCart(t.Context(), product(id, 1))
			want[id]++
		}

		c := s.Snapshot()
		got := make(map[string]int)
		for _, item := range c.Items {
			_, dup := got[item.Product.ID]
			require.False(t, dup, "duplicate line for %q", item.Product.ID)
			got[item.Product.ID] = item.Quantity
		}
		assert.Equal(t, want, got)
		assert.Equal(t, len(ids), c.ItemCount())
	})

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		s, _, _ := newCartStore(t)
		s.AddToCart(t.Context(), product("b", 1))
		s.AddToCart(t.Context(), product("a", 1))
		c := s.AddToCart(t.Context(), product("b", 1))

		require.Len(t, c.Items, 2)
		assert.Equal(t, "b", c.Items[0].Product.ID)
		assert.Equal(t, "a", c.Items[1].Product.ID)
	})

	t.Run("Notifications", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		p := product("1", 1)

		s.AddToCart(t.Context(), p)
		assert.Equal(t, domain.NewCartItemAdded(p), rec.last())

		s.AddToCart(t.Context(), p)
		assert.Equal(t, domain.NewCartQuantityIncreased(p), rec.last())
		assert.Equal(t, "Increased quantity of Product 1", rec.last().Description)
	})
}

func TestCartStoreRemoveFromCart(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		s.AddToCart(t.Context(), product("1", 1))
		s.AddToCart(t.Context(), product("2", 1))

		c := s.RemoveFromCart(t.Context(), "1")
		require.Len(t, c.Items, 1)
		assert.Equal(t, "2", c.Items[0].Product.ID)
		assert.Equal(t, domain.CartItemRemoved, rec.last().Kind)
		assert.Equal(t, "Product 1 has been removed", rec.last().Description)
	})

	t.Run("Unknown", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		s.AddToCart(t.Context(), product("1", 1))
		rec.reset()

		c := s.RemoveFromCart(t.Context(), "404")
		assert.Len(t, c.Items, 1)
		assert.Empty(t, rec.kinds())
	})
}

func TestCartStoreUpdateQuantity(t *testing.T) {
	for _, q := range []int{0, -5} {
		t.Run(fmt.Sprintf("NonPositive%d", q), func(t *testing.T) {
			s, rec, _ := newCartStore(t)
			s.AddToCart(t.Context(), product("1", 1))

			c := s.UpdateQuantity(t.Context(), "1", q)
			assert.False(t, c.Contains("1"))
			assert.Equal(t, domain.CartItemRemoved, rec.last().Kind)
		})
	}

	t.Run("Set", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		s.AddToCart(t.Context(), product("1", 2.5))
		rec.reset()

		c := s.UpdateQuantity(t.Context(), "1", 1000)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1000, c.Items[0].Quantity)
		assert.InDelta(t, 2500, c.Total(), 1e-9)
		assert.Empty(t, rec.kinds())
	})

	t.Run("Unknown", func(t *testing.T) {
		cs := new(MockCartStorage)
		cs.On("LoadCart", mock.Anything).Return(nil, nil)
		cs.On("LoadSaved", mock.Anything).Return(nil, nil)

		s := service.NewCartStore(t.Context(), cs, new(notificationRecorder))
		c := s.UpdateQuantity(t.Context(), "404", 3)

		assert.Empty(t, c.Items)
		cs.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	})
}

func TestCartStoreClearCart(t *testing.T) {
	s, rec, _ := newCartStore(t)
	s.AddToCart(t.Context(), product("1", 1))
	s.AddToCart(t.Context(), product("2", 1))

	c := s.ClearCart(t.Context())
	assert.Empty(t, c.Items)
	assert.Equal(t, domain.NewCartCleared(), rec.last())

	rec.reset()
	s.ClearCart(t.Context())
	assert.Equal(t, []domain.NotificationKind{domain.CartCleared}, rec.kinds())
}

func TestCartStoreTotal(t *testing.T) {
	s, _, _ := newCartStore(t)
	prices := []float64{0.1, 19.99, 0.2, 1234.56, 3.333}

	var want float64
	for i, price := range prices {
		p := product(fmt.Sprint(i), price)
		for range i + 1 {
			s.AddToCart(t.Context(), p)
		}
		want += price * float64(i+1)
	}

	c := s.Snapshot()
	assert.InDelta(t, want, c.Total(), 1e-9)
	assert.InDelta(t, want, s.Total(), 1e-9)
	assert.Equal(t, 15, c.ItemCount())
}

func TestCartStoreSaveForLater(t *testing.T) {
	t.Run("MoveRoundTrip", func(t *testing.T) {
		s, _, _ := newCartStore(t)
		p := product("1", 3)
		s.AddToCart(t.Context(), p)
		s.UpdateQuantity(t.Context(), "1", 5)

		c := s.SaveForLater(t.Context(), "1")
		assert.False(t, c.Contains("1"))
		assert.True(t, c.IsSaved("1"))

		c = s.MoveToCart(t.Context(), "1")
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)
		assert.False(t, c.IsSaved("1"))
	})

	t.Run("Notifications", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		p := product("1", 3)
		s.AddToCart(t.Context(), p)
		rec.reset()

		s.SaveForLater(t.Context(), "1")
		assert.Equal(t,
			[]domain.NotificationKind{domain.CartItemRemoved, domain.CartItemSaved},
			rec.kinds(),
		)
		assert.Equal(t, "Product 1 has been saved for later", rec.last().Description)
	})

	t.Run("NoDuplicateSaved", func(t *testing.T) {
		s, _, _ := newCartStore(t)
		p := product("1", 3)

		s.AddToCart(t.Context(), p)
		s.SaveForLater(t.Context(), "1")
		s.AddToCart(t.Context(), p)
		c := s.SaveForLater(t.Context(), "1")

		assert.Len(t, c.Saved, 1)
		assert.Empty(t, c.Items)
	})

	t.Run("Unknown", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		c := s.SaveForLater(t.Context(), "404")
		assert.Empty(t, c.Saved)
		assert.Empty(t, rec.kinds())
	})
}

func TestCartStoreMoveToCart(t *testing.T) {
	t.Run("IncrementsExistingLine", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		p := product("1", 3)
		s.AddToCart(t.Context(), p)
		s.SaveForLater(t.Context(), "1")
		s.AddToCart(t.Context(), p)
		rec.reset()

		c := s.MoveToCart(t.Context(), "1")
		require.Len(t, c.Items, 1)
		assert.Equal(t, 2, c.Items[0].Quantity)
		assert.Empty(t, c.Saved)
		assert.Equal(t, []domain.NotificationKind{domain.CartQuantityIncreased}, rec.kinds())
	})

	t.Run("Unknown", func(t *testing.T) {
		s, rec, _ := newCartStore(t)
		c := s.MoveToCart(t.Context(), "404")
		assert.Empty(t, c.Items)
		assert.Empty(t, rec.kinds())
	})
}

func TestCartStoreRemoveFromSaved(t *testing.T) {
	s, rec, _ := newCartStore(t)
	s.AddToCart(t.Context(), product("1", 1))
	s.AddToCart(t.Context(), product("2", 1))
	s.SaveForLater(t.Context(), "1")
	s.SaveForLater(t.Context(), "2")
	rec.reset()

	c := s.RemoveFromSaved(t.Context(), "1")
	require.Len(t, c.Saved, 1)
	assert.Equal(t, "2", c.Saved[0].ID)
	assert.Empty(t, rec.kinds())

	c = s.RemoveFromSaved(t.Context(), "404")
	assert.Len(t, c.Saved, 1)
}

func TestCartStorePersistence(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		s, _, kv := newCartStore(t)
		s.AddToCart(t.Context(), product("1", 10))
		s.AddToCart(t.Context(), product("2", 20))
		s.AddToCart(t.Context(), product("1", 10))
		s.AddToCart(t.Context(), product("3", 30))
		s.SaveForLater(t.Context(), "3")
		want := s.Snapshot()

		rehydrated := service.NewCartStore(
			t.Context(), persistence.New(kv), new(notificationRecorder),
		)
		assert.Equal(t, want, rehydrated.Snapshot())
	})

	t.Run("RoundTripAfterMoveAndClear", func(t *testing.T) {
		s, _, kv := newCartStore(t)
		s.AddToCart(t.Context(), product("1", 10))
		s.SaveForLater(t.Context(), "1")
		s.MoveToCart(t.Context(), "1")
		want := s.Snapshot()

		rehydrated := service.NewCartStore(
			t.Context(), persistence.New(kv), new(notificationRecorder),
		)
		assert.Equal(t, want, rehydrated.Snapshot())

		s.ClearCart(t.Context())
		want = s.Snapshot()
		rehydrated = service.NewCartStore(
			t.Context(), persistence.New(kv), new(notificationRecorder),
		)
		assert.Equal(t, want, rehydrated.Snapshot())
	})

	t.Run("CorruptRecovery", func(t *testing.T) {
		kv := storage.NewMemoryStorage()
		require.NoError(t, kv.Set(t.Context(), persistence.CartKey, []byte(`[{"product":`)))
		require.NoError(t, kv.Set(t.Context(), persistence.SavedKey, []byte(`"nope"`)))

		var s *service.CartStore
		require.NotPanics(t, func() {
			s = service.NewCartStore(t.Context(), persistence.New(kv), new(notificationRecorder))
		})
		c := s.Snapshot()
		assert.Empty(t, c.Items)
		assert.Empty(t, c.Saved)
	})

	t.Run("LoadFailure", func(t *testing.T) {
		cs := new(MockCartStorage)
		cs.On("LoadCart", mock.Anything).Return(nil, errors.New("medium is down"))
		cs.On("LoadSaved", mock.Anything).Return([]domain.Product{product("9", 1)}, nil)

		s := service.NewCartStore(t.Context(), cs, new(notificationRecorder))
		c := s.Snapshot()
		assert.Empty(t, c.Items)
		assert.Len(t, c.Saved, 1)
	})

	t.Run("WriteFailureKeepsState", func(t *testing.T) {
		cs := new(MockCartStorage)
		cs.On("LoadCart", mock.Anything).Return(nil, nil)
		cs.On("LoadSaved", mock.Anything).Return(nil, nil)
		cs.On("SaveCart", mock.Anything, mock.Anything).Return(errors.New("medium is down"))

		s := service.NewCartStore(t.Context(), cs, new(notificationRecorder))
		c := s.AddToCart(t.Context(), product("1", 1))
		assert.True(t, c.Contains("1"))
		assert.True(t, s.Snapshot().Contains("1"))
	})

	t.Run("WritesChangedListsOnly", func(t *testing.T) {
		cs := new(MockCartStorage)
		cs.On("LoadCart", mock.Anything).Return(nil, nil)
		cs.On("LoadSaved", mock.Anything).Return(nil, nil)
		cs.On("SaveCart", mock.Anything, mock.Anything).Return(nil)
		cs.On("SaveSaved", mock.Anything, mock.Anything).Return(nil)

		s := service.NewCartStore(t.Context(), cs, new(notificationRecorder))

		s.AddToCart(t.Context(), product("1", 1))
		cs.AssertNumberOfCalls(t, "SaveCart", 1)
		cs.AssertNumberOfCalls(t, "SaveSaved", 0)

		s.SaveForLater(t.Context(), "1")
		cs.AssertNumberOfCalls(t, "SaveCart", 2)
		cs.AssertNumberOfCalls(t, "SaveSaved", 1)

		s.RemoveFromSaved(t.Context(), "1")
		cs.AssertNumberOfCalls(t, "SaveCart", 2)
		cs.AssertNumberOfCalls(t, "SaveSaved", 2)

		s.RemoveFromCart(t.Context(), "404")
		cs.AssertNumberOfCalls(t, "SaveCart", 2)
	})
}

func TestCartStoreSubscribe(t *testing.T) {
	s, _, _ := newCartStore(t)

	var got []int
	unsubscribe := s.Subscribe(func(c domain.Cart) {
		got = append(got, c.ItemCount())
		assert.Equal(t, c, s.Snapshot())
	})

	s.AddToCart(t.Context(), product("1", 1))
	s.AddToCart(t.Context(), product("1", 1))
	s.RemoveFromCart(t.Context(), "404")
	s.UpdateQuantity(t.Context(), "1", 7)
	unsubscribe()
	unsubscribe()
	s.ClearCart(t.Context())

	assert.Equal(t, []int{1, 2, 7}, got)
}

func TestCartStoreSnapshotIsImmutable(t *testing.T) {
	s, _, _ := newCartStore(t)
	before := s.AddToCart(t.Context(), product("1", 1))

	s.AddToCart(t.Context(), product("1", 1))
	s.AddToCart(t.Context(), product("2", 1))
	s.SaveForLater(t.Context(), "1")

	require.Len(t, before.Items, 1)
	assert.Equal(t, 1, before.Items[0].Quantity)
	assert.Empty(t, before.Saved)
}

func TestCartStoreConcurrentAdds(t *testing.T) {
	s, _, _ := newCartStore(t)
	p := product("1", 1)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			s.AddToCart(t.Context(), p)
		}()
	}
	wg.Wait()

	c := s.Snapshot()
	require.Len(t, c.Items, 1)
	assert.Equal(t, n, c.Items[0].Quantity)
}
