package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/niksmo/minizon/internal/adapter/notify"
	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.Called(ctx, n)
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewWriterNotifier(&buf)

	n.Notify(t.Context(), domain.NewCartCleared())
	assert.Equal(t, "» Cart cleared: All items have been removed from your cart\n", buf.String())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	p := domain.Product{ID: "7", Name: "Lamp"}
	notify.LogNotifier{}.Notify(t.Context(), domain.NewWishlistItemAdded(p))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Added to wishlist", record["msg"])
	assert.Equal(t, "wishlist.item_added", record["kind"])
	assert.Equal(t, "7", record["product_id"])
}

func TestMulti(t *testing.T) {
	first, second := new(MockNotifier), new(MockNotifier)
	n := domain.NewCartCleared()

	var order []string
	first.On("Notify", mock.Anything, n).Run(func(mock.Arguments) {
		order = append(order, "first")
	})
	second.On("Notify", mock.Anything, n).Run(func(mock.Arguments) {
		order = append(order, "second")
	})

	notify.Multi{first, second}.Notify(t.Context(), n)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
	assert.Equal(t, []string{"first", "second"}, order)
}
