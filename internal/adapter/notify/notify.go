package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
)

var (
	_ port.Notifier = (*LogNotifier)(nil)
	_ port.Notifier = (*WriterNotifier)(nil)
	_ port.Notifier = (Multi)(nil)
)

// A LogNotifier writes notifications to the default logger.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n domain.Notification) {
	slog.InfoContext(ctx, n.Title,
		"kind", string(n.Kind),
		"description", n.Description,
		"product_id", n.ProductID,
	)
}

// A WriterNotifier prints notifications as toast lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, v domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "» %s: %s\n", v.Title, v.Description)
}

// Multi fans a notification out in order.
type Multi []port.Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}
