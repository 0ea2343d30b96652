package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
	"github.com/niksmo/minizon/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultProfile = "default"

var _ port.Notifier = (*CartEventsProducer)(nil)

// A CartEventsProducer publishes store notifications as cart events.
type CartEventsProducer struct {
	cl       ProducerClient
	encoder  Encoder
	profile  string
	now      func() time.Time
	opPrefix string
}

// NewCartEventsProducer requires a client option and [ProducerEncoderOpt].
func NewCartEventsProducer(opts ...ProducerOpt) (*CartEventsProducer, error) {
	const op = "NewCartEventsProducer"

	if len(opts) < 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	options := producerOpts{profile: defaultProfile}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			if options.cl != nil {
				options.cl.Close()
			}
			return nil, opErr(err, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	if options.profile == "" {
		options.profile = defaultProfile
	}

	return &CartEventsProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		profile:  options.profile,
		now:      time.Now,
		opPrefix: "CartEventsProducer",
	}, nil
}

// Notify produces the event synchronously.
//
// Failures are logged, the caller is never interrupted.
func (p *CartEventsProducer) Notify(ctx context.Context, n domain.Notification) {
	const op = "Notify"
	log := slog.With("op", makeOp(p.opPrefix, op))

	if err := p.produce(ctx, n); err != nil {
		log.Error("failed to produce cart event", "kind", n.Kind, "err", err)
	}
}

func (p *CartEventsProducer) produce(
	ctx context.Context, n domain.Notification,
) error {
	const op = "produce"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(n)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p *CartEventsProducer) createRecord(
	n domain.Notification,
) (*kgo.Record, error) {
	const op = "createRecord"

	b, err := p.encoder.Encode(p.toSchema(n))
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(p.profile), Value: b}, nil
}

func (p *CartEventsProducer) toSchema(n domain.Notification) schema.CartEventV1 {
	return schema.CartEventV1{
		Profile:     p.profile,
		Kind:        string(n.Kind),
		Title:       n.Title,
		Description: n.Description,
		ProductID:   n.ProductID,
		OccurredAt:  p.now().UTC().Truncate(time.Millisecond),
	}
}

func (p *CartEventsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}
