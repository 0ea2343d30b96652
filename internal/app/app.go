package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/niksmo/minizon/config"
	"github.com/niksmo/minizon/internal/adapter/catalog"
	"github.com/niksmo/minizon/internal/adapter/cli"
	"github.com/niksmo/minizon/internal/adapter/kafka"
	"github.com/niksmo/minizon/internal/adapter/notify"
	"github.com/niksmo/minizon/internal/adapter/persistence"
	"github.com/niksmo/minizon/internal/adapter/storage"
	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/niksmo/minizon/internal/core/port"
	"github.com/niksmo/minizon/internal/core/service"
	"github.com/niksmo/minizon/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type App struct {
	ctx      context.Context
	cfg      config.Config
	in       io.Reader
	out      io.Writer
	kv       port.KeyValueStorage
	notifier port.Notifier
	catalog  *catalog.Catalog
	service  service.Service
	cli      *cli.CLI
	closers  []func()
}

// New wires the application. Startup failures panic.
func New(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) *App {
	app := &App{ctx: ctx, cfg: cfg, in: in, out: out}

	app.initLogger()
	app.initStorage()
	app.initNotifier()
	app.initCatalog()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	switch app.cfg.Storage.Driver {
	case config.DriverMemory:
		app.kv = storage.NewMemoryStorage()

	case config.DriverRedis:
		redisCfg := app.cfg.Storage.Redis
		rdb, err := storage.NewRedisClient(app.ctx, storage.RedisConfig{
			URL:          redisCfg.URL,
			ReadTimeout:  redisCfg.ReadTimeout,
			WriteTimeout: redisCfg.WriteTimeout,
			DialTimeout:  redisCfg.DialTimeout,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.kv = storage.NewRedisStorage(rdb, redisCfg.TTL)
		app.onClose(func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "op", op, "err", err)
			}
		})

	case config.DriverSQL:
		db, err := storage.NewSQLDB(app.ctx, app.cfg.Storage.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.kv = storage.NewSQLStorage(db)
		app.onClose(db.Close)

	default:
		app.fallDown(op, fmt.Errorf("unknown storage driver %q", app.cfg.Storage.Driver))
	}
}

func (app *App) initNotifier() {
	notifiers := notify.Multi{
		notify.LogNotifier{},
		notify.NewWriterNotifier(app.out),
	}

	if app.cfg.Broker.Enabled() {
		notifiers = append(notifiers, app.initCartEventsProducer())
	}

	app.notifier = notifiers
}

func (app *App) initCartEventsProducer() port.Notifier {
	const op = "App.initCartEventsProducer"

	broker := app.cfg.Broker

	srClient, err := sr.NewClient(sr.URLs(broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeCartEventV1(
		app.ctx,
		schema.SubjectOpt(broker.Topics.CartEvents+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	tlsCfg := app.brokerTLS()
	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(app.ctx, broker.SeedBrokers, broker.Topics.CartEvents, tlsCfg),
		kafka.ProducerEncoderOpt(serde),
		kafka.ProfileOpt(app.cfg.Profile),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.onClose(producer.Close)
	return producer
}

func (app *App) brokerTLS() *tls.Config {
	const op = "App.brokerTLS"

	t := app.cfg.Broker.TLS
	if t.CA == "" {
		return nil
	}
	tlsCfg, err := kafka.MakeTLSConfig(t.CA, t.Cert, t.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	return tlsCfg
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	c, err := catalog.Default()
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = c
}

func (app *App) initCoreService() {
	adapter := persistence.New(
		app.kv,
		persistence.ProfileOpt(app.cfg.Profile),
		persistence.WriteAttemptsOpt(app.cfg.Storage.WriteAttempts),
	)

	var wishlistStorage port.WishlistStorage
	if app.cfg.Wishlist.Persist {
		wishlistStorage = adapter
	}

	app.service = service.New(
		app.ctx, adapter, wishlistStorage, app.notifier, app.pricing(),
	)
}

func (app *App) initInboundAdapters() {
	app.cli = cli.New(
		app.service.Cart,
		app.service.Wishlist,
		app.catalog,
		app.service.Pricing(),
		app.in,
		app.out,
	)
}

func (app *App) pricing() domain.Pricing {
	p := app.cfg.Pricing
	return domain.Pricing{
		FreeShippingThreshold: p.FreeShippingThreshold,
		ShippingFee:           p.ShippingFee,
		TaxRate:               p.TaxRate,
	}
}

// Run executes one command line.
func (app *App) Run(args []string) error {
	slog.Debug("running command", "args", args)
	return app.cli.Run(app.ctx, args)
}

func (app *App) Close() {
	slog.Debug("application is closing...")

	for _, fn := range slices.Backward(app.closers) {
		fn()
	}

	slog.Debug("application is closed")
}

func (app *App) onClose(fn func()) {
	app.closers = append(app.closers, fn)
}

func (app *App) fallDown(op string, err error) {
	app.Close()
	panic(fmt.Errorf("%s: %w", op, err))
}
