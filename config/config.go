package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "MINIZON_CONFIG_FILE"
	envPrefix         = "MINIZON"
	defaultConfigFile = "./config.yaml"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQL    = "sql"
)

type redis struct {
	URL          string        `mapstructure:"url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	TTL          time.Duration `mapstructure:"ttl"`
}

type storage struct {
	Driver        string `mapstructure:"driver"`
	Redis         redis  `mapstructure:"redis"`
	SQLDB         string `mapstructure:"sql_db"`
	WriteAttempts int    `mapstructure:"write_attempts"`
}

type wishlist struct {
	Persist bool `mapstructure:"persist"`
}

type pricing struct {
	FreeShippingThreshold float64 `mapstructure:"free_shipping_threshold"`
	ShippingFee           float64 `mapstructure:"shipping_fee"`
	TaxRate               float64 `mapstructure:"tax_rate"`
}

type topics struct {
	CartEvents string `mapstructure:"cart_events"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
}

// Enabled reports whether cart events are published.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel slog.Level `mapstructure:"log_level"`
	Profile  string     `mapstructure:"profile"`
	Storage  storage    `mapstructure:"storage"`
	Wishlist wishlist   `mapstructure:"wishlist"`
	Pricing  pricing    `mapstructure:"pricing"`
	Broker   broker     `mapstructure:"broker"`
}

// Load reads the config from the command line, the environment and the
// config file and returns the remaining command line arguments.
func Load() (Config, []string) {
	cfg, args, err := LoadArgs(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg, args
}

// LoadArgs is [Load] for explicit arguments.
//
// Flags are parsed up to the first positional argument.
func LoadArgs(args []string) (Config, []string, error) {
	const op = "config.LoadArgs"

	if err := loadDotEnv(); err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	cmdLine := pflag.NewFlagSet("minizon", pflag.ContinueOnError)
	cmdLine.SetInterspersed(false)
	cmdLine.SetOutput(io.Discard)
	arg := cmdLine.String("config", defaultConfigFile, "config file")
	if err := cmdLine.Parse(args); err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configFilepath(*arg))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, cmdLine.Args(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("profile", "")
	v.SetDefault("storage.driver", DriverRedis)
	v.SetDefault("storage.redis.url", "redis://localhost:6379/0")
	v.SetDefault("storage.redis.read_timeout", 3*time.Second)
	v.SetDefault("storage.redis.write_timeout", 3*time.Second)
	v.SetDefault("storage.redis.dial_timeout", 5*time.Second)
	v.SetDefault("storage.redis.ttl", time.Duration(0))
	v.SetDefault("storage.sql_db", "")
	v.SetDefault("storage.write_attempts", 3)
	v.SetDefault("wishlist.persist", false)
	v.SetDefault("pricing.free_shipping_threshold", 50.0)
	v.SetDefault("pricing.shipping_fee", 9.99)
	v.SetDefault("pricing.tax_rate", 0.08)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.cart_events", "minizon-cart-events")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
}

func (c Config) validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQL:
		if c.Storage.SQLDB == "" {
			errs = append(errs, errors.New("storage.sql_db is required for sql driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if c.Storage.WriteAttempts < 1 {
		errs = append(errs, errors.New("storage.write_attempts must be positive"))
	}

	if c.Pricing.FreeShippingThreshold < 0 ||
		c.Pricing.ShippingFee < 0 || c.Pricing.TaxRate < 0 {
		errs = append(errs, errors.New("pricing values must not be negative"))
	}

	if c.Broker.Enabled() && len(c.Broker.SchemaRegistryURLs) == 0 {
		errs = append(errs, errors.New("broker.schema_registry_urls is required"))
	}

	return errors.Join(errs...)
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func configFilepath(arg string) string {
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return arg
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print(w io.Writer) {
	template := `
	General:
	LogLevel=%q
	Profile=%q

	Storage:
	Driver=%q
	RedisURL=%q
	RedisTTL=%q
	SQLDB=%q
	WriteAttempts=%d
	PersistWishlist=%t

	Pricing:
	FreeShippingThreshold=%.2f
	ShippingFee=%.2f
	TaxRate=%.4f

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CartEvents=%q

`
	fmt.Fprintln(w, "Loaded config:")
	fmt.Fprintf(
		w,
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.Profile,
		c.Storage.Driver,
		hideUserinfo(c.Storage.Redis.URL),
		c.Storage.Redis.TTL,
		hideUserinfo(c.Storage.SQLDB),
		c.Storage.WriteAttempts,
		c.Wishlist.Persist,
		c.Pricing.FreeShippingThreshold,
		c.Pricing.ShippingFee,
		c.Pricing.TaxRate,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CartEvents,
	)
}

// hideUserinfo drops credentials from a connection url. Values that are not
// urls are hidden completely.
func hideUserinfo(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		return "<hidden>"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<hidden>"
	}
	u.User = nil
	return u.String()
}
