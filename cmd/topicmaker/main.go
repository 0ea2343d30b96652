package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/niksmo/minizon/config"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	cleanupPolicy = "delete"
	retention     = 7 * 24 * time.Hour
)

type topicOpts struct {
	partitions        int32
	replicationFactor int16
	minISR            int
}

func main() {
	sigCtx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	cfg, args := config.Load()
	opts := parseTopicOpts(args)

	if !cfg.Broker.Enabled() {
		printFail(errors.New("broker.seed_brokers is empty"))
		os.Exit(2)
	}

	cl := createClient(cfg.Broker.SeedBrokers)
	defer cl.Close()

	printStart(cfg)
	defer printComplete(time.Now())

	err := makeTopics(sigCtx, cl, opts, cfg.Broker.Topics.CartEvents)
	if err != nil {
		printFail(err)
		return
	}
}

func parseTopicOpts(args []string) topicOpts {
	fs := pflag.NewFlagSet("topicmaker", pflag.ExitOnError)
	partitions := fs.Int32P("partitions", "p", 3, "topic partitions")
	replicationFactor := fs.Int16P("replication-factor", "r", 3, "topic replication factor")
	minISR := fs.Int("min-insync-replicas", 1, "min.insync.replicas")
	_ = fs.Parse(args)

	return topicOpts{
		partitions:        *partitions,
		replicationFactor: *replicationFactor,
		minISR:            *minISR,
	}
}

func createClient(seedBrokers []string) *kadm.Client {
	cl, err := kadm.NewOptClient(
		kgo.SeedBrokers(seedBrokers...),
	)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func topicConfig(opts topicOpts) map[string]*string {
	policy := cleanupPolicy
	minISR := strconv.Itoa(opts.minISR)
	retentionMs := strconv.FormatInt(retention.Milliseconds(), 10)

	return map[string]*string{
		"cleanup.policy":      &policy,
		"min.insync.replicas": &minISR,
		"retention.ms":        &retentionMs,
	}
}

func makeTopics(
	ctx context.Context, cl *kadm.Client, opts topicOpts, topics ...string,
) error {
	responses, err := cl.CreateTopics(
		ctx,
		opts.partitions,
		opts.replicationFactor,
		topicConfig(opts),
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		err := res.Err
		if err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(cfg config.Config) {
	fmt.Printf(`initializing topics...
	- %q

`,
		cfg.Broker.Topics.CartEvents,
	)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
