package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niksmo/minizon/config"
	"github.com/niksmo/minizon/internal/adapter/cli"
	"github.com/niksmo/minizon/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	sigCtx, stop := signalContext()
	defer stop()

	cfg, args := config.Load()
	if len(args) != 0 && args[0] == "config" {
		cfg.Print(os.Stdout)
		return 0
	}

	minizon := app.New(sigCtx, cfg, os.Stdin, os.Stdout)
	defer minizon.Close()

	err := minizon.Run(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minizon: %v\n", err)
	}
	return cli.ExitCode(err)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
}
