// Command ordertrack follows one order through the ikanmart API and prints a
// notification for every status change. Press Enter to poll immediately.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polkiloo/ikanmart/internal/adapter/ordersapi"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/logger"
	"github.com/polkiloo/ikanmart/internal/watcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "ordertrack: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ordertrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", envOr("IKANMART_API", "http://localhost:8080"), "ikanmart API base URL")
	orderID := fs.String("order", "", "order id to follow")
	level := fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	interval := fs.Duration("interval", 0, "Poll every status at this interval instead of the adaptive defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *orderID == "" {
		return fmt.Errorf("order id is required")
	}

	log := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: logger.ParseLevel(*level)}))
	client, err := ordersapi.NewClient(*apiURL, log)
	if err != nil {
		return err
	}

	opts := watcher.Options{Logger: log}
	if *interval > 0 {
		opts.Intervals = make(map[model.OrderStatus]time.Duration)
		for status := range watcher.DefaultIntervals() {
			opts.Intervals[status] = *interval
		}
	}

	w := watcher.Watch(ctx, client, *orderID,
		func(from, to model.OrderStatus) {
			log.Info("status changed", slog.String("from", string(from)), slog.String("to", string(to)))
		},
		func(n watcher.Notification) {
			fmt.Fprintf(stdout, "[%s] %s: %s\n", n.Status, n.Title, n.Body)
		},
		opts,
	)
	defer w.Stop()

	go func() {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			w.Refresh()
		}
	}()

	<-w.Done()
	if status, ok := w.Last(); ok {
		fmt.Fprintf(stdout, "order %s is %s\n", *orderID, status)
	}
	return nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
