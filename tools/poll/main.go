// Command poll waits for a payment transaction to settle through the HTTP API.
//
//	poll --base-url http://localhost:8080 --token $TOKEN TXN...
//
// Exit status is 0 on success, 1 on failure, 2 on timeout and 3 on error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investplan/services/poller"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "payments API base URL")
	token := flag.String("token", os.Getenv("POLL_TOKEN"), "bearer token (defaults to $POLL_TOKEN)")
	interval := flag.Duration("interval", poller.DefaultInterval, "time between checks")
	attempts := flag.Int("attempts", poller.DefaultMaxAttempts, "maximum number of checks")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := flag.BoolP("verbose", "v", false, "log every failed check")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: poll [flags] <transactionId>")
		flag.PrintDefaults()
		os.Exit(3)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := &poller.Poller{
		Checker:     poller.NewHTTPChecker(*baseURL, *token, *timeout),
		Interval:    *interval,
		MaxAttempts: *attempts,
		Logger:      logger,
	}
	res, err := p.Poll(ctx, flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "poll: %v\n", err)
		os.Exit(3)
	}

	fmt.Printf("%s (%s after %d checks)\n", res.Outcome.Message(), res.Status, res.Attempts)
	switch res.Outcome {
	case poller.OutcomeSuccess:
		os.Exit(0)
	case poller.OutcomeFailed:
		os.Exit(1)
	default:
		os.Exit(2)
	}
}
