// Command dashboard is the staff command line for browsing and editing
// customers against the API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/Raymond9734/customer-dashboard/internal/client"
	"github.com/Raymond9734/customer-dashboard/internal/config"
	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/notify"
	"github.com/Raymond9734/customer-dashboard/internal/store"
	"github.com/Raymond9734/customer-dashboard/internal/view"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app is the client core assembled for a single command
type app struct {
	client     *client.Client
	store      *store.Store
	view       *view.Orchestrator
	dispatcher *notify.Dispatcher
	tray       *notify.Tray
	stdout     io.Writer
}

func (a *app) close() {
	a.store.Close()
	a.tray.Close()
	a.dispatcher.Close()
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", cfg.Dashboard.APIURL, "base URL of the API server")
	timeout := fs.Duration("timeout", cfg.Dashboard.Timeout, "per-request timeout")
	verbose := fs.Bool("v", false, "log requests and notifications to stderr")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}

	c, err := client.New(*apiURL, client.WithTimeout(*timeout), client.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	dispatcher := notify.NewDispatcher()
	if *verbose {
		dispatcher.Subscribe(notify.LogListener(logger))
	}
	tray := notify.NewTray(dispatcher)
	s := store.New(c, dispatcher, logger)

	a := &app{
		client:     c,
		store:      s,
		view:       view.New(s),
		dispatcher: dispatcher,
		tray:       tray,
		stdout:     stdout,
	}
	defer a.close()

	err = cmd.run(ctx, a, fs.Args()[1:])
	shownError := printNotifications(stderr, tray.Active())

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return 2
	default:
		if !shownError {
			fmt.Fprintf(stderr, "error: %s\n", models.UserMessage(err, err.Error()))
		}
		return 1
	}
}

// printNotifications writes the tray and reports whether it held an error
func printNotifications(w io.Writer, entries []notify.Entry) bool {
	hasError := false
	for _, e := range entries {
		if e.Kind == notify.KindError {
			hasError = true
		}
		fmt.Fprintf(w, "[%s] %s\n", e.Kind, e.Message)
	}
	return hasError
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: dashboard [flags] <command> [args]")
	fmt.Fprintln(out, "\ncommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-12s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}
