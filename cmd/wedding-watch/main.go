package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"

	"wedding-app-go/internal/client"
	"wedding-app-go/internal/live"
	"wedding-app-go/internal/realtime"
	"wedding-app-go/internal/realtime/wsfeed"
	"wedding-app-go/pkg/logger"
)

const (
	version  = "0.1.0"
	tokenEnv = "WEDDING_API_TOKEN"
)

const usage = `Wedding live watch.

Prints one list of the planner's wedding and keeps it current, along with
the notifications its changes raise.

Usage:
    wedding-watch (guests|tables|categories|expenses|vendors|photos|songs) [options]
    wedding-watch seats <table_id> [options]
    wedding-watch (appointments|contracts|payments|reviews) <vendor_id> [options]
    wedding-watch comments <photo_id> [options]
    wedding-watch -h | --help
    wedding-watch --version

Options:
    -h --help              Show this screen.
    --version              Show version.
    --api_url=<api_url>    API base url [default: http://localhost:8080].
    --token=<token>        Access token. Defaults to $WEDDING_API_TOKEN.
    --quiet                Print notifications only.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := docopt.ParseArgs(usage, args, version)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	_ = godotenv.Load()

	log := logger.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watch(ctx, opts, log); err != nil {
		log.Error("wedding-watch: stopped", "error", err.Error())
		return 1
	}
	return 0
}

func watch(ctx context.Context, opts docopt.Opts, log logger.Logger) error {
	apiURL, _ := opts.String("--api_url")
	token, _ := opts.String("--token")
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		return errors.New("an access token is required, pass --token or set " + tokenEnv)
	}
	quiet, _ := opts.Bool("--quiet")

	source, err := client.New(apiURL, token, 0)
	if err != nil {
		return err
	}
	feed, err := wsfeed.NewClient(apiURL, source.Header(), 0, log)
	if err != nil {
		return err
	}

	out := newPrinter(os.Stdout, quiet)
	deps := live.Deps{Feed: feed, Source: source, Notifier: out, Log: log}

	// wedding-level lists are scoped by the caller's wedding id
	weddingID := func() (string, error) {
		wedding, err := source.Wedding(ctx)
		if err != nil {
			return "", fmt.Errorf("load wedding: %w", err)
		}
		return wedding.ID, nil
	}
	arg := func(name string) string {
		value, _ := opts.String(name)
		return value
	}

	switch entity := command(opts); entity {
	case "seats":
		return follow(ctx, out, entity, deps, live.Seats, arg("<table_id>"), formatSeat)
	case "comments":
		return follow(ctx, out, entity, deps, live.Comments, arg("<photo_id>"), formatComment)
	case "appointments":
		return follow(ctx, out, entity, deps, live.Appointments, arg("<vendor_id>"), formatAppointment)
	case "contracts":
		return follow(ctx, out, entity, deps, live.Contracts, arg("<vendor_id>"), formatContract)
	case "payments":
		return follow(ctx, out, entity, deps, live.Payments, arg("<vendor_id>"), formatPayment)
	case "reviews":
		return follow(ctx, out, entity, deps, live.Reviews, arg("<vendor_id>"), formatReview)
	case "":
		return errors.New("no list selected")
	default:
		scope, err := weddingID()
		if err != nil {
			return err
		}
		switch entity {
		case "guests":
			return follow(ctx, out, entity, deps, live.Guests, scope, formatGuest)
		case "tables":
			return follow(ctx, out, entity, deps, live.Tables, scope, formatTable)
		case "categories":
			return follow(ctx, out, entity, deps, live.Categories, scope, formatCategory)
		case "expenses":
			return follow(ctx, out, entity, deps, live.Expenses, scope, formatExpense)
		case "vendors":
			return follow(ctx, out, entity, deps, live.Vendors, scope, formatVendor)
		case "photos":
			return follow(ctx, out, entity, deps, live.Photos, scope, formatPhoto)
		default:
			return follow(ctx, out, entity, deps, live.Songs, scope, formatSong)
		}
	}
}

var commands = []string{
	"guests", "tables", "seats", "categories", "expenses",
	"vendors", "appointments", "contracts", "payments", "reviews",
	"photos", "comments", "songs",
}

func command(opts docopt.Opts) string {
	for _, name := range commands {
		if selected, _ := opts.Bool(name); selected {
			return name
		}
	}
	return ""
}

// follow runs one mirror until ctx ends.
func follow[T any](
	ctx context.Context,
	out *printer,
	name string,
	deps live.Deps,
	build func(live.Deps, live.Watch[T]) *realtime.Mirror[T],
	scope string,
	format func(T) string,
) error {
	mirror := build(deps, live.Watch[T]{
		Scope: scope,
		OnChange: func(state realtime.State[T]) {
			printState(out, name, state, format)
		},
	})
	defer mirror.Close()

	if err := mirror.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
