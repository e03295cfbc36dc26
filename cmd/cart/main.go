package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/angelmondragon/shopcart/internal/cart"
	"github.com/angelmondragon/shopcart/internal/catalog"
	"github.com/angelmondragon/shopcart/pkg/config"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/logger"
	"github.com/angelmondragon/shopcart/pkg/metrics"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const usage = `usage: cart [-json] [--] op...

Each op is name[:qty] to add or -name[:qty] to remove (qty defaults to 1).
Put -- before the first op when it is a removal.
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logg := logger.New(logger.Options{ServiceName: "cart", Output: stderr})

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	flags := flag.NewFlagSet("cart", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	asJSON := flags.Bool("json", false, "print the cart summary as JSON")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      stderr,
	})

	sessionID := uuid.NewString()
	ctx = logg.WithSessionID(ctx, sessionID)
	ctx = logg.WithField(ctx, "catalog_source", cfg.Catalog.Source)

	ops, err := parseOps(flags.Args())
	if err != nil {
		return fail(ctx, logg, stderr, "invalid arguments", err)
	}

	registry := prometheus.NewRegistry()
	chain, err := catalog.FromConfig(ctx, cfg, catalog.Deps{Logger: logg, Registerer: registry})
	if err != nil {
		return fail(ctx, logg, stderr, "failed to build catalog", err)
	}
	defer func() {
		if err := chain.Close(); err != nil {
			logg.Error(ctx, "error closing catalog", err)
		}
	}()

	shoppingCart, err := cart.New(chain)
	if err != nil {
		return fail(ctx, logg, stderr, "failed to create cart", err)
	}

	if err := apply(ctx, shoppingCart, ops, logg); err != nil {
		return fail(ctx, logg, stderr, "cart operation rejected", err)
	}

	s, err := buildSummary(sessionID, chain.Source(), shoppingCart)
	if err != nil {
		return fail(ctx, logg, stderr, "failed to price cart", err)
	}

	write := writeText
	if *asJSON {
		write = writeJSON
	}
	if err := write(stdout, s); err != nil {
		return fail(ctx, logg, stderr, "failed to write summary", err)
	}

	if cfg.Metrics.Enabled {
		if err := metrics.WriteText(stderr, registry); err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "failed to write metrics")
		}
	}

	logg.Info(logg.WithField(ctx, "lines", shoppingCart.Len()), "cart priced")
	return 0
}

// fail logs err, prints its public message and maps it to an exit code.
func fail(ctx context.Context, logg *logger.Logger, stderr io.Writer, msg string, err error) int {
	logg.Error(logg.WithField(ctx, "error_dump", pkgerrors.Dump(err)), msg, err)
	typed := pkgerrors.As(err)
	if typed == nil {
		fmt.Fprintf(stderr, "cart: %s: %v\n", msg, err)
		return 1
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	fmt.Fprintf(stderr, "cart: %s: %s\n", meta.PublicMessage, typed.Message())
	return meta.ExitCode
}
