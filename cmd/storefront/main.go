package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/auth"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/render"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/currency"
)

var (
	verbose bool

	logger *zap.Logger
	env    *storefront
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Inspect and edit the storefront cart and demo accounts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		env, err = openStorefront(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(cartCmd, authCmd)
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())

	if env != nil {
		env.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level[%s] is not valid: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}

// storefront bundles the wired components one CLI invocation works with.
type storefront struct {
	cart     *cart.Store
	auth     *auth.Manager
	view     *render.HTMLView
	notifier *notify.Center
	prefix   string
	unit     currency.Unit

	closers []func()
}

func openStorefront(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storefront, error) {
	sf := &storefront{prefix: cfg.PricePrefix}

	kv, err := sf.openStorage(ctx, cfg)
	if err != nil {
		sf.Close()
		return nil, err
	}

	sf.unit, err = cfg.CurrencyUnit()
	if err != nil {
		sf.Close()
		return nil, err
	}
	tag, err := cfg.LanguageTag()
	if err != nil {
		sf.Close()
		return nil, err
	}

	sf.notifier = notify.NewCenter(
		notify.WithTTL(domain.NotificationSuccess, cfg.SuccessTTL),
		notify.WithTTL(domain.NotificationError, cfg.ErrorTTL),
		notify.WithEcho(os.Stdout),
		notify.WithLogger(logger.Named("notify")),
	)
	sf.closers = append(sf.closers, sf.notifier.Close)

	sf.view, err = render.NewHTMLView(render.NewPriceFormatter(cfg.PricePrefix, tag))
	if err != nil {
		sf.Close()
		return nil, fmt.Errorf("render.NewHTMLView: %w", err)
	}

	sf.cart = cart.New(repository.NewCart(kv, sf.unit), sf.view, sf.notifier,
		cart.WithLogger(logger.Named("cart")))
	if err := sf.cart.Restore(ctx); err != nil {
		sf.Close()
		return nil, fmt.Errorf("cart.Restore: %w", err)
	}

	sf.auth = auth.NewManager(repository.NewUser(kv), sf.notifier,
		auth.WithLogger(logger.Named("auth")))

	return sf, nil
}

func (sf *storefront) openStorage(ctx context.Context, cfg config.Config) (port.KVStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemoryKV(), nil

	case config.StorageSQLite:
		kv, err := repository.OpenSQLiteKV(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("repository.OpenSQLiteKV: %w", err)
		}
		sf.closers = append(sf.closers, func() { _ = kv.Close() })
		return kv, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		sf.closers = append(sf.closers, pool.Close)

		if err := repository.EnsurePostgresSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("repository.EnsurePostgresSchema: %w", err)
		}
		return repository.NewPostgresKV(pool), nil
	}

	return nil, fmt.Errorf("storage %q is not supported", cfg.Storage)
}

func (sf *storefront) Close() {
	for i := len(sf.closers) - 1; i >= 0; i-- {
		sf.closers[i]()
	}
	sf.closers = nil
}
