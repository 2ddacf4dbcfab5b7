package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/fixtures"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/migrations"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/nikolayk812/storefront/internal/server"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Run the REST API configured from the environment (and an optional .env file).

STORE_DRIVER=memory serves the sample catalog from memory; the default postgres
driver applies pending migrations on start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd.ErrOrStderr())
		},
	}
}

func runServe(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger := logging.New(logOut, cfg.LogLevel, cfg.IsDevelopment())

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	m := metrics.New()

	router := httpapi.NewRouter(httpapi.Options{
		Carts:       service.NewCart(st.carts, st.products, m, logger),
		Products:    service.NewProduct(st.products, logger),
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Development: cfg.IsDevelopment(),
		Currency:    cfg.Currency,
	})

	logger.Info().
		Str("env", cfg.Env).
		Str("store_driver", cfg.StoreDriver).
		Int("port", cfg.Port).
		Msg("starting storefront API")

	return server.New(cfg.Addr(), router, cfg.ShutdownTimeout, logger).Run(ctx)
}

type stores struct {
	products port.ProductRepository
	carts    port.CartRepository
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, logger zerolog.Logger) (stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		mem := memory.NewStore()

		products, err := fixtures.Products()
		if err != nil {
			return stores{}, fmt.Errorf("fixtures.Products: %w", err)
		}
		if _, err := service.NewProduct(mem.Products(), logger).Seed(ctx, products, false); err != nil {
			return stores{}, fmt.Errorf("seed memory store: %w", err)
		}

		return stores{products: mem.Products(), carts: mem.Carts(), close: func() {}}, nil
	}

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return stores{}, err
	}

	applied, err := migrations.Apply(ctx, pool)
	if err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("migrations.Apply: %w", err)
	}
	if len(applied) > 0 {
		logger.Info().Strs("migrations", applied).Msg("migrations applied")
	}

	return stores{
		products: repository.NewProduct(pool),
		carts:    repository.NewCart(pool),
		close:    pool.Close,
	}, nil
}

func openPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.StoreDriver != config.DriverPostgres {
		return nil, fmt.Errorf("STORE_DRIVER[%s]: a postgres database is required", cfg.StoreDriver)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}
	return pool, nil
}
