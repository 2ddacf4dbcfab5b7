package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nikolayk812/storefront/internal/cartstore"
	"github.com/nikolayk812/storefront/internal/client"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local shopping cart",
		Long: `Manage the shopping cart kept in the --state file.

Quantities are clamped to the stock known for each product. Unless --offline is
set, every change is sent to the API and the cart it returns replaces the local
copy; a change the API rejects is rolled back.`,
	}

	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartUpdateCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))
	cmd.AddCommand(newCartSyncCommand(rootOpts))

	return cmd
}

type cartAction func(ctx context.Context, store *cartstore.Store, catalog *client.Catalog) (domain.Cart, error)

// runCart opens the cart state, runs action and prints the resulting cart.
func (o *RootOptions) runCart(cmd *cobra.Command, action cartAction) error {
	catalog, c, err := o.catalog(cmd)
	if err != nil {
		return err
	}
	defer c.close()

	opts := cartstore.Options{
		CartID: domain.CartID(o.CartID),
		Logger: o.logger(cmd.ErrOrStderr()),
	}
	if c.Client != nil {
		opts.Remote = c.Client
	}

	store, err := cartstore.Open(o.StatePath, opts)
	if err != nil {
		return fmt.Errorf("cartstore.Open: %w", err)
	}
	defer store.Close()

	cart, err := action(cmd.Context(), store, catalog)
	if err != nil {
		return err
	}
	return o.formatter(cmd.OutOrStdout()).Cart(cart)
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runCart(cmd, func(_ context.Context, store *cartstore.Store, _ *client.Catalog) (domain.Cart, error) {
				return store.Cart(), nil
			})
		},
	}
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product, 1 unit unless a quantity is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}

			qty := 1
			if len(args) == 2 {
				if qty, err = parseQuantity(args[1]); err != nil {
					return err
				}
			}

			return rootOpts.runCart(cmd, func(ctx context.Context, store *cartstore.Store, catalog *client.Catalog) (domain.Cart, error) {
				p, err := catalog.Get(ctx, id)
				if err != nil {
					return domain.Cart{}, err
				}
				return store.Add(ctx, p, qty)
			})
		},
	}
}

func newCartUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a product; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: quantity %q is not an integer", domain.ErrValidation, args[1])
			}

			return rootOpts.runCart(cmd, func(ctx context.Context, store *cartstore.Store, _ *client.Catalog) (domain.Cart, error) {
				return store.UpdateQuantity(ctx, id, qty)
			})
		},
	}
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}

			return rootOpts.runCart(cmd, func(ctx context.Context, store *cartstore.Store, _ *client.Catalog) (domain.Cart, error) {
				return store.Remove(ctx, id)
			})
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every product from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runCart(cmd, func(ctx context.Context, store *cartstore.Store, _ *client.Catalog) (domain.Cart, error) {
				return store.Clear(ctx)
			})
		},
	}
}

func newCartSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace the local cart with the server copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runCart(cmd, func(ctx context.Context, store *cartstore.Store, _ *client.Catalog) (domain.Cart, error) {
				return store.Refresh(ctx)
			})
		},
	}
}

func parseQuantity(s string) (int, error) {
	qty, err := strconv.Atoi(s)
	if err != nil || qty < 1 {
		return 0, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	return qty, nil
}
