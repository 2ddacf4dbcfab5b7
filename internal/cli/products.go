package cli

import (
	"fmt"
	"io"

	"github.com/nikolayk812/storefront/internal/client"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		Long: `Browse the catalog served by the API.

When the API cannot be reached the built-in sample catalog is shown instead.`,
	}

	cmd.AddCommand(newProductsListCommand(rootOpts))
	cmd.AddCommand(newProductsGetCommand(rootOpts))

	return cmd
}

func newProductsListCommand(rootOpts *RootOptions) *cobra.Command {
	params := client.ListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, c, err := rootOpts.catalog(cmd)
			if err != nil {
				return err
			}
			defer c.close()

			page, err := catalog.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Products(page)
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", domain.DefaultPage, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", domain.DefaultLimit, "products per page")
	cmd.Flags().StringVar(&params.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&params.Sort, "sort", string(domain.SortCreatedAt), "sort key (createdAt|updatedAt|price|name|stock|rating)")
	cmd.Flags().StringVar(&params.Order, "order", "desc", "sort order (asc|desc)")

	return cmd
}

func newProductsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseProductID(args[0])
			if err != nil {
				return err
			}

			catalog, c, err := rootOpts.catalog(cmd)
			if err != nil {
				return err
			}
			defer c.close()

			p, err := catalog.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Product(p)
		},
	}
}

// apiClient is nil when running offline.
type apiClient struct {
	*client.Client
}

func (c apiClient) close() {
	if c.Client != nil {
		c.Client.Close()
	}
}

func (o *RootOptions) newClient() (apiClient, error) {
	if o.Offline {
		return apiClient{}, nil
	}
	c, err := client.New(o.APIURL)
	if err != nil {
		return apiClient{}, fmt.Errorf("client.New: %w", err)
	}
	return apiClient{c}, nil
}

func (o *RootOptions) catalog(cmd *cobra.Command) (*client.Catalog, apiClient, error) {
	c, err := o.newClient()
	if err != nil {
		return nil, apiClient{}, err
	}

	catalog, err := client.NewCatalog(cmd.Context(), c.Client, o.logger(cmd.ErrOrStderr()))
	if err != nil {
		c.close()
		return nil, apiClient{}, fmt.Errorf("client.NewCatalog: %w", err)
	}
	return catalog, c, nil
}

func (o *RootOptions) logger(w io.Writer) zerolog.Logger {
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	return logging.New(w, level, true)
}

func (o *RootOptions) formatter(w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: w}
}
