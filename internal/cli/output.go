package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"golang.org/x/text/currency"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutputFormatter renders command results as text tables or indented JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f *OutputFormatter) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}
	_, err = fmt.Fprintln(f.Writer, string(data))
	return err
}

func (f *OutputFormatter) Products(page domain.ProductPage) error {
	if f.Format == "json" {
		return f.writeJSON(api.Envelope[[]api.ProductDTO]{
			Success: true,
			Data:    api.FromProducts(page.Products),
			Pagination: &api.Pagination{
				CurrentPage:  page.Page,
				TotalPages:   page.TotalPages(),
				TotalItems:   page.TotalItems,
				ItemsPerPage: page.Limit,
			},
		})
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Stock)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tw.Flush: %w", err)
	}

	_, err := fmt.Fprintf(f.Writer, "page %d of %d, %d products\n", page.Page, page.TotalPages(), page.TotalItems)
	return err
}

func (f *OutputFormatter) Product(p domain.Product) error {
	if f.Format == "json" {
		return f.writeJSON(api.FromProduct(p))
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", p.ID)
	fmt.Fprintf(tw, "name\t%s\n", p.Name)
	fmt.Fprintf(tw, "category\t%s\n", p.Category)
	fmt.Fprintf(tw, "price\t%s\n", p.Price)
	fmt.Fprintf(tw, "stock\t%d\n", p.Stock)
	fmt.Fprintf(tw, "rating\t%.1f\n", p.Rating)
	fmt.Fprintf(tw, "description\t%s\n", p.Description)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tw.Flush: %w", err)
	}
	return nil
}

func (f *OutputFormatter) Cart(c domain.Cart) error {
	if f.Format == "json" {
		return f.writeJSON(api.FromCart(c, currency.USD))
	}

	fmt.Fprintf(f.Writer, "cart %s\n", c.ID)
	if c.IsEmpty() {
		_, err := fmt.Fprintln(f.Writer, "cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tPRICE\tTOTAL")
	for _, item := range c.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			item.ProductID, item.Name, item.Quantity, item.Price.Amount.StringFixed(2),
			domain.RoundCents(item.LineTotal()).StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tw.Flush: %w", err)
	}

	_, err := fmt.Fprintf(f.Writer, "%d items, subtotal %s %s\n",
		c.TotalItems(), c.Currency(currency.USD), c.Subtotal().StringFixed(2))
	return err
}
