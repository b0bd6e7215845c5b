package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"backoffice/internal/app"
	"backoffice/internal/collection"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list commands.
type ListOptions struct {
	*RootOptions
	Search   string
	Filters  []string // key=value
	MinPrice string
	MaxPrice string
	Sort     string
	Page     int
}

// lister fetches one page for the criteria in view and writes it to w.
type lister func(ctx context.Context, a *app.App, view *collection.View, format string, w io.Writer) error

func newCollectionCommand(rootOpts *RootOptions, name, short string, sortKeys []string, list lister) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
	}
	cmd.AddCommand(newListCommand(rootOpts, name, sortKeys, list))
	return cmd
}

func newListCommand(rootOpts *RootOptions, name string, sortKeys []string, list lister) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + name,
		Example: fmt.Sprintf(`  backofficectl %s list --search air --sort price-asc
  backofficectl %s list --filter status=active --page 2 --format json`, name, name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Sort != "" && !slices.Contains(sortKeys, opts.Sort) {
				return fmt.Errorf("invalid sort %q: must be one of %v", opts.Sort, sortKeys)
			}

			a, err := opts.NewApp()
			if err != nil {
				return err
			}
			defer a.Close()

			view := collection.NewView()
			view.SetSearch(opts.Search)
			for _, f := range opts.Filters {
				key, value, ok := strings.Cut(f, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid filter %q: expected key=value", f)
				}
				view.SetFilter(key, value)
			}
			view.SetPriceRange(opts.MinPrice, opts.MaxPrice)
			view.SetSort(opts.Sort)
			view.SetPage(opts.Page)

			return list(cmd.Context(), a, view, opts.Format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive search term")
	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "exact filter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.MinPrice, "min-price", "", "lowest price, inclusive")
	cmd.Flags().StringVar(&opts.MaxPrice, "max-price", "", "highest price, inclusive")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort key, one of "+strings.Join(sortKeys, ", "))
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")

	return cmd
}

func listProducts(ctx context.Context, a *app.App, view *collection.View, format string, w io.Writer) error {
	page, err := a.ProductService.ListProducts(ctx, view.Query())
	if err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, page)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCOLOR\tPRICE\tSTOCK\tSTATUS")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Brand, p.Color, p.Price, p.Stock, p.Status)
	}
	return finishTable(tw, w, page.Page, page.TotalPages, page.TotalItems)
}

func listOrders(ctx context.Context, a *app.App, view *collection.View, format string, w io.Writer) error {
	page, err := a.OrderService.ListOrders(ctx, view.Query())
	if err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, page)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tSENDER\tPHONE\tQTY\tPRICE\tSTATUS")
	for _, o := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n", o.ID, o.Product, o.SenderName, o.Phone, o.Quantity, o.Price, o.Status)
	}
	return finishTable(tw, w, page.Page, page.TotalPages, page.TotalItems)
}

func listUsers(ctx context.Context, a *app.App, view *collection.View, format string, w io.Writer) error {
	page, err := a.UserService.ListUsers(ctx, view.Query())
	if err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, page)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, u := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, u.Status)
	}
	return finishTable(tw, w, page.Page, page.TotalPages, page.TotalItems)
}

func finishTable(tw *tabwriter.Writer, w io.Writer, page, totalPages, totalItems int) error {
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d items)\n", page, totalPages, totalItems)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
