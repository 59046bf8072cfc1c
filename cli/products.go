package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storefront/client"
	"storefront/models"
)

func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	var q client.ProductQuery

	cmd := &cobra.Command{
		Use:   "products [id]",
		Short: "List the catalog or show one product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			out := newOutput(cmd, rootOpts)

			if len(args) == 1 {
				p, err := a.Client.GetProduct(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return out.emit(p, func(w io.Writer) { printProduct(w, p) })
			}

			resp, err := a.Client.GetProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			return out.emit(resp, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
				for _, p := range resp.Data {
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
				}
				fmt.Fprintf(w, "\npage %d of %d (%d products)\n", resp.Meta.Page, resp.Meta.TotalPages, resp.Meta.Total)
			})
		},
	}

	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 10, "products per page")
	cmd.Flags().StringVarP(&q.Query, "query", "q", "", "name search")
	cmd.Flags().StringVar(&q.Category, "category", "", "category id")

	return cmd
}

func printProduct(w io.Writer, p *models.Product) {
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Price:\t%.2f\n", p.Price)
	if len(p.SizeStock) == 0 {
		fmt.Fprintf(w, "Stock:\t%d\n", p.Stock)
		return
	}
	sizes := make([]string, len(p.SizeStock))
	for i, s := range p.SizeStock {
		sizes[i] = fmt.Sprintf("%s=%d", s.Size, s.Stock)
	}
	fmt.Fprintf(w, "Stock:\t%s\n", strings.Join(sizes, " "))
}
