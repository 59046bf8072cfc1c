package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/app"
	"storefront/cart"
	"storefront/client"
	"storefront/models"
)

func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(cmd, rootOpts)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(cmd, rootOpts)
		},
	})
	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartUpdateCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Cart.ClearCartItems(cmd.Context()); err != nil {
				return err
			}
			return printCart(newOutput(cmd, rootOpts), a.Cart.Snapshot())
		},
	})

	return cmd
}

func runCartShow(cmd *cobra.Command, rootOpts *RootOptions) error {
	a, err := openApp(cmd, rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := cartLoaded(a); err != nil {
		return err
	}
	return printCart(newOutput(cmd, rootOpts), a.Cart.Snapshot())
}

// cartLoaded reports why the cart fetched by Start is unusable, if it is.
func cartLoaded(a *app.App) error {
	if !a.Session.Authenticated() {
		return client.ErrNoSession
	}
	return a.Cart.Err()
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		quantity int
		size     string
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Cart.AddItem(cmd.Context(), args[0], quantity, size); err != nil {
				return err
			}
			return printCart(newOutput(cmd, rootOpts), a.Cart.Snapshot())
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "units to add")
	cmd.Flags().StringVarP(&size, "size", "s", "", "product size")

	return cmd
}

func newCartUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		size string
		fix  bool
	)

	cmd := &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a line, 0 removes it",
		Long: `Set the quantity of a cart line and re-check its stock.

When the new quantity exceeds the stock a warning is printed; with --fix the
line is clamped to what is available, or removed when nothing is left.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", args[1]))
			}

			var shortages []cart.Shortage
			a, err := openApp(cmd, rootOpts, func(o *app.Options) {
				o.OnShortage = func(s cart.Shortage) { shortages = append(shortages, s) }
			})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := cartLoaded(a); err != nil {
				return err
			}
			if err := a.Stock.UpdateQuantity(cmd.Context(), args[0], quantity, size); err != nil {
				return err
			}
			// The process exits before a delayed check would fire.
			a.Stock.Flush(cmd.Context())

			out := newOutput(cmd, rootOpts)
			for _, s := range shortages {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (size %s) has %d in stock, %d in cart\n", s.Name, s.Size, s.Available, s.Requested)
				if fix {
					if err := s.Resolve(cmd.Context()); err != nil {
						return err
					}
				}
			}
			return printCart(out, a.Cart.Snapshot())
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", "", "product size")
	cmd.Flags().BoolVar(&fix, "fix", false, "clamp the line to available stock")

	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Cart.RemoveItem(cmd.Context(), args[0], size); err != nil {
				return err
			}
			return printCart(newOutput(cmd, rootOpts), a.Cart.Snapshot())
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", "", "product size")

	return cmd
}

func printCart(out *output, snap cart.Snapshot) error {
	data := struct {
		Lines []models.CartLine `json:"lines"`
		Count int               `json:"count"`
	}{snap.Lines, snap.Count}

	return out.emit(data, func(w io.Writer) {
		if len(snap.Lines) == 0 {
			fmt.Fprintln(w, "Cart is empty")
			return
		}
		fmt.Fprintln(w, "PRODUCT\tNAME\tSIZE\tQTY\tSUBTOTAL")
		total := 0.0
		for _, l := range snap.Lines {
			name := l.Product.ID
			if l.Product.Product != nil {
				name = l.Product.Product.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n", l.Product.ID, name, l.Size, l.Quantity, l.Subtotal())
			total += l.Subtotal()
		}
		fmt.Fprintf(w, "\n%d items\t\t\t\t%.2f\n", snap.Count, total)
	})
}
