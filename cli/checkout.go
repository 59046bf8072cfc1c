package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storefront/checkout"
	"storefront/models"
)

func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		ship   models.ShippingData
		method string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Check stock and place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Checkout.Validate(cmd.Context()); err != nil {
				return err
			}
			conf, err := a.Checkout.PlaceOrder(cmd.Context(), checkout.Request{Shipping: ship, Method: method})
			if err != nil {
				return err
			}

			return newOutput(cmd, rootOpts).emit(conf, func(w io.Writer) {
				fmt.Fprintf(w, "Order:\t%s\n", conf.Order.OrderNumber)
				fmt.Fprintf(w, "Status:\t%s\n", conf.Order.Status)
				for _, it := range conf.Order.Items {
					fmt.Fprintf(w, "  %s\t%s\tx%d\t%.2f\n", it.Name, it.Size, it.Quantity, it.Price*float64(it.Quantity))
				}
				fmt.Fprintf(w, "Total:\t%.2f\n", conf.Total)
				fmt.Fprintf(w, "Ship to:\t%s %s, %s, %s\n", conf.Shipping.FirstName, conf.Shipping.LastName, conf.Shipping.Address, conf.Shipping.City)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&ship.FirstName, "first-name", "", "recipient first name")
	f.StringVar(&ship.LastName, "last-name", "", "recipient last name")
	f.StringVar(&ship.Email, "email", "", "contact email")
	f.StringVar(&ship.Phone, "phone", "", "contact phone")
	f.StringVar(&ship.Address, "address", "", "street address")
	f.StringVar(&ship.City, "city", "", "city")
	f.StringVar(&ship.State, "state", "", "state")
	f.StringVar(&ship.ZipCode, "zip", "", "zip code")
	f.StringVar(&method, "method", models.ShippingStandard, "shipping method (standard|express)")

	return cmd
}

func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := a.Client.GetOrders(cmd.Context())
			if err != nil {
				return err
			}
			return newOutput(cmd, rootOpts).emit(orders, func(w io.Writer) {
				fmt.Fprintln(w, "ORDER\tSTATUS\tITEMS\tTOTAL\tCREATED")
				for _, o := range orders {
					fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", o.OrderNumber, o.Status, len(o.Items), o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
				}
			})
		},
	}
}
