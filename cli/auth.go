package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storefront/models"
)

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printSession(newOutput(cmd, rootOpts), sess, a.Cart.Count())
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.Session.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return printSession(newOutput(cmd, rootOpts), sess, a.Cart.Count())
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")

	return cmd
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			a.Session.Logout(cmd.Context())
			return newOutput(cmd, rootOpts).message("Signed out")
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.Session.Current()
			if sess == nil {
				return NewExitError(ExitFailure, "not signed in")
			}
			return printSession(newOutput(cmd, rootOpts), sess, a.Cart.Count())
		},
	}
}

func printSession(out *output, sess *models.Session, cartCount int) error {
	data := struct {
		User      models.User `json:"user"`
		CartCount int         `json:"cartCount"`
	}{sess.User, cartCount}

	return out.emit(data, func(w io.Writer) {
		fmt.Fprintf(w, "Name:\t%s\n", sess.User.Name)
		fmt.Fprintf(w, "Email:\t%s\n", sess.User.Email)
		fmt.Fprintf(w, "Role:\t%s\n", sess.User.Role)
		fmt.Fprintf(w, "Cart items:\t%d\n", cartCount)
	})
}
