package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"storefront/server"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		port  string
		store string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Run the storefront REST API.

With --store memory the API starts with demo data and needs no database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts, false)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if store != "" {
				cfg.StoreDriver = store
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			backend, err := server.Open(ctx, cfg, log)
			if err != nil {
				return WrapExitError(ExitCommandError, "cannot start server", err)
			}
			defer backend.Close()

			return backend.Serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides APP_PORT)")
	cmd.Flags().StringVar(&store, "store", "", "storage driver: postgres or memory (overrides STORE_DRIVER)")

	return cmd
}
