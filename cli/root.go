// Package cli implements the storefront command line.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/app"
	"storefront/config"
	"storefront/utils"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	APIURL    string
	SessionDB string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront API server and shopping client",
		Long: `Run the storefront REST API or shop against one from the terminal.

The session is kept in a local SQLite file between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", "", "API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.SessionDB, "session-db", "", "session database file (overrides SESSION_DB)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewReviewsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig applies flag overrides. Client commands pass quiet so routine
// info logs do not mix with command output.
func loadConfig(opts *RootOptions, quiet bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if opts.APIURL != "" {
		cfg.APIBaseURL = opts.APIURL
	}
	if opts.SessionDB != "" {
		cfg.SessionDB = opts.SessionDB
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	} else if quiet && level == "info" {
		level = "warn"
	}
	return cfg, utils.NewLogger(cfg.AppEnv, level), nil
}

// openApp builds and starts a client App. tweak may adjust the options
// before the App is created.
func openApp(cmd *cobra.Command, opts *RootOptions, tweak func(*app.Options)) (*app.App, error) {
	cfg, log, err := loadConfig(opts, true)
	if err != nil {
		return nil, err
	}

	appOpts, err := app.OptionsFromConfig(cfg, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot open session store", err)
	}
	if tweak != nil {
		tweak(&appOpts)
	}

	a := app.New(appOpts)
	if err := a.Start(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
