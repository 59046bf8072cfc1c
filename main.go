package main

import (
	"fmt"
	"os"

	"storefront/cli"
	_ "storefront/docs"
)

// @title Storefront API
// @version 1.0
// @description Catalog, cart, order and review API for the storefront apps
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
