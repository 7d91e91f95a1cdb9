// cmd/configtool/main.go
//
// configtool – bulk maintenance for the domain-config directory.
//
// Context
// -------
// The renderer only reads configs; everything that creates or rewrites them
// lives here.  Each sub-command is a thin wrapper around
// internal/maintenance, internal/portfolio, or internal/dns, and prints a
// one-line summary plus a JSON report where one is useful.
//
// Examples
// --------
//
//	configtool migrate-controls --configs ./configs
//	configtool batch-deploy --csv ~/portfolio/domain_list.csv
//	configtool sync --dry-run
//	configtool status example.com.au
//	CLOUDFLARE_API_TOKEN=… configtool dns
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
