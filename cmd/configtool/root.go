package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/tierzero/internal/logger"
	"github.com/yanizio/tierzero/internal/maintenance"
	"github.com/yanizio/tierzero/internal/portfolio"
)

// options are the persistent flags every sub-command shares.
type options struct {
	configs   string
	portfolio string
	dryRun    bool
	logLevel  string
	out       io.Writer
}

func (o *options) runner() maintenance.Runner {
	return maintenance.Runner{Dir: o.configs, DryRun: o.dryRun}
}

func (o *options) source() portfolio.Source {
	return portfolio.Source{Root: o.portfolio}
}

func newRootCmd() *cobra.Command {
	opts := &options{out: os.Stdout}

	root := &cobra.Command{
		Use:           "configtool",
		Short:         "Maintain tier-0 domain configs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.out = cmd.OutOrStdout()
			logger.NewConsole(opts.logLevel, cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configs, "configs", envOr("TIERZERO_SITES__CONFIGS_DIR", "configs"), "domain config directory")
	pf.StringVar(&opts.portfolio, "portfolio", os.Getenv(portfolio.EnvRoot), "portfolio workspace root")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "report changes without writing")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(rewriteCmds(opts)...)
	root.AddCommand(
		newLintCmd(opts),
		newDeployCmd(opts),
		newSyncCmd(opts),
		newStatusCmd(opts),
		newDNSCmd(opts),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printf(o *options, format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
