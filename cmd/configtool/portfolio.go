package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yanizio/tierzero/internal/maintenance"
)

func readCSV(path string) ([]maintenance.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return maintenance.ReadCSV(f)
}

func newDeployCmd(opts *options) *cobra.Command {
	var csvPath, report string
	cmd := &cobra.Command{
		Use:   "batch-deploy",
		Short: "Create starter configs for every domain in the portfolio CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if csvPath == "" {
				return fmt.Errorf("batch-deploy: --csv (or DOMAIN8_CSV) is required")
			}
			recs, err := readCSV(csvPath)
			if err != nil {
				return fmt.Errorf("batch-deploy: %w", err)
			}
			rep := opts.runner().Deploy(recs, opts.source())
			printf(opts, "batch-deploy: %d deployed, %d skipped, %d errors (of %d)\n",
				rep.Summary.Deployed, rep.Summary.Skipped, rep.Summary.Errors, rep.Summary.Total)
			return writeReport(opts, report, rep)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", os.Getenv("DOMAIN8_CSV"), "portfolio domain list")
	cmd.Flags().StringVar(&report, "report", "deployment-report.json", "report file (empty to skip)")
	return cmd
}

func newSyncCmd(opts *options) *cobra.Command {
	var csvPath, report string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Disable, re-enable, and re-brand configs from portfolio status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var names []string
			if csvPath != "" {
				recs, err := readCSV(csvPath)
				if err != nil {
					return fmt.Errorf("sync: %w", err)
				}
				for _, r := range recs {
					names = append(names, r.Name())
				}
			}
			r := opts.runner()
			rep := r.Sync(r.SyncTargets(names), opts.source())
			printf(opts, "sync: %d disabled, %d enabled, %d updated, %d unchanged (of %d)\n",
				rep.Summary["disabled"], rep.Summary["enabled"], rep.Summary["updated"],
				rep.Summary["unchanged"], rep.Summary["total"])
			return writeReport(opts, report, rep)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", os.Getenv("DOMAIN8_CSV"), "portfolio domain list (optional)")
	cmd.Flags().StringVar(&report, "report", "sync-report.json", "report file (empty to skip)")
	return cmd
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <domain>",
		Short: "Show tier-0 and portfolio status for one domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := opts.runner().Status(args[0], opts.source())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(opts.out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
}

// writeReport skips the file in dry-run mode or when path is empty.
func writeReport(opts *options, path string, v any) error {
	if path == "" || opts.dryRun {
		return nil
	}
	if err := maintenance.WriteReport(path, v); err != nil {
		return err
	}
	abs, _ := filepath.Abs(path)
	printf(opts, "report written to %s\n", abs)
	return nil
}
