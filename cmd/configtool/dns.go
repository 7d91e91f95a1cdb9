package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/tierzero/internal/dns"
	"github.com/yanizio/tierzero/internal/maintenance"
)

func newDNSCmd(opts *options) *cobra.Command {
	var token, planFile string
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Create apex CNAME records for every configured domain",
		Long: `Creates CNAME @ -> ` + dns.Target + ` (proxy off) in each domain's
Cloudflare zone.  With --dry-run the records are written to a JSON file
for bulk import instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domains, err := maintenance.Domains(opts.configs)
			if err != nil {
				return err
			}

			if opts.dryRun {
				if err := maintenance.WriteReport(planFile, dns.Plan(domains)); err != nil {
					return err
				}
				printf(opts, "dns: %d records written to %s\n", len(domains), planFile)
				return nil
			}

			client, err := dns.New(token)
			if err != nil {
				return err
			}
			results := client.Ensure(cmd.Context(), domains)
			counts := map[string]int{}
			for _, r := range results {
				counts[r.Outcome]++
				if r.Outcome == dns.Failed {
					printf(opts, "  %s: %s\n", r.Domain, r.Err)
				}
			}
			printf(opts, "dns: %d created, %d existing, %d errors (of %d)\n",
				counts[dns.Created], counts[dns.Exists], counts[dns.Failed], len(domains))
			if counts[dns.Failed] > 0 {
				return fmt.Errorf("dns: %d domains failed", counts[dns.Failed])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", os.Getenv("CLOUDFLARE_API_TOKEN"), "Cloudflare API token")
	cmd.Flags().StringVar(&planFile, "plan-file", "cloudflare-dns-records.json", "output for --dry-run")
	return cmd
}
