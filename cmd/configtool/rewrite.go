package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/tierzero/internal/maintenance"
	"github.com/yanizio/tierzero/internal/site"
)

type rewrite struct {
	use, short string
	op         maintenance.Op
	skip       []string
}

var rewrites = []rewrite{
	{"migrate-controls", "Add a controls block derived from the legacy switches", maintenance.MigrateControls, nil},
	{"enable-domain-sale", "Mark every domain for sale", maintenance.EnableDomainSale, maintenance.ProtectedSale},
	{"remove-domain-inquiry", "Drop controls.forms.domainInquiry in favour of domain.forSale", maintenance.RemoveDomainInquiry, nil},
	{"move-seo-to-top", "Put domain, seo, and template first", maintenance.MoveSEOToTop, nil},
	{"fix-templates", "Force the landing template and reset unknown themes", maintenance.FixTemplates, maintenance.ProtectedSale},
	{"simplify-landing", "Reduce landing configs to one headline", maintenance.SimplifyLanding, maintenance.ProtectedContent},
}

func rewriteCmds(opts *options) []*cobra.Command {
	out := make([]*cobra.Command, 0, len(rewrites))
	for _, rw := range rewrites {
		rw := rw
		out = append(out, &cobra.Command{
			Use:   rw.use,
			Short: rw.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := opts.runner().Run(rw.use, rw.op, rw.skip...)
				if err != nil {
					return err
				}
				printf(opts, "%s: %d updated, %d skipped, %d unchanged, %d errors (of %d)\n",
					rw.use, len(res.Updated), len(res.Skipped), res.Unchanged, len(res.Errors), res.Total())
				for _, e := range res.Errors {
					printf(opts, "  %s: %s\n", e.Domain, e.Err)
				}
				if len(res.Errors) > 0 {
					return fmt.Errorf("%s: %d configs failed", rw.use, len(res.Errors))
				}
				return nil
			},
		})
	}
	return out
}

func newLintCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate every config against the schema rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := opts.runner()
			domains, err := maintenance.Domains(r.Dir)
			if err != nil {
				return err
			}
			bad := 0
			for _, d := range domains {
				doc, err := r.Load(d)
				if err != nil {
					printf(opts, "%s: %v\n", d, err)
					bad++
					continue
				}
				raw, err := doc.MarshalJSON()
				if err != nil {
					return err
				}
				cfg, err := site.Parse(raw)
				if err != nil {
					printf(opts, "%s: %v\n", d, err)
					bad++
					continue
				}
				msgs := site.Lint(cfg)
				for _, m := range msgs {
					printf(opts, "%s: %s\n", d, m)
				}
				if len(msgs) > 0 {
					bad++
				}
			}
			printf(opts, "lint: %d of %d configs have problems\n", bad, len(domains))
			if bad > 0 {
				return fmt.Errorf("lint: %d configs failed", bad)
			}
			return nil
		},
	}
}
