package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/cmd/fingerbank/internal/bind"
	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/config"
	"github.com/vulntor/fingerbank/pkg/fingerprint"
	"github.com/vulntor/fingerbank/pkg/match"
	"github.com/vulntor/fingerbank/pkg/workspace"
)

func newMatchCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "match <fingerprint>...",
		Short: "Rank catalog entries by similarity to a fingerprint",
		Example: `  fingerbank match 1,3,6,15,119,252
  fingerbank match 1,3,6,15 --tests shared --top-k 3
  fingerbank match 1,3,6,12,15,28 --class 4 -o json`,
		GroupID: "query",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := bind.ParseFingerprint(args)
			if err != nil {
				return err
			}

			c, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			cfg := currentConfig(cmd)
			report, err := runMatch(cmd.Context(), c, fp, cfg)
			if err != nil {
				return err
			}

			f := formatterFor(cmd)
			if err := printReport(f, c, report); err != nil {
				return err
			}

			if save {
				ws, ok := workspace.FromContext(cmd.Context())
				if !ok {
					return fmt.Errorf("workspace disabled; cannot save report")
				}
				path, err := saveReport(workspace.ReportsDir(ws), c, report)
				if err != nil {
					return err
				}
				return f.PrintSummary("report saved to " + path)
			}
			return nil
		},
	}

	config.BindMatchFlags(cmd.Flags())
	cmd.Flags().BoolVar(&save, "save", false, "Write the report as JSON to the workspace reports directory")

	return cmd
}

// runMatch builds the configured tests and runs them against c. A non-zero class
// restricts every test to entries of that class before its own selection runs.
func runMatch(ctx context.Context, c *catalog.Catalog, fp fingerprint.Fingerprint, cfg config.Config) (*match.Report, error) {
	tests, err := match.Build(cfg.Match.Tests, cfg.MatchParams())
	if err != nil {
		return nil, err
	}

	if id := cfg.Match.Class; id > 0 {
		cls, ok := c.Class(id)
		if !ok {
			return nil, fmt.Errorf("class %d: %w", id, errNotFound)
		}
		for i := range tests {
			tests[i].Reduce = match.InClass(c, cls.ID, tests[i].Reduce)
			tests[i].Description += fmt.Sprintf(", %s only", cls.Description)
		}
	}

	return c.Match(ctx, fp, tests...)
}
