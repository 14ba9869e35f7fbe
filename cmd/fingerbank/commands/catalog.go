package commands

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/cmd/fingerbank/internal/bind"
	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/catalog/catalogsync"
)

// newCatalogCommand groups the subcommands for catalog inspection and management.
func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Short:   "Inspect, validate and sync the fingerprint catalog",
		GroupID: "core",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCatalogStatsCommand())
	cmd.AddCommand(newCatalogValidateCommand())
	cmd.AddCommand(newCatalogSyncCommand())
	cmd.AddCommand(newCatalogExportCommand())

	return cmd
}

type statsView struct {
	Source string `json:"source" yaml:"source"`
	catalog.Stats `yaml:",inline"`
}

func statsRows(v statsView) [][]string {
	return [][]string{
		{"source", v.Source},
		{"version", dash(v.Version)},
		{"entries", strconv.Itoa(v.Entries)},
		{"fingerprints", strconv.Itoa(v.Fingerprints)},
		{"classes", strconv.Itoa(v.Classes)},
		{"ranges", strconv.Itoa(v.Ranges)},
		{"vendors", strconv.Itoa(v.Vendors)},
		{"skipped", strconv.Itoa(v.Skipped)},
	}
}

func newCatalogStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counts and where it was loaded from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, source, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			v := statsView{Source: source, Stats: c.Stats()}
			return formatterFor(cmd).PrintData(v, []string{"field", "value"}, statsRows(v))
		},
	}
}

type validateView struct {
	statsView `yaml:",inline"`
	Problems  []problemView `json:"problems" yaml:"problems"`
}

type problemView struct {
	Section string `json:"section" yaml:"section"`
	Line    int    `json:"line" yaml:"line"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Error   string `json:"error" yaml:"error"`
}

func newCatalogValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file and list the entries that would be skipped",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				c      *catalog.Catalog
				source string
				err    error
			)
			if len(args) == 1 {
				source = args[0]
				c, err = catalog.LoadFile(source, catalogOptions(currentConfig(cmd))...)
			} else {
				c, source, err = loadCatalog(cmd)
			}
			if err != nil {
				return err
			}

			v := validateView{statsView: statsView{Source: source, Stats: c.Stats()}, Problems: []problemView{}}
			rows := make([][]string, 0, len(c.Skipped()))
			for _, p := range c.Skipped() {
				v.Problems = append(v.Problems, problemView{Section: p.Section, Line: p.Line, Key: p.Key, Error: p.Err.Error()})
				rows = append(rows, []string{p.Section, strconv.Itoa(p.Line), dash(p.Key), p.Err.Error()})
			}

			f := formatterFor(cmd)
			if len(rows) == 0 {
				if err := f.PrintData(v, []string{"field", "value"}, statsRows(v.statsView)); err != nil {
					return err
				}
			} else if err := f.PrintData(v, []string{"section", "line", "key", "problem"}, rows); err != nil {
				return err
			}

			if strict && len(v.Problems) > 0 {
				return catalog.WithErrorCode(
					fmt.Errorf("%d entries skipped in %s", len(v.Problems), source),
					"CATALOG_RECORD",
				)
			}
			return f.PrintSummary(fmt.Sprintf("%s: %d entries, %d classes, %d skipped", source, v.Entries, v.Classes, len(v.Problems)))
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any entry is skipped")

	return cmd
}

func newCatalogSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch a catalog from a file or URL into the workspace cache",
		Example: `  fingerbank catalog sync --url https://example.com/dhcp_fingerprints.conf
  fingerbank catalog sync --file ./dhcp_fingerprints.conf --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := currentConfig(cmd)
			opts, err := bind.BindSyncOptions(cmd, cfg.Catalog.URL)
			if err != nil {
				return err
			}

			destination := opts.CacheDir
			if destination == "" {
				destination = cacheDir(cmd, cfg)
			}
			if destination == "" {
				return fmt.Errorf("workspace disabled; specify --cache-dir")
			}

			svc := catalogsync.Service{
				CacheDir: destination,
				Force:    opts.Force,
				Store:    catalogsync.FileStore{Path: catalog.CachePath(destination)},
				Logger:   log.Logger,
			}
			if opts.FilePath != "" {
				svc.Source = catalogsync.FileSource{Path: opts.FilePath}
			} else {
				svc.Source = catalogsync.HTTPSource{URL: opts.URL}
			}

			res, err := svc.Sync(cmd.Context())
			if err != nil {
				return catalog.WrapSyncError(err)
			}

			f := formatterFor(cmd)
			if v := res.Catalog.Version(); v != nil {
				from := "none"
				if res.Previous != nil {
					from = res.Previous.String()
				}
				_ = f.PrintSummary(fmt.Sprintf("catalog version %s (was %s)", v, from))
			}
			return f.PrintSuccessSummary("sync", res.Path)
		},
	}

	cmd.Flags().String("file", "", "Load the catalog from a local file")
	cmd.Flags().String("url", "", "Download the catalog from a remote URL (default: catalog.url)")
	cmd.Flags().Bool("force", false, "Replace a cached catalog that declares a newer version")

	return cmd
}

func newCatalogExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the builtin catalog, e.g. as a starting point for a custom one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(catalog.BuiltinText())
			return err
		},
	}
}
