package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/pkg/appctx"
	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/config"
	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

func newShellCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Match fingerprints read from standard input, one per line",
		Long: `shell reads one fingerprint per line and prints the match report for each.
Blank lines and lines starting with '#' are ignored. With --watch the catalog
file given by --catalog is reloaded whenever it changes.`,
		GroupID: "query",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := currentConfig(cmd)

			c, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			holder := catalog.NewHolder(c)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if cfg.Catalog.Watch {
				if cfg.Catalog.Path == "" {
					return errors.New("--watch needs a catalog file; pass --catalog <path>")
				}
				w, err := catalog.NewWatcher(cfg.Catalog.Path, holder, log.Logger, catalogOptions(cfg)...)
				if err != nil {
					return fmt.Errorf("watch catalog: %w", err)
				}
				go func() {
					if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Error().Err(err).Msg("catalog watcher stopped")
					}
				}()
			}

			cmd.SetContext(appctx.WithCatalog(ctx, holder))
			return runShell(cmd, holder, cfg, cmd.InOrStdin())
		},
	}

	cmd.Flags().Bool("watch", false, "Reload the catalog file when it changes")
	config.BindMatchFlags(cmd.Flags())

	return cmd
}

func runShell(cmd *cobra.Command, holder *catalog.Holder, cfg config.Config, in io.Reader) error {
	f := formatterFor(cmd)
	prompt := interactive(in)

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), "fingerprint> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		fp, err := fingerprint.Parse(line)
		if err != nil {
			_ = f.PrintError(err)
			continue
		}

		c := holder.Current()
		report, err := runMatch(cmd.Context(), c, fp, cfg)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			_ = f.PrintError(err)
			continue
		}
		if err := printReport(f, c, report); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func interactive(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
