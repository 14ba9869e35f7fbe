package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/cmd/fingerbank/internal/format"
	"github.com/vulntor/fingerbank/pkg/appctx"
	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/cli"
	"github.com/vulntor/fingerbank/pkg/config"
	"github.com/vulntor/fingerbank/pkg/logging"
	"github.com/vulntor/fingerbank/pkg/workspace"
)

const cliExecutable = "fingerbank"

// NewCommand constructs the top-level fingerbank CLI command, wiring global
// flags, configuration, logging and shared workspace preparation.
func NewCommand() *cobra.Command {
	var (
		configFile        string
		workspaceDir      string
		workspaceDisabled bool
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Identify DHCP clients from their parameter request list",
		Long: `fingerbank matches DHCP fingerprints (the option 55 parameter request list)
against a catalog of known operating systems and devices.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return err
			}
			cfg := mgr.Get()

			if err := logging.ConfigureGlobalLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if err := format.ValidateMode(output); err != nil {
				return err
			}

			ctx := appctx.WithConfig(cmd.Context(), mgr)

			if !workspaceDisabled {
				prepared, err := workspace.Prepare(workspaceDir)
				if err != nil {
					return fmt.Errorf("prepare workspace: %w", err)
				}
				ctx = workspace.WithContext(ctx, prepared)
				log.Debug().Str("workspace", prepared).Msg("workspace ready")
			} else {
				log.Debug().Msg("workspace disabled for this run")
			}

			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&workspaceDir, "workspace-dir", "", "Override workspace root directory")
	cmd.PersistentFlags().BoolVar(&workspaceDisabled, "no-workspace", false, "Disable workspace persistence for this run")
	cmd.PersistentFlags().StringP("output", "o", string(format.ModeTable), "Output format: table, json or yaml")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress summaries")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "query", Title: "Query Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(newMatchCommand())
	cmd.AddCommand(newLookupCommand())
	cmd.AddCommand(newEntryCommand())
	cmd.AddCommand(newClassCommand())
	cmd.AddCommand(newVendorCommand())
	cmd.AddCommand(newShellCommand())
	cmd.AddCommand(newCatalogCommand())
	cmd.AddCommand(cli.NewVersionCommand(cliExecutable))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Failures are
// reported through the command's formatter together with any suggestions.
func Execute(ctx context.Context, args []string) int {
	cmd := NewCommand()
	cmd.SetArgs(args)

	executed, err := cmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	if executed == nil {
		executed = cmd
	}

	f := formatterFor(executed)
	if errors.Is(err, errNotFound) {
		_ = f.PrintError(err)
		return exitNotFound
	}
	_ = f.PrintTotalFailureSummary(operationName(executed), err, catalog.ErrorCode(err), catalog.Suggestions(err))
	return catalog.ExitCode(err)
}

func operationName(cmd *cobra.Command) string {
	if cmd == nil || !cmd.HasParent() {
		return "run " + cliExecutable
	}
	return cmd.Name()
}

// formatterFor builds the formatter selected by the global output flags.
func formatterFor(cmd *cobra.Command) format.Formatter {
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")

	return format.New(
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
		format.ParseMode(output),
		quiet,
		!noColor && !color.NoColor,
	)
}
