package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/ticktree/internal/app"
	"github.com/runoshun/ticktree/internal/usecase"
)

// newPlanCommand creates the plan command.
func newPlanCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import and export timer plans",
		Long:  `Import and export timer subtrees as YAML plan documents.`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newPlanImportCommand(c))
	cmd.AddCommand(newPlanExportCommand(c))

	return cmd
}

// newPlanImportCommand creates the plan import subcommand.
func newPlanImportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Parent string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Create a timer subtree from a plan file",
		Long: `Create a whole timer subtree from a YAML plan document.

The plan is read from the given file, or from stdin when no file is
given. Budgets that exceed what the parent has left are capped, in
document order: earlier siblings win the remaining budget.

Plan format:
  name: Deep Work
  total: 2h
  children:
    - name: Email
      total: 30m
    - name: Review
      total: 1h

Examples:
  # Import a plan as a new top-level tree
  ticktree plan import day.yaml

  # Import under an existing timer
  ticktree plan import day.yaml --parent 1a2b3c4d

  # Preview capping without creating anything
  ticktree plan import day.yaml --dry-run

  # Read the plan from stdin
  ticktree plan import < day.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Read plan content
			var data []byte
			var err error
			if len(args) > 0 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}

			// Execute use case
			uc := c.ImportPlanUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportPlanInput{
				Data:   data,
				Parent: opts.Parent,
				DryRun: opts.DryRun,
			})
			if err != nil {
				return err
			}

			printImportedTimers(cmd.OutOrStdout(), out)
			return nil
		},
	}

	// Flags
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "Parent timer id (default: top-level)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Resolve and cap budgets without creating timers")

	return cmd
}

// printImportedTimers prints one line per imported timer, indented by
// depth, with granted budgets and capping notes.
func printImportedTimers(w io.Writer, out *usecase.ImportPlanOutput) {
	if out.DryRun {
		_, _ = fmt.Fprintln(w, "Dry run - timers that would be created:")
	}

	for _, t := range out.Timers {
		indent := strings.Repeat("  ", t.Depth)
		if t.Capped {
			_, _ = fmt.Fprintf(w, "%s%s  %s (capped from %s)\n",
				indent, t.Name, formatDuration(t.Granted), formatDuration(t.Requested))
		} else {
			_, _ = fmt.Fprintf(w, "%s%s  %s\n", indent, t.Name, formatDuration(t.Granted))
		}
	}

	if !out.DryRun {
		_, _ = fmt.Fprintf(w, "\nImported %d timer(s)\n", len(out.Timers))
	}
}

// newPlanExportCommand creates the plan export subcommand.
func newPlanExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a timer subtree as a plan file",
		Long: `Capture a timer subtree as a YAML plan document.

Only names and budgets are exported; elapsed time and completion state
stay behind. The document can be re-imported with
'ticktree plan import', for example to set up a fresh copy of a daily
schedule.

Examples:
  # Export to stdout
  ticktree plan export 1a2b3c4d

  # Export to a file
  ticktree plan export 1a2b3c4d -o day.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.ExportPlanUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ExportPlanInput{Ref: args[0]})
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, out.Data, 0o600); err != nil {
					return fmt.Errorf("write plan: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", out.Name, output)
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(out.Data))
			return nil
		},
	}

	// Flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the plan to a file instead of stdout")

	return cmd
}
