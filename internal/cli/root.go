// Package cli provides the command-line interface for ticktree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/ticktree/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTimer = "timer"
	groupRun   = "run"
)

// NewRootCommand creates the root command for ticktree.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "ticktree",
		Short: "Hierarchical countdown timer CLI",
		Long: `ticktree manages trees of countdown timers that share time budgets.

A timer's budget is split among its children at creation time. Starting
a timer also starts every ancestor on its path, and starting a sibling
pauses whichever sibling was running, so within any parent at most one
child accrues time. A timer whose budget runs out finishes and can fire
a notification command.

Timer state is durable: every command loads it from disk, evaluates it
against the wall clock, and writes it back, so timers keep counting
between invocations. Use 'ticktree run' to evaluate continuously in the
foreground, or 'ticktree tick' from a scheduler.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTimer, Title: "Timer Management:"},
		&cobra.Group{ID: groupRun, Title: "Run Control:"},
	)

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Timer management commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTimer

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTimer

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTimer

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTimer

	planCmd := newPlanCommand(c)
	planCmd.GroupID = groupTimer

	// Run control commands
	startCmd := newStartCommand(c)
	startCmd.GroupID = groupRun

	stopCmd := newStopCommand(c)
	stopCmd.GroupID = groupRun

	resetCmd := newResetCommand(c)
	resetCmd.GroupID = groupRun

	tickCmd := newTickCommand(c)
	tickCmd.GroupID = groupRun

	runCmd := newRunCommand(c)
	runCmd.GroupID = groupRun

	// Add subcommands
	root.AddCommand(
		configCmd,
		newCmd,
		listCmd,
		showCmd,
		rmCmd,
		planCmd,
		startCmd,
		stopCmd,
		resetCmd,
		tickCmd,
		runCmd,
	)

	return root
}
