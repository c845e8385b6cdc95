package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/ticktree/internal/app"
	"github.com/runoshun/ticktree/internal/domain"
	"github.com/runoshun/ticktree/internal/usecase"
)

// newNewCommand creates the new command for creating timers.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Parent string
		Total  time.Duration
	}

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new timer",
		Long: `Create a new timer with a fixed time budget.

Without --parent the timer is created at the top level. With --parent it
becomes a child of that timer, and its budget is capped to whatever the
parent has not yet allocated to other children. The budget cannot be
changed later.

Examples:
  # Create a top-level timer with a two hour budget
  ticktree new "Deep Work" --total 2h

  # Split part of it into a sub-timer
  ticktree new "Email" --parent 1a2b3c4d --total 30m

  # Parent references accept any unique id prefix
  ticktree new "Review" --parent 1a --total 1h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.CreateTimerUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.CreateTimerInput{
				Name:   args[0],
				Parent: opts.Parent,
				Total:  opts.Total,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Created timer %s: %s (%s)\n",
				domain.ShortID(out.TimerID), out.Name, formatDuration(out.Total))
			if out.Capped {
				_, _ = fmt.Fprintf(w, "Note: budget capped to %s, the parent's unallocated time\n",
					formatDuration(out.Total))
			}
			return nil
		},
	}

	// Flags
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "Parent timer id (default: top-level)")
	cmd.Flags().DurationVar(&opts.Total, "total", 0, "Time budget (e.g. 1h30m)")

	// Mark --total as required (ignore error as flag is guaranteed to exist)
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

// newListCommand creates the list command for listing all timers.
func newListCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List timers",
		Long: `Display every timer as an indented tree.

The forest is evaluated before printing, so overdue completions and
sibling exclusion are applied first and the listed values reflect the
current instant.

Output format is tab-separated with columns:
  ID, PHASE, ELAPSED, REMAINING, TOTAL, NAME

NAME is indented two spaces per tree level.

Examples:
  # List all timers
  ticktree list`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Execute use case
			uc := c.ListForestUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListForestInput{})
			if err != nil {
				return err
			}

			printTimerTree(cmd.OutOrStdout(), out.Rows)
			return nil
		},
	}

	return cmd
}

// printTimerTree prints evaluated timers in TSV format, one row per timer,
// names indented by depth.
func printTimerTree(w io.Writer, rows []usecase.TimerRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tPHASE\tELAPSED\tREMAINING\tTOTAL\tNAME")

	// Rows
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s%s\n",
			domain.ShortID(r.Timer.ID),
			r.State.Phase(),
			formatDuration(r.Derived.LiveElapsed),
			formatDuration(r.Derived.Remaining),
			formatDuration(r.Timer.Total),
			indent,
			r.Timer.Name,
		)
	}
}

// formatDuration renders a duration in compact h/m/s form. Remaining-time
// readings can dip below zero between evaluation passes; they render as
// zero.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0 && s > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// newShowCommand creates the show command for displaying timer details.
func newShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display timer details",
		Long: `Display detailed information about a timer and its subtree.

The id may be any unique prefix of a timer id, as shown by
'ticktree list'.

Output includes:
  - Phase, budget, elapsed and remaining time
  - Budget allocation across sub-timers
  - The running child, when the timer has delegated its slot
  - Sub-timers (if any)

Examples:
  # Show timer by short id
  ticktree show 1a2b3c4d

  # Prefixes work as long as they are unique
  ticktree show 1a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.ShowTimerUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTimerInput{Ref: args[0]})
			if err != nil {
				return err
			}

			printTimerDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}

	return cmd
}

// printTimerDetails prints one timer's evaluated state and its subtree.
func printTimerDetails(w io.Writer, out *usecase.ShowTimerOutput) {
	target := out.Rows[0]

	// Header
	_, _ = fmt.Fprintf(w, "# Timer %s: %s\n\n", domain.ShortID(target.Timer.ID), target.Timer.Name)

	// Fields
	_, _ = fmt.Fprintf(w, "Phase: %s\n", target.State.Phase())

	if target.Timer.IsRoot() {
		_, _ = fmt.Fprintln(w, "Parent: none")
	} else {
		_, _ = fmt.Fprintf(w, "Parent: %s\n", domain.ShortID(target.Timer.ParentID))
	}

	_, _ = fmt.Fprintf(w, "Total: %s\n", formatDuration(target.Timer.Total))
	_, _ = fmt.Fprintf(w, "Elapsed: %s\n", formatDuration(target.Derived.LiveElapsed))
	_, _ = fmt.Fprintf(w, "Remaining: %s\n", formatDuration(target.Derived.Remaining))

	if len(target.Timer.Children) > 0 {
		_, _ = fmt.Fprintf(w, "Allocated: %s\n", formatDuration(target.Derived.ChildrenTotal))
		_, _ = fmt.Fprintf(w, "Unallocated: %s\n", formatDuration(target.Derived.Unallocated))
	}

	if delegate, ok := target.State.Delegate(); ok {
		_, _ = fmt.Fprintf(w, "Running child: %s\n", timerName(out.Rows, delegate))
	}

	// Sub-timers
	if len(out.Rows) > 1 {
		_, _ = fmt.Fprintln(w, "\nSub-timers:")
		for _, r := range out.Rows[1:] {
			indent := strings.Repeat("  ", r.Depth-1)
			_, _ = fmt.Fprintf(w, "  %s%s [%s] %s  %s / %s\n",
				indent,
				domain.ShortID(r.Timer.ID),
				r.State.Phase(),
				r.Timer.Name,
				formatDuration(r.Derived.LiveElapsed),
				formatDuration(r.Timer.Total),
			)
		}
	}
}

// timerName resolves a timer id to its display name within one listing.
func timerName(rows []usecase.TimerRow, id string) string {
	for _, r := range rows {
		if r.Timer.ID == id {
			return r.Timer.Name
		}
	}
	return domain.ShortID(id)
}

// newRmCommand creates the rm command for deleting timers.
func newRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a timer",
		Long: `Delete a timer and every timer beneath it.

A running timer is stopped first, so its ancestors settle before the
subtree disappears. Deleting an id that matches nothing is a no-op.

Examples:
  # Delete a timer and its sub-timers
  ticktree rm 1a2b3c4d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.DeleteTimerUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTimerInput{Ref: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Removed) == 0 {
				_, _ = fmt.Fprintf(w, "No timer matches %q\n", args[0])
				return nil
			}
			if len(out.Removed) == 1 {
				_, _ = fmt.Fprintf(w, "Deleted %s\n", out.Name)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Deleted %s and %d sub-timer(s)\n", out.Name, len(out.Removed)-1)
			return nil
		},
	}

	return cmd
}
