package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/ticktree/internal/app"
	"github.com/runoshun/ticktree/internal/domain"
	"github.com/runoshun/ticktree/internal/infra/watch"
	"github.com/runoshun/ticktree/internal/usecase"
)

// newStartCommand creates the start command for starting timers.
func newStartCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a timer",
		Long: `Start a timer's countdown.

Starting a timer also starts every idle ancestor on its path, stamped
with the same instant. If a sibling anywhere on the path was running it
is force-stopped, because within any parent at most one child accrues
time. Starting a timer that is already running is a no-op.

A finished timer cannot be started; reset it first. A timer whose
budget is fully allocated to sub-timers cannot be started directly;
start one of its sub-timers instead.

Examples:
  # Start a timer by short id
  ticktree start 1a2b3c4d

  # Prefixes work as long as they are unique
  ticktree start 1a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.StartTimerUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.StartTimerInput{Ref: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyRunning {
				_, _ = fmt.Fprintf(w, "%s is already running\n", out.Name)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Started %s\n", out.Name)
			printEvents(w, out.Events)
			return nil
		},
	}

	return cmd
}

// newStopCommand creates the stop command for pausing timers.
func newStopCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a timer",
		Long: `Stop a timer's countdown, keeping the elapsed time.

Every ancestor that was running only on behalf of this timer stops with
it. Elapsed time is kept; 'ticktree start' resumes where the timer left
off. Stopping a timer that is not running is a no-op.

Examples:
  # Pause a timer
  ticktree stop 1a2b3c4d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.StopTimerUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.StopTimerInput{Ref: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !out.WasRunning {
				_, _ = fmt.Fprintf(w, "%s is not running\n", out.Name)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Stopped %s\n", out.Name)
			printEvents(w, out.Events)
			return nil
		},
	}

	return cmd
}

// newResetCommand creates the reset command for zeroing timers.
func newResetCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <id>",
		Short: "Reset a timer",
		Long: `Reset a timer's elapsed time to zero and clear its finished state.

Only the target timer is affected; sub-timers keep their own elapsed
time. A running timer stays running with a fresh segment.

Examples:
  # Give a finished timer its full budget back
  ticktree reset 1a2b3c4d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute use case
			uc := c.ResetTimerUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ResetTimerInput{Ref: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Reset %s\n", out.Name)
			printEvents(w, out.Events)
			return nil
		},
	}

	return cmd
}

// newTickCommand creates the tick command for one-shot evaluation.
func newTickCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run a single evaluation pass",
		Long: `Run one evaluation pass over every timer and exit.

Completions and force-stops that accumulated since the last evaluation
are applied, persisted, and printed. Useful from cron or a systemd
timer when no 'ticktree run' loop is active.

Examples:
  # Evaluate once
  ticktree tick`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Execute use case
			uc := c.EvaluateForestUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.EvaluateForestInput{})
			if err != nil {
				return err
			}

			printEvents(cmd.OutOrStdout(), out.Events)
			return nil
		},
	}

	return cmd
}

// newRunCommand creates the run command for the foreground evaluation loop.
func newRunCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Interval time.Duration
		Once     bool
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the evaluation loop",
		Long: `Run the periodic evaluation loop in the foreground.

Every tick the whole forest is evaluated: running timers whose budget
is exhausted finish and fire notifications, and sibling exclusion
settles. Events are printed as they happen. Stop with Ctrl+C.

The configuration file is watched while the loop runs; edits to it
take effect without a restart.

Examples:
  # Run with the configured tick interval (default 1s)
  ticktree run

  # Run with a custom interval
  ticktree run --interval 250ms

  # Evaluate once and exit
  ticktree run --once`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup signal handling for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			w := cmd.OutOrStdout()
			onPass := func(out usecase.EvaluateForestOutput) {
				for _, ev := range out.Events {
					_, _ = fmt.Fprintf(w, "%s  %s: %s (%s)\n",
						c.Clock.Now().Format("15:04:05"), ev.Kind, ev.Name, domain.ShortID(ev.ID))
				}
			}

			interval := func() time.Duration {
				if opts.Interval > 0 {
					return opts.Interval
				}
				return c.AppConfig.TickInterval()
			}

			// Watch the config file so edits apply without a restart. A
			// missing config directory just means defaults are in use; the
			// loop runs without hot reload then.
			reload := make(chan struct{}, 1)
			stopWatch, err := watch.File(c.Config.ConfigPath, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
			if err == nil {
				defer stopWatch()
			}

			for {
				// Each round runs until a signal arrives or the config file
				// changes; a change cancels the round so the loop can
				// restart with the reloaded notifier, logger, and interval.
				runCtx, stop := context.WithCancel(ctx)
				go func() {
					select {
					case <-reload:
						stop()
					case <-runCtx.Done():
					}
				}()

				uc := c.WatchForestUseCase()
				_, err := uc.Execute(runCtx, usecase.WatchForestInput{
					Interval: interval(),
					Once:     opts.Once,
					OnPass:   onPass,
				})
				stop()
				if err != nil {
					return err
				}
				if opts.Once || ctx.Err() != nil {
					return nil
				}

				cfg, err := c.ConfigLoader.Load()
				if err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: config reload failed: %v\n", err)
					continue
				}
				if err := c.ApplyConfig(cfg); err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: config reload failed: %v\n", err)
					continue
				}
				_, _ = fmt.Fprintln(w, "Configuration reloaded")
			}
		},
	}

	// Flags
	cmd.Flags().DurationVarP(&opts.Interval, "interval", "i", 0, "Tick interval (default: from config)")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "Run a single evaluation pass and exit")

	return cmd
}

// printEvents prints evaluation events one per line.
func printEvents(w io.Writer, events []domain.Event) {
	for _, ev := range events {
		_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", ev.Kind, ev.Name, domain.ShortID(ev.ID))
	}
}
