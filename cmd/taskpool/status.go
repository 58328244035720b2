package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/taskpool/api/v1"
)

func NewStatusCmd() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show workers, queue and counters of a running pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			status, err := c.GetPool(cmd.Context())
			if err != nil {
				return fmt.Errorf("get pool: %w", err)
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printStatus(w io.Writer, s *v1.PoolStatus) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	state := green.Sprint("running")
	if s.Terminated {
		state = red.Sprint("terminated")
	}

	_, _ = bold.Fprintln(w, "Pool")
	fmt.Fprintf(w, "  State:    %s\n", state)
	fmt.Fprintf(w, "  Workers:  %d (busy %d, idle %d, bounds %d..%d)\n", s.WorkerCount, s.BusyWorkers, s.IdleWorkers, s.MinWorkers, s.MaxWorkers)
	fmt.Fprintf(w, "  Queue:    %d queued, %d in flight, %d retrying\n", s.QueueDepth, s.InFlight, s.Retrying)

	m := s.Metrics
	_, _ = bold.Fprintln(w, "Tasks")
	fmt.Fprintf(w, "  Total:    %d\n", m.TotalTasks)
	fmt.Fprintf(w, "  Done:     %s\n", green.Sprint(m.CompletedTasks))
	if m.FailedTasks > 0 || m.TimedOutTasks > 0 {
		fmt.Fprintf(w, "  Failed:   %s (%d timed out)\n", red.Sprint(m.FailedTasks), m.TimedOutTasks)
	}
	if m.RetriedTasks > 0 {
		fmt.Fprintf(w, "  Retried:  %s\n", yellow.Sprint(m.RetriedTasks))
	}
	if m.CanceledTasks > 0 || m.RejectedTasks > 0 {
		fmt.Fprintf(w, "  Dropped:  %d canceled, %d rejected\n", m.CanceledTasks, m.RejectedTasks)
	}
	fmt.Fprintf(w, "  Avg time: %.2fms\n", m.AverageTaskTimeMs)

	if len(s.Workers) == 0 {
		return
	}
	_, _ = bold.Fprintln(w, "Workers")
	for _, wk := range s.Workers {
		busy := green.Sprint("idle")
		if wk.Busy {
			busy = yellow.Sprint("busy")
			if wk.CurrentTask != nil {
				busy += " " + *wk.CurrentTask
			}
		}
		errs := fmt.Sprint(wk.ErrorCount)
		if wk.ErrorCount > 0 {
			errs = red.Sprint(wk.ErrorCount)
		}
		fmt.Fprintf(w, "  - %s: %s, %d done, %s errors, load %.2f\n", wk.Id, busy, wk.TasksCompleted, errs, wk.Load)
	}
}
