package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/taskpool/api/v1"
)

func NewSubmitCmd() *cobra.Command {
	var (
		flags      clientFlags
		taskType   string
		payload    string
		id         string
		priority   int
		timeoutMs  int64
		maxRetries int
		noWait     bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a task and print its result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := v1.TaskRequest{Type: taskType}
			if payload != "" {
				if err := json.Unmarshal([]byte(payload), &req.Payload); err != nil {
					return fmt.Errorf("parse payload: %w", err)
				}
			}
			if id != "" {
				req.Id = &id
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &priority
			}
			if cmd.Flags().Changed("timeout") {
				req.TimeoutMs = &timeoutMs
			}
			if cmd.Flags().Changed("retries") {
				req.MaxRetries = &maxRetries
			}

			c, err := flags.client()
			if err != nil {
				return err
			}

			if noWait {
				accepted, err := c.SubmitTask(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("submit task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task accepted: %s\n", accepted.Id)
				return nil
			}

			res, err := c.RunTask(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("run task: %w", err)
			}
			printResult(cmd.OutOrStdout(), res)
			if !res.Success {
				return fmt.Errorf("task %s failed", res.TaskId)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&taskType, "type", "", "Task type")
	cmd.Flags().StringVar(&payload, "payload", "", "JSON payload")
	cmd.Flags().StringVar(&id, "id", "", "Task id, generated when empty")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority, higher runs first")
	cmd.Flags().Int64Var(&timeoutMs, "timeout", 0, "Per-attempt timeout in milliseconds")
	cmd.Flags().IntVar(&maxRetries, "retries", 0, "Retries after the first attempt")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return as soon as the task is queued")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func printResult(w io.Writer, r *v1.TaskResult) {
	state := color.GreenString("success")
	if !r.Success {
		state = color.RedString("failed")
	}

	fmt.Fprintf(w, "Task: %s (%s)\n", r.TaskId, r.Type)
	fmt.Fprintf(w, "  State:    %s\n", state)
	fmt.Fprintf(w, "  Attempts: %d\n", r.Attempts)
	fmt.Fprintf(w, "  Duration: %dms\n", r.DurationMs)
	if r.WorkerId != nil {
		fmt.Fprintf(w, "  Worker:   %s\n", *r.WorkerId)
	}
	if r.Error != nil {
		fmt.Fprintf(w, "  Error:    %s\n", color.RedString(*r.Error))
	}
	if r.Data != nil {
		data, err := json.Marshal(r.Data)
		if err == nil {
			fmt.Fprintf(w, "  Result:   %s\n", data)
		}
	}
}
