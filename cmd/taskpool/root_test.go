package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/taskpool/api/v1"
)

var _ = Describe("root command", func() {
	var (
		root   *cobra.Command
		runCmd *cobra.Command
	)

	BeforeEach(func() {
		root = NewRootCmd()
		var err error
		runCmd, _, err = root.Find([]string{"run"})
		Expect(err).NotTo(HaveOccurred())
	})

	flagValue := func(name string) string {
		f := runCmd.Flags().Lookup(name)
		Expect(f).NotTo(BeNil())
		return f.Value.String()
	}

	writeConfig := func(content string) string {
		path := filepath.Join(GinkgoT().TempDir(), "taskpool.yaml")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	It("should register the subcommands", func() {
		for _, name := range []string{"run", "status", "submit"} {
			cmd, _, err := root.Find([]string{name})
			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Name()).To(Equal(name))
		}
	})

	It("should keep defaults without flags, env or file", func() {
		Expect(runCmd.ParseFlags(nil)).To(Succeed())
		Expect(root.PersistentPreRunE(runCmd, nil)).To(Succeed())

		Expect(flagValue("max-workers")).To(Equal("4"))
		Expect(flagValue("idle-timeout")).To(Equal("30s"))
	})

	// Given a config file, an env var and a command line flag
	// When the pre-run hook runs
	// Then the flag beats the env var which beats the file
	It("should apply flag, env and file in order of precedence", func() {
		path := writeConfig("max-workers: 7\nmin-workers: 2\nidle-timeout: 45s\nsmart-scheduling: false\n")
		GinkgoT().Setenv("TASKPOOL_MIN_WORKERS", "3")

		Expect(runCmd.ParseFlags([]string{"--config", path, "--idle-timeout", "1m"})).To(Succeed())
		Expect(root.PersistentPreRunE(runCmd, nil)).To(Succeed())

		Expect(flagValue("max-workers")).To(Equal("7"))
		Expect(flagValue("min-workers")).To(Equal("3"))
		Expect(flagValue("idle-timeout")).To(Equal("1m0s"))
		Expect(flagValue("smart-scheduling")).To(Equal("false"))
	})

	It("should fail on a missing config file", func() {
		Expect(runCmd.ParseFlags([]string{"--config", "/does/not/exist.yaml"})).To(Succeed())
		Expect(root.PersistentPreRunE(runCmd, nil)).NotTo(Succeed())
	})

	It("should fail on a bad value in the config file", func() {
		path := writeConfig("max-workers: many\n")
		Expect(runCmd.ParseFlags([]string{"--config", path})).To(Succeed())
		Expect(root.PersistentPreRunE(runCmd, nil)).To(MatchError(ContainSubstring("max-workers")))
	})
})

var _ = Describe("output", func() {
	BeforeEach(func() {
		color.NoColor = true
	})

	It("should print the pool status", func() {
		task := "t-1"
		var buf bytes.Buffer
		printStatus(&buf, &v1.PoolStatus{
			WorkerCount: 2,
			BusyWorkers: 1,
			IdleWorkers: 1,
			MinWorkers:  1,
			MaxWorkers:  4,
			QueueDepth:  3,
			Metrics:     v1.PoolMetrics{TotalTasks: 10, CompletedTasks: 8, FailedTasks: 2, TimedOutTasks: 1},
			Workers: []v1.WorkerStatus{
				{Id: "w-1", Busy: true, CurrentTask: &task, TasksCompleted: 5},
				{Id: "w-2", TasksCompleted: 3, ErrorCount: 2},
			},
		})

		out := buf.String()
		Expect(out).To(ContainSubstring("running"))
		Expect(out).To(ContainSubstring("Workers:  2 (busy 1, idle 1, bounds 1..4)"))
		Expect(out).To(ContainSubstring("Failed:   2 (1 timed out)"))
		Expect(out).To(ContainSubstring("w-1: busy t-1"))
		Expect(out).To(ContainSubstring("w-2: idle, 3 done, 2 errors"))
	})

	It("should print a failed result with its error", func() {
		msg := "boom"
		var buf bytes.Buffer
		printResult(&buf, &v1.TaskResult{TaskId: "t-2", Type: "sum", Attempts: 3, Error: &msg})

		out := buf.String()
		Expect(out).To(ContainSubstring("Task: t-2 (sum)"))
		Expect(out).To(ContainSubstring("failed"))
		Expect(out).To(ContainSubstring("Attempts: 3"))
		Expect(out).To(ContainSubstring("Error:    boom"))
	})
})
