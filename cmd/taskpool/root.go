package main

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "taskpool"

// NewRootCmd creates the root command. Flag values come, in order of
// precedence, from the command line, TASKPOOL_* environment variables and
// the --config file.
func NewRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "taskpool",
		Short:        "Adaptive task scheduler over a dynamic worker pool",
		SilenceUsage: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			func(cmd *cobra.Command, _ []string) error {
				return loadConfigFile(cmd.Flags(), configFile)
			},
		),
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or JSON config file")

	root.AddCommand(
		NewRunCmd(),
		NewStatusCmd(),
		NewSubmitCmd(),
	)
	return root
}

// loadConfigFile fills every flag not already set from the file at path.
// Keys are flag names.
func loadConfigFile(flags *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var setErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if setErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := flags.Set(f.Name, v.GetString(f.Name)); err != nil {
			setErr = fmt.Errorf("invalid value for %s in %s: %w", f.Name, path, err)
		}
	})
	return setErr
}
