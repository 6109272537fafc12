// Package cli holds the haikudo command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/haikudo/backend/internal/pkg/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	// LogLevel overrides LOG_LEVEL when set.
	LogLevel string

	// Lookuper resolves environment variables; nil reads the process
	// environment.
	Lookuper envconfig.Lookuper
}

// NewRootCommand creates the root command for the haikudo CLI, reading
// configuration from the process environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "haikudo",
		Short:         "Haikudo backend API",
		Long:          "Serves the Haikudo users and posts API and manages its database schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (trace|debug|info|warn|error), defaults to LOG_LEVEL")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "haikudo: %v\n", err)
		return 1
	}
	return 0
}

func (o *RootOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	if o.Lookuper == nil {
		return config.Load(ctx)
	}
	return config.LoadFrom(ctx, o.Lookuper)
}

func levelOr(flag, env string) string {
	if flag != "" {
		return flag
	}
	return env
}
