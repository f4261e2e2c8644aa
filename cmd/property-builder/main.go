// Package main provides the CLI entrypoint for property-builder.
//
// property-builder resolves {{key}} references between properties loaded
// from YAML, JSON and TOML files:
//   - build resolves the files and writes the result
//   - graph prints the dependency order of the keys
//   - serve exposes the builder over HTTP
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-builder/internal/config"
	"property-builder/internal/logging"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

type cli struct {
	// Global flags
	configPath string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "property-builder",
		Short: "Resolve references between properties",
		Long: `property-builder loads properties from YAML, JSON or TOML files and resolves
{{key}} and {{key[index]}} references between them until nothing changes.

Keys of the form base[i][j] assign into the array stored under base.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to the configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(c.newBuildCmd())
	root.AddCommand(c.newGraphCmd())
	root.AddCommand(c.newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setup loads the configuration and initializes the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	c.cfg = cfg

	level := cfg.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}

	if c.verbose {
		level = "debug"
	}

	logger, err := logging.New(level, cfg.Logging.Development)
	if err != nil {
		return err
	}

	c.logger = logger

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "property-builder", version)
			return err
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
