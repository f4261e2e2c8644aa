package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-builder/internal/export"
	"property-builder/internal/loader"
	"property-builder/internal/pipeline"
	"property-builder/internal/watch"
)

var errBuildFailed = errors.New("build failed")

type buildFlags struct {
	format string
	output string
	set    []string
	watch  bool
}

func (c *cli) newBuildCmd() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build FILE...",
		Short: "Resolve property files and print the result",
		Long: `Loads the files in order (later files overwrite earlier keys), applies --set
overrides, resolves all references and writes the result.

On failure every unresolved key is reported on stderr and the exit status is 1.

Example:
  property-builder build base.yaml prod.yaml --set db[host]=db.internal -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: yaml, json or toml (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the result to FILE instead of stdout")
	cmd.Flags().StringArrayVarP(&f.set, "set", "s", nil, "Override a property (key=value), may be repeated")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Rebuild whenever an input file changes")

	return cmd
}

func (c *cli) runBuild(cmd *cobra.Command, files []string, f buildFlags) error {
	format := c.cfg.OutputFormat()
	if f.format != "" {
		var err error
		if format, err = loader.ParseFormat(f.format); err != nil {
			return err
		}
	}

	output := c.cfg.Output.File
	if f.output != "" {
		output = f.output
	}

	overrides := append(slices.Clone(c.cfg.Set), f.set...)
	builderCfg := c.cfg.BuilderConfig()

	once := func() error {
		res, err := pipeline.Run(pipeline.Request{
			Files:     files,
			Overrides: overrides,
			Config:    &builderCfg,
		}, c.logger)
		if err != nil {
			return err
		}

		for _, d := range res.Diagnostics.Warnings {
			c.logger.Warn(d.Message, zap.String("key", d.Key), zap.String("code", d.Code))
		}

		if !res.OK() {
			printErrors(cmd.ErrOrStderr(), res)
			return errBuildFailed
		}

		if output != "" {
			return export.WriteFile(res.Properties, format, output)
		}

		data, err := export.Marshal(res.Properties, format)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	}

	if !f.watch && !c.cfg.Watch.Enabled {
		return once()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := time.Duration(c.cfg.Watch.DebounceMs) * time.Millisecond

	return watch.Run(ctx, files, debounce, c.logger, once)
}

func printErrors(w io.Writer, res *pipeline.Result) {
	for _, d := range res.Diagnostics.Errors {
		fmt.Fprintln(w, d.String())
	}
}
