package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-builder/internal/loader"
	"property-builder/internal/refgraph"
	"property-builder/property"
)

func (c *cli) newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph FILE...",
		Short: "Print keys in dependency order",
		Long: `Prints one line per key, dependencies first:

  key: dep1, dep2

Fails with the keys involved when the references form a cycle.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runGraph,
	}
}

func (c *cli) runGraph(cmd *cobra.Command, files []string) error {
	merged := property.NewMap()

	for _, file := range files {
		m, err := loader.LoadFile(file)
		if err != nil {
			return err
		}

		for k, v := range m.All() {
			merged.Set(k, v)
		}
	}

	g := refgraph.Build(merged)

	for _, k := range g.Undefined() {
		c.logger.Warn("undefined reference", zap.String("key", k))
	}

	order, err := g.Order()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, k := range order {
		deps := g.Dependencies(k)
		if len(deps) == 0 {
			fmt.Fprintln(out, k)
			continue
		}

		fmt.Fprintf(out, "%s: %s\n", k, strings.Join(deps, ", "))
	}

	return nil
}
