// Package pipeline loads property sources, applies overrides and runs the
// builder. It is shared by the command-line tool, the watcher and the HTTP
// front-end, each of which creates a fresh builder per run.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"property-builder/builder"
	"property-builder/internal/diagnostic"
	"property-builder/internal/loader"
	"property-builder/internal/refgraph"
	"property-builder/property"
)

// Diagnostic codes raised by the pipeline itself.
const (
	CodeOverride           = "Override"
	CodeUndefinedReference = "UndefinedReference"
)

// Request describes one build.
type Request struct {
	// Files are loaded in order; later files overwrite earlier keys.
	Files []string
	// Sources are in-memory property sets applied after Files.
	Sources []*property.Map
	// Overrides are "key=value" assignments applied last.
	Overrides []string
	// Config tunes the builder. The zero value means builder.DefaultConfig.
	Config *builder.Config
}

// Result is the outcome of a build that got as far as resolution.
type Result struct {
	// Properties is nil when the build failed.
	Properties *property.Map
	// Errors lists resolution failures of the final pass.
	Errors []string
	// Diagnostics carries Errors with codes and suggestions, plus pipeline
	// warnings (undefined references) and notes (overridden keys).
	Diagnostics diagnostic.Diagnostics
}

// OK reports whether the build succeeded.
func (r *Result) OK() bool {
	return r.Properties != nil
}

// Run executes req. Load and ingestion problems are returned as errors;
// resolution failures are reported in the Result.
func Run(req Request, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()

	cfg := builder.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	b := builder.New(builder.WithLogger(logger.Named("builder")), builder.WithConfig(cfg))

	var notes diagnostic.Diagnostics

	declared := property.NewMap()

	add := func(origin string, m *property.Map) error {
		if err := b.AddProperties(m); err != nil {
			return fmt.Errorf("%s: %w", origin, err)
		}

		for k, v := range m.All() {
			if declared.Has(k) {
				notes.AddInfo(CodeOverride, fmt.Sprintf("key '%s' from %s overrides an earlier value", k, origin), k)
			}

			declared.Set(k, v)
		}

		return nil
	}

	for _, file := range req.Files {
		m, err := loader.LoadFile(file)
		if err != nil {
			return nil, err
		}

		if err := add(file, m); err != nil {
			return nil, err
		}

		logger.Debug("loaded properties", zap.String("file", file), zap.Int("keys", m.Len()))
	}

	for i, m := range req.Sources {
		if m == nil {
			return nil, fmt.Errorf("source %d: %w", i, errors.New("nil property map"))
		}

		if err := add(fmt.Sprintf("source %d", i), m); err != nil {
			return nil, err
		}
	}

	if len(req.Overrides) > 0 {
		overrides := property.NewMap()

		for _, s := range req.Overrides {
			k, v, err := loader.ParseAssignment(s)
			if err != nil {
				return nil, err
			}

			overrides.Set(k, property.Str(v))
		}

		if err := add("overrides", overrides); err != nil {
			return nil, err
		}
	}

	graph := refgraph.Build(declared)
	for _, k := range graph.Undefined() {
		notes.AddWarning(CodeUndefinedReference, fmt.Sprintf("'%s' is referenced but never defined", k), k)
	}

	props, err := b.Build()
	if err != nil && !errors.Is(err, builder.ErrBuildFailed) {
		return nil, err
	}

	res := &Result{
		Properties:  props,
		Errors:      b.Errors(),
		Diagnostics: b.Diagnostics(),
	}
	res.Diagnostics.Merge(notes)

	logger.Info("build finished",
		zap.Int("keys", declared.Len()),
		zap.Bool("ok", res.OK()),
		zap.Int("errors", len(res.Errors)),
		zap.Duration("took", time.Since(start)),
	)

	return res, nil
}
