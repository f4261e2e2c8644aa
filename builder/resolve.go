package builder

import (
	"slices"

	"go.uber.org/zap"

	"property-builder/internal/keypath"
	"property-builder/internal/suggest"
)

// pendingKey is a key not yet processed by the fixed-point loop.
type pendingKey struct {
	raw string
	// applied is set once a nested assignment has been written into its base
	// and the synthetic key removed; only the base remains to be resolved.
	applied bool
}

// resolveAll runs passes over the keys present at the start of the build
// until a pass resolves nothing. Only the last pass's failures are kept.
func (b *Builder) resolveAll() {
	pending := make([]*pendingKey, 0, b.props.Len())
	for _, k := range b.props.Keys() {
		pending = append(pending, &pendingKey{raw: k})
	}

	for pass := 1; ; pass++ {
		b.diags.Reset()

		var remaining []*pendingKey

		resolved := 0

		for _, pk := range pending {
			if err := b.processKey(pk); err != nil {
				b.diags.AddError(kindOf(err).String(), err.Error(), pk.raw, suggestionsOf(err)...)
				remaining = append(remaining, pk)

				continue
			}

			resolved++
		}

		b.logger.Debug("resolution pass",
			zap.Int("pass", pass),
			zap.Int("pending", len(pending)),
			zap.Int("resolved", resolved),
			zap.Int("errors", len(b.diags.Errors)),
		)

		pending = remaining

		if resolved == 0 || len(pending) == 0 {
			return
		}
	}
}

// processKey handles one pending key for the current pass.
func (b *Builder) processKey(pk *pendingKey) error {
	key, err := keypath.Parse(pk.raw)
	if err != nil {
		return newError(KindInvalidKey, pk.raw, "Invalid key: '%s'", pk.raw)
	}

	if !key.IsNested() {
		return b.resolveKey(pk.raw)
	}

	if pk.applied {
		return b.resolveKey(key.Base)
	}

	// A base that does not exist yet is created by the assignment and has
	// nothing to resolve beforehand.
	if b.props.Has(key.Base) {
		if err := b.resolveKey(key.Base); err != nil {
			return err
		}
	}

	if err := b.resolveKey(pk.raw); err != nil {
		return err
	}

	value, _ := b.props.Get(pk.raw)

	if err := b.setNested(key, value); err != nil {
		return newError(kindOf(err), pk.raw, "Error setting '%s': %s", pk.raw, err.Error())
	}

	b.props.Delete(pk.raw)
	pk.applied = true

	b.logger.Debug("nested assignment applied",
		zap.String("key", pk.raw),
		zap.String("base", key.Base),
	)

	return b.resolveKey(key.Base)
}

// resolveKey resolves the value stored under key in place. The value is
// stored even when resolution fails part way, keeping whatever was resolved.
func (b *Builder) resolveKey(key string) error {
	value, ok := b.props.Get(key)
	if !ok {
		e := newError(KindKeyNotDefined, key, "Key '%s' not defined", key)
		e.Suggestions = b.suggest(key)

		return e
	}

	if slices.Contains(b.refs, key) {
		return newError(KindCircularReference, key, "Circular reference for key '%s'", key)
	}

	b.refs = append(b.refs, key)
	defer func() { b.refs = b.refs[:len(b.refs)-1] }()

	resolved, err := b.resolveValue(value)
	b.props.Set(key, resolved)

	return err
}

func (b *Builder) suggest(key string) []string {
	if b.config.MaxSuggestions <= 0 {
		return nil
	}

	return suggest.Closest(key, b.props.Keys(), suggest.Config{
		MinScore:      b.config.SuggestionMinScore,
		MaxCandidates: b.config.MaxSuggestions,
	})
}
