package builder

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"property-builder/internal/diagnostic"
	"property-builder/internal/suggest"
	"property-builder/property"
)

// Config holds tunables of the builder.
type Config struct {
	// MaxSuggestions caps the "did you mean" candidates attached to
	// undefined-key errors. Zero disables suggestions.
	MaxSuggestions int
	// SuggestionMinScore is the minimum similarity (0..1) of a candidate.
	SuggestionMinScore float64
}

// DefaultConfig returns the default builder configuration.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions:     suggest.DefaultMaxCandidates,
		SuggestionMinScore: suggest.DefaultMinScore,
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithConfig replaces the builder configuration.
func WithConfig(cfg Config) Option {
	return func(b *Builder) {
		b.config = cfg
	}
}

// Builder collects properties and resolves references between them.
type Builder struct {
	props  *property.Map
	config Config
	logger *zap.Logger

	// refs is the stack of keys currently being resolved.
	refs []string

	diags diagnostic.Diagnostics
}

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		props:  property.NewMap(),
		config: DefaultConfig(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// AddProperty stores value under key, replacing any previous value.
//
// The key is not parsed here; malformed keys are reported by Build.
// The value must be convertible by property.FromAny.
func (b *Builder) AddProperty(key string, value any) error {
	if key == "" {
		return newError(KindInvalidKey, "", "key cannot be empty")
	}

	v, err := property.FromAny(value)
	if err != nil {
		return &Error{Kind: KindInvalidValue, Key: key, Msg: fmt.Sprintf("invalid value for key '%s'", key), Err: err}
	}

	b.props.Set(key, v)

	return nil
}

// AddProperties adds every entry of props, which must be a *property.Map,
// a property.Map or a Go map with string keys. Go maps are applied in sorted
// key order. Nothing is added unless every entry is valid.
func (b *Builder) AddProperties(props any) error {
	entries, err := collectEntries(props)
	if err != nil {
		return err
	}

	for _, e := range entries {
		b.props.Set(e.Key, e.Value)
	}

	return nil
}

func collectEntries(props any) ([]property.Entry, error) {
	switch p := props.(type) {
	case nil:
		return nil, newError(KindInvalidArgument, "", "properties cannot be nil")
	case *property.Map:
		if p == nil {
			return nil, newError(KindInvalidArgument, "", "properties cannot be nil")
		}

		return validateEntries(p.Entries())
	case property.Map:
		return validateEntries(p.Entries())
	}

	rv := reflect.ValueOf(props)
	if rv.Kind() != reflect.Map {
		return nil, newError(KindInvalidArgument, "", "properties must be a mapping, got %T", props)
	}

	if rv.IsNil() {
		return nil, newError(KindInvalidArgument, "", "properties cannot be nil")
	}

	raw := make(map[string]any, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface && !k.IsNil() {
			k = k.Elem()
		}

		if k.Kind() != reflect.String {
			return nil, newError(KindInvalidKey, "", "properties cannot contain a non-string key (%v)", iter.Key().Interface())
		}

		raw[k.String()] = iter.Value().Interface()
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	entries := make([]property.Entry, 0, len(keys))

	for _, k := range keys {
		if k == "" {
			return nil, newError(KindInvalidKey, "", "properties cannot contain an empty key")
		}

		v, err := property.FromAny(raw[k])
		if err != nil {
			return nil, &Error{Kind: KindInvalidValue, Key: k, Msg: fmt.Sprintf("invalid value for key '%s'", k), Err: err}
		}

		entries = append(entries, property.Entry{Key: k, Value: v})
	}

	return entries, nil
}

func validateEntries(entries []property.Entry) ([]property.Entry, error) {
	for _, e := range entries {
		if e.Key == "" {
			return nil, newError(KindInvalidKey, "", "properties cannot contain an empty key")
		}

		if err := property.Validate(e.Value); err != nil {
			return nil, &Error{Kind: KindInvalidValue, Key: e.Key, Msg: fmt.Sprintf("invalid value for key '%s'", e.Key), Err: err}
		}
	}

	return entries, nil
}

// Build resolves every property and returns the result.
//
// On failure it returns ErrBuildFailed; the reasons are available from
// Errors and Diagnostics. The returned map is a copy owned by the caller.
func (b *Builder) Build() (*property.Map, error) {
	b.diags.Reset()

	b.resolveAll()

	if b.diags.HasErrors() {
		return nil, ErrBuildFailed
	}

	return b.props.Clone(), nil
}

// Errors returns the messages of the last build, empty if it succeeded.
func (b *Builder) Errors() []string {
	return b.diags.Messages()
}

// Diagnostics returns the errors of the last build with their kind, the key
// being processed and suggestions for undefined keys.
func (b *Builder) Diagnostics() diagnostic.Diagnostics {
	var out diagnostic.Diagnostics
	out.Merge(b.diags)

	return out
}

// IsKind reports whether err is a builder error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}
