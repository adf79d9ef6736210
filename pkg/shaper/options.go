package shaper

import "go.uber.org/zap"

// DefaultColumnName names the single column of a table built from scalar
// items when no column names are given.
const DefaultColumnName = "ColWithoutName"

// DefaultTagKey is the struct tag consulted for column names. A tag value
// of "-" hides the field.
const DefaultTagKey = "tvp"

type options struct {
	defaultColumn string
	tagKey        string
	strict        bool
	log           *zap.Logger
}

// Option configures BuildTable and Schema.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		defaultColumn: DefaultColumnName,
		tagKey:        DefaultTagKey,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithDefaultColumnName overrides DefaultColumnName. Empty names are ignored.
func WithDefaultColumnName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.defaultColumn = name
		}
	}
}

// WithTagKey overrides the struct tag key used to rename or hide fields.
// An empty key disables tag lookup.
func WithTagKey(key string) Option {
	return func(o *options) { o.tagKey = key }
}

// Strict makes types without a column kind mapping fail with
// ErrUnsupportedType instead of producing an Other column.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// WithLogger sets the logger used for debug output. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
