package reshape

import "go.uber.org/zap"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug events. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRecurseReplacements controls whether the children of a replacement
// are themselves subject to the batch. It is on by default.
func WithRecurseReplacements(on bool) Option {
	return func(e *Engine) {
		e.recurse = on
	}
}
