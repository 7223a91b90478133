package weave

import "go.uber.org/zap"

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	maxDepth   int
	logger     *zap.Logger
	sink       Sink
	cache      *resultCache
	noBuiltins bool
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the maximum nesting depth for invocation expansion.
// Default: DefaultMaxDepth (64).
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithLogger sets the *zap.Logger the engine's default Sink wraps. Ignored
// if WithSink is also given. Default: nil (discards everything).
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithSink sets the diagnostics Sink directly, overriding WithLogger.
func WithSink(sink Sink) Option {
	return func(c *engineConfig) {
		c.sink = sink
	}
}

// WithResultCache enables an opt-in cache decorator around Evaluate,
// keyed on Environment.ContentHash. Unsound for documents containing
// non-deterministic handlers (a cached result is returned without running
// any handler again); callers opt in knowingly.
func WithResultCache(config CacheConfig) Option {
	return func(c *engineConfig) {
		c.cache = newResultCache(config)
	}
}

// WithoutBuiltins skips installing the built-in comment Definition.
// Mainly useful for tests that want a bare Registry.
func WithoutBuiltins() Option {
	return func(c *engineConfig) {
		c.noBuiltins = true
	}
}
