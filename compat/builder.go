package compat

import (
	"fmt"

	jmtlogger "github.com/JDW2018/JMTLogger"
)

// Builder creates configured logger adapters for gnet and fasthttp.
// It can use an existing *jmtlogger.Logger instance or create a new
// one from a *jmtlogger.Config.
type Builder struct {
	logger *jmtlogger.Logger
	logCfg *jmtlogger.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *jmtlogger.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("jmtlogger/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// Used only when an existing logger is NOT provided via WithLogger.
func (b *Builder) WithConfig(cfg *jmtlogger.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating and starting one
// if necessary.
func (b *Builder) getLogger() (*jmtlogger.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l := jmtlogger.NewLogger()
	cfg := b.logCfg
	if cfg == nil {
		cfg = jmtlogger.DefaultConfig()
	}

	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying *jmtlogger.Logger instance,
// initializing it if needed.
func (b *Builder) GetLogger() (*jmtlogger.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
// Integrating jmtlogger with gnet and fasthttp using a single, shared
// logger instance:
//
//	appLogger, err := jmtlogger.NewBuilder().
//		Name("server").
//		LevelString("debug").
//		Build()
//	if err != nil { /* handle error */ }
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	gnetLogger, err := builder.BuildGnet()
//	if err != nil { /* handle error */ }
//
//	fasthttpLogger, err := builder.BuildFastHTTP()
//	if err != nil { /* handle error */ }
//
//	// For gnet:
//	var events gnet.EventHandler // your-event-handler
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	// For fasthttp:
//	server := &fasthttp.Server{
//		Handler: func(ctx *fasthttp.RequestCtx) {
//			ctx.WriteString("Hello, world!")
//		},
//		Logger: fasthttpLogger,
//	}
//	go server.ListenAndServe(":8080")
