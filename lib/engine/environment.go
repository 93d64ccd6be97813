// Package engine renders React components on the server with pooled
// JavaScript runtimes.
//
// An Environment is created once per process. It loads the configured
// scripts (a prebuilt bundle defining React, ReactDOMServer and the
// components as globals) into each runtime, and hands out request
// environments implementing reactssr.Environment:
//
//	cfg, err := engine.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	env, err := engine.New(cfg, engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer env.Close()
//
//	r.Use(reactssr.Middleware(env))
package engine

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"slices"
	"sync"

	"github.com/dop251/goja"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/pthm/reactssr"
	"github.com/pthm/reactssr/lib/rendercache"
)

const tracerName = "github.com/pthm/reactssr/lib/engine"

// Option configures the collaborators of an Environment.
type Option func(*Environment)

// WithFiles sets the file system scripts and the manifest are read from.
// Defaults to the working directory.
func WithFiles(fsys fs.FS) Option {
	return func(e *Environment) {
		e.files = fsys
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithRegisterer registers the engine metrics with reg. Without it the
// metrics are collected but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Environment) {
		e.registerer = reg
	}
}

// WithTracer sets the tracer for render spans. Defaults to the global
// tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Environment) {
		e.tracer = tracer
	}
}

// WithScriptNonceProvider sets the function producing the CSP nonce put on
// script tags.
func WithScriptNonceProvider(fn func() string) Option {
	return func(e *Environment) {
		e.nonce = fn
	}
}

// WithExceptionHandler handles server rendering failures of every component
// whose helper call did not pass its own handler.
func WithExceptionHandler(h reactssr.ExceptionHandler) Option {
	return func(e *Environment) {
		e.exceptionHandler = h
	}
}

// WithCache sets the render cache, overriding Config.CacheSize.
func WithCache(cache *rendercache.Cache) Option {
	return func(e *Environment) {
		e.cache = cache
	}
}

var _ reactssr.EnvironmentFactory = &Environment{}

// Environment is the process-wide rendering environment. It can safely be
// used by multiple goroutines; the request environments it creates cannot.
type Environment struct {
	cfg              Config
	pool             *Pool
	files            fs.FS
	logger           *slog.Logger
	registerer       prometheus.Registerer
	tracer           trace.Tracer
	metrics          *metrics
	cache            *rendercache.Cache
	nonce            func() string
	exceptionHandler reactssr.ExceptionHandler
	manifest         func() (*manifest, error)
}

// New compiles the configured scripts and starts the engine pool. Script
// errors are reported here rather than on first render.
func New(cfg Config, opts ...Option) (*Environment, error) {
	e := &Environment{
		cfg: cfg.normalize(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.files == nil {
		e.files = os.DirFS(".")
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.cache == nil && e.cfg.CacheSize > 0 {
		e.cache = rendercache.New(e.cfg.CacheSize)
	}
	if !validContainerTag.MatchString(e.cfg.ContainerTag) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContainerTag, e.cfg.ContainerTag)
	}
	e.metrics = newMetrics(e.registerer)
	e.manifest = sync.OnceValues(func() (*manifest, error) {
		return loadManifest(e.files, e.cfg.ManifestPath, e.cfg.BuildPath)
	})

	programs, err := compileScripts(e.files, e.cfg.Scripts)
	if err != nil {
		return nil, err
	}
	factory := func() (*runtime, error) {
		return newRuntime(programs)
	}
	e.pool, err = newPool(factory, poolConfig{
		start:          e.cfg.StartEngines,
		max:            e.cfg.MaxEngines,
		maxUsages:      e.cfg.MaxUsagesPerEngine,
		acquireTimeout: e.cfg.AcquireTimeout,
	}, e.metrics, e.logger)
	if err != nil {
		return nil, err
	}

	e.logger.Info("react environment ready",
		"scripts", len(programs),
		"start_engines", e.cfg.StartEngines,
		"max_engines", e.cfg.MaxEngines,
		"server_side_rendering", e.cfg.UseServerSideRendering)
	return e, nil
}

func compileScripts(fsys fs.FS, paths []string) ([]*goja.Program, error) {
	programs := make([]*goja.Program, 0, len(paths))
	for _, path := range paths {
		src, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read script %q: %w", path, err)
		}
		prog, err := goja.Compile(path, string(src), false)
		if err != nil {
			return nil, fmt.Errorf("compile script %q: %w", path, err)
		}
		programs = append(programs, prog)
	}
	return programs, nil
}

// Begin starts a request environment.
func (e *Environment) Begin(ctx context.Context) *RequestEnvironment {
	return &RequestEnvironment{
		env:    e,
		logger: e.logger,
	}
}

// NewRequest implements reactssr.EnvironmentFactory.
func (e *Environment) NewRequest(ctx context.Context) reactssr.RequestEnvironment {
	return e.Begin(ctx)
}

// Config returns the normalized configuration.
func (e *Environment) Config() Config {
	return e.cfg
}

// Pool returns the engine pool.
func (e *Environment) Pool() *Pool {
	return e.pool
}

// Close shuts the engine pool down.
func (e *Environment) Close() {
	e.pool.Close()
	if e.cache != nil {
		e.cache.Purge()
	}
}

func (e *Environment) scriptPaths() ([]string, error) {
	m, err := e.manifest()
	if err != nil {
		return nil, err
	}
	return slices.Clone(m.scripts), nil
}

func (e *Environment) stylePaths() ([]string, error) {
	m, err := e.manifest()
	if err != nil {
		return nil, err
	}
	return slices.Clone(m.styles), nil
}
