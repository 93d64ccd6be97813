package reactssr

import (
	"context"
	"net/http"
	"sync"
)

var (
	defaultMu      sync.RWMutex
	defaultFactory EnvironmentFactory
)

// SetDefault installs the process-wide factory used when a context carries
// no environment. Each helper call then renders in its own request
// environment, released when the call returns, so components created this
// way are not seen by a later ReactInitJavaScript. Passing nil removes it.
func SetDefault(factory EnvironmentFactory) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultFactory = factory
}

// Default returns the process-wide factory, or nil.
func Default() EnvironmentFactory {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultFactory
}

// WithEnvironment returns a context carrying env for the helpers.
func WithEnvironment(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, envCtxKey, env)
}

// EnvironmentFromContext returns the environment bound to ctx. It returns
// ErrNoEnvironment when none is bound.
func EnvironmentFromContext(ctx context.Context) (Environment, error) {
	if env, ok := ctx.Value(envCtxKey).(Environment); ok && env != nil {
		return env, nil
	}
	return nil, ErrNoEnvironment
}

// acquireEnvironment returns the environment a helper call renders with:
// the one bound to ctx, or a fresh one from the default factory. release
// must be called when the helper returns.
func acquireEnvironment(ctx context.Context) (env Environment, release func(), err error) {
	if env, err := EnvironmentFromContext(ctx); err == nil {
		return env, func() {}, nil
	}
	factory := Default()
	if factory == nil {
		return nil, nil, ErrNoEnvironment
	}
	req := factory.NewRequest(ctx)
	return req, req.Release, nil
}

// Middleware binds a fresh request environment to every request and
// releases it once the handler returns.
//
//	r := chi.NewRouter()
//	r.Use(reactssr.Middleware(env))
func Middleware(factory EnvironmentFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			env := factory.NewRequest(ctx)
			defer env.Release()

			next.ServeHTTP(w, r.WithContext(WithEnvironment(ctx, env)))
		})
	}
}
