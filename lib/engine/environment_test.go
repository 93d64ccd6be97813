package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pthm/reactssr"
)

// newTestEnvironment starts an Environment over testdata/react.js with one
// engine started and room for two.
func newTestEnvironment(t *testing.T, mutate func(*Config), opts ...Option) *Environment {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Scripts = []string{"react.js"}
	cfg.StartEngines = 1
	cfg.MaxEngines = 2
	cfg.AcquireTimeout = time.Second
	cfg.ManifestPath = "asset-manifest.json"
	if mutate != nil {
		mutate(&cfg)
	}
	opts = append([]Option{
		WithFiles(os.DirFS("testdata")),
		WithRegisterer(prometheus.NewRegistry()),
	}, opts...)

	env, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(env.Close)
	return env
}

// requestContext binds a fresh request environment to a context.
func requestContext(t *testing.T, env *Environment) (context.Context, *RequestEnvironment) {
	t.Helper()
	req := env.Begin(context.Background())
	t.Cleanup(req.Release)
	return reactssr.WithEnvironment(context.Background(), req), req
}

func TestNewStartsEngines(t *testing.T) {
	env := newTestEnvironment(t, func(c *Config) {
		c.StartEngines = 2
		c.MaxEngines = 3
	})

	if got := env.Pool().Idle(); got != 2 {
		t.Errorf("Idle() = %d, want 2", got)
	}
	if got := testutil.ToFloat64(env.metrics.created); got != 2 {
		t.Errorf("engines_created_total = %v, want 2", got)
	}
}

func TestNewScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		files  fstest.MapFS
		script string
	}{
		{"missing file", fstest.MapFS{}, "missing.js"},
		{"syntax error", fstest.MapFS{"bad.js": {Data: []byte("function (")}}, "bad.js"},
		{"throws while loading", fstest.MapFS{"throw.js": {Data: []byte("throw new Error('nope');")}}, "throw.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Scripts = []string{tt.script}
			cfg.StartEngines = 1
			_, err := New(cfg, WithFiles(tt.files))
			if err == nil {
				t.Fatal("expected New to fail")
			}
			if !strings.Contains(err.Error(), tt.script) && tt.name != "throws while loading" {
				t.Errorf("error %q should name the script", err)
			}
		})
	}
}

func TestNewInvalidContainerTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContainerTag = "div><script"
	_, err := New(cfg, WithFiles(fstest.MapFS{}))
	if !errors.Is(err, ErrInvalidContainerTag) {
		t.Fatalf("expected ErrInvalidContainerTag, got %v", err)
	}
}

func TestNewRequestImplementsFactory(t *testing.T) {
	env := newTestEnvironment(t, nil)
	var factory reactssr.EnvironmentFactory = env

	req := factory.NewRequest(context.Background())
	defer req.Release()

	if _, ok := req.(*RequestEnvironment); !ok {
		t.Fatalf("NewRequest returned %T", req)
	}
}

func TestScriptAndStylePaths(t *testing.T) {
	env := newTestEnvironment(t, func(c *Config) {
		c.BuildPath = "/app/"
	})
	ctx, _ := requestContext(t, env)

	scripts, err := reactssr.ReactScriptPaths(ctx, nil)
	if err != nil {
		t.Fatalf("ReactScriptPaths failed: %v", err)
	}
	wantScripts := `<script src="/app/static/js/runtime.0f.js"></script><script src="/app/static/js/main.1a2b.js"></script>`
	if string(scripts) != wantScripts {
		t.Errorf("ReactScriptPaths() = %s, want %s", scripts, wantScripts)
	}

	styles, err := reactssr.ReactStylePaths(ctx, nil)
	if err != nil {
		t.Fatalf("ReactStylePaths failed: %v", err)
	}
	wantStyles := `<link rel="stylesheet" href="/app/static/css/main.3c4d.css" />`
	if string(styles) != wantStyles {
		t.Errorf("ReactStylePaths() = %s, want %s", styles, wantStyles)
	}
}

func TestScriptPathsWithNonce(t *testing.T) {
	env := newTestEnvironment(t, nil, WithScriptNonceProvider(func() string { return "n0nce" }))
	ctx, _ := requestContext(t, env)

	scripts, err := reactssr.ReactScriptPaths(ctx, nil)
	if err != nil {
		t.Fatalf("ReactScriptPaths failed: %v", err)
	}
	if !strings.HasPrefix(string(scripts), `<script nonce="n0nce" src="static/js/runtime.0f.js">`) {
		t.Errorf("ReactScriptPaths() = %s, want nonce attribute", scripts)
	}
}

func TestScriptPathsWithoutManifest(t *testing.T) {
	env := newTestEnvironment(t, func(c *Config) {
		c.ManifestPath = ""
	})
	ctx, _ := requestContext(t, env)

	_, err := reactssr.ReactScriptPaths(ctx, nil)
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
	_, err = reactssr.ReactStylePaths(ctx, nil)
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

func TestCloseRejectsNewEngines(t *testing.T) {
	env := newTestEnvironment(t, nil)
	env.Close()

	ctx, _ := requestContext(t, env)
	_, err := reactssr.React(ctx, "HelloWorld", map[string]string{"name": "Ada"})
	if !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestDefaultFactoryConcurrentRenders(t *testing.T) {
	env := newTestEnvironment(t, func(c *Config) {
		c.MaxEngines = 4
		c.AcquireTimeout = 10 * time.Second
	})
	reactssr.SetDefault(env)
	t.Cleanup(func() { reactssr.SetDefault(nil) })

	const workers, calls = 8, 50
	var wg sync.WaitGroup
	errs := make(chan error, workers*calls)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				out, err := reactssr.React(context.Background(), "HelloWorld", ada, reactssr.WithContainerID("g"))
				if err != nil {
					errs <- err
					continue
				}
				if string(out) != `<div id="g"><span>Hello Ada</span></div>` {
					errs <- fmt.Errorf("unexpected markup %s", out)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if got := testutil.ToFloat64(env.metrics.inUse); got != 0 {
		t.Errorf("engines_in_use = %v, want 0", got)
	}
}
