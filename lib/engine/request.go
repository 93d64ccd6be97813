package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/pthm/reactssr"
	"github.com/pthm/reactssr/lib/encoding"
)

var validComponentName = regexp.MustCompile(`^[\w.$]+$`)

var _ reactssr.RequestEnvironment = &RequestEnvironment{}

// RequestEnvironment renders the components of one request. It borrows an
// engine lazily and keeps it until ReturnEngineToPool, so the helpers of a
// single call share one engine. It is not safe for concurrent use.
type RequestEnvironment struct {
	env    *Environment
	logger *slog.Logger

	rt           *runtime
	components   []*component
	consoleCalls []consoleCall
}

// engine returns the borrowed engine, borrowing one if needed.
func (r *RequestEnvironment) engine(ctx context.Context) (*runtime, error) {
	if r.rt != nil {
		return r.rt, nil
	}
	rt, err := r.env.pool.Get(ctx)
	if err != nil {
		return nil, err
	}
	r.rt = rt
	return rt, nil
}

// CreateComponent implements reactssr.Environment.
func (r *RequestEnvironment) CreateComponent(ctx context.Context, name string, props any, opts reactssr.CreateOptions) (reactssr.Component, error) {
	if opts.ClientOnly && opts.ServerOnly {
		return nil, reactssr.ErrClientAndServerOnly
	}
	if !validComponentName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", reactssr.ErrInvalidComponentName, name)
	}
	propsJSON, err := encoding.PropsJSON(props)
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %w", reactssr.ErrPropsSerialization, name, err)
	}

	containerID := opts.ContainerID
	if containerID == "" {
		containerID = newContainerID()
	}

	c := &component{
		req:         r,
		name:        name,
		propsJSON:   propsJSON,
		containerID: containerID,
		tag:         r.env.cfg.ContainerTag,
		clientOnly:  opts.ClientOnly,
		serverOnly:  opts.ServerOnly,
	}
	r.components = append(r.components, c)
	return c, nil
}

// InitJavaScript implements reactssr.Environment. Unless clientOnly, it
// first replays what server-side code logged to the console during this
// request.
func (r *RequestEnvironment) InitJavaScript(ctx context.Context, w io.Writer, clientOnly bool) error {
	if !clientOnly {
		if r.rt != nil {
			r.consoleCalls = append(r.consoleCalls, r.rt.console.drain()...)
		}
		if err := writeConsoleReplay(w, r.consoleCalls); err != nil {
			return err
		}
		r.consoleCalls = nil
	}

	for _, c := range r.components {
		if c.serverOnly || c.initialized || c.failed {
			continue
		}
		if err := c.writeJavaScript(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ";\n"); err != nil {
			return err
		}
	}
	return nil
}

// ScriptPaths implements reactssr.Environment.
func (r *RequestEnvironment) ScriptPaths(context.Context) ([]string, error) {
	return r.env.scriptPaths()
}

// StylePaths implements reactssr.Environment.
func (r *RequestEnvironment) StylePaths(context.Context) ([]string, error) {
	return r.env.stylePaths()
}

// ScriptNonce implements reactssr.Environment.
func (r *RequestEnvironment) ScriptNonce() (string, bool) {
	if r.env.nonce == nil {
		return "", false
	}
	return r.env.nonce(), true
}

// ReturnEngineToPool implements reactssr.Environment.
func (r *RequestEnvironment) ReturnEngineToPool() {
	if r.rt == nil {
		return
	}
	r.consoleCalls = append(r.consoleCalls, r.rt.console.drain()...)
	r.env.pool.Put(r.rt)
	r.rt = nil
}

// Release implements reactssr.RequestEnvironment.
func (r *RequestEnvironment) Release() {
	r.ReturnEngineToPool()
	r.components = nil
	r.consoleCalls = nil
}

// Components returns the names of the components created so far, in order.
func (r *RequestEnvironment) Components() []string {
	names := make([]string, 0, len(r.components))
	for _, c := range r.components {
		names = append(names, c.name)
	}
	return names
}

func newContainerID() string {
	id := uuid.New()
	return "react_" + base64.RawURLEncoding.EncodeToString(id[:])
}
