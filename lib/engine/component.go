package engine

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pthm/reactssr"
	"github.com/pthm/reactssr/lib/encoding"
	"github.com/pthm/reactssr/lib/rendercache"
)

var _ reactssr.Component = &component{}

var validContainerTag = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

type component struct {
	req            *RequestEnvironment
	name           string
	propsJSON      string
	containerID    string
	tag            string
	containerClass string
	clientOnly     bool
	serverOnly     bool

	// initialized is set once the component wrote its own bootstrap
	// script, so InitJavaScript does not hydrate it twice.
	initialized bool

	// failed is set when RenderHTML returned an error; no container exists
	// to hydrate.
	failed bool
}

func (c *component) SetContainerTag(tag string) {
	c.tag = tag
}

func (c *component) SetContainerClass(class string) {
	c.containerClass = class
}

// initializer is the JavaScript expression creating the component element.
func (c *component) initializer() string {
	return "React.createElement(" + c.name + ", " + c.propsJSON + ")"
}

// RenderHTML writes the component's container with its server-rendered
// markup. Client-only renders, and renders with server rendering disabled,
// write an empty container; server-only renders write the static markup
// without one.
func (c *component) RenderHTML(ctx context.Context, w io.Writer, opts reactssr.RenderOptions) error {
	err := c.renderHTML(ctx, w, opts)
	if err != nil {
		c.failed = true
	}
	return err
}

func (c *component) renderHTML(ctx context.Context, w io.Writer, opts reactssr.RenderOptions) error {
	clientOnly := opts.ClientOnly || c.clientOnly
	serverOnly := opts.ServerOnly || c.serverOnly
	if clientOnly && serverOnly {
		return reactssr.ErrClientAndServerOnly
	}
	if !serverOnly && !validContainerTag.MatchString(c.tag) {
		return fmt.Errorf("%w: %q", ErrInvalidContainerTag, c.tag)
	}
	containerOnly := clientOnly || !c.req.env.cfg.UseServerSideRendering

	var markup string
	if !containerOnly {
		rt, err := c.req.engine(ctx)
		if err != nil {
			return err
		}
		if err := c.ensureExists(ctx, rt); err != nil {
			return err
		}
		markup, err = c.renderServer(ctx, rt, serverOnly, opts.RenderFunctions)
		if err != nil {
			handler := opts.ExceptionHandler
			if handler == nil {
				handler = c.req.env.exceptionHandler
			}
			if handler == nil {
				return err
			}
			c.req.logger.WarnContext(ctx, "react server render failed, handled",
				"component", c.name,
				"container_id", c.containerID,
				"error", err)
			handler(err, c.name, c.containerID)
			markup = ""
		}
	}

	if serverOnly {
		_, err := io.WriteString(w, markup)
		return err
	}
	return c.writeContainer(w, markup)
}

func (c *component) writeContainer(w io.Writer, markup string) error {
	open := "<" + c.tag + ` id="` + html.EscapeString(c.containerID) + `"`
	if c.containerClass != "" {
		open += ` class="` + html.EscapeString(c.containerClass) + `"`
	}
	_, err := io.WriteString(w, open+">"+markup+"</"+c.tag+">")
	return err
}

func (c *component) ensureExists(ctx context.Context, rt *runtime) error {
	ok, err := rt.exists(ctx, c.req.env.cfg.RenderTimeout, c.name)
	if err != nil {
		return &RenderError{Component: c.name, ContainerID: c.containerID, Err: err}
	}
	if !ok {
		return fmt.Errorf("%w: %q is not defined by the loaded scripts", reactssr.ErrComponentNotFound, c.name)
	}
	return nil
}

func (c *component) renderServer(ctx context.Context, rt *runtime, serverOnly bool, fns reactssr.RenderFunctions) (markup string, err error) {
	env := c.req.env
	ctx, span := env.tracer.Start(ctx, "reactssr.RenderComponent", trace.WithAttributes(
		attribute.String("react.component", c.name),
		attribute.String("react.container_id", c.containerID),
		attribute.Bool("react.server_only", serverOnly),
	))
	defer span.End()

	start := time.Now()
	status := statusOK
	defer func() {
		if err != nil {
			status = statusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		env.metrics.observeRender(c.name, status, time.Since(start))
	}()

	var cacheKey uint64
	useCache := env.cache != nil && fns == nil
	if useCache {
		cacheKey, err = rendercache.Key(c.name, serverOnly, c.propsJSON)
		if err != nil {
			return "", err
		}
		if cached, ok := env.cache.Get(cacheKey); ok {
			status = statusCached
			span.SetAttributes(attribute.Bool("react.cache_hit", true))
			return cached, nil
		}
	}

	exec := func(script string) (any, error) {
		v, err := rt.eval(ctx, env.cfg.RenderTimeout, script)
		if err != nil {
			return nil, err
		}
		return v.Export(), nil
	}
	renderErr := func(err error) error {
		return &RenderError{Component: c.name, ContainerID: c.containerID, Err: err}
	}

	if fns != nil {
		if err := fns.PreRender(ctx, exec); err != nil {
			return "", renderErr(err)
		}
	}

	expr := c.initializer()
	if fns != nil {
		expr = fns.WrapComponent(expr)
	}
	method := "renderToString"
	if serverOnly {
		method = "renderToStaticMarkup"
	}
	v, err := rt.eval(ctx, env.cfg.RenderTimeout, "ReactDOMServer."+method+"("+expr+")")
	if err != nil {
		return "", renderErr(err)
	}
	markup = v.String()

	if fns != nil {
		markup = fns.TransformRenderedHTML(markup)
		if err := fns.PostRender(ctx, exec); err != nil {
			return "", renderErr(err)
		}
	}

	if useCache {
		env.cache.Add(cacheKey, markup)
	}
	return markup, nil
}

// RenderJavaScript writes the call that hydrates the server-rendered markup,
// or renders into the empty container of client-only components.
func (c *component) RenderJavaScript(_ context.Context, w io.Writer, waitForDOMContentLoad bool) error {
	if waitForDOMContentLoad {
		if _, err := io.WriteString(w, "window.addEventListener('DOMContentLoaded', function() {"); err != nil {
			return err
		}
	}
	if err := c.writeJavaScript(w); err != nil {
		return err
	}
	if waitForDOMContentLoad {
		if _, err := io.WriteString(w, "});"); err != nil {
			return err
		}
		c.initialized = true
	}
	return nil
}

func (c *component) writeJavaScript(w io.Writer) error {
	method := "ReactDOM.hydrate"
	if c.clientOnly || !c.req.env.cfg.UseServerSideRendering {
		method = "ReactDOM.render"
	}
	id, err := encoding.PropsJSON(c.containerID)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, method+"("+c.initializer()+", document.getElementById("+id+"))")
	return err
}
