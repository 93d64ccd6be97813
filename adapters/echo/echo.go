// Package reactssrecho provides Echo framework integration for reactssr.
//
// Bind a request environment to every request, then render pages with
// html/template or templ:
//
//	env, _ := engine.New(cfg)
//	e := echo.New()
//	e.Use(reactssrecho.Middleware(env))
//	e.Renderer = reactssrecho.NewTemplateRenderer(pages)
//
// Or only for a group:
//
//	g := e.Group("/app", reactssrecho.Middleware(env))
package reactssrecho

import (
	"html/template"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pthm/reactssr"
)

// Option configures Middleware.
type Option func(*options)

type options struct {
	skipper middleware.Skipper
	logger  *slog.Logger
}

// WithSkipper skips binding an environment for requests it matches, e.g.
// static assets.
func WithSkipper(skipper middleware.Skipper) Option {
	return func(o *options) {
		o.skipper = skipper
	}
}

// WithLogger sets the logger the helpers report render failures to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Middleware binds a fresh request environment from factory to every
// request and releases it once the handler returns.
//
//	e.Use(reactssrecho.Middleware(env))
func Middleware(factory reactssr.EnvironmentFactory, opts ...Option) echo.MiddlewareFunc {
	o := &options{skipper: middleware.DefaultSkipper}
	for _, opt := range opts {
		opt(o)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if o.skipper(c) {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			env := factory.NewRequest(ctx)
			defer env.Release()

			ctx = reactssr.WithEnvironment(ctx, env)
			if o.logger != nil {
				ctx = reactssr.LoggingContext(ctx, o.logger)
			}
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// TemplateRenderer is an echo.Renderer for html/template pages using the
// reactssr helpers. Each render rebinds the helpers to the request's
// environment.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer wraps templates, which must have been parsed with
// reactssr.FuncMap so the helper names are declared:
//
//	pages := template.Must(template.New("").
//	    Funcs(reactssr.FuncMap(context.Background())).
//	    ParseGlob("views/*.tmpl"))
func NewTemplateRenderer(templates *template.Template) *TemplateRenderer {
	return &TemplateRenderer{templates: templates}
}

// Render implements echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, err := r.templates.Clone()
	if err != nil {
		return err
	}
	tmpl.Funcs(reactssr.FuncMap(c.Request().Context()))
	return tmpl.ExecuteTemplate(w, name, data)
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return reactssrecho.Render(c, page(props))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response())
}
