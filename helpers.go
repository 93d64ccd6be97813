package reactssr

import (
	"context"
	"html"
	"html/template"
	"io"
	"strings"
)

// React renders a component to HTML.
//
// The component is created by the context's environment, its container tag
// and class are overridden when the options supply them, and its markup is
// returned as template.HTML. Errors from the environment are returned as is.
// The rendering engine is returned to its pool on every path.
//
//	out, err := reactssr.React(ctx, "HelloWorld", Props{Name: "Ada"},
//	    reactssr.WithTag("span"))
func React(ctx context.Context, name string, props any, opts ...Option) (template.HTML, error) {
	env, release, err := acquireEnvironment(ctx)
	if err != nil {
		return "", err
	}
	defer release()
	defer env.ReturnEngineToPool()

	o := newOptions(opts)
	component, err := env.CreateComponent(ctx, name, props, o.createOptions())
	if err != nil {
		logRenderError(ctx, name, err)
		return "", err
	}
	o.applyContainer(component)

	out, err := renderToString(func(w io.Writer) error {
		return component.RenderHTML(ctx, w, o.renderOptions())
	})
	if err != nil {
		logRenderError(ctx, name, err)
		return "", err
	}
	return template.HTML(out), nil // #nosec G203 -- markup produced by the rendering environment
}

// ReactWithInit renders a component to HTML followed by a <script> tag that
// initializes it once the DOM has loaded. Use it when the page does not call
// ReactInitJavaScript.
//
// The component is always created as hydratable; ServerOnly only affects how
// its markup is rendered.
func ReactWithInit(ctx context.Context, name string, props any, opts ...Option) (template.HTML, error) {
	env, release, err := acquireEnvironment(ctx)
	if err != nil {
		return "", err
	}
	defer release()
	defer env.ReturnEngineToPool()

	o := newOptions(opts)
	create := o.createOptions()
	create.ServerOnly = false
	component, err := env.CreateComponent(ctx, name, props, create)
	if err != nil {
		logRenderError(ctx, name, err)
		return "", err
	}
	o.applyContainer(component)

	out, err := renderToString(func(w io.Writer) error {
		if err := component.RenderHTML(ctx, w, o.renderOptions()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return writeScriptTag(w, env, func(body io.Writer) error {
			return component.RenderJavaScript(ctx, body, true)
		})
	})
	if err != nil {
		logRenderError(ctx, name, err)
		return "", err
	}
	return template.HTML(out), nil // #nosec G203 -- markup produced by the rendering environment
}

// ReactInitJavaScript renders a <script> tag initializing every component
// created so far in the context's environment. Pages usually call it once,
// at the end of the body.
func ReactInitJavaScript(ctx context.Context, clientOnly bool) (template.HTML, error) {
	env, release, err := acquireEnvironment(ctx)
	if err != nil {
		return "", err
	}
	defer release()
	defer env.ReturnEngineToPool()

	out, err := renderToString(func(w io.Writer) error {
		return writeScriptTag(w, env, func(body io.Writer) error {
			return env.InitJavaScript(ctx, body, clientOnly)
		})
	})
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil // #nosec G203 -- script produced by the rendering environment
}

// ReactScriptPaths renders a <script src> tag for every script bundle the
// environment knows about. resolver, when non-nil, maps each path to a URL.
func ReactScriptPaths(ctx context.Context, resolver URLResolver) (template.HTML, error) {
	env, release, err := acquireEnvironment(ctx)
	if err != nil {
		return "", err
	}
	defer release()
	paths, err := env.ScriptPaths(ctx)
	if err != nil {
		return "", err
	}

	var nonceAttr string
	if nonce, ok := env.ScriptNonce(); ok {
		nonceAttr = ` nonce="` + html.EscapeString(nonce) + `"`
	}

	var b strings.Builder
	for _, path := range paths {
		b.WriteString("<script")
		b.WriteString(nonceAttr)
		b.WriteString(` src="`)
		b.WriteString(html.EscapeString(resolve(resolver, path)))
		b.WriteString(`"></script>`)
	}
	return template.HTML(b.String()), nil // #nosec G203 -- attribute values are escaped
}

// ReactStylePaths renders a <link rel="stylesheet"> tag for every stylesheet
// the environment knows about. resolver, when non-nil, maps each path to a
// URL.
func ReactStylePaths(ctx context.Context, resolver URLResolver) (template.HTML, error) {
	env, release, err := acquireEnvironment(ctx)
	if err != nil {
		return "", err
	}
	defer release()
	paths, err := env.StylePaths(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, path := range paths {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(resolve(resolver, path)))
		b.WriteString(`" />`)
	}
	return template.HTML(b.String()), nil // #nosec G203 -- attribute values are escaped
}

// writeScriptTag wraps whatever body writes in a <script> element, carrying
// the environment's nonce when it has one.
func writeScriptTag(w io.Writer, env Environment, body func(io.Writer) error) error {
	open := "<script"
	if nonce, ok := env.ScriptNonce(); ok {
		open += ` nonce="` + html.EscapeString(nonce) + `"`
	}
	if _, err := io.WriteString(w, open+">"); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</script>")
	return err
}

func resolve(resolver URLResolver, path string) string {
	if resolver == nil {
		return path
	}
	return resolver.Content(path)
}

func logRenderError(ctx context.Context, name string, err error) {
	logger(ctx).DebugContext(ctx, "error rendering react component",
		"component", name,
		"error", err)
}

// PathPrefix is a URLResolver mapping application-relative paths, written
// with a leading "~/", onto the application's root URL. Other paths are left
// alone.
type PathPrefix string

// Content implements URLResolver.
func (p PathPrefix) Content(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	return strings.TrimSuffix(string(p), "/") + "/" + rest
}
