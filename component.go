package reactssr

import (
	"context"
	"html/template"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// Templ returns a templ component rendering the named React component, the
// templ counterpart of React.
//
//	@reactssr.Templ("Comments", props, reactssr.WithContainerClass("comments"))
func Templ(name string, props any, opts ...Option) templ.Component {
	return htmlComponent(func(ctx context.Context) (template.HTML, error) {
		return React(ctx, name, props, opts...)
	})
}

// TemplWithInit is the templ counterpart of ReactWithInit.
func TemplWithInit(name string, props any, opts ...Option) templ.Component {
	return htmlComponent(func(ctx context.Context) (template.HTML, error) {
		return ReactWithInit(ctx, name, props, opts...)
	})
}

// InitJavaScript is the templ counterpart of ReactInitJavaScript.
func InitJavaScript(clientOnly bool) templ.Component {
	return htmlComponent(func(ctx context.Context) (template.HTML, error) {
		return ReactInitJavaScript(ctx, clientOnly)
	})
}

// ScriptPaths is the templ counterpart of ReactScriptPaths.
func ScriptPaths(resolver URLResolver) templ.Component {
	return htmlComponent(func(ctx context.Context) (template.HTML, error) {
		return ReactScriptPaths(ctx, resolver)
	})
}

// StylePaths is the templ counterpart of ReactStylePaths.
func StylePaths(resolver URLResolver) templ.Component {
	return htmlComponent(func(ctx context.Context) (template.HTML, error) {
		return ReactStylePaths(ctx, resolver)
	})
}

func htmlComponent(render func(ctx context.Context) (template.HTML, error)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := render(ctx)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, string(out))
		return err
	})
}

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context, so the helpers see the request environment installed by
// Middleware.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    reactssr.Render(w, r, page(props))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}
