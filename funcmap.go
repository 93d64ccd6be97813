package reactssr

import (
	"context"
	"html/template"
)

// FuncMap returns the helpers bound to ctx for use in html/template.
//
//	{{ react "Name" .Props }}
//	{{ react "Name" .Props (reactTag "span") (reactContainerClass "widget") }}
//	{{ reactWithInit "Name" .Props reactClientOnly }}
//	{{ reactInitJavaScript false }}
//	{{ reactScriptPaths nil }}
//	{{ reactStylePaths nil }}
//
// Templates are usually parsed once with FuncMap(context.Background()) to
// declare the names, then cloned per request and rebound with the request's
// context.
func FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"react": func(name string, props any, opts ...Option) (template.HTML, error) {
			return React(ctx, name, props, opts...)
		},
		"reactWithInit": func(name string, props any, opts ...Option) (template.HTML, error) {
			return ReactWithInit(ctx, name, props, opts...)
		},
		"reactInitJavaScript": func(clientOnly bool) (template.HTML, error) {
			return ReactInitJavaScript(ctx, clientOnly)
		},
		"reactScriptPaths": func(resolver URLResolver) (template.HTML, error) {
			return ReactScriptPaths(ctx, resolver)
		},
		"reactStylePaths": func(resolver URLResolver) (template.HTML, error) {
			return ReactStylePaths(ctx, resolver)
		},
		"reactPathPrefix": func(prefix string) URLResolver {
			return PathPrefix(prefix)
		},
		"reactTag":            WithTag,
		"reactContainerID":    WithContainerID,
		"reactContainerClass": WithContainerClass,
		"reactClientOnly":     ClientOnly,
		"reactServerOnly":     ServerOnly,
	}
}
