// Package reactssr provides template helpers for rendering React components
// on the server and emitting their markup and bootstrap scripts into Go HTML
// responses.
//
// The helpers are glue. The actual rendering is done by an Environment, which
// creates components, renders their HTML and the JavaScript that hydrates them
// in the browser, and knows which script and style bundles a page needs. The
// lib/engine package provides an Environment backed by pooled JavaScript
// runtimes; tests and other hosts can supply their own.
//
// # Environments
//
// A process usually has one long-lived environment and one short-lived
// request environment per HTTP request. Install the request environment with
// Middleware:
//
//	env, err := engine.New(cfg)
//	if err != nil {
//	    return err
//	}
//	http.Handle("/", reactssr.Middleware(env)(pages))
//
// Helpers look the environment up from the context first. Without one they
// create a call-scoped environment from the process-wide factory set with
// SetDefault, and without that they return ErrNoEnvironment.
//
// # html/template
//
// FuncMap binds the helpers to a request context:
//
//	tmpl := base.Funcs(reactssr.FuncMap(r.Context()))
//
//	{{ react "Comments" .Props (reactContainerClass "comments") }}
//	{{ reactScriptPaths nil }}
//	{{ reactInitJavaScript false }}
//
// # templ
//
// Templ, TemplWithInit, InitJavaScript, ScriptPaths and StylePaths
// return templ.Component values writing the same output:
//
//	@reactssr.Templ("Comments", props, reactssr.WithTag("section"))
//
// # Output buffers
//
// Each helper call renders into a pooled buffer that is reset before use and
// owned by exactly one call until it is returned, so output never leaks
// between calls. The rendering engine is returned to its pool when a helper
// returns, whether or not rendering succeeded.
package reactssr
