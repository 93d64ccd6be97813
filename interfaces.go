package reactssr

import (
	"context"
	"io"
)

// Environment is the server-side rendering collaborator used by the helpers.
//
// An Environment is usually scoped to one request: components created through
// it are remembered so ReactInitJavaScript can emit their bootstrap code later
// in the page. Implementations are not expected to be safe for concurrent use.
type Environment interface {
	// CreateComponent materializes a component instance for the named
	// component and props. The container id is generated when empty.
	CreateComponent(ctx context.Context, name string, props any, opts CreateOptions) (Component, error)

	// InitJavaScript writes the bootstrap JavaScript, without <script>
	// tags, for every component created in this environment.
	InitJavaScript(ctx context.Context, w io.Writer, clientOnly bool) error

	// ScriptPaths returns the URLs of the script bundles a page needs.
	ScriptPaths(ctx context.Context) ([]string, error)

	// StylePaths returns the URLs of the stylesheets a page needs.
	StylePaths(ctx context.Context) ([]string, error)

	// ScriptNonce returns the CSP nonce for inline and linked scripts. ok
	// is false when no nonce provider is configured.
	ScriptNonce() (nonce string, ok bool)

	// ReturnEngineToPool hands any rendering engine borrowed by this
	// environment back to its pool. It is safe to call repeatedly.
	ReturnEngineToPool()
}

// RequestEnvironment is an Environment bound to a single request. Release
// ends its lifetime.
type RequestEnvironment interface {
	Environment

	// Release returns pooled resources and forgets the request's
	// components.
	Release()
}

// EnvironmentFactory creates request environments. lib/engine.Environment
// implements it.
type EnvironmentFactory interface {
	NewRequest(ctx context.Context) RequestEnvironment
}

// Component is a single React component instance created by an Environment.
type Component interface {
	// SetContainerTag changes the element wrapping the rendered markup.
	SetContainerTag(tag string)

	// SetContainerClass sets the class attribute of the wrapping element.
	SetContainerClass(class string)

	// RenderHTML writes the component's markup, usually wrapped in its
	// container element.
	RenderHTML(ctx context.Context, w io.Writer, opts RenderOptions) error

	// RenderJavaScript writes the JavaScript that initializes the
	// component in the browser.
	RenderJavaScript(ctx context.Context, w io.Writer, waitForDOMContentLoad bool) error
}

// CreateOptions are passed to Environment.CreateComponent.
type CreateOptions struct {
	ContainerID string
	ClientOnly  bool
	ServerOnly  bool
}

// RenderOptions are passed to Component.RenderHTML.
type RenderOptions struct {
	// ClientOnly skips server rendering; only the empty container is
	// written.
	ClientOnly bool

	// ServerOnly renders static markup without a container and without
	// client bootstrap code.
	ServerOnly bool

	// ExceptionHandler, when set, receives server rendering failures
	// instead of them being returned. The container is then written
	// empty.
	ExceptionHandler ExceptionHandler

	// RenderFunctions hooks into the server render.
	RenderFunctions RenderFunctions
}

// ExceptionHandler handles a failed server render of a component.
type ExceptionHandler func(err error, componentName, containerID string)

// URLResolver turns application-relative paths into URLs.
type URLResolver interface {
	Content(path string) string
}
