package reactssr

// Option configures a single helper call.
type Option func(*options)

type options struct {
	tag              string
	containerID      string
	containerClass   string
	clientOnly       bool
	serverOnly       bool
	exceptionHandler ExceptionHandler
	renderFunctions  RenderFunctions
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithTag sets the element wrapping the component's markup. The
// environment's default (usually div) is used when tag is empty.
func WithTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}

// WithContainerID sets the id of the container element. A unique id is
// generated when none is given.
func WithContainerID(id string) Option {
	return func(o *options) {
		o.containerID = id
	}
}

// WithContainerClass sets the class attribute of the container element.
func WithContainerClass(class string) Option {
	return func(o *options) {
		o.containerClass = class
	}
}

// ClientOnly skips server rendering. Only the empty container is written and
// the component is rendered by the browser.
func ClientOnly() Option {
	return func(o *options) {
		o.clientOnly = true
	}
}

// ServerOnly renders static markup with no container and no client bootstrap.
func ServerOnly() Option {
	return func(o *options) {
		o.serverOnly = true
	}
}

// WithExceptionHandler handles server rendering failures for this call
// instead of returning them.
func WithExceptionHandler(h ExceptionHandler) Option {
	return func(o *options) {
		o.exceptionHandler = h
	}
}

// WithRenderFunctions hooks fns into the server render.
func WithRenderFunctions(fns RenderFunctions) Option {
	return func(o *options) {
		o.renderFunctions = fns
	}
}

func (o options) createOptions() CreateOptions {
	return CreateOptions{
		ContainerID: o.containerID,
		ClientOnly:  o.clientOnly,
		ServerOnly:  o.serverOnly,
	}
}

func (o options) renderOptions() RenderOptions {
	return RenderOptions{
		ClientOnly:       o.clientOnly,
		ServerOnly:       o.serverOnly,
		ExceptionHandler: o.exceptionHandler,
		RenderFunctions:  o.renderFunctions,
	}
}

// applyContainer only overrides what the caller actually supplied.
func (o options) applyContainer(c Component) {
	if o.tag != "" {
		c.SetContainerTag(o.tag)
	}
	if o.containerClass != "" {
		c.SetContainerClass(o.containerClass)
	}
}
