package reactssr

import "errors"

// Sentinel errors for rendering operations.
var (
	ErrNoEnvironment        = errors.New("reactssr: no rendering environment")
	ErrClientAndServerOnly  = errors.New("reactssr: component cannot be both client-only and server-only")
	ErrInvalidComponentName = errors.New("reactssr: invalid component name")
	ErrComponentNotFound    = errors.New("reactssr: component not found")
	ErrPropsSerialization   = errors.New("reactssr: props serialization failed")
	ErrRenderFailed         = errors.New("reactssr: server render failed")
)

// IsNoEnvironment checks if err means no environment was available.
func IsNoEnvironment(err error) bool {
	return errors.Is(err, ErrNoEnvironment)
}

// IsComponentNotFound checks if err is an unknown-component error.
func IsComponentNotFound(err error) bool {
	return errors.Is(err, ErrComponentNotFound)
}

// IsRenderError checks if err is a server rendering failure raised by the
// component itself.
func IsRenderError(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}
