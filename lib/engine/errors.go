package engine

import (
	"errors"
	"fmt"

	"github.com/pthm/reactssr"
)

var (
	// ErrPoolExhausted is returned when no engine became free before the
	// acquire timeout or the context ended.
	ErrPoolExhausted = errors.New("engine: no engine available")

	// ErrPoolClosed is returned by a pool after Close.
	ErrPoolClosed = errors.New("engine: pool closed")

	// ErrNoManifest is returned for script and style paths when no
	// manifest is configured.
	ErrNoManifest = errors.New("engine: no asset manifest configured")

	// ErrInvalidManifest is returned when the manifest has no entrypoints
	// array.
	ErrInvalidManifest = errors.New("engine: invalid asset manifest")

	// ErrInvalidContainerTag is returned for container tags that are not
	// plain element names.
	ErrInvalidContainerTag = errors.New("engine: invalid container tag")
)

// RenderError is a JavaScript failure while rendering a component on the
// server. It matches reactssr.ErrRenderFailed.
type RenderError struct {
	Component   string
	ContainerID string
	Err         error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("error rendering %q into %q: %v", e.Component, e.ContainerID, e.Err)
}

func (e *RenderError) Unwrap() []error {
	return []error{reactssr.ErrRenderFailed, e.Err}
}
