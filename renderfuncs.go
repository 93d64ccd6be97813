package reactssr

import (
	"context"
	"fmt"
)

// ScriptExecutor runs JavaScript in the engine rendering the component and
// returns the exported result.
type ScriptExecutor func(script string) (any, error)

// RenderFunctions hooks into a server render. They are how CSS-in-JS and
// head-management libraries collect what a component produced while it was
// rendered.
type RenderFunctions interface {
	// PreRender runs before the component is rendered.
	PreRender(ctx context.Context, exec ScriptExecutor) error

	// WrapComponent wraps the JavaScript expression that creates the
	// component element, e.g. in a style collector.
	WrapComponent(expr string) string

	// TransformRenderedHTML rewrites the rendered markup.
	TransformRenderedHTML(html string) string

	// PostRender runs after the component is rendered.
	PostRender(ctx context.Context, exec ScriptExecutor) error
}

// RenderFunctionsBase implements every hook as a no-op. Embed it to
// implement only the hooks you need.
type RenderFunctionsBase struct{}

// PreRender does nothing.
func (RenderFunctionsBase) PreRender(context.Context, ScriptExecutor) error { return nil }

// WrapComponent returns expr unchanged.
func (RenderFunctionsBase) WrapComponent(expr string) string { return expr }

// TransformRenderedHTML returns html unchanged.
func (RenderFunctionsBase) TransformRenderedHTML(html string) string { return html }

// PostRender does nothing.
func (RenderFunctionsBase) PostRender(context.Context, ScriptExecutor) error { return nil }

type renderFunctionsChain []RenderFunctions

// ChainRenderFunctions runs several RenderFunctions as one. Hooks run in
// argument order; each wrap and transform sees the previous one's output.
func ChainRenderFunctions(fns ...RenderFunctions) RenderFunctions {
	chain := make(renderFunctionsChain, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			chain = append(chain, fn)
		}
	}
	return chain
}

func (c renderFunctionsChain) PreRender(ctx context.Context, exec ScriptExecutor) error {
	for _, fn := range c {
		if err := fn.PreRender(ctx, exec); err != nil {
			return err
		}
	}
	return nil
}

func (c renderFunctionsChain) WrapComponent(expr string) string {
	for _, fn := range c {
		expr = fn.WrapComponent(expr)
	}
	return expr
}

func (c renderFunctionsChain) TransformRenderedHTML(html string) string {
	for _, fn := range c {
		html = fn.TransformRenderedHTML(html)
	}
	return html
}

func (c renderFunctionsChain) PostRender(ctx context.Context, exec ScriptExecutor) error {
	for _, fn := range c {
		if err := fn.PostRender(ctx, exec); err != nil {
			return err
		}
	}
	return nil
}

// StyledComponentsFunctions collects the style tags styled-components
// generates during a server render. The bundle must expose the library as
// the global Styled.
//
// After the render, RenderedStyles holds the <style> tags to place in the
// page head.
type StyledComponentsFunctions struct {
	RenderFunctionsBase

	RenderedStyles string
}

// PreRender creates the server style sheet.
func (s *StyledComponentsFunctions) PreRender(_ context.Context, exec ScriptExecutor) error {
	_, err := exec("var serverStyleSheet = new Styled.ServerStyleSheet();")
	return err
}

// WrapComponent collects styles of the rendered element.
func (s *StyledComponentsFunctions) WrapComponent(expr string) string {
	return "serverStyleSheet.collectStyles(" + expr + ")"
}

// PostRender reads the collected style tags.
func (s *StyledComponentsFunctions) PostRender(_ context.Context, exec ScriptExecutor) error {
	styles, err := exec("serverStyleSheet.getStyleTags()")
	if err != nil {
		return err
	}
	if styles != nil {
		s.RenderedStyles = fmt.Sprint(styles)
	}
	return nil
}
