package reactssr

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// TestResult holds the output of a helper call for testing.
//
// Provides convenience methods for asserting on markup, container ids and
// script tags.
type TestResult struct {
	HTML string
}

// TestRender renders a component through React using env, without an HTTP
// request:
//
//	result, err := reactssr.TestRender(env, "HelloWorld", props)
//	if !result.HTMLContains("Hello Ada") {
//	    t.Fatal("missing greeting")
//	}
func TestRender(env Environment, name string, props any, opts ...Option) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), env, name, props, opts...)
}

// TestRenderWithContext renders a component with a custom context. env is
// bound to ctx before rendering.
func TestRenderWithContext(ctx context.Context, env Environment, name string, props any, opts ...Option) (*TestResult, error) {
	out, err := React(WithEnvironment(ctx, env), name, props, opts...)
	if err != nil {
		return nil, err
	}
	return &TestResult{HTML: string(out)}, nil
}

// TestRenderWithInit renders a component through ReactWithInit.
func TestRenderWithInit(env Environment, name string, props any, opts ...Option) (*TestResult, error) {
	out, err := ReactWithInit(WithEnvironment(context.Background(), env), name, props, opts...)
	if err != nil {
		return nil, err
	}
	return &TestResult{HTML: string(out)}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

var containerIDPattern = regexp.MustCompile(`^<[a-zA-Z][a-zA-Z0-9-]*\s+id="([^"]*)"`)

// ContainerID returns the id of the element the output starts with, or ""
// when the output has no container (server-only renders).
func (r *TestResult) ContainerID() string {
	m := containerIDPattern.FindStringSubmatch(r.HTML)
	if m == nil {
		return ""
	}
	return m[1]
}

// HasScriptTag checks if the output contains an inline <script> element.
func (r *TestResult) HasScriptTag() bool {
	return strings.Contains(r.HTML, "<script") && strings.Contains(r.HTML, "</script>")
}

// Script returns the body of the first inline <script> element, or "".
func (r *TestResult) Script() string {
	start := strings.Index(r.HTML, "<script")
	if start < 0 {
		return ""
	}
	open := strings.Index(r.HTML[start:], ">")
	if open < 0 {
		return ""
	}
	body := r.HTML[start+open+1:]
	end := strings.Index(body, "</script>")
	if end < 0 {
		return ""
	}
	return body[:end]
}

// MockEnvironment is a RequestEnvironment that renders without a JavaScript
// engine. Components render as "<tag id=ID>markup</tag>" where markup comes
// from MarkupFunc, so templates and handlers can be tested in isolation:
//
//	env := &reactssr.MockEnvironment{}
//	ctx := reactssr.WithEnvironment(ctx, env)
//	page.Execute(w, data)
//	if env.Components[0].Name != "Comments" { ... }
type MockEnvironment struct {
	// MarkupFunc produces the server markup of a component. The default
	// renders the component name.
	MarkupFunc func(name string, props any) (string, error)

	// CreateErr, when set, is returned by CreateComponent.
	CreateErr error

	Scripts []string
	Styles  []string

	// Nonce is reported by ScriptNonce when non-empty.
	Nonce string

	// Components records every component created, in order.
	Components []*MockComponent

	// EngineReturns counts ReturnEngineToPool calls.
	EngineReturns int

	// Released is set by Release.
	Released bool
}

var _ RequestEnvironment = &MockEnvironment{}

// CreateComponent records a MockComponent. Empty container ids become
// "mock_N".
func (m *MockEnvironment) CreateComponent(_ context.Context, name string, props any, opts CreateOptions) (Component, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if opts.ClientOnly && opts.ServerOnly {
		return nil, ErrClientAndServerOnly
	}
	id := opts.ContainerID
	if id == "" {
		id = fmt.Sprintf("mock_%d", len(m.Components)+1)
	}
	c := &MockComponent{
		Name:        name,
		Props:       props,
		ContainerID: id,
		Tag:         "div",
		Create:      opts,
		env:         m,
	}
	m.Components = append(m.Components, c)
	return c, nil
}

// InitJavaScript writes a mount call for every component that is neither
// server-only nor already initialized.
func (m *MockEnvironment) InitJavaScript(_ context.Context, w io.Writer, clientOnly bool) error {
	if !clientOnly {
		if _, err := io.WriteString(w, "/* server console */\n"); err != nil {
			return err
		}
	}
	for _, c := range m.Components {
		if c.Create.ServerOnly || c.Initialized {
			continue
		}
		if err := c.writeMount(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// ScriptPaths returns Scripts.
func (m *MockEnvironment) ScriptPaths(context.Context) ([]string, error) {
	return m.Scripts, nil
}

// StylePaths returns Styles.
func (m *MockEnvironment) StylePaths(context.Context) ([]string, error) {
	return m.Styles, nil
}

// ScriptNonce returns Nonce.
func (m *MockEnvironment) ScriptNonce() (string, bool) {
	return m.Nonce, m.Nonce != ""
}

// ReturnEngineToPool counts the call.
func (m *MockEnvironment) ReturnEngineToPool() {
	m.EngineReturns++
}

// Release marks the environment released.
func (m *MockEnvironment) Release() {
	m.Released = true
}

// MockComponent is a component created by MockEnvironment.
type MockComponent struct {
	Name        string
	Props       any
	ContainerID string
	Tag         string
	Class       string
	Create      CreateOptions

	// LastRender holds the options of the last RenderHTML call.
	LastRender RenderOptions

	// Initialized is set when RenderJavaScript waited for DOMContentLoaded.
	Initialized bool

	env *MockEnvironment
}

// SetContainerTag implements Component.
func (c *MockComponent) SetContainerTag(tag string) {
	c.Tag = tag
}

// SetContainerClass implements Component.
func (c *MockComponent) SetContainerClass(class string) {
	c.Class = class
}

// RenderHTML implements Component.
func (c *MockComponent) RenderHTML(_ context.Context, w io.Writer, opts RenderOptions) error {
	c.LastRender = opts
	clientOnly := opts.ClientOnly || c.Create.ClientOnly
	serverOnly := opts.ServerOnly || c.Create.ServerOnly

	var markup string
	if !clientOnly {
		var err error
		markup, err = c.markup()
		if err != nil {
			if opts.ExceptionHandler == nil {
				return err
			}
			opts.ExceptionHandler(err, c.Name, c.ContainerID)
			markup = ""
		}
	}
	if serverOnly {
		_, err := io.WriteString(w, markup)
		return err
	}

	open := "<" + c.Tag + ` id="` + c.ContainerID + `"`
	if c.Class != "" {
		open += ` class="` + c.Class + `"`
	}
	_, err := io.WriteString(w, open+">"+markup+"</"+c.Tag+">")
	return err
}

func (c *MockComponent) markup() (string, error) {
	if c.env.MarkupFunc == nil {
		return c.Name, nil
	}
	return c.env.MarkupFunc(c.Name, c.Props)
}

// RenderJavaScript implements Component.
func (c *MockComponent) RenderJavaScript(_ context.Context, w io.Writer, waitForDOMContentLoad bool) error {
	if !waitForDOMContentLoad {
		return c.writeMount(w)
	}
	if _, err := io.WriteString(w, "onload("); err != nil {
		return err
	}
	if err := c.writeMount(w); err != nil {
		return err
	}
	c.Initialized = true
	_, err := io.WriteString(w, ")")
	return err
}

func (c *MockComponent) writeMount(w io.Writer) error {
	_, err := fmt.Fprintf(w, "mount(%q, %q);", c.Name, c.ContainerID)
	return err
}
