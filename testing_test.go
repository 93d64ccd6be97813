package reactssr

import (
	"errors"
	"testing"
)

func TestTestRender_Success(t *testing.T) {
	env := &MockEnvironment{MarkupFunc: func(name string, props any) (string, error) {
		return "<h1>Hello, " + props.(greetingProps).Name + "!</h1>", nil
	}}

	result, err := TestRender(env, "Greeting", greetingProps{Name: "World"}, WithContainerID("greet"))
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}

	if !result.HTMLContains("Hello, World!") {
		t.Errorf("expected greeting in output: %s", result.HTML)
	}
	if result.ContainerID() != "greet" {
		t.Errorf("ContainerID() = %q, want greet", result.ContainerID())
	}
	if result.HasScriptTag() {
		t.Error("React output should not carry a script tag")
	}
}

func TestTestRender_Error(t *testing.T) {
	expectedErr := errors.New("mock render error")
	env := &MockEnvironment{MarkupFunc: func(string, any) (string, error) {
		return "", expectedErr
	}}

	result, err := TestRender(env, "Greeting", nil)
	if err != expectedErr {
		t.Errorf("error = %v, want %v", err, expectedErr)
	}
	if result != nil {
		t.Error("expected nil result on error")
	}
}

func TestTestRenderWithInit(t *testing.T) {
	env := &MockEnvironment{}

	result, err := TestRenderWithInit(env, "Greeting", nil, WithContainerID("g"))
	if err != nil {
		t.Fatalf("TestRenderWithInit() error = %v", err)
	}
	if !result.HasScriptTag() {
		t.Fatalf("expected a script tag: %s", result.HTML)
	}
	if got := result.Script(); got != `onload(mount("Greeting", "g");)` {
		t.Errorf("Script() = %q", got)
	}
}

func TestTestResult_HTMLContains(t *testing.T) {
	result := &TestResult{HTML: `<div class="test">Hello, World!</div>`}

	tests := []struct {
		substr string
		expect bool
	}{
		{"Hello", true},
		{"World", true},
		{"class=\"test\"", true},
		{"Goodbye", false},
	}

	for _, tt := range tests {
		if got := result.HTMLContains(tt.substr); got != tt.expect {
			t.Errorf("HTMLContains(%q) = %v, want %v", tt.substr, got, tt.expect)
		}
	}
}

func TestTestResult_HTMLContainsAll(t *testing.T) {
	result := &TestResult{HTML: `<div>Hello, World!</div>`}

	if !result.HTMLContainsAll("Hello", "World") {
		t.Error("expected HTMLContainsAll to return true")
	}
	if result.HTMLContainsAll("Hello", "Goodbye") {
		t.Error("expected HTMLContainsAll to return false")
	}
}

func TestTestResult_HTMLContainsAny(t *testing.T) {
	result := &TestResult{HTML: `<div>Hello, World!</div>`}

	if !result.HTMLContainsAny("Goodbye", "World") {
		t.Error("expected HTMLContainsAny to return true")
	}
	if result.HTMLContainsAny("Goodbye", "Farewell") {
		t.Error("expected HTMLContainsAny to return false")
	}
}

func TestTestResult_ContainerID(t *testing.T) {
	tests := []struct {
		html   string
		expect string
	}{
		{`<div id="react_abc"><span/></div>`, "react_abc"},
		{`<my-widget  id="w1" class="x"></my-widget>`, "w1"},
		{`<span>server only</span>`, ""},
		{`text <div id="late"></div>`, ""},
	}

	for _, tt := range tests {
		result := &TestResult{HTML: tt.html}
		if got := result.ContainerID(); got != tt.expect {
			t.Errorf("ContainerID() for %q = %q, want %q", tt.html, got, tt.expect)
		}
	}
}

func TestTestResult_Script(t *testing.T) {
	tests := []struct {
		html   string
		expect string
	}{
		{`<div></div><script>init();</script>`, "init();"},
		{`<script nonce="n">a();</script><script>b();</script>`, "a();"},
		{`<div></div>`, ""},
		{`<script>unterminated`, ""},
	}

	for _, tt := range tests {
		result := &TestResult{HTML: tt.html}
		if got := result.Script(); got != tt.expect {
			t.Errorf("Script() for %q = %q, want %q", tt.html, got, tt.expect)
		}
	}
}

func TestMockEnvironment(t *testing.T) {
	env := &MockEnvironment{}

	if _, err := env.CreateComponent(mockContext(env), "X", nil, CreateOptions{ClientOnly: true, ServerOnly: true}); !errors.Is(err, ErrClientAndServerOnly) {
		t.Errorf("CreateComponent() error = %v, want ErrClientAndServerOnly", err)
	}
	if _, ok := env.ScriptNonce(); ok {
		t.Error("ScriptNonce() should report no nonce")
	}

	env.Nonce = "abc"
	if nonce, ok := env.ScriptNonce(); !ok || nonce != "abc" {
		t.Errorf("ScriptNonce() = %q, %v", nonce, ok)
	}

	env.Release()
	if !env.Released {
		t.Error("Release() should mark the environment released")
	}
}
