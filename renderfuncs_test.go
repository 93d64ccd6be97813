package reactssr

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// recordingFunctions logs every hook it sees under its label.
type recordingFunctions struct {
	label string
	log   *[]string
	err   error
}

func (r recordingFunctions) PreRender(_ context.Context, exec ScriptExecutor) error {
	*r.log = append(*r.log, r.label+".pre")
	if _, err := exec(r.label); err != nil {
		return err
	}
	return r.err
}

func (r recordingFunctions) WrapComponent(expr string) string {
	return r.label + "(" + expr + ")"
}

func (r recordingFunctions) TransformRenderedHTML(html string) string {
	return html + "<" + r.label + ">"
}

func (r recordingFunctions) PostRender(_ context.Context, _ ScriptExecutor) error {
	*r.log = append(*r.log, r.label+".post")
	return nil
}

func TestChainRenderFunctions(t *testing.T) {
	var log, executed []string
	exec := func(script string) (any, error) {
		executed = append(executed, script)
		return nil, nil
	}

	chain := ChainRenderFunctions(
		recordingFunctions{label: "a", log: &log},
		nil,
		recordingFunctions{label: "b", log: &log},
	)

	if err := chain.PreRender(context.Background(), exec); err != nil {
		t.Fatalf("PreRender() error = %v", err)
	}
	if got := chain.WrapComponent("el"); got != "b(a(el))" {
		t.Errorf("WrapComponent() = %q, want %q", got, "b(a(el))")
	}
	if got := chain.TransformRenderedHTML("<p/>"); got != "<p/><a><b>" {
		t.Errorf("TransformRenderedHTML() = %q", got)
	}
	if err := chain.PostRender(context.Background(), exec); err != nil {
		t.Fatalf("PostRender() error = %v", err)
	}

	if got := strings.Join(log, ","); got != "a.pre,b.pre,a.post,b.post" {
		t.Errorf("hook order = %s", got)
	}
	if got := strings.Join(executed, ","); got != "a,b" {
		t.Errorf("executed = %s", got)
	}
}

func TestChainRenderFunctionsStopsOnError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	chain := ChainRenderFunctions(
		recordingFunctions{label: "a", log: &log, err: boom},
		recordingFunctions{label: "b", log: &log},
	)

	err := chain.PreRender(context.Background(), func(string) (any, error) { return nil, nil })
	if !errors.Is(err, boom) {
		t.Fatalf("PreRender() error = %v, want %v", err, boom)
	}
	if got := strings.Join(log, ","); got != "a.pre" {
		t.Errorf("hooks after failure ran: %s", got)
	}
}

func TestRenderFunctionsBase(t *testing.T) {
	var base RenderFunctionsBase
	exec := func(string) (any, error) {
		t.Error("base hooks should not execute scripts")
		return nil, nil
	}

	if err := base.PreRender(context.Background(), exec); err != nil {
		t.Errorf("PreRender() error = %v", err)
	}
	if got := base.WrapComponent("el"); got != "el" {
		t.Errorf("WrapComponent() = %q", got)
	}
	if got := base.TransformRenderedHTML("<p/>"); got != "<p/>" {
		t.Errorf("TransformRenderedHTML() = %q", got)
	}
	if err := base.PostRender(context.Background(), exec); err != nil {
		t.Errorf("PostRender() error = %v", err)
	}
}

func TestStyledComponentsFunctions(t *testing.T) {
	var scripts []string
	exec := func(script string) (any, error) {
		scripts = append(scripts, script)
		if script == "serverStyleSheet.getStyleTags()" {
			return `<style data-styled="true">.x{}</style>`, nil
		}
		return nil, nil
	}

	fns := &StyledComponentsFunctions{}
	if err := fns.PreRender(context.Background(), exec); err != nil {
		t.Fatalf("PreRender() error = %v", err)
	}
	if got := fns.WrapComponent("React.createElement(App, {})"); got != "serverStyleSheet.collectStyles(React.createElement(App, {}))" {
		t.Errorf("WrapComponent() = %q", got)
	}
	if got := fns.TransformRenderedHTML("<div/>"); got != "<div/>" {
		t.Errorf("TransformRenderedHTML() = %q", got)
	}
	if err := fns.PostRender(context.Background(), exec); err != nil {
		t.Fatalf("PostRender() error = %v", err)
	}

	if fns.RenderedStyles != `<style data-styled="true">.x{}</style>` {
		t.Errorf("RenderedStyles = %q", fns.RenderedStyles)
	}
	if scripts[0] != "var serverStyleSheet = new Styled.ServerStyleSheet();" {
		t.Errorf("PreRender script = %q", scripts[0])
	}
}

func TestStyledComponentsFunctionsError(t *testing.T) {
	boom := errors.New("Styled is not defined")
	fns := &StyledComponentsFunctions{}

	err := fns.PostRender(context.Background(), func(string) (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("PostRender() error = %v, want %v", err, boom)
	}
	if fns.RenderedStyles != "" {
		t.Errorf("RenderedStyles = %q, want empty", fns.RenderedStyles)
	}
}
