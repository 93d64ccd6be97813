package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// shims give browser-targeted bundles the globals they probe for.
var shims = goja.MustCompile("shims.js", `
var global = global || this;
var self = self || this;
var window = window || this;
`, false)

// runtime is one JavaScript engine with the configured scripts loaded. It is
// used by one goroutine at a time, between Pool.Get and Pool.Put.
type runtime struct {
	vm      *goja.Runtime
	console *console
	uses    int

	// broken is set once a script was interrupted. Its finally blocks never
	// ran, so globals may be left mid-render and the engine is not reused.
	broken bool
}

func newRuntime(programs []*goja.Program) (*runtime, error) {
	vm := goja.New()
	c := &console{}
	if err := c.install(vm); err != nil {
		return nil, fmt.Errorf("install console: %w", err)
	}
	if _, err := vm.RunProgram(shims); err != nil {
		return nil, fmt.Errorf("run shims: %w", err)
	}
	for _, p := range programs {
		if _, err := vm.RunProgram(p); err != nil {
			return nil, fmt.Errorf("load script: %w", err)
		}
	}
	// output from loading the bundles belongs to no request
	c.drain()
	return &runtime{vm: vm, console: c}, nil
}

// eval runs script, interrupting it when ctx ends or timeout passes.
func (r *runtime) eval(ctx context.Context, timeout time.Duration, script string) (goja.Value, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		r.vm.Interrupt(context.Cause(ctx))
		close(fired)
	})
	defer func() {
		if !stop() {
			<-fired
			r.vm.ClearInterrupt()
			r.broken = true
		}
	}()

	v, err := r.vm.RunString(script)
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		r.broken = true
	}
	return v, err
}

// exists reports whether the dotted global name resolves to a value.
func (r *runtime) exists(ctx context.Context, timeout time.Duration, name string) (bool, error) {
	parts := strings.Split(name, ".")
	for i := range parts {
		expr := strings.Join(parts[:i+1], ".")
		v, err := r.eval(ctx, timeout, "typeof "+expr+" !== 'undefined'")
		if err != nil {
			return false, err
		}
		if !v.ToBoolean() {
			return false, nil
		}
	}
	return true, nil
}

type consoleCall struct {
	level string
	args  []string // JSON literals
}

// console records what server-side code logs so it can be replayed in the
// browser.
type console struct {
	calls []consoleCall
}

var consoleLevels = []string{"log", "info", "warn", "error", "debug"}

func (c *console) install(vm *goja.Runtime) error {
	obj := vm.NewObject()
	for _, level := range consoleLevels {
		level := level
		err := obj.Set(level, func(call goja.FunctionCall) goja.Value {
			c.record(level, call.Arguments)
			return goja.Undefined()
		})
		if err != nil {
			return err
		}
	}
	return vm.Set("console", obj)
}

func (c *console) record(level string, args []goja.Value) {
	encoded := make([]string, 0, len(args))
	for _, arg := range args {
		encoded = append(encoded, encodeConsoleArg(arg))
	}
	c.calls = append(c.calls, consoleCall{level: level, args: encoded})
}

func (c *console) drain() []consoleCall {
	calls := c.calls
	c.calls = nil
	return calls
}

func encodeConsoleArg(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "null"
	}
	b, err := json.Marshal(v.Export())
	if err != nil {
		b, _ = json.Marshal(v.String())
	}
	return string(b)
}

// writeConsoleReplay writes calls as browser console statements, tagged so
// they are distinguishable from client-side output.
func writeConsoleReplay(w io.Writer, calls []consoleCall) error {
	for _, call := range calls {
		args := append([]string{`"[Server]"`}, call.args...)
		if _, err := fmt.Fprintf(w, "console.%s(%s);\n", call.level, strings.Join(args, ", ")); err != nil {
			return err
		}
	}
	return nil
}
