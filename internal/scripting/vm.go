package scripting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// LogEntry represents a single log message from the script.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// ErrTimeout is returned when a script call is interrupted.
var ErrTimeout = errors.New("script timed out")

// VM wraps a goja runtime with sandbox restrictions and global function injection.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int

	// stopRequested is set when the script calls stop().
	stopRequested bool
}

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 250 * time.Millisecond
)

// NewVM creates a sandboxed goja runtime with global functions injected.
func NewVM() *VM {
	vm := &VM{
		runtime: goja.New(),
		maxLogs: 500,
	}
	vm.injectGlobalFunctions()
	return vm
}

// injectGlobalFunctions registers log, console.log and stop, and removes
// globals a strategy has no business touching.
func (vm *VM) injectGlobalFunctions() {
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}

		vm.logsMu.Lock()
		if len(vm.logs) >= vm.maxLogs {
			vm.logs = vm.logs[1:]
		}
		vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: strings.Join(parts, " ")})
		vm.logsMu.Unlock()

		return goja.Undefined()
	})

	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	vm.runtime.Set("stop", func(call goja.FunctionCall) goja.Value {
		vm.stopRequested = true
		return goja.Undefined()
	})

	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

// Execute runs user script source once to register its functions.
func (vm *VM) Execute(ctx context.Context, source string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.runWithTimeout(ctx, scriptInitTimeout, func() error {
		if _, err := vm.runtime.RunString(source); err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// HasFunc reports whether the script defined a global function name.
func (vm *VM) HasFunc(name string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := vm.function(name)
	return ok
}

// Call sets globals and invokes the global function name.
func (vm *VM) Call(ctx context.Context, name string, globals map[string]any) (goja.Value, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for k, v := range globals {
		if err := vm.runtime.Set(k, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}

	var out goja.Value
	err := vm.runWithTimeout(ctx, scriptCallTimeout, func() error {
		callable, ok := vm.function(name)
		if !ok {
			return fmt.Errorf("%s() function is not defined", name)
		}
		result, err := callable(goja.Undefined())
		if err != nil {
			return fmt.Errorf("%s() error: %w", name, err)
		}
		out = result
		return nil
	})
	return out, err
}

func (vm *VM) function(name string) (goja.Callable, bool) {
	fn := vm.runtime.Get(name)
	if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
		return nil, false
	}
	return goja.AssertFunction(fn)
}

// TakeStopRequest reports whether stop() was called and clears the flag.
func (vm *VM) TakeStopRequest() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	stop := vm.stopRequested
	vm.stopRequested = false
	return stop
}

// Logs returns a copy of the current log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// runWithTimeout runs fn on the caller's goroutine and interrupts the
// runtime when timeout elapses or ctx is done. Callers hold vm.mu.
func (vm *VM) runWithTimeout(ctx context.Context, timeout time.Duration, fn func() error) error {
	var (
		imu      sync.Mutex
		finished bool
	)
	interrupt := func(v any) {
		imu.Lock()
		defer imu.Unlock()
		if !finished {
			vm.runtime.Interrupt(v)
		}
	}
	timer := time.AfterFunc(timeout, func() { interrupt(ErrTimeout) })
	stop := context.AfterFunc(ctx, func() { interrupt(ctx.Err()) })

	err := fn()

	imu.Lock()
	finished = true
	imu.Unlock()
	timer.Stop()
	stop()
	vm.runtime.ClearInterrupt()

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return fmt.Errorf("script interrupted: %w", cause)
		}
		return fmt.Errorf("script interrupted: %v", interrupted.Value())
	}
	return err
}
