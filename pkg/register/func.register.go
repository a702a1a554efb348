// Package register collects init-time hooks keyed by an arbitrary value,
// so packages can contribute setup steps without import cycles. The
// sqlstore provider uses it to let every table store attach itself while
// the provider is being built.
package register

import "sync"

type Handler[T any] func(T)

type hookRegistry struct {
	mu    sync.Mutex
	hooks map[any][]any
}

var global = &hookRegistry{
	hooks: make(map[any][]any),
}

// RegisterFunc queues handler under key. Typically called from init().
func RegisterFunc[T any](key any, handler Handler[T]) {
	global.mu.Lock()
	global.hooks[key] = append(global.hooks[key], handler)
	global.mu.Unlock()
}

// ResolveFuncHandlers returns the handlers queued under key whose
// argument type matches T, in registration order.
func ResolveFuncHandlers[T any](key any) []Handler[T] {
	global.mu.Lock()
	defer global.mu.Unlock()

	var result []Handler[T]
	for _, v := range global.hooks[key] {
		if h, ok := v.(Handler[T]); ok {
			result = append(result, h)
		}
	}
	return result
}
