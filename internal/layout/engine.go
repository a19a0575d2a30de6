package layout

import (
	"maps"
	"slices"
	"sync"

	"tabstrip/internal/model"
	"tabstrip/internal/registry"

	"github.com/go-logr/logr"
)

// Source is the part of the registry the engine depends on.
type Source interface {
	Tabs() []model.Tab
	Subscribe(fn func(registry.Change)) (unsubscribe func())
}

// Engine keeps the current partition in sync with the registry, the measured
// tab widths and the container width.
type Engine struct {
	mu        sync.Mutex
	tabs      []model.Tab
	widths    map[string]int
	container int
	reserve   int
	result    Result

	listeners []func(Result)
	unsub     func()
	log       logr.Logger
}

type EngineOption func(*Engine)

// WithReserve sets the width taken by the overflow trigger once not every tab fits.
func WithReserve(w int) EngineOption {
	return func(e *Engine) { e.reserve = w }
}

func WithContainerWidth(w int) EngineOption {
	return func(e *Engine) { e.container = w }
}

func WithEngineLogger(l logr.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

func NewEngine(src Source, opts ...EngineOption) *Engine {
	e := &Engine{
		widths: map[string]int{},
		log:    logr.Discard(),
	}
	for _, o := range opts {
		o(e)
	}
	e.tabs = src.Tabs()
	e.unsub = src.Subscribe(e.onRegistryChange)
	e.mu.Lock()
	e.recomputeLocked()
	e.mu.Unlock()
	return e
}

// Close detaches the engine from the registry.
func (e *Engine) Close() {
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
}

// OnChange registers fn to run after every recompute that altered the partition.
func (e *Engine) OnChange(fn func(Result)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

func (e *Engine) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

func (e *Engine) ContainerWidth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container
}

// SetContainerWidth records a new container width and recomputes.
func (e *Engine) SetContainerWidth(w int) {
	e.mu.Lock()
	e.container = w
	e.update()
}

// SetWidths replaces the measured widths and recomputes.
func (e *Engine) SetWidths(widths map[string]int) {
	e.mu.Lock()
	e.widths = maps.Clone(widths)
	if e.widths == nil {
		e.widths = map[string]int{}
	}
	e.update()
}

func (e *Engine) SetReserve(w int) {
	e.mu.Lock()
	e.reserve = w
	e.update()
}

func (e *Engine) onRegistryChange(ch registry.Change) {
	switch ch.Kind {
	case registry.ChangeReorder, registry.ChangePin, registry.ChangeLoad:
	default:
		return
	}
	e.mu.Lock()
	e.tabs = ch.Tabs
	e.update()
}

// update expects e.mu held and releases it before calling listeners.
func (e *Engine) update() {
	changed := e.recomputeLocked()
	res := e.result
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(res)
	}
}

func (e *Engine) recomputeLocked() bool {
	next := Partition(e.tabs, e.widths, e.container, e.reserve)
	changed := !sameResult(e.result, next)
	e.result = next
	if changed {
		e.log.V(1).Info("partition recomputed",
			"container", e.container,
			"visible", next.VisibleKeys(),
			"overflow", next.OverflowKeys(),
		)
	}
	return changed
}

func sameResult(a, b Result) bool {
	return slices.Equal(a.Visible, b.Visible) && slices.Equal(a.Overflow, b.Overflow)
}
