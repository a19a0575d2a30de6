package registry

import (
	"context"
	"fmt"
	"sync"

	"tabstrip/internal/model"

	"github.com/go-logr/logr"
)

type ChangeKind string

const (
	ChangeReorder ChangeKind = "reorder"
	ChangePin     ChangeKind = "pin"
	ChangeLoad    ChangeKind = "load"
	ChangeActive  ChangeKind = "active"
)

// Change is delivered to subscribers after a mutation has been applied.
// Tabs is a private copy of the sequence at that point.
type Change struct {
	Kind      ChangeKind
	Key       string
	Tabs      []model.Tab
	ActiveKey string
}

// Saver receives the full sequence after every reorder or pin toggle.
// Implementations must not block the caller.
type Saver interface {
	Save(tabs []model.Tab)
}

// Loader supplies a previously persisted sequence. ok=false means "nothing
// usable", in which case the seed stays in place.
type Loader interface {
	Load(ctx context.Context) (tabs []model.Tab, ok bool)
}

type subscriber struct {
	id int
	fn func(Change)
}

// Registry holds the ordered tabs and the active tab. Every successful
// mutation is handed to the Saver and then announced to subscribers, in that
// order. Lookups of unknown keys are silent no-ops.
type Registry struct {
	mu     sync.Mutex
	tabs   []model.Tab
	active string

	saver  Saver
	log    logr.Logger
	subs   []subscriber
	nextID int
}

type Option func(*Registry)

func WithSaver(s Saver) Option {
	return func(r *Registry) { r.saver = s }
}

func WithLogger(l logr.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New seeds a registry with tabs. The seed must satisfy model.Validate.
func New(seed []model.Tab, opts ...Option) (*Registry, error) {
	if err := model.Validate(seed); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	r := &Registry{
		tabs: model.CloneTabs(seed),
		log:  logr.Discard(),
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Init replaces the seed with the sequence from l, if it has one.
// It reports whether a persisted sequence was applied.
func (r *Registry) Init(ctx context.Context, l Loader) bool {
	if l == nil {
		return false
	}
	tabs, ok := l.Load(ctx)
	if !ok {
		r.log.V(1).Info("no persisted tab order; keeping seed")
		return false
	}
	if err := r.Load(tabs); err != nil {
		r.log.Info("ignoring persisted tab order", "err", err.Error())
		return false
	}
	return true
}

// Subscribe registers fn for change notifications and returns a function
// that removes it again.
func (r *Registry) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i := range r.subs {
			if r.subs[i].id == id {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

func (r *Registry) Tabs() []model.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.CloneTabs(r.tabs)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}

func (r *Registry) Tab(key string) (model.Tab, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := model.IndexOf(r.tabs, key); i >= 0 {
		return r.tabs[i], true
	}
	return model.Tab{}, false
}

// ActiveKey returns the active key; ok is false while it is unresolved.
func (r *Registry) ActiveKey() (key string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

// Reorder moves sourceKey into the slot currently held by targetKey,
// shifting everything in between by one. Pin state is not consulted.
func (r *Registry) Reorder(sourceKey, targetKey string) bool {
	if sourceKey == targetKey {
		return false
	}
	r.mu.Lock()
	from := model.IndexOf(r.tabs, sourceKey)
	to := model.IndexOf(r.tabs, targetKey)
	if from < 0 || to < 0 {
		r.mu.Unlock()
		return false
	}
	r.tabs = moveTab(r.tabs, from, to)
	ch := r.changeLocked(ChangeReorder, sourceKey)
	r.mu.Unlock()

	r.log.V(1).Info("reordered tab", "source", sourceKey, "target", targetKey, "order", model.Keys(ch.Tabs))
	r.persist(ch.Tabs)
	r.notify(ch)
	return true
}

// TogglePin flips the pinned flag of key.
func (r *Registry) TogglePin(key string) bool {
	r.mu.Lock()
	i := model.IndexOf(r.tabs, key)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	next := model.CloneTabs(r.tabs)
	next[i].Pinned = !next[i].Pinned
	r.tabs = next
	ch := r.changeLocked(ChangePin, key)
	pinned := next[i].Pinned
	r.mu.Unlock()

	r.log.V(1).Info("toggled pin", "key", key, "pinned", pinned)
	r.persist(ch.Tabs)
	r.notify(ch)
	return true
}

// SetActive makes key the active tab. Unknown keys are ignored.
func (r *Registry) SetActive(key string) bool {
	r.mu.Lock()
	if model.IndexOf(r.tabs, key) < 0 {
		r.mu.Unlock()
		return false
	}
	if r.active == key {
		r.mu.Unlock()
		return true
	}
	r.active = key
	ch := r.changeLocked(ChangeActive, key)
	r.mu.Unlock()

	r.notify(ch)
	return true
}

// Load replaces the whole sequence. If the active tab is not part of the new
// sequence the active key becomes unresolved.
func (r *Registry) Load(tabs []model.Tab) error {
	if err := model.Validate(tabs); err != nil {
		return err
	}
	r.mu.Lock()
	r.tabs = model.CloneTabs(tabs)
	if r.active != "" && model.IndexOf(r.tabs, r.active) < 0 {
		r.active = ""
	}
	ch := r.changeLocked(ChangeLoad, "")
	r.mu.Unlock()

	r.notify(ch)
	return nil
}

func (r *Registry) changeLocked(kind ChangeKind, key string) Change {
	return Change{
		Kind:      kind,
		Key:       key,
		Tabs:      model.CloneTabs(r.tabs),
		ActiveKey: r.active,
	}
}

func (r *Registry) persist(tabs []model.Tab) {
	if r.saver == nil {
		return
	}
	r.saver.Save(tabs)
}

func (r *Registry) notify(ch Change) {
	r.mu.Lock()
	subs := append([]subscriber(nil), r.subs...)
	r.mu.Unlock()
	for _, s := range subs {
		s.fn(ch)
	}
}

// moveTab returns a new slice with tabs[from] removed and reinserted at index to.
func moveTab(tabs []model.Tab, from, to int) []model.Tab {
	moved := tabs[from]
	rest := make([]model.Tab, 0, len(tabs)-1)
	rest = append(rest, tabs[:from]...)
	rest = append(rest, tabs[from+1:]...)

	out := make([]model.Tab, 0, len(tabs))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}
