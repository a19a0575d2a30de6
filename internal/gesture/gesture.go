package gesture

import (
	"math"
	"time"

	"tabstrip/internal/model"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

type InputKind int

const (
	Pointer InputKind = iota
	Touch
)

func (k InputKind) String() string {
	if k == Touch {
		return "touch"
	}
	return "pointer"
}

type State int

const (
	Idle State = iota
	Pending
	Dragging
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

type Point struct {
	X, Y int
}

// Thresholds decide when a press turns into a drag.
type Thresholds struct {
	// PointerDistance is the distance (in cells) a pointer has to travel.
	PointerDistance float64
	// TouchDelay is how long a touch has to be held.
	TouchDelay time.Duration
	// TouchTolerance is how far a touch may wander before the delay elapses.
	TouchTolerance float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PointerDistance: 2,
		TouchDelay:      250 * time.Millisecond,
		TouchTolerance:  1,
	}
}

// Tabs is what the controller needs from the registry.
type Tabs interface {
	Tab(key string) (model.Tab, bool)
	Reorder(sourceKey, targetKey string) bool
}

// Proxy is the detached copy of the dragged tab drawn under the pointer.
type Proxy struct {
	SessionID string
	Key       string
	Label     string
	Icon      string
	At        Point
}

type OutcomeKind int

const (
	// None means there was no session to finish.
	None OutcomeKind = iota
	// Click is a press that never reached the activation threshold.
	Click
	// Reordered means the registry applied a move.
	Reordered
	// Cancelled is a drag released over the source, a pinned tab or nothing.
	Cancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case Click:
		return "click"
	case Reordered:
		return "reordered"
	case Cancelled:
		return "cancelled"
	default:
		return "none"
	}
}

type Outcome struct {
	Kind   OutcomeKind
	Source string
	Target string
}

type session struct {
	id      string
	kind    InputKind
	source  model.Tab
	origin  Point
	pressAt time.Time
	at      Point
	over    string
}

// Controller is a single-session drag state machine. A press only becomes a
// drag once it crosses an activation threshold, so a short press is still a
// click: pointer input activates by distance, touch input by holding still.
// It is driven from one event loop and is not safe for concurrent use.
type Controller struct {
	tabs       Tabs
	thresholds Thresholds
	log        logr.Logger

	state State
	cur   *session
}

type Option func(*Controller)

func WithThresholds(th Thresholds) Option {
	return func(c *Controller) { c.thresholds = th }
}

func WithLogger(l logr.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func New(tabs Tabs, opts ...Option) *Controller {
	c := &Controller{
		tabs:       tabs,
		thresholds: DefaultThresholds(),
		log:        logr.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Thresholds() Thresholds { return c.thresholds }

// Source returns the key of the pressed or dragged tab.
func (c *Controller) Source() (string, bool) {
	if c.cur == nil {
		return "", false
	}
	return c.cur.source.Key, true
}

// Proxy returns the drag proxy while dragging.
func (c *Controller) Proxy() (Proxy, bool) {
	if c.state != Dragging || c.cur == nil {
		return Proxy{}, false
	}
	return Proxy{
		SessionID: c.cur.id,
		Key:       c.cur.source.Key,
		Label:     c.cur.source.Label,
		Icon:      c.cur.source.Icon,
		At:        c.cur.at,
	}, true
}

// Target returns the last hovered drop candidate while dragging.
func (c *Controller) Target() (string, bool) {
	if c.state != Dragging || c.cur == nil || c.cur.over == "" {
		return "", false
	}
	return c.cur.over, true
}

// Press starts a session on key. Pinned or unknown tabs, and presses while
// another session is in flight, are refused.
func (c *Controller) Press(key string, at Point, kind InputKind, now time.Time) bool {
	if c.state != Idle {
		return false
	}
	tab, ok := c.tabs.Tab(key)
	if !ok || tab.Pinned {
		return false
	}
	c.cur = &session{
		id:      uuid.NewString(),
		kind:    kind,
		source:  tab,
		origin:  at,
		pressAt: now,
		at:      at,
	}
	c.state = Pending
	return true
}

// Move feeds a new pointer/touch position and returns the resulting state.
func (c *Controller) Move(at Point, now time.Time) State {
	if c.cur == nil {
		return c.state
	}
	c.cur.at = at
	if c.state == Pending {
		c.tryActivate(now)
	}
	return c.state
}

// Poll activates a touch press whose delay has elapsed without a move event.
func (c *Controller) Poll(now time.Time) State {
	if c.state == Pending && c.cur != nil && c.cur.kind == Touch {
		c.tryActivate(now)
	}
	return c.state
}

// Hover records the drop candidate reported by hit testing. An empty key
// clears it.
func (c *Controller) Hover(key string) {
	if c.state != Dragging || c.cur == nil {
		return
	}
	c.cur.over = key
}

// Release finishes the session with the tab under the pointer (or "" for
// none). A valid drop reorders the registry.
func (c *Controller) Release(target string, now time.Time) Outcome {
	if c.cur == nil {
		return Outcome{Kind: None}
	}
	cur := c.cur
	if c.state == Pending {
		c.tryActivate(now)
	}
	state := c.state
	c.reset()

	out := Outcome{Source: cur.source.Key, Target: target}
	if state == Pending {
		out.Kind = Click
		return out
	}
	if !c.validTarget(cur.source.Key, target) {
		out.Kind = Cancelled
		c.log.V(1).Info("drag cancelled", "session", cur.id, "source", cur.source.Key, "target", target)
		return out
	}
	if !c.tabs.Reorder(cur.source.Key, target) {
		out.Kind = Cancelled
		return out
	}
	out.Kind = Reordered
	c.log.V(1).Info("drag reordered", "session", cur.id, "source", cur.source.Key, "target", target)
	return out
}

// Cancel drops any in-flight session without touching the registry.
func (c *Controller) Cancel() {
	if c.cur != nil {
		c.log.V(1).Info("drag aborted", "session", c.cur.id, "state", c.state.String())
	}
	c.reset()
}

// validTarget implements the drop policy: the target must exist, differ
// from the source and must not be pinned.
func (c *Controller) validTarget(source, target string) bool {
	if target == "" || target == source {
		return false
	}
	tab, ok := c.tabs.Tab(target)
	if !ok {
		return false
	}
	return !tab.Pinned
}

func (c *Controller) tryActivate(now time.Time) {
	cur := c.cur
	moved := distance(cur.origin, cur.at)
	switch cur.kind {
	case Touch:
		if moved > c.thresholds.TouchTolerance {
			// Wandered off before the hold completed: this is a scroll/swipe, not a drag.
			c.log.V(1).Info("touch press aborted", "session", cur.id, "moved", moved)
			c.reset()
			return
		}
		if now.Sub(cur.pressAt) >= c.thresholds.TouchDelay {
			c.activate()
		}
	default:
		if moved >= c.thresholds.PointerDistance {
			c.activate()
		}
	}
}

func (c *Controller) activate() {
	c.state = Dragging
	c.log.V(1).Info("drag started", "session", c.cur.id, "source", c.cur.source.Key, "input", c.cur.kind.String())
}

func (c *Controller) reset() {
	c.state = Idle
	c.cur = nil
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
