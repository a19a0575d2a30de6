package tui

import (
	"fmt"
	"strings"
	"time"

	"tabstrip/internal/gesture"
	"tabstrip/internal/layout"
	"tabstrip/internal/navsync"
	"tabstrip/internal/registry"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	zone "github.com/lrstanley/bubblezone"
)

// Options configures the tab strip program.
type Options struct {
	Registry   *registry.Registry
	Log        logr.Logger
	Thresholds gesture.Thresholds
	// ReserveOverflow keeps room for the overflow trigger in the partition.
	ReserveOverflow bool
	ResizeDebounce  time.Duration
	// Glyphs is one of: auto|unicode|ascii
	Glyphs string
}

type appModel struct {
	reg    *registry.Registry
	engine *layout.Engine
	drag   *gesture.Controller
	nav    *navsync.Sync
	router *memRouter
	zones  *zone.Manager
	zoneID string
	log    logr.Logger
	keys   keyMap
	help   help.Model
	now    func() time.Time

	width  int
	height int

	// We treat the very first WindowSizeMsg as initial sizing and apply it
	// immediately; later ones are debounced.
	seenWindowSize bool
	resizing       bool
	resizeSeq      int
	resizeDebounce time.Duration

	reserveOverflow bool
	widthsSig       string

	menuOpen  bool
	menuIndex int
	showHelp  bool
	// Shared with the engine's OnChange callback.
	partition *partitionWatch

	minibufferText string
	minibufferSeq  int
}

func newAppModel(opts Options) appModel {
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	th := opts.Thresholds
	if th == (gesture.Thresholds{}) {
		th = gesture.DefaultThresholds()
	}
	debounce := opts.ResizeDebounce
	if debounce <= 0 {
		debounce = 120 * time.Millisecond
	}

	reg := opts.Registry
	initial := ""
	if tabs := reg.Tabs(); len(tabs) > 0 {
		initial = tabs[0].URL
	}
	router := newMemRouter(initial)
	zm := zone.New()

	engine := layout.NewEngine(reg, layout.WithEngineLogger(log.WithName("layout")))
	pw := &partitionWatch{}
	engine.OnChange(func(layout.Result) { pw.changed = true })

	m := appModel{
		reg:             reg,
		engine:          engine,
		drag:            gesture.New(reg, gesture.WithThresholds(th), gesture.WithLogger(log.WithName("gesture"))),
		nav:             navsync.New(reg, router, log.WithName("navsync")),
		router:          router,
		zones:           zm,
		zoneID:          zm.NewPrefix(),
		log:             log,
		keys:            defaultKeyMap(),
		help:            help.New(),
		now:             time.Now,
		resizeDebounce:  debounce,
		reserveOverflow: opts.ReserveOverflow,
		partition:       pw,
	}
	m.nav.Resync()
	m.syncWidths()
	return m
}

// partitionWatch records that the visible/overflow split changed since the
// last update turn.
type partitionWatch struct {
	changed bool
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) close() {
	m.nav.Close()
	m.engine.Close()
	m.zones.Close()
}

// syncWidths re-measures the tab cells when anything that affects their
// rendered width changed, and keeps the trigger reserve in step.
func (m *appModel) syncWidths() {
	tabs := m.reg.Tabs()
	var sig strings.Builder
	sig.WriteString(glyphsName(glyphs()))
	for _, t := range tabs {
		fmt.Fprintf(&sig, "\x00%s\x01%s", t.Key, tabContent(t))
	}
	if sig.String() == m.widthsSig {
		return
	}
	m.widthsSig = sig.String()
	reserve := 0
	if m.reserveOverflow {
		reserve = OverflowReserve(len(tabs))
	}
	m.engine.SetReserve(reserve)
	m.engine.SetWidths(MeasureTabs(tabs))
}

// geometry follows the engine's container width, so while a resize is still
// debounced the trigger stays where the current partition put it.
func (m appModel) geometry() stripGeometry {
	res := m.engine.Result()
	return computeGeometry(res, MeasureTabs(res.Visible), m.engine.ContainerWidth(), OverflowReserve(m.reg.Len()))
}

func (m appModel) activeKey() string {
	k, _ := m.reg.ActiveKey()
	return k
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferSeq++
	m.minibufferText = text
	seq := m.minibufferSeq
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}

func (m appModel) triggerZone() string { return m.zoneID + "trigger" }

func (m appModel) menuZone(key string) string { return m.zoneID + "menu:" + key }
