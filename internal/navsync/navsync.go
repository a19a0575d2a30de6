package navsync

import (
	"tabstrip/internal/model"
	"tabstrip/internal/registry"

	"github.com/go-logr/logr"
)

// Router is the navigation collaborator. Navigate is fire-and-forget: the
// router reports the new route later through RouteChanged.
type Router interface {
	CurrentRoute() string
	Navigate(url string)
}

// Registry is the subset of *registry.Registry used here.
type Registry interface {
	Tabs() []model.Tab
	Tab(key string) (model.Tab, bool)
	ActiveKey() (string, bool)
	SetActive(key string) bool
	Subscribe(fn func(registry.Change)) (unsubscribe func())
}

type Sync struct {
	reg    Registry
	router Router
	log    logr.Logger
	unsub  func()
}

func New(reg Registry, router Router, log logr.Logger) *Sync {
	s := &Sync{reg: reg, router: router, log: log}
	s.unsub = reg.Subscribe(s.onChange)
	return s
}

func (s *Sync) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// RouteChanged activates the tab whose URL equals route. Routes that belong
// to no tab leave the active tab alone.
func (s *Sync) RouteChanged(route string) bool {
	for _, t := range s.reg.Tabs() {
		if t.URL == route {
			return s.reg.SetActive(t.Key)
		}
	}
	s.log.V(1).Info("route has no tab", "route", route)
	return false
}

// Activate handles an explicit tab selection (click or overflow menu): the
// tab becomes active immediately and navigation to its URL is requested.
func (s *Sync) Activate(key string) bool {
	t, ok := s.reg.Tab(key)
	if !ok {
		return false
	}
	s.reg.SetActive(key)
	if s.router != nil {
		s.router.Navigate(t.URL)
	}
	return true
}

// Resync re-derives the active tab from the router's current route.
func (s *Sync) Resync() bool {
	if s.router == nil {
		return false
	}
	return s.RouteChanged(s.router.CurrentRoute())
}

func (s *Sync) onChange(ch registry.Change) {
	if ch.Kind != registry.ChangeLoad || ch.ActiveKey != "" {
		return
	}
	s.Resync()
}
