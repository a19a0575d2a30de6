package navsync

import (
	"testing"

	"tabstrip/internal/model"
	"tabstrip/internal/registry"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
)

type fakeRouter struct {
	route     string
	navigated []string
}

func (r *fakeRouter) CurrentRoute() string { return r.route }
func (r *fakeRouter) Navigate(url string)  { r.navigated = append(r.navigated, url) }

func newSync(t *testing.T, route string) (*registry.Registry, *fakeRouter, *Sync) {
	t.Helper()
	reg, err := registry.New(model.DefaultTabs())
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	router := &fakeRouter{route: route}
	s := New(reg, router, logr.Discard())
	t.Cleanup(s.Close)
	return reg, router, s
}

func TestRouteChanged_ActivatesMatchingTab(t *testing.T) {
	reg, _, s := newSync(t, "/tab3")
	if !s.RouteChanged("/tab3") {
		t.Fatalf("expected a matching tab")
	}
	if k, _ := reg.ActiveKey(); k != "3" {
		t.Fatalf("expected active 3; got %q", k)
	}
	if s.RouteChanged("/elsewhere") {
		t.Fatalf("unknown route should not match")
	}
	if k, _ := reg.ActiveKey(); k != "3" {
		t.Fatalf("unknown route must not change the active tab; got %q", k)
	}
}

func TestActivate_SetsActiveAndNavigates(t *testing.T) {
	reg, router, s := newSync(t, "/")
	if !s.Activate("4") {
		t.Fatalf("expected activation")
	}
	if k, _ := reg.ActiveKey(); k != "4" {
		t.Fatalf("expected active 4 immediately; got %q", k)
	}
	if diff := cmp.Diff([]string{"/tab4"}, router.navigated); diff != "" {
		t.Fatalf("unexpected navigation (-want +got):\n%s", diff)
	}
	if s.Activate("missing") {
		t.Fatalf("missing key must be a no-op")
	}
	if len(router.navigated) != 1 {
		t.Fatalf("missing key must not navigate")
	}
}

func TestLoad_DroppingActiveResyncsFromRoute(t *testing.T) {
	reg, router, _ := newSync(t, "/tab2")
	reg.SetActive("2")

	router.route = "/tab5"
	if err := reg.Load([]model.Tab{
		{Key: "1", URL: "/tab1"},
		{Key: "5", URL: "/tab5"},
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k, ok := reg.ActiveKey(); !ok || k != "5" {
		t.Fatalf("expected active to follow the current route; got %q ok=%v", k, ok)
	}
}

func TestLoad_ActiveStaysUnresolvedWithoutMatchingRoute(t *testing.T) {
	reg, router, _ := newSync(t, "/tab2")
	reg.SetActive("2")
	router.route = "/tab2"
	if err := reg.Load([]model.Tab{{Key: "1", URL: "/tab1"}}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := reg.ActiveKey(); ok {
		t.Fatalf("expected unresolved active key")
	}
}
