package model

import (
	"fmt"
	"strings"
)

// Tab describes one entry of the tab strip.
//
// Label and Icon are carried opaquely for the renderer. URL is only ever
// compared for equality against the current route.
type Tab struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	URL    string `json:"url" yaml:"url"`
	Pinned bool   `json:"pinned" yaml:"pinned"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// DefaultTabs returns the seed sequence used on first run.
func DefaultTabs() []Tab {
	out := make([]Tab, 0, 5)
	for i := 1; i <= 5; i++ {
		out = append(out, Tab{
			Key:   fmt.Sprintf("%d", i),
			Label: fmt.Sprintf("Tab %d", i),
			URL:   fmt.Sprintf("/tab%d", i),
		})
	}
	return out
}

// CloneTabs returns a copy of tabs that shares no backing array with the input.
func CloneTabs(tabs []Tab) []Tab {
	if tabs == nil {
		return nil
	}
	return append([]Tab(nil), tabs...)
}

// IndexOf returns the position of key in tabs, or -1.
func IndexOf(tabs []Tab, key string) int {
	for i := range tabs {
		if tabs[i].Key == key {
			return i
		}
	}
	return -1
}

// Keys returns the keys of tabs in order.
func Keys(tabs []Tab) []string {
	out := make([]string, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, t.Key)
	}
	return out
}

// Validate reports the first structural problem in tabs: an empty key or a
// key used twice.
func Validate(tabs []Tab) error {
	seen := make(map[string]bool, len(tabs))
	for i, t := range tabs {
		k := strings.TrimSpace(t.Key)
		if k == "" {
			return fmt.Errorf("tab %d: missing key", i)
		}
		if seen[t.Key] {
			return fmt.Errorf("tab %d: duplicate key %q", i, t.Key)
		}
		seen[t.Key] = true
	}
	return nil
}
