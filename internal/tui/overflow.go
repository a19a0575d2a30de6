package tui

import (
	"strings"

	"tabstrip/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) openMenu() {
	res := m.engine.Result()
	if !res.HasOverflow() {
		return
	}
	m.drag.Cancel()
	m.menuOpen = true
	m.menuIndex = 0
	if i := model.IndexOf(res.Overflow, m.activeKey()); i >= 0 {
		m.menuIndex = i
	}
}

func (m *appModel) closeMenu() {
	m.menuOpen = false
}

// reconcileMenu keeps the menu consistent with a new partition: it closes
// once nothing overflows and the cursor stays on a row.
func (m *appModel) reconcileMenu() {
	n := len(m.engine.Result().Overflow)
	if n == 0 {
		m.closeMenu()
		m.menuIndex = 0
		return
	}
	if m.menuIndex >= n {
		m.menuIndex = n - 1
	}
}

func (m appModel) updateMenuKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	overflow := m.engine.Result().Overflow
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Overflow):
		m.closeMenu()
	case key.Matches(msg, m.keys.Up):
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuIndex < len(overflow)-1 {
			m.menuIndex++
		}
	case key.Matches(msg, m.keys.Select):
		if m.menuIndex >= 0 && m.menuIndex < len(overflow) {
			k := overflow[m.menuIndex].Key
			m.closeMenu()
			m.nav.Activate(k)
		}
	}
	return m, nil
}

// menuRowAt reports the overflow row under a click, using the zones marked
// during the last render.
func (m appModel) menuRowAt(msg tea.MouseMsg) (string, bool) {
	for _, t := range m.engine.Result().Overflow {
		if m.zones.Get(m.menuZone(t.Key)).InBounds(msg) {
			return t.Key, true
		}
	}
	return "", false
}

func (m appModel) renderMenu() string {
	overflow := m.engine.Result().Overflow
	active := m.activeKey()
	rows := make([]string, 0, len(overflow)+1)
	rows = append(rows, styleMenuTitle.Render("Hidden tabs"))
	for i, t := range overflow {
		cursor := "  "
		if i == m.menuIndex {
			cursor = glyphCursor() + " "
		}
		line := cursor + tabContent(t)
		if t.Key == active {
			line += " " + styleMuted.Render("(open)")
		}
		if i == m.menuIndex {
			line = styleMenuSelected.Render(line)
		}
		rows = append(rows, m.zones.Mark(m.menuZone(t.Key), line))
	}
	return styleMenu.Render(strings.Join(rows, "\n"))
}
