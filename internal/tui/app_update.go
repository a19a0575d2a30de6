package tui

import (
	"time"

	"tabstrip/internal/gesture"
	"tabstrip/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncWidths()
	if next.partition.changed {
		next.partition.changed = false
		next.reconcileMenu()
	}
	if nav := next.router.drain(); nav != nil {
		if cmd == nil {
			cmd = nav
		} else {
			cmd = tea.Batch(cmd, nav)
		}
	}
	return next, cmd
}

func (m appModel) update(msg tea.Msg) (appModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Apply the first size right away so the strip doesn't start fully collapsed.
		if !m.seenWindowSize {
			m.seenWindowSize = true
			m.resizing = false
			m.engine.SetContainerWidth(msg.Width)
			return m, nil
		}
		m.resizing = true
		m.resizeSeq++
		seq := m.resizeSeq
		return m, tea.Tick(m.resizeDebounce, func(time.Time) tea.Msg { return resizeDoneMsg{seq: seq} })

	case resizeDoneMsg:
		// Debounce: only the latest resize recomputes the partition.
		if msg.seq == m.resizeSeq {
			m.resizing = false
			m.engine.SetContainerWidth(m.width)
		}
		return m, nil

	case routeChangedMsg:
		m.router.current = msg.route
		m.nav.RouteChanged(msg.route)
		return m, nil

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.menuOpen {
			return m.updateMenuKey(msg)
		}
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.drag.State() != gesture.Idle {
			m.drag.Cancel()
			return m, nil
		}
		m.showHelp = false
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		return m, m.activateNeighbor(-1)
	case key.Matches(msg, m.keys.Next):
		return m, m.activateNeighbor(+1)
	case key.Matches(msg, m.keys.Pin):
		if k := m.activeKey(); k != "" {
			m.reg.TogglePin(k)
		}
		return m, nil
	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.moveActive(-1)
	case key.Matches(msg, m.keys.MoveRight):
		return m, m.moveActive(+1)
	case key.Matches(msg, m.keys.Overflow):
		m.openMenu()
		return m, nil
	}
	return m, nil
}

func (m *appModel) activateNeighbor(delta int) tea.Cmd {
	tabs := m.reg.Tabs()
	if len(tabs) == 0 {
		return nil
	}
	i := model.IndexOf(tabs, m.activeKey())
	j := i + delta
	if i < 0 {
		j = 0
	}
	if j < 0 || j >= len(tabs) {
		return nil
	}
	m.nav.Activate(tabs[j].Key)
	return nil
}

// moveActive swaps the active tab with its neighbour. The neighbour is the
// target, so as with drags a pinned tab is never the moved tab nor the target.
func (m *appModel) moveActive(delta int) tea.Cmd {
	tabs := m.reg.Tabs()
	i := model.IndexOf(tabs, m.activeKey())
	if i < 0 {
		return nil
	}
	j := i + delta
	if j < 0 || j >= len(tabs) {
		return nil
	}
	if tabs[i].Pinned || tabs[j].Pinned {
		return m.showMinibuffer("Pinned tabs can't be swapped")
	}
	m.reg.Reorder(tabs[i].Key, tabs[j].Key)
	return nil
}

func (m appModel) updateMouse(msg tea.MouseMsg) (appModel, tea.Cmd) {
	pt := gesture.Point{X: msg.X, Y: msg.Y}
	now := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		g := m.geometry()
		if m.menuOpen {
			if k, ok := m.menuRowAt(msg); ok {
				m.closeMenu()
				m.nav.Activate(k)
				return m, nil
			}
			if g.onTrigger(msg.X, msg.Y) {
				m.closeMenu()
				return m, nil
			}
			m.closeMenu()
		}
		if g.onTrigger(msg.X, msg.Y) || m.zones.Get(m.triggerZone()).InBounds(msg) {
			m.openMenu()
			return m, nil
		}
		if msg.Y != stripRow {
			return m, nil
		}
		c, ok := g.tabAt(msg.X)
		if !ok {
			return m, nil
		}
		if msg.X >= c.pinX0 && msg.X < c.pinX1 {
			m.reg.TogglePin(c.key)
			return m, nil
		}
		if !m.drag.Press(c.key, pt, gesture.Pointer, now) {
			// Pinned tabs can't be dragged: the press is a plain click.
			m.nav.Activate(c.key)
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.State() == gesture.Idle {
			return m, nil
		}
		if m.drag.Move(pt, now) == gesture.Dragging {
			m.drag.Hover(m.dropKeyAt(msg))
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag.State() == gesture.Idle {
			return m, nil
		}
		out := m.drag.Release(m.dropKeyAt(msg), now)
		switch out.Kind {
		case gesture.Click:
			m.nav.Activate(out.Source)
		case gesture.Cancelled:
			return m, m.showMinibuffer("Move cancelled")
		}
		return m, nil
	}
	return m, nil
}

// dropKeyAt resolves the tab under the pointer. The proxy row counts as the
// strip so a drag does not have to hit the exact row.
func (m appModel) dropKeyAt(msg tea.MouseMsg) string {
	if msg.Y != stripRow && msg.Y != ruleRow {
		return ""
	}
	c, ok := m.geometry().tabAt(msg.X)
	if !ok {
		return ""
	}
	return c.key
}
