package tui

import (
	"strings"

	"tabstrip/internal/gesture"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	res := m.engine.Result()
	g := m.geometry()

	st := stripState{active: m.activeKey(), menuOpen: m.menuOpen}
	proxyLabel, proxyX := "", 0
	if m.drag.State() == gesture.Dragging {
		st.dragSource, _ = m.drag.Source()
		st.dropTarget, _ = m.drag.Target()
		if p, ok := m.drag.Proxy(); ok {
			proxyLabel = proxyContent(p)
			proxyX = p.At.X
		}
	}
	markTrigger := func(s string) string { return m.zones.Mark(m.triggerZone(), s) }
	strip := renderStrip(res, g, m.width, st, markTrigger)
	ruleTrigger := ""
	if g.hasTrigger && g.triggerRow == ruleRow {
		ruleTrigger = renderTrigger(res, g, st, markTrigger)
	}
	rule := renderRule(m.width, proxyLabel, proxyX, ruleTrigger)

	footer := m.renderFooter()
	bodyH := m.height - 2 - lipgloss.Height(footer)
	if bodyH < 0 {
		bodyH = 0
	}

	bodyW := m.width
	menu := ""
	if m.menuOpen {
		menu = m.renderMenu()
		bodyW -= lipgloss.Width(menu)
		if bodyW < 0 {
			bodyW = 0
		}
	}
	body := normalizePane(renderMarkdown(pageMarkdown(m.reg.Tabs(), m.router.CurrentRoute()), bodyW), bodyW, bodyH)
	if menu != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, normalizePane(menu, m.width-bodyW, bodyH))
	}

	parts := []string{strip, rule}
	if bodyH > 0 {
		parts = append(parts, body)
	}
	parts = append(parts, footer)
	return m.zones.Scan(strings.Join(parts, "\n"))
}

func proxyContent(p gesture.Proxy) string {
	label := p.Label
	if strings.TrimSpace(label) == "" {
		label = p.Key
	}
	if icon := glyphIcon(p.Icon); icon != "" {
		return icon + " " + label
	}
	return label
}

func (m appModel) renderFooter() string {
	if m.resizing {
		return normalizePane(styleMuted.Render("Resizing…"), m.width, 1)
	}
	if m.minibufferText != "" {
		return normalizePane(styleMuted.Render(m.minibufferText), m.width, 1)
	}
	return normalizePane(m.help.View(m.keys), m.width, 0)
}
