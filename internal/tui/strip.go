package tui

import (
	"fmt"
	"strings"

	"tabstrip/internal/layout"
	"tabstrip/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// tabContent is the unstyled cell text: "[icon] label pin".
func tabContent(t model.Tab) string {
	parts := make([]string, 0, 3)
	if icon := glyphIcon(t.Icon); icon != "" {
		parts = append(parts, icon)
	}
	label := t.Label
	if strings.TrimSpace(label) == "" {
		label = t.Key
	}
	parts = append(parts, label, glyphPin(t.Pinned))
	return strings.Join(parts, " ")
}

// MeasureTabs returns the rendered cell width of every tab using the current
// glyph set.
func MeasureTabs(tabs []model.Tab) map[string]int {
	out := make(map[string]int, len(tabs))
	for _, t := range tabs {
		out[t.Key] = lipgloss.Width(styleTab.Render(tabContent(t)))
	}
	return out
}

func triggerText(n int) string {
	return fmt.Sprintf("%s %d", glyphOverflow(), n)
}

// OverflowReserve is the width set aside for the overflow trigger when up to
// total tabs can overflow.
func OverflowReserve(total int) int {
	if total < 1 {
		total = 1
	}
	return lipgloss.Width(styleTrigger.Render(triggerText(total)))
}

// cellHit is the horizontal extent of one rendered tab cell. pinX0/pinX1
// bound the pin glyph inside it. Ranges are half-open.
type cellHit struct {
	key          string
	x0, x1       int
	pinX0, pinX1 int
}

type stripGeometry struct {
	cells      []cellHit
	triggerX0  int
	triggerX1  int
	triggerRow int
	hasTrigger bool
}

// computeGeometry lays the visible cells out left to right from column 0 and puts
// the trigger flush with the right edge. It matches what renderStrip and
// renderRule draw.
func computeGeometry(res layout.Result, widths map[string]int, width, reserve int) stripGeometry {
	var g stripGeometry
	x := 0
	for _, t := range res.Visible {
		w := widths[t.Key]
		pinW := lipgloss.Width(glyphPin(t.Pinned))
		// Right padding is one cell.
		pinX1 := x + w - 1
		g.cells = append(g.cells, cellHit{
			key:   t.Key,
			x0:    x,
			x1:    x + w,
			pinX0: pinX1 - pinW,
			pinX1: pinX1,
		})
		x += w
	}
	if res.HasOverflow() {
		g.hasTrigger = true
		g.triggerRow = stripRow
		g.triggerX1 = width
		g.triggerX0 = width - reserve
		if g.triggerX0 < x {
			// No room left on the strip (pinned tabs past the edge, or no
			// reserve kept): the trigger moves to the rule row.
			g.triggerRow = ruleRow
			if g.triggerX0 < 0 {
				g.triggerX0 = 0
			}
		}
	}
	return g
}

// tabAt returns the tab under column x on the strip row.
func (g stripGeometry) tabAt(x int) (cellHit, bool) {
	for _, c := range g.cells {
		if x >= c.x0 && x < c.x1 {
			return c, true
		}
	}
	return cellHit{}, false
}

func (g stripGeometry) onTrigger(x, y int) bool {
	return g.hasTrigger && y == g.triggerRow && x >= g.triggerX0 && x < g.triggerX1
}

type stripState struct {
	active     string
	dragSource string
	dropTarget string
	menuOpen   bool
}

// markTrigger wraps the trigger text, e.g. in a mouse zone.
func renderStrip(res layout.Result, g stripGeometry, width int, st stripState, markTrigger func(string) string) string {
	var b strings.Builder
	x := 0
	for _, t := range res.Visible {
		style := styleTab
		switch t.Key {
		case st.dropTarget:
			style = styleTabDropTarget
		case st.dragSource:
			style = styleTabDragSource
		case st.active:
			style = styleTabActive
		}
		cell := style.Render(tabContent(t))
		b.WriteString(cell)
		x += lipgloss.Width(cell)
	}
	if g.hasTrigger && g.triggerRow == stripRow {
		if gap := g.triggerX0 - x; gap > 0 {
			b.WriteString(strings.Repeat(" ", gap))
		}
		b.WriteString(renderTrigger(res, g, st, markTrigger))
	}
	return normalizePane(b.String(), width, 1)
}

func renderTrigger(res layout.Result, g stripGeometry, st stripState, markTrigger func(string) string) string {
	style := styleTrigger
	if st.menuOpen || overflowContains(res, st.active) {
		style = styleTriggerActive
	}
	trigger := style.Width(g.triggerX1 - g.triggerX0).Align(lipgloss.Right).Render(triggerText(len(res.Overflow)))
	if markTrigger != nil {
		trigger = markTrigger(trigger)
	}
	return trigger
}

func overflowContains(res layout.Result, key string) bool {
	if key == "" {
		return false
	}
	return model.IndexOf(res.Overflow, key) >= 0
}

// renderRule draws the row under the strip. While dragging, the proxy label
// floats at the pointer column. A trigger that did not fit on the strip sits
// at the right end.
func renderRule(width int, proxyLabel string, proxyX int, trigger string) string {
	if width <= 0 {
		return ""
	}
	if trigger != "" {
		tw := lipgloss.Width(trigger)
		if tw >= width {
			return normalizePane(trigger, width, 1)
		}
		return renderRule(width-tw, proxyLabel, proxyX, "") + trigger
	}
	rule := styleRule.Render(strings.Repeat(glyphHRule(), width))
	if proxyLabel == "" {
		return rule
	}
	proxy := styleProxy.Render(proxyLabel)
	pw := lipgloss.Width(proxy)
	if proxyX+pw > width {
		proxyX = width - pw
	}
	if proxyX < 0 {
		proxyX = 0
	}
	left := styleRule.Render(strings.Repeat(glyphHRule(), proxyX))
	rightW := width - proxyX - pw
	right := ""
	if rightW > 0 {
		right = styleRule.Render(strings.Repeat(glyphHRule(), rightW))
	}
	return normalizePane(left+proxy+right, width, 1)
}
