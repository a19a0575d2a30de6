package tui

import (
	"fmt"
	"strings"

	"tabstrip/internal/model"
)

// pageMarkdown returns the body for route. Routes that no tab points at get a
// "not found" page.
func pageMarkdown(tabs []model.Tab, route string) string {
	i := -1
	for j, t := range tabs {
		if t.URL == route {
			i = j
			break
		}
	}
	if i < 0 {
		return fmt.Sprintf("# Not found\n\nNothing lives at `%s`.\n\nPick a tab above, or press `o` to browse hidden tabs.", route)
	}
	t := tabs[i]
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Label)
	fmt.Fprintf(&b, "Route `%s` · position %d of %d", t.URL, i+1, len(tabs))
	if t.Pinned {
		b.WriteString(" · pinned")
	}
	b.WriteString("\n\n")
	b.WriteString("- Drag a tab onto another tab to move it there.\n")
	b.WriteString("- Click the pin marker (or press `p`) to keep a tab on screen.\n")
	b.WriteString("- `[` and `]` move the active tab one slot.\n")
	return b.String()
}
