package layout

import "tabstrip/internal/model"

// Result is an order-stable split of a tab sequence.
type Result struct {
	Visible  []model.Tab
	Overflow []model.Tab
}

// HasOverflow reports whether any tab was moved to the overflow menu.
func (r Result) HasOverflow() bool { return len(r.Overflow) > 0 }

// VisibleKeys returns the keys of the visible tabs in order.
func (r Result) VisibleKeys() []string { return model.Keys(r.Visible) }

// OverflowKeys returns the keys of the overflowed tabs in order.
func (r Result) OverflowKeys() []string { return model.Keys(r.Overflow) }

// Partition splits tabs into visible and overflow subsequences in one greedy
// pass over the sequence.
//
// Pinned tabs are always visible and their widths still count against the
// running total. An unpinned tab is visible when the running total plus its
// width stays within the threshold; otherwise it overflows and the total is
// left unchanged. Space freed by an overflowed tab is never revisited.
//
// widths maps tab keys to measured widths. A tab without an entry has not been
// measured yet: it counts as zero and stays visible for this pass.
// When the sum of all widths exceeds available, reserve (the width of the
// overflow trigger) is subtracted from the threshold once, before the scan.
func Partition(tabs []model.Tab, widths map[string]int, available, reserve int) Result {
	threshold := available
	if reserve > 0 && totalWidth(tabs, widths) > available {
		threshold -= reserve
	}

	res := Result{
		Visible:  make([]model.Tab, 0, len(tabs)),
		Overflow: []model.Tab{},
	}
	acc := 0
	for _, t := range tabs {
		w := widthOf(widths, t.Key)
		if t.Pinned {
			res.Visible = append(res.Visible, t)
			acc += w
			continue
		}
		if _, measured := widths[t.Key]; !measured {
			res.Visible = append(res.Visible, t)
			continue
		}
		if acc+w <= threshold {
			res.Visible = append(res.Visible, t)
			acc += w
			continue
		}
		res.Overflow = append(res.Overflow, t)
	}
	return res
}

func totalWidth(tabs []model.Tab, widths map[string]int) int {
	total := 0
	for _, t := range tabs {
		total += widthOf(widths, t.Key)
	}
	return total
}

func widthOf(widths map[string]int, key string) int {
	w, ok := widths[key]
	if !ok || w < 0 {
		return 0
	}
	return w
}
