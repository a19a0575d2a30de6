package cli

import (
	"sort"
	"strings"

	"tabstrip/internal/model"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// resolveTab finds a tab by key, then by case-insensitive label.
func resolveTab(tabs []model.Tab, ref string) (model.Tab, error) {
	ref = strings.TrimSpace(ref)
	if i := model.IndexOf(tabs, ref); i >= 0 {
		return tabs[i], nil
	}
	for _, t := range tabs {
		if strings.EqualFold(strings.TrimSpace(t.Label), ref) {
			return t, nil
		}
	}
	return model.Tab{}, errNotFound("tab", ref, suggestTabs(tabs, ref)...)
}

// suggestTabs returns up to two keys/labels within a small edit distance of
// ref. Abbreviations ("dshbrd") fall back to subsequence matching.
func suggestTabs(tabs []model.Tab, ref string) []string {
	type cand struct {
		name string
		dist int
	}
	needle := strings.ToLower(ref)
	maxDist := 2
	if len(needle) > 8 {
		maxDist = 3
	}
	seen := map[string]bool{}
	var names []string
	var cands []cand
	for _, t := range tabs {
		for _, name := range []string{t.Key, t.Label} {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
			if d := levenshtein.ComputeDistance(needle, strings.ToLower(name)); d <= maxDist {
				cands = append(cands, cand{name: name, dist: d})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	out := make([]string, 0, 2)
	for _, c := range cands {
		if len(out) == 2 {
			break
		}
		out = append(out, c.name)
	}
	if len(out) > 0 || needle == "" {
		return out
	}
	for _, m := range fuzzy.Find(needle, names) {
		if len(out) == 2 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
