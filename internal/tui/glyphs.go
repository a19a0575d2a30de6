package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for the strip affordances (pin marker,
// overflow trigger, tab icons).

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// ApplyGlyphPreference selects the glyph set from pref (auto|unicode|ascii).
// With "auto" the TABSTRIP_TUI_GLYPHS env var decides, defaulting to Unicode.
func ApplyGlyphPreference(pref string) {
	v := strings.ToLower(strings.TrimSpace(pref))
	if v == "" || v == "auto" {
		v = strings.ToLower(strings.TrimSpace(os.Getenv("TABSTRIP_TUI_GLYPHS")))
	}
	switch v {
	case "", "auto", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphsName(gs glyphSet) string {
	switch gs {
	case glyphSetASCII:
		return "ASCII"
	default:
		return "Unicode"
	}
}

func glyphPin(pinned bool) string {
	if glyphs() == glyphSetASCII {
		if pinned {
			return "*"
		}
		return "-"
	}
	if pinned {
		return "◆"
	}
	return "◇"
}

func glyphOverflow() string {
	if glyphs() == glyphSetASCII {
		return ">>"
	}
	return "»"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

var iconGlyphs = map[string][2]string{
	// handle: {unicode, ascii}
	"home":     {"⌂", "H"},
	"docs":     {"≡", "="},
	"book":     {"≡", "="},
	"star":     {"★", "*"},
	"code":     {"λ", "<>"},
	"chart":    {"▤", "#"},
	"search":   {"⌕", "?"},
	"settings": {"⚙", "%"},
	"inbox":    {"▭", "[]"},
}

// glyphIcon resolves an icon handle. Unknown or empty handles render nothing.
func glyphIcon(handle string) string {
	g, ok := iconGlyphs[strings.ToLower(strings.TrimSpace(handle))]
	if !ok {
		return ""
	}
	if glyphs() == glyphSetASCII {
		return g[1]
	}
	return g[0]
}
