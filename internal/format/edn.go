package format

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes the EDN subset our payloads need: maps with keyword keys,
// vectors, strings, integers, floats, booleans and nil. Keys come from json
// tags and are kebab-cased ("activeKey" becomes :active-key).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	p := ednPrinter{pretty: pretty}
	p.value(x, 0)
	p.sb.WriteByte('\n')
	_, err = io.WriteString(w, p.sb.String())
	return err
}

type ednPrinter struct {
	sb     strings.Builder
	pretty bool
}

func (p *ednPrinter) value(x any, depth int) {
	switch t := x.(type) {
	case nil:
		p.sb.WriteString("nil")
	case bool:
		p.sb.WriteString(strconv.FormatBool(t))
	case string:
		p.sb.WriteString(strconv.Quote(t))
	case int64:
		p.sb.WriteString(strconv.FormatInt(t, 10))
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		p.sb.WriteString(s)
	case []any:
		p.seq('[', ']', len(t), depth, func(i int) { p.value(t[i], depth+1) })
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		p.seq('{', '}', len(keys), depth, func(i int) {
			p.sb.WriteString(keyword(keys[i]))
			p.sb.WriteByte(' ')
			p.value(t[keys[i]], depth+1)
		})
	default:
		p.sb.WriteString(strconv.Quote(fmt.Sprint(t)))
	}
}

// seq writes n elements between open and close, one per line when pretty.
func (p *ednPrinter) seq(open, close byte, n, depth int, elem func(i int)) {
	p.sb.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case p.pretty:
			p.sb.WriteByte('\n')
			p.sb.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			p.sb.WriteByte(' ')
		}
		elem(i)
	}
	if p.pretty && n > 0 {
		p.sb.WriteByte('\n')
		p.sb.WriteString(strings.Repeat("  ", depth))
	}
	p.sb.WriteByte(close)
}

func keyword(s string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
