package cli

import (
	"fmt"
	"strings"
)

type notFoundError struct {
	kind        string
	id          string
	suggestions []string
}

func (e notFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.kind, e.id)
	if len(e.suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.suggestions), " or "))
	}
	return msg
}

func errNotFound(kind, id string, suggestions ...string) error {
	return notFoundError{kind: kind, id: id, suggestions: suggestions}
}

type pinnedError struct {
	key string
}

func (e pinnedError) Error() string {
	return fmt.Sprintf("tab %s is pinned and cannot take part in a move", e.key)
}

func quoteAll(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprintf("%q", x)
	}
	return out
}
