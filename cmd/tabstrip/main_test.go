package main

import (
	"reflect"
	"testing"
)

func TestRewriteTabShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tabstrip"},
			want: []string{"tabstrip"},
		},
		{
			name: "verb first token",
			in:   []string{"tabstrip", "move", "2", "4"},
			want: []string{"tabstrip", "tabs", "move", "2", "4"},
		},
		{
			name: "verb after value flag",
			in:   []string{"tabstrip", "--dir", "./tmp-test-ws", "list"},
			want: []string{"tabstrip", "--dir", "./tmp-test-ws", "tabs", "list"},
		},
		{
			name: "verb after equals flag",
			in:   []string{"tabstrip", "--backend=sqlite", "pin", "3"},
			want: []string{"tabstrip", "--backend=sqlite", "tabs", "pin", "3"},
		},
		{
			name: "verb after bool flag",
			in:   []string{"tabstrip", "--pretty", "layout", "--width", "40"},
			want: []string{"tabstrip", "--pretty", "tabs", "layout", "--width", "40"},
		},
		{
			name: "value flag value looks like a verb",
			in:   []string{"tabstrip", "--dir", "list"},
			want: []string{"tabstrip", "--dir", "list"},
		},
		{
			name: "double dash stops",
			in:   []string{"tabstrip", "--", "move", "1", "2"},
			want: []string{"tabstrip", "--", "move", "1", "2"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"tabstrip", "tabs", "reset"},
			want: []string{"tabstrip", "tabs", "reset"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"tabstrip", "wat"},
			want: []string{"tabstrip", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteTabShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteTabShortcutArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
