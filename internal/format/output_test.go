package format

import (
	"bytes"
	"testing"
)

type payload struct {
	Data any `json:"data"`
}

type row struct {
	Key       string  `json:"key"`
	Pinned    bool    `json:"pinned"`
	Width     int     `json:"width"`
	Ratio     float64 `json:"ratio"`
	ActiveKey *string `json:"activeKey"`
}

func TestWrite_Formats(t *testing.T) {
	v := payload{Data: []row{{Key: "a", Pinned: true, Width: 12, Ratio: 0.5}}}
	cases := []struct {
		format string
		pretty bool
		want   string
	}{
		{format: "json", want: `{"data":[{"key":"a","pinned":true,"width":12,"ratio":0.5,"activeKey":null}]}` + "\n"},
		{format: "", want: `{"data":[{"key":"a","pinned":true,"width":12,"ratio":0.5,"activeKey":null}]}` + "\n"},
		{format: "edn", want: `{:data [{:active-key nil :key "a" :pinned true :ratio 0.5 :width 12}]}` + "\n"},
		{format: "edn", pretty: true, want: "{\n  :data [\n    {\n      :active-key nil\n      :key \"a\"\n      :pinned true\n      :ratio 0.5\n      :width 12\n    }\n  ]\n}\n"},
		{format: "yaml", want: "data:\n  - activeKey: null\n    key: a\n    pinned: true\n    ratio: 0.5\n    width: 12\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := Write(&buf, v, tc.format, tc.pretty); err != nil {
			t.Fatalf("Write(%q): %v", tc.format, err)
		}
		if got := buf.String(); got != tc.want {
			t.Fatalf("Write(%q, pretty=%v):\nwant %q\ngot  %q", tc.format, tc.pretty, tc.want, got)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, payload{}, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteEDN_EmptyCollections(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"tabs": []any{}, "meta": map[string]any{}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :meta {}\n  :tabs []\n}\n"
	if buf.String() != want {
		t.Fatalf("want %q\ngot  %q", want, buf.String())
	}
}
