package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate keeps tests away from the user's config and data dirs.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("TABSTRIP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("TABSTRIP_DIR", "")
	t.Setenv("TABSTRIP_FORMAT", "")
	t.Setenv("TABSTRIP_TUI_GLYPHS", "ascii")
	return t.TempDir()
}

func decodeEnvelope(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	return env
}

func dataKeys(t *testing.T, env map[string]any) []string {
	t.Helper()
	rows, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data array; got %#v", env["data"])
	}
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		m, _ := r.(map[string]any)
		k, _ := m["key"].(string)
		keys = append(keys, k)
	}
	return keys
}

func TestTabsList_Defaults(t *testing.T) {
	dir := isolate(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "tabs", "list"})
	if err != nil {
		t.Fatalf("tabs list: %v", err)
	}
	env := decodeEnvelope(t, out)
	if diff := cmp.Diff([]string{"1", "2", "3", "4", "5"}, dataKeys(t, env)); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
	meta, _ := env["meta"].(map[string]any)
	if meta["source"] != "default" {
		t.Fatalf("expected default source; got %#v", meta)
	}
}

func TestTabsMove_PersistsAcrossInvocations(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := isolate(t)
			base := []string{"--dir", dir, "--backend", backend}

			out, _, err := runCLI(t, append(base, "tabs", "move", "2", "4"))
			if err != nil {
				t.Fatalf("tabs move: %v", err)
			}
			want := []string{"1", "3", "4", "2", "5"}
			if diff := cmp.Diff(want, dataKeys(t, decodeEnvelope(t, out))); diff != "" {
				t.Fatalf("unexpected order (-want +got):\n%s", diff)
			}

			out, _, err = runCLI(t, append(base, "tabs", "list"))
			if err != nil {
				t.Fatalf("tabs list: %v", err)
			}
			env := decodeEnvelope(t, out)
			if diff := cmp.Diff(want, dataKeys(t, env)); diff != "" {
				t.Fatalf("order not persisted (-want +got):\n%s", diff)
			}
			if meta, _ := env["meta"].(map[string]any); meta["source"] != "stored" {
				t.Fatalf("expected stored source; got %#v", meta)
			}
		})
	}
}

func TestTabsMove_ByLabel(t *testing.T) {
	dir := isolate(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "tabs", "move", "tab 5", "Tab 1"})
	if err != nil {
		t.Fatalf("tabs move: %v", err)
	}
	if diff := cmp.Diff([]string{"5", "1", "2", "3", "4"}, dataKeys(t, decodeEnvelope(t, out))); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestTabsMove_UnknownTabSuggests(t *testing.T) {
	dir := isolate(t)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "tabs", "move", "Tab 9", "1"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := err.(notFoundError); !ok {
		t.Fatalf("expected notFoundError; got %T", err)
	}
	if !strings.Contains(string(stderr), "did you mean") {
		t.Fatalf("expected suggestion on stderr; got %q", stderr)
	}
}

func TestTabsPin_ThenMoveIsRefused(t *testing.T) {
	dir := isolate(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "tabs", "pin", "3"})
	if err != nil {
		t.Fatalf("tabs pin: %v", err)
	}
	env := decodeEnvelope(t, out)
	tab, _ := env["data"].(map[string]any)
	if tab["key"] != "3" || tab["pinned"] != true {
		t.Fatalf("expected tab 3 pinned; got %#v", tab)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "tabs", "move", "3", "1"})
	if _, ok := err.(pinnedError); !ok {
		t.Fatalf("expected pinnedError moving a pinned tab; got %v", err)
	}
	_, _, err = runCLI(t, []string{"--dir", dir, "tabs", "move", "1", "3"})
	if _, ok := err.(pinnedError); !ok {
		t.Fatalf("expected pinnedError dropping onto a pinned tab; got %v", err)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "tabs", "pin", "3"})
	if err != nil {
		t.Fatalf("tabs pin (toggle back): %v", err)
	}
	tab, _ = decodeEnvelope(t, out)["data"].(map[string]any)
	if tab["pinned"] != false {
		t.Fatalf("expected tab 3 unpinned; got %#v", tab)
	}
}

func TestTabsReset(t *testing.T) {
	dir := isolate(t)
	if _, _, err := runCLI(t, []string{"--dir", dir, "tabs", "move", "1", "5"}); err != nil {
		t.Fatalf("tabs move: %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "tabs", "reset"}); err != nil {
		t.Fatalf("tabs reset: %v", err)
	}
	out, _, err := runCLI(t, []string{"--dir", dir, "tabs", "list"})
	if err != nil {
		t.Fatalf("tabs list: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4", "5"}, dataKeys(t, decodeEnvelope(t, out))); diff != "" {
		t.Fatalf("unexpected order after reset (-want +got):\n%s", diff)
	}
}

func TestTabsList_DiscardsMalformedStore(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "tabOrder.json"), []byte(`{"version":1,"tabs":[{"key":"a"},{"key":"a"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err := runCLI(t, []string{"--dir", dir, "tabs", "list"})
	if err != nil {
		t.Fatalf("tabs list: %v", err)
	}
	env := decodeEnvelope(t, out)
	if diff := cmp.Diff([]string{"1", "2", "3", "4", "5"}, dataKeys(t, env)); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
	if meta, _ := env["meta"].(map[string]any); !strings.Contains(meta["source"].(string), "discarded") {
		t.Fatalf("expected discarded source; got %#v", meta)
	}
}

func TestTabsLayout(t *testing.T) {
	dir := isolate(t)
	out, _, err := runCLI(t, []string{
		"--dir", dir, "tabs", "layout",
		"--width", "45", "--reserve", "5",
		"--widths", "1=10,2=10,3=10,4=10,5=10",
	})
	if err != nil {
		t.Fatalf("tabs layout: %v", err)
	}
	env := decodeEnvelope(t, out)
	data, _ := env["data"].(map[string]any)
	got := map[string]any{"visible": data["visible"], "overflow": data["overflow"]}
	want := map[string]any{
		"visible":  []any{"1", "2", "3", "4"},
		"overflow": []any{"5"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected partition (-want +got):\n%s", diff)
	}
}

func TestTabsLayout_MeasuredWidthsAndPins(t *testing.T) {
	dir := isolate(t)
	if _, _, err := runCLI(t, []string{"--dir", dir, "tabs", "pin", "5"}); err != nil {
		t.Fatalf("tabs pin: %v", err)
	}
	// ASCII cells are 9 columns wide, the trigger reserve is 6.
	out, _, err := runCLI(t, []string{"--dir", dir, "tabs", "layout", "--width", "30"})
	if err != nil {
		t.Fatalf("tabs layout: %v", err)
	}
	data, _ := decodeEnvelope(t, out)["data"].(map[string]any)
	if diff := cmp.Diff([]any{"1", "2", "5"}, data["visible"]); diff != "" {
		t.Fatalf("unexpected visible (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"3", "4"}, data["overflow"]); diff != "" {
		t.Fatalf("unexpected overflow (-want +got):\n%s", diff)
	}
}

func TestTabsLayout_RejectsBadWidths(t *testing.T) {
	dir := isolate(t)
	for _, arg := range []string{"1=", "=3", "zz=4", "1=-2"} {
		if _, _, err := runCLI(t, []string{"--dir", dir, "tabs", "layout", "--widths", arg}); err == nil {
			t.Fatalf("expected error for --widths %q", arg)
		}
	}
}

func TestConfigShow_MergesFileAndFlags(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[storage]\nbackend = \"sqlite\"\n[ui]\nglyphs = \"ascii\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, err := runCLI(t, []string{"--config", cfgPath, "--dir", dir, "--backend", "file", "config", "show"})
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	env := decodeEnvelope(t, out)
	data, _ := env["data"].(map[string]any)
	storage, _ := data["storage"].(map[string]any)
	ui, _ := data["ui"].(map[string]any)
	if storage["backend"] != "file" || storage["dir"] != dir {
		t.Fatalf("flags must override the file; got %#v", storage)
	}
	if ui["glyphs"] != "ascii" {
		t.Fatalf("expected glyphs from file; got %#v", ui)
	}
	if meta, _ := env["meta"].(map[string]any); meta["file"] != cfgPath {
		t.Fatalf("expected config file in meta; got %#v", meta)
	}
}

func TestFormats(t *testing.T) {
	dir := isolate(t)
	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "tabs", "list"})
	if err != nil {
		t.Fatalf("tabs list --format yaml: %v", err)
	}
	if !strings.HasPrefix(string(out), "data:\n") || !strings.Contains(string(out), "key: \"1\"") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "--format", "edn", "tabs", "list"})
	if err != nil {
		t.Fatalf("tabs list --format edn: %v", err)
	}
	if !strings.HasPrefix(string(out), "{:data [{") {
		t.Fatalf("unexpected edn:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "xml", "tabs", "list"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestInvalidBackend(t *testing.T) {
	dir := isolate(t)
	if _, _, err := runCLI(t, []string{"--dir", dir, "--backend", "redis", "tabs", "list"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLogFile(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(t.TempDir(), "tabstrip.log")
	if _, _, err := runCLI(t, []string{"--dir", dir, "--log-file", logPath, "tabs", "move", "1", "2"}); err != nil {
		t.Fatalf("tabs move: %v", err)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestLogFile_ClosedWhenCommandFails(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(t.TempDir(), "tabstrip.log")

	app := &App{log: logr.Discard()}
	cmd := newRootCmd(app)
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs([]string{"--dir", dir, "--log-file", logPath, "tabs", "move", "nope", "1"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown tab")
	}
	if app.closeLog != nil {
		t.Fatalf("expected the log file to be closed after a failed command")
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}
