package main

import (
	"os"
	"strings"

	"tabstrip/internal/cli"
)

// tabVerbs are the `tabs` subcommands that may also be used at the top level.
var tabVerbs = map[string]bool{
	"list":   true,
	"move":   true,
	"pin":    true,
	"reset":  true,
	"layout": true,
}

func rewriteTabShortcutArgs(argv []string) []string {
	// Convenience: `tabstrip move 2 4` works like `tabstrip tabs move 2 4`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `tabstrip --dir ... move 2 4`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":   true,
		"--dir":      true,
		"--backend":  true,
		"--log-file": true,
		"--format":   true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if !tabVerbs[a] {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "tabs")
		out = append(out, argv[i:]...)
		return out
	}
	return argv
}

func main() {
	os.Args = rewriteTabShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
