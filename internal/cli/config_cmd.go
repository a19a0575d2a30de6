package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (defaults, file, env and flags merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.cfg
			dir, err := app.storeDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"storage": map[string]any{
						"backend": c.Storage.Backend,
						"dir":     dir,
					},
					"gesture": map[string]any{
						"pointer_distance": c.Gesture.PointerDistance,
						"touch_delay":      c.Gesture.TouchDelay.String(),
						"touch_tolerance":  c.Gesture.TouchTolerance,
					},
					"layout": map[string]any{
						"reserve_overflow": c.Layout.ReserveOverflow,
					},
					"ui": map[string]any{
						"resize_debounce": c.UI.ResizeDebounce.String(),
						"glyphs":          c.UI.Glyphs,
					},
					"log": map[string]any{
						"file":  c.Log.File,
						"level": c.Log.Level,
					},
					"tabs": c.SeedTabs(),
				},
				"meta": map[string]any{"file": c.File},
			})
		},
	})
	return cmd
}
