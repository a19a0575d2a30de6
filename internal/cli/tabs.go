package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tabstrip/internal/layout"
	"tabstrip/internal/model"
	"tabstrip/internal/registry"
	"tabstrip/internal/store"
	"tabstrip/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// syncSaver persists immediately so the CLI can report write failures.
type syncSaver struct {
	ctx   context.Context
	order store.TabOrder
	err   error
}

func (s *syncSaver) Save(tabs []model.Tab) {
	s.err = multierr.Append(s.err, s.order.Save(s.ctx, tabs))
}

func newTabsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Inspect and rearrange the persisted tab order",
	}
	cmd.AddCommand(newTabsListCmd(app))
	cmd.AddCommand(newTabsMoveCmd(app))
	cmd.AddCommand(newTabsPinCmd(app))
	cmd.AddCommand(newTabsResetCmd(app))
	cmd.AddCommand(newTabsLayoutCmd(app))
	return cmd
}

func newTabsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tabs in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			reg, order, closeKV, err := app.openTabs(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeKV()

			_, persisted, readErr := order.Read(ctx)
			source := "default"
			switch {
			case readErr != nil:
				source = "default (stored order discarded)"
			case persisted:
				source = "stored"
			}
			return writeOut(cmd, app, map[string]any{
				"data": reg.Tabs(),
				"meta": map[string]any{"source": source},
			})
		},
	}
}

func newTabsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <source> <target>",
		Short: "Move a tab into the slot of another tab",
		Long:  "Moves <source> into the position currently held by <target>; tabs in between shift by one. Both may be given by key or label. A pinned tab can be neither source nor target; one lying in between shifts like any other tab.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			saver := &syncSaver{ctx: ctx}
			reg, order, closeKV, err := app.openTabs(ctx, registry.WithSaver(saver))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeKV()
			saver.order = order

			tabs := reg.Tabs()
			src, err := resolveTab(tabs, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			tgt, err := resolveTab(tabs, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if src.Pinned {
				return writeErr(cmd, pinnedError{key: src.Key})
			}
			if tgt.Pinned {
				return writeErr(cmd, pinnedError{key: tgt.Key})
			}
			moved := reg.Reorder(src.Key, tgt.Key)
			if saver.err != nil {
				return writeErr(cmd, fmt.Errorf("save tab order: %w", saver.err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": reg.Tabs(),
				"meta": map[string]any{"moved": moved, "source": src.Key, "target": tgt.Key},
			})
		},
	}
}

func newTabsPinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <tab>",
		Short: "Toggle the pinned flag of a tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			saver := &syncSaver{ctx: ctx}
			reg, order, closeKV, err := app.openTabs(ctx, registry.WithSaver(saver))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeKV()
			saver.order = order

			t, err := resolveTab(reg.Tabs(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			reg.TogglePin(t.Key)
			if saver.err != nil {
				return writeErr(cmd, fmt.Errorf("save tab order: %w", saver.err))
			}
			updated, _ := reg.Tab(t.Key)
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}
}

func newTabsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the stored order with the configured seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			_, order, closeKV, err := app.openTabs(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeKV()

			seed := app.cfg.SeedTabs()
			if err := order.Save(ctx, seed); err != nil {
				return writeErr(cmd, fmt.Errorf("save tab order: %w", err))
			}
			return writeOut(cmd, app, map[string]any{"data": seed})
		},
	}
}

func newTabsLayoutCmd(app *App) *cobra.Command {
	var (
		width     int
		reserve   int
		widthsArg string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show which tabs are visible and which overflow at a given width",
		Long:  "Partitions the stored tab order for a container of --width columns. Tab widths default to the rendered cell widths and can be overridden with --widths key=w,...",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			reg, _, closeKV, err := app.openTabs(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeKV()

			if width < 0 {
				return writeErr(cmd, fmt.Errorf("--width must not be negative"))
			}
			overrides, err := parseWidths(widthsArg)
			if err != nil {
				return writeErr(cmd, err)
			}

			tabs := reg.Tabs()
			tui.ApplyGlyphPreference(app.cfg.UI.Glyphs)
			widths := tui.MeasureTabs(tabs)
			for k, w := range overrides {
				if model.IndexOf(tabs, k) < 0 {
					return writeErr(cmd, errNotFound("tab", k, suggestTabs(tabs, k)...))
				}
				widths[k] = w
			}

			r := 0
			if app.cfg.Layout.ReserveOverflow {
				r = tui.OverflowReserve(len(tabs))
			}
			if cmd.Flags().Changed("reserve") {
				r = reserve
			}

			res := layout.Partition(tabs, widths, width, r)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"visible":  res.VisibleKeys(),
					"overflow": res.OverflowKeys(),
				},
				"meta": map[string]any{
					"width":   width,
					"reserve": r,
					"widths":  widths,
				},
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Container width in columns")
	cmd.Flags().IntVar(&reserve, "reserve", 0, "Width reserved for the overflow trigger (default: measured trigger width)")
	cmd.Flags().StringVar(&widthsArg, "widths", "", "Per-tab widths, e.g. 1=12,2=9")
	return cmd
}

// parseWidths parses "k=w,k=w".
func parseWidths(s string) (map[string]int, error) {
	out := map[string]int{}
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --widths entry %q (expected key=width)", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid width for %q: %q", k, v)
		}
		out[k] = n
	}
	return out, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
