package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"tabstrip/internal/config"
	"tabstrip/internal/format"
	"tabstrip/internal/logging"
	"tabstrip/internal/registry"
	"tabstrip/internal/store"
	"tabstrip/internal/tui"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type App struct {
	ConfigPath string
	Dir        string
	Backend    string
	LogFile    string
	PrettyJSON bool
	Format     string

	cfg      config.Config
	log      logr.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{log: logr.Discard()})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tabstrip",
		Short:        "Reorderable, pinnable tab strip (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive tab strip
  tabstrip

  # Scriptable commands
  tabstrip tabs list
  tabstrip tabs move 2 4
  tabstrip tabs pin "Tab 3"

  # Which tabs fit into 40 columns?
  tabstrip tabs layout --width 40
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TABSTRIP_CONFIG", ""), "Path to config.toml")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TABSTRIP_DIR", ""), "Path to the data dir (overrides storage.dir)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (file|sqlite; overrides storage.backend)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file (overrides log.file)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TABSTRIP_FORMAT", "json"), "Output format (json|edn|yaml)")

	cmd.AddCommand(newTabsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	closeAfterRun(cmd, app)

	return cmd
}

// closeAfterRun tears the app down after every RunE, including failed ones
// (cobra skips post-run hooks when RunE returns an error).
func closeAfterRun(c *cobra.Command, app *App) {
	if run := c.RunE; run != nil {
		c.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = multierr.Append(err, app.teardown()) }()
			return run(cmd, args)
		}
	}
	for _, sub := range c.Commands() {
		closeAfterRun(sub, app)
	}
}

// setup loads config and applies flag overrides. Flags win over the config
// file, which wins over defaults.
func (app *App) setup() error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(app.Dir); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(app.LogFile); v != "" {
		cfg.Log.File = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg

	log, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	app.log = log
	app.closeLog = closeLog
	return nil
}

func (app *App) teardown() error {
	if app.closeLog == nil {
		return nil
	}
	err := app.closeLog()
	app.closeLog = nil
	return err
}

func (app *App) storeDir() (string, error) {
	if d := strings.TrimSpace(app.cfg.Storage.Dir); d != "" {
		return d, nil
	}
	return store.DefaultDir()
}

// openTabs opens the configured backend and returns a registry initialised
// from the persisted order (or the seed when nothing usable is stored).
func (app *App) openTabs(ctx context.Context, opts ...registry.Option) (*registry.Registry, store.TabOrder, func() error, error) {
	dir, err := app.storeDir()
	if err != nil {
		return nil, store.TabOrder{}, nil, err
	}
	kv, err := store.Store{Dir: dir, Backend: app.cfg.Storage.Backend}.Open(ctx)
	if err != nil {
		return nil, store.TabOrder{}, nil, err
	}
	order := store.TabOrder{KV: kv, Log: app.log.WithName("store")}
	opts = append([]registry.Option{registry.WithLogger(app.log.WithName("registry"))}, opts...)
	reg, err := registry.New(app.cfg.SeedTabs(), opts...)
	if err != nil {
		_ = kv.Close()
		return nil, store.TabOrder{}, nil, err
	}
	reg.Init(ctx, order)
	return reg, order, kv.Close, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmdContext(cmd)
	dir, err := app.storeDir()
	if err != nil {
		return writeErr(cmd, err)
	}
	kv, err := store.Store{Dir: dir, Backend: app.cfg.Storage.Backend}.Open(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	order := store.TabOrder{KV: kv, Log: app.log.WithName("store")}
	saver := store.NewAsyncSaver(order, store.AsyncSaverOpts{Log: app.log.WithName("saver")})

	reg, err := registry.New(app.cfg.SeedTabs(),
		registry.WithSaver(saver),
		registry.WithLogger(app.log.WithName("registry")),
	)
	if err != nil {
		return writeErr(cmd, multierr.Combine(err, saver.Close(ctx), kv.Close()))
	}
	reg.Init(ctx, order)

	runErr := tui.Run(tui.Options{
		Registry:        reg,
		Log:             app.log.WithName("tui"),
		Thresholds:      app.cfg.Gesture.Thresholds(),
		ReserveOverflow: app.cfg.Layout.ReserveOverflow,
		ResizeDebounce:  app.cfg.UI.ResizeDebounce,
		Glyphs:          app.cfg.UI.Glyphs,
	})

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return multierr.Combine(runErr, saver.Close(flushCtx), kv.Close())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
