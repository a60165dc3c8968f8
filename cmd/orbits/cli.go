package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solarviz/orbits/internal/config"
	"github.com/solarviz/orbits/internal/render"
	"github.com/solarviz/orbits/internal/server"
	"github.com/solarviz/orbits/internal/storage"
	"github.com/solarviz/orbits/pkg/core"
)

type renderFlags struct {
	Output string
	Path   string
	Format string
	Open   bool
}

// newRootCmd builds the command tree. The returned cleanup releases whatever
// the pre-run hook set up and is safe to call when nothing ran.
func newRootCmd() (*cobra.Command, func()) {
	var (
		setup setupOptions
		rf    renderFlags
		a     *app
	)

	root := &cobra.Command{
		Use:   AppName,
		Short: "Animated 3D view of the eight planets' heliocentric orbits",
		Long: `Computes planet positions over a time window and renders an animated
Plotly figure with orbit paths, moving markers and a time slider.

The window comes from START_TIME, END_TIME and NUM_STEPS (environment,
.env file or the run section of orbits.cfg.json). Instants accept
ISO 8601 dates or "JD <number>".

Running without a subcommand is the same as "orbits render".`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlag(cmd, "logLevel", "log-level"); err != nil {
				return err
			}
			var err error
			a, err = newApp(setup)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, rf)
		},
	}

	root.PersistentFlags().StringVar(&setup.ConfigDir, "config-dir", ".", "directory holding "+config.FileName)
	root.PersistentFlags().StringVar(&setup.EnvFile, "env-file", ".env", "dotenv file exported before config is read")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	addRenderFlags(root, &rf)

	root.AddCommand(newRenderCmd(&a), newServeCmd(&a))
	return root, func() {
		if a != nil {
			a.Close()
		}
	}
}

func addRenderFlags(cmd *cobra.Command, rf *renderFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&rf.Output, "output", "o", "", "output directory (default from storage.outputDir)")
	fs.StringVar(&rf.Path, "path", "", "explicit output file, overrides --output")
	fs.StringVarP(&rf.Format, "format", "f", "", "export format: html, json, sqlite or postgres (default from storage.type)")
	fs.BoolVar(&rf.Open, "open", false, "open the written HTML page in the browser")
}

func newRenderCmd(a **app) *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compute the run and write a standalone export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, *a, rf)
		},
	}
	addRenderFlags(cmd, &rf)
	return cmd
}

func newServeCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Compute the run and serve the interactive page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlag(cmd, "serve.addr", "addr"); err != nil {
				return err
			}
			return runServe(cmd.Context(), *a)
		},
	}
	cmd.Flags().String("addr", ":8050", "listen address")
	return cmd
}

// bindFlag lets an explicitly set flag override key.
func bindFlag(cmd *cobra.Command, key, name string) error {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return fmt.Errorf("unknown flag %q", name)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		return fmt.Errorf("error binding flag %s: %w", name, err)
	}
	return nil
}

func renderOptions(attachDetail bool) render.Options {
	rc := config.GetRenderConfig()
	opts := render.DefaultOptions()
	opts.AttachDetail = attachDetail
	opts.Title = rc.Title
	if rc.FrameDuration > 0 {
		opts.FrameDuration = rc.FrameDuration
	}
	return opts
}

func runRender(cmd *cobra.Command, a *app, rf renderFlags) error {
	ctx := cmd.Context()
	if err := bindFlag(cmd, "storage.outputDir", "output"); err != nil {
		return err
	}
	if err := bindFlag(cmd, "storage.type", "format"); err != nil {
		return err
	}

	run, err := a.compute(ctx)
	if err != nil {
		a.Logger.Error("Computation failed", "error", err)
		return err
	}

	fig, err := render.Build(run, renderOptions(false))
	if err != nil {
		return err
	}

	storageCfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(storageCfg, storage.Dependencies{
		Logger:   a.Logger,
		DBLogger: a.componentLogger("database"),
		Path:     rf.Path,
	})
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", storageCfg.Type, err)
	}
	defer backend.Close()

	if err := backend.Export(ctx, run, fig); err != nil {
		a.Logger.Error("Export failed", "type", storageCfg.Type, "error", err)
		return err
	}

	exported, ok := backend.(storage.Exported)
	if !ok {
		a.Logger.Info("Run exported", "type", storageCfg.Type)
		return nil
	}
	path := exported.ExportedPath()
	a.Logger.Info("Run exported", "type", storageCfg.Type, "path", path)

	if rf.Open {
		if storageCfg.Type != "html" {
			a.Logger.Warn("--open only applies to html exports", "type", storageCfg.Type)
			return nil
		}
		if err := openBrowser(path); err != nil {
			a.Logger.Warn("Failed to open browser", "path", path, "error", err)
		}
	}
	return nil
}

func runServe(ctx context.Context, a *app) error {
	run, err := a.compute(ctx)
	if err != nil {
		a.Logger.Error("Computation failed", "error", err)
		return err
	}

	fig, err := render.Build(run, renderOptions(true))
	if err != nil {
		return err
	}
	logFigure(a, run, fig)

	metrics := server.NewMetrics()
	srv, err := server.New(server.Config{
		Addr:              config.GetServeConfig().Addr,
		PlotlyURL:         config.GetRenderConfig().PlotlyURL,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}, fig, a.Logger, metrics)
	if err != nil {
		return err
	}

	return srv.Serve(ctx)
}

func logFigure(a *app, run *core.Run, fig *render.Figure) {
	a.Logger.Debug("Figure built",
		"planets", len(run.Planets()),
		"traces", len(fig.Data),
		"frames", len(fig.Frames))
}
