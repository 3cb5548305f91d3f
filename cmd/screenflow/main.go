// Command screenflow runs the navigation demo in the terminal and validates
// window asset trees.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"screenflow/internal/asset"
	"screenflow/internal/config"
	"screenflow/internal/nav"
	"screenflow/internal/runtime"
	"screenflow/internal/telemetry"
	"screenflow/internal/tui"
)

var (
	configPath string
	scope      string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "screenflow",
	Short:   "Screen navigation runtime demo",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	runCmd.Flags().StringVar(&scope, "scope", "", "scope hosting the demo screens (default ui.default_scope)")
	assetsCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(assetsCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo screens in the terminal",
	Long: `Run the demo screens in the terminal.

Logs go to logging.path; with no path they are discarded because stderr
belongs to the UI. Traces are exported when OTEL_EXPORTER_OTLP_ENDPOINT is
set, and metrics are served on metrics.addr when it is set.

Examples:
  screenflow run
  screenflow run --config screenflow.yaml
  SCREENFLOW_ANIMATION_KIND=slide screenflow run`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Inspect window assets",
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Decode every template under dir, or the built-in set",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if scope == "" {
		scope = cfg.UI.DefaultScope
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewProvider(ctx, cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}
	opts := []runtime.Option{runtime.WithTelemetry(tp)}
	if cfg.Logging.Path == "" {
		opts = append(opts, runtime.WithLogger(zap.NewNop()))
	}
	rt, err := runtime.New(cfg, opts...)
	if err != nil {
		return err
	}
	rt.SetCurrentScope(scope)

	coord := rt.NewCoordinator("main")
	stage := tui.NewStage(coord, rt.Logger(), cfg.Animation.FPS)
	rt.Registry().RegisterHost(scope, stage)
	if _, err := tui.Mount(ctx, rt, coord, stage, scope); err != nil {
		return err
	}
	if err := coord.NavigateTo(ctx, nav.KeyOf[*tui.Home]()); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	program := tea.NewProgram(stage, tea.WithAltScreen(), tea.WithContext(gctx))
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return rt.Metrics().Serve(gctx, cfg.Metrics.Addr, rt.Logger())
		})
	}
	g.Go(func() error {
		defer stop()
		_, err := program.Run()
		if err != nil && gctx.Err() != nil {
			return nil
		}
		return err
	})
	runErr := g.Wait()

	stage.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	return runErr
}

func runValidate(cmd *cobra.Command, args []string) error {
	fsys := asset.Builtin()
	if len(args) == 1 {
		fsys = os.DirFS(args[0])
	}
	keys, err := asset.Walk(fsys)
	if err != nil {
		return fmt.Errorf("walk assets: %w", err)
	}

	loader := asset.NewFSLoader(fsys)
	failed := 0
	for _, key := range keys {
		h, err := loader.Load(cmd.Context(), key)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %v\n", err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%s)\n", key, h.Template().Component)
		loader.Release(h)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d assets invalid", failed, len(keys))
	}
	return nil
}
