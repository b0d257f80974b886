package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/meshsim/internal/analysis"
	"github.com/san-kum/meshsim/internal/config"
	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/experiment"
	"github.com/san-kum/meshsim/internal/export"
	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/gui"
	"github.com/san-kum/meshsim/internal/metrics"
	"github.com/san-kum/meshsim/internal/sim"
	"github.com/san-kum/meshsim/internal/storage"
	"github.com/san-kum/meshsim/internal/viz"
)

func launcher(registry *experiment.Registry) viz.Launcher {
	return func(cfg *config.Config) (field.Effect, *energy.Listener, error) {
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		return experiment.Launch(registry, cfg)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, true)
	if err != nil {
		return err
	}
	effect, listener, err := experiment.Launch(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	viz.SetTheme(cfg.Theme)
	return viz.RunLive(effect, listener, cfg.FPS)
}

func runPicker(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, true)
	if err != nil {
		return err
	}
	viz.SetTheme(cfg.Theme)
	return viz.RunInteractive(cfg, launcher(experiment.NewRegistry()))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, true)
	if err != nil {
		return err
	}
	effect, listener, err := experiment.Launch(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	slog.Info("opening window", "effect", cfg.Effect, "fps", cfg.FPS)
	gui.Run(effect, listener, viz.GetTheme(cfg.Theme).Background, cfg.FPS)
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, false)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	params := map[string]float64{}
	if t, ok := exp.Runner().Effect().(field.Tunable); ok {
		params = t.GetParams()
	}
	rec, err := st.Create(storage.RunMetadata{
		Effect: cfg.Effect,
		Script: cfg.Script,
		Preset: preset,
		Seed:   cfg.Seed,
		FPS:    cfg.FPS,
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
		Params: params,
	})
	if err != nil {
		return err
	}
	exp.Runner().AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s with %s script...\n", cfg.Effect, cfg.Script)
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if err := rec.Finish(result); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", rec.ID())
	fmt.Printf("frames: %d\n", len(result.Frames))
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEFFECT\tSCRIPT\tTIME\tFRAMES\tFPS\tVIEWPORT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f\t%.0fx%.0f\n",
			run.ID,
			run.Effect,
			run.Script,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Width,
			run.Height,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.FrameStats, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("effect: %s (%s)\n", meta.Effect, meta.Script)
	fmt.Printf("frames: %d\n\n", len(frames))

	for _, column := range []string{"energy", "mean_activity"} {
		data, err := metrics.Series(frames, column)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(column+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	summary, err := metrics.Summarize(frames)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("effect: %s\n\n", meta.Effect)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", summary.Frames)
	fmt.Fprintf(w, "pointer present\t%d\n", summary.PresentFrames)
	fmt.Fprintf(w, "active frames\t%d\n", summary.ActiveFrames)
	fmt.Fprintf(w, "energy\t%.3f ± %.3f\n", summary.MeanEnergy, summary.StdEnergy)
	fmt.Fprintf(w, "mean activity\t%.4f\n", summary.MeanActivity)
	fmt.Fprintf(w, "peak activity\t%.4f\n", summary.PeakActivity)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	series, _ := metrics.Series(frames, "mean_activity")
	spectrum := analysis.Spectrum(series)
	if len(spectrum) > 8 {
		plotData := spectrum[1 : len(spectrum)/4+1]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("spectrum (mean activity)"),
		))
		fmt.Println()
	}

	if freq, err := analysis.DominantFrequency(series, meta.FPS); err == nil {
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.3f s\n", 1/freq)
		}
	}

	// Settling is measured only after the pointer has gone for good.
	last := -1
	for i, f := range frames {
		if f.Present {
			last = i
		}
	}
	if last+1 < len(frames) {
		tail, _ := metrics.Series(frames[last+1:], "max_activity")
		window := max(int(meta.FPS/10), 1)
		if rate, err := analysis.DecayRate(analysis.Envelope(tail, window), meta.FPS/float64(window), 1e-3); err == nil {
			fmt.Printf("decay rate: %.3f /s\n", rate)
			if rate < 0 {
				fmt.Printf("half-life: %.3f s\n", -math.Ln2/rate)
			}
		}
	}
	return nil
}

func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output(csvOut)
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportCSV(w, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output(jsonOut)
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportJSON(w, meta, frames)
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for effect: %s\n", args[0])
		return nil
	}
	sort.Strings(presets)
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		cfg := config.GetPreset(args[0], p)
		fmt.Printf("  %-10s script=%s theme=%s\n", p, cfg.Script, cfg.Theme)
	}
	return nil
}

func benchEffect(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, false)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	exp := experiment.New(cfg)
	ens := sim.NewEnsemble(exp.Factory(), numRuns, cfg.Seed)

	fmt.Printf("benchmarking %s: %d runs of %d frames\n\n", cfg.Effect, numRuns, cfg.Frames)
	start := time.Now()
	results, err := ens.Run(context.Background(), exp.SimConfig())
	if err != nil {
		return err
	}
	wall := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tTIME\tFRAMES/SEC\tPEAK\tSETTLE")
	total := 0
	for i, r := range results {
		total += len(r.Frames)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3f\t%.0f\n",
			cfg.Seed+int64(i),
			len(r.Frames),
			r.Elapsed.Round(time.Microsecond),
			float64(len(r.Frames))/r.Elapsed.Seconds(),
			r.Metrics["peak_activity"],
			r.Metrics["settle_frames"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nwall %v, %.0f frames/sec overall\n", wall.Round(time.Millisecond), float64(total)/wall.Seconds())
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1], false)
	if err != nil {
		return err
	}
	param := args[1]
	exp := experiment.New(cfg)
	factory := exp.Factory()

	build := func(value float64) (*sim.Runner, error) {
		r, err := factory(cfg.Seed)
		if err != nil {
			return nil, err
		}
		t, ok := r.Effect().(field.Tunable)
		if !ok {
			return nil, fmt.Errorf("%s has no tunable parameters", cfg.Effect)
		}
		if err := t.SetParam(param, value); err != nil {
			return nil, err
		}
		return r, nil
	}

	points, err := analysis.ParamSweep(context.Background(), build, sweepMin, sweepMax, sweepStep, exp.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN_ENERGY\tPEAK\tSTABILITY\tSETTLE\n", param)
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.3f\t%.3f\t%.3f\t%.0f\n",
			p.Param,
			p.Metrics["mean_energy"],
			p.Metrics["peak_activity"],
			p.Metrics["stability"],
			p.Metrics["settle_frames"],
		)
	}
	return w.Flush()
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, false)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	var last field.Input
	exp.Runner().AddObserver(sim.ObserverFunc(func(f *sim.Frame) { last = f.Input }))
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	surface := export.NewSVGSurface(cfg.Viewport.Width, cfg.Viewport.Height, viz.GetTheme(cfg.Theme).Background)
	exp.Runner().Effect().Draw(surface, last)

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := surface.WriteTo(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d frames\n", snapOut, cfg.Frames)
	return nil
}

func pointerTrail(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	svg := export.PointerTrailSVG(frames, meta.Width, meta.Height, field.MustHex("#22d3ee"))
	if err := os.WriteFile(trailOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", trailOut)
	return nil
}
