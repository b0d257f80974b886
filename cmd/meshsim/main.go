package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/meshsim/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logJSON    bool

	frames    int
	fps       float64
	seed      int64
	script    string
	width     float64
	height    float64
	theme     string
	csvOut    string
	jsonOut   string
	snapOut   string
	trailOut  string
	numRuns   int
	sweepMin  float64
	sweepMax  float64
	sweepStep int
	grid      []string
	metric    string
	maximize  bool
)

// main runs the live mesh view when no subcommand is given. It exits with
// status 1 if a command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "meshsim",
		Short:             "pointer-reactive particle fields",
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupLogging,
		SilenceUsage:      true,
		RunE:              runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".meshsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	pf.Float64Var(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock for live views)")
	pf.StringVar(&script, "script", config.DefaultScript, "pointer script (idle, orbit, sweep, dwell)")
	pf.Float64Var(&width, "width", config.DefaultWidth, "viewport width in pixels")
	pf.Float64Var(&height, "height", config.DefaultHeight, "viewport height in pixels")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	liveCmd := &cobra.Command{
		Use:   "live [effect]",
		Short: "run an effect in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick an effect and preset in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPicker,
	}

	guiCmd := &cobra.Command{
		Use:   "gui [effect]",
		Short: "run an effect in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [effect]",
		Short: "run an effect headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and activity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "ringing frequency and settling of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [effect]",
		Short: "list available presets for an effect",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [effect]",
		Short: "run several seeds concurrently and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchEffect,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep [effect] [param]",
		Short: "sweep one parameter and report run metrics",
		Args:  cobra.ExactArgs(2),
		RunE:  sweepParam,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 4, "last value")
	sweepCmd.Flags().IntVar(&sweepStep, "steps", 8, "number of values")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [effect]",
		Short: "run an effect headless and write its last frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVarP(&snapOut, "output", "o", "snapshot.svg", "output file")

	trailCmd := &cobra.Command{
		Use:   "trail [run_id]",
		Short: "draw the pointer path of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  pointerTrail,
	}
	trailCmd.Flags().StringVarP(&trailOut, "output", "o", "trail.svg", "output file")

	tuneCmd := &cobra.Command{
		Use:   "tune [effect]",
		Short: "grid search parameters for the best run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneEffect,
	}
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values, e.g. repulsion=0.5,1,2 (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "settle_frames", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer the largest metric")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(liveCmd, tuiCmd, guiCmd, runCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, benchCmd, sweepCmd, snapshotCmd, trailCmd,
		tuneCmd, scenarioCmd)
	return rootCmd
}

// setupLogging installs the default slog logger. Interactive views own the
// terminal, so they log nowhere.
func setupLogging(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "meshsim", "live", "tui":
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if logJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// resolveConfig layers defaults, preset, config file and explicit flags in
// that order. effect comes from the first positional argument when given.
func resolveConfig(cmd *cobra.Command, args []string, live bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	effect := ""
	if len(args) > 0 {
		effect = args[0]
	}

	if preset != "" {
		name := effect
		if name == "" {
			name = config.DefaultEffect
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if effect != "" {
		cfg.Effect = effect
	}
	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("script") {
		cfg.Script = script
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if live && cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
