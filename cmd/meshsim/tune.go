package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/meshsim/internal/automation"
	"github.com/san-kum/meshsim/internal/experiment"
	"github.com/san-kum/meshsim/internal/optim"
	"github.com/san-kum/meshsim/internal/sim"
	"github.com/san-kum/meshsim/internal/storage"
)

// parseGrid reads "name=v1,v2,..." entries into value lists.
func parseGrid(entries []string) (map[string][]float64, error) {
	ranges := make(map[string][]float64, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, fmt.Errorf("bad grid %q, want name=v1,v2", entry)
		}
		for _, item := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(item), 64)
			if err != nil {
				return nil, fmt.Errorf("grid %s: %w", name, err)
			}
			ranges[name] = append(ranges[name], v)
		}
	}
	return ranges, nil
}

func formatParams(p map[string]float64) string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%.4g", name, p[name])
	}
	return strings.Join(parts, " ")
}

func tuneEffect(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, false)
	if err != nil {
		return err
	}
	ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("tune needs at least one --grid")
	}

	exp := experiment.New(cfg)
	factory := exp.Factory()
	search := optim.NewGridSearch(ranges)
	search.Maximize = maximize

	fmt.Printf("searching %d combinations for %s...\n\n", search.Size(), metric)
	best, all, err := search.Search(context.Background(), func() (*sim.Runner, error) {
		return factory(cfg.Seed)
	}, exp.SimConfig(), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PARAMS\t%s\n", strings.ToUpper(metric))
	for _, c := range all {
		fmt.Fprintf(w, "%s\t%.4f\n", formatParams(c.Params), c.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %s (%s %.4f)\n", formatParams(best.Params), metric, best.Score)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd, nil, false)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(context.Background(), sc, base, st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tEFFECT\tFRAMES\tTIME\tMEAN_ENERGY\tRUN")
	for i, r := range results {
		effect := r.Step.Effect
		if effect == "" {
			effect = base.Effect
		}
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.3f\t%s\n",
			i+1, effect, len(r.Result.Frames), r.Result.Elapsed, r.Result.Metrics["mean_energy"], runID)
	}
	return w.Flush()
}
