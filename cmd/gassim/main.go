package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gassim/internal/analysis"
	"github.com/san-kum/gassim/internal/automation"
	"github.com/san-kum/gassim/internal/config"
	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/experiment"
	"github.com/san-kum/gassim/internal/export"
	"github.com/san-kum/gassim/internal/storage"
	"github.com/san-kum/gassim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	seed        int64
	dt          float64
	steps       int
	sampleEvery int
	countA      int
	countB      int
	sizeA       float64
	sizeB       float64
	massA       float64
	massB       float64
	tempA       float64
	tempB       float64
	removeAt    int
	noDivider   bool
	metricNames []string

	// analyze
	seriesName  string
	bins        int
	lyapSteps   int
	lyapEpsilon float64

	// export-svg
	frameIndex int
	svgMetric  string
	svgPixels  int
	outFile    string

	// sweep / ensemble
	points  int
	numRuns int
	workers int
)

// main registers the gassim commands. With no subcommand it opens the
// interactive preset browser.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gassim",
		Short: "hard-disk gas simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gassim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addGasFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: all but collisions)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addGasFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series and the final frame",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames and series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export metric series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a frame or a metric series to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index (negative counts from the end)")
	exportSVGCmd.Flags().StringVar(&svgMetric, "metric", "", "render this metric series instead of a frame")
	exportSVGCmd.Flags().IntVar(&svgPixels, "size", 400, "image size in pixels")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the stepper",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchGas,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral, speed distribution and chaos analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesName, "series", "mixing", "metric series for the power spectrum")
	analyzeCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	analyzeCmd.Flags().IntVar(&lyapSteps, "lyapunov", 0, "steps for a Lyapunov estimate (0 disables)")
	analyzeCmd.Flags().Float64Var(&lyapEpsilon, "epsilon", 1e-8, "initial perturbation for the Lyapunov estimate")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [min] [max]",
		Short: "sweep one parameter and report final metrics",
		Args:  cobra.ExactArgs(3),
		RunE:  runSweep,
	}
	addGasFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&points, "points", 5, "number of parameter values")
	sweepCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to report (default: all but collisions)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run independent seeds in parallel and average metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addGasFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "worker count (default: GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, benchCmd, analyzeCmd, scenarioCmd, sweepCmd, ensembleCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addGasFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&dt, "dt", def.Simulation.Dt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", def.Simulation.Steps, "number of steps")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", def.SampleEvery, "steps between samples")
	cmd.Flags().IntVar(&countA, "count-a", def.ParticleNumbers.A, "particles of gas A")
	cmd.Flags().IntVar(&countB, "count-b", def.ParticleNumbers.B, "particles of gas B")
	cmd.Flags().Float64Var(&sizeA, "size-a", def.ParticleSizes.A, "size of gas A (hundredths of the box unit)")
	cmd.Flags().Float64Var(&sizeB, "size-b", def.ParticleSizes.B, "size of gas B (hundredths of the box unit)")
	cmd.Flags().Float64Var(&massA, "mass-a", def.ParticleMasses.A, "mass of gas A")
	cmd.Flags().Float64Var(&massB, "mass-b", def.ParticleMasses.B, "mass of gas B")
	cmd.Flags().Float64Var(&tempA, "temp-a", def.GasTemperatures.A, "temperature of gas A")
	cmd.Flags().Float64Var(&tempB, "temp-b", def.GasTemperatures.B, "temperature of gas B")
	cmd.Flags().IntVar(&removeAt, "remove-divider-at", def.RemoveDividerAt, "step at which the divider is removed (-1 never)")
	cmd.Flags().BoolVar(&noDivider, "no-divider", false, "start without the divider")
}

// resolveConfig builds the run configuration: defaults, then the preset, then
// the config file, then any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
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

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Simulation.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Simulation.Steps = steps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("count-a") {
		cfg.ParticleNumbers.A = countA
	}
	if flags.Changed("count-b") {
		cfg.ParticleNumbers.B = countB
	}
	if flags.Changed("size-a") {
		cfg.ParticleSizes.A = sizeA
	}
	if flags.Changed("size-b") {
		cfg.ParticleSizes.B = sizeB
	}
	if flags.Changed("mass-a") {
		cfg.ParticleMasses.A = massA
	}
	if flags.Changed("mass-b") {
		cfg.ParticleMasses.B = massB
	}
	if flags.Changed("temp-a") {
		cfg.GasTemperatures.A = tempA
	}
	if flags.Changed("temp-b") {
		cfg.GasTemperatures.B = tempB
	}
	if flags.Changed("remove-divider-at") {
		cfg.RemoveDividerAt = removeAt
	}
	if flags.Changed("no-divider") {
		cfg.Divider = !noDivider
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func selectMetrics(registry *experiment.Registry) ([]dynamo.Metric, error) {
	if len(metricNames) == 0 {
		return registry.DefaultMetrics(), nil
	}
	ms := make([]dynamo.Metric, 0, len(metricNames))
	for _, name := range metricNames {
		m, err := registry.GetMetric(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, registry.ListMetrics())
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	metrics, err := selectMetrics(registry)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(metrics); err != nil {
		return err
	}

	fmt.Printf("running %s: %d+%d particles, %d steps...\n", cfg.Name, cfg.ParticleNumbers.A, cfg.ParticleNumbers.B, cfg.Simulation.Steps)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("seed: %d\n", cfg.Seed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range metrics {
		fmt.Fprintf(w, "  %s\t%.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, cfg.Seed)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tSTEPS\tSEED\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.StepsTaken,
			run.Seed,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// finiteSeries drops NaN samples so asciigraph can scale the axis.
func finiteSeries(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(times))

	for _, name := range sortedKeys(series) {
		data := finiteSeries(series[name])
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) > 0 {
		last := frames[len(frames)-1]
		fmt.Printf("final frame (step %d, t=%.4f):\n", last.Step, last.Time)
		fmt.Print(analysis.StateToASCII(last, 60, 30))
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, *meta, frames, times, series)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	times, series, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}

	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	names := sortedKeys(series)
	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range times {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(series[name][i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var svg string
	if svgMetric != "" {
		times, series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		vals, ok := series[svgMetric]
		if !ok {
			return fmt.Errorf("run %s has no series %q (available: %v)", runID, svgMetric, sortedKeys(series))
		}
		svg = export.SeriesToSVG(times, vals, svgPixels*2, svgPixels, export.ColorA)
	} else {
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		if len(frames) == 0 {
			return fmt.Errorf("no frames to export")
		}
		idx := frameIndex
		if idx < 0 {
			idx += len(frames)
		}
		if idx < 0 || idx >= len(frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIndex, len(frames))
		}
		svg = export.FrameToSVG(frames[idx], svgPixels)
	}

	if outFile == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tA\tB\tSIZES\tMASSES\tTEMPS\tDIVIDER\tREMOVE AT\tSTEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%g/%g\t%g/%g\t%g/%g\t%v\t%d\t%d\n",
			name,
			p.ParticleNumbers.A, p.ParticleNumbers.B,
			p.ParticleSizes.A, p.ParticleSizes.B,
			p.ParticleMasses.A, p.ParticleMasses.B,
			p.GasTemperatures.A, p.GasTemperatures.B,
			p.Divider,
			p.RemoveDividerAt,
			p.Simulation.Steps,
		)
	}
	return w.Flush()
}

func benchGas(cmd *cobra.Command, args []string) error {
	name := "diffusion"
	if len(args) > 0 {
		name = args[0]
	}
	base := config.GetPreset(name)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	counts := []int{25, 50, 100, 200}
	stepCounts := []int{500, 2000}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC\tPAIRS/SEC")

	for _, n := range counts {
		for _, s := range stepCounts {
			cfg := base.Clone()
			cfg.ParticleNumbers = config.SpeciesInt{A: n / 2, B: n - n/2}
			cfg.Simulation.Steps = s
			cfg.SampleEvery = 0
			cfg.Seed = 42

			exp := experiment.New(cfg)
			if err := exp.Setup(nil); err != nil {
				return fmt.Errorf("%d particles: %w", n, err)
			}

			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			pairs := float64(n*(n-1)/2) * stepsPerSec

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3g\n", n, s, elapsed, stepsPerSec, pairs)
		}
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	if data, ok := series[seriesName]; ok && len(times) > 1 {
		data = finiteSeries(data)
		ps := analysis.PowerSpectrum(data)
		if len(ps) > 1 {
			graph := asciigraph.Plot(ps[1:],
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+seriesName+")"),
			)
			fmt.Println(graph)
			fmt.Println()

			freq := analysis.DominantFrequency(data, times[1]-times[0])
			fmt.Printf("dominant frequency: %.3f\n", freq)
			if freq > 0 {
				fmt.Printf("period: %.3f\n", 1.0/freq)
			}
			fmt.Println()
		}
	} else {
		fmt.Printf("no series %q in run (available: %v)\n\n", seriesName, sortedKeys(series))
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames")
	}
	last := frames[len(frames)-1]

	_, density := analysis.SpeedHistogram(last.Particles, analysis.AllSpecies, bins)
	if len(density) > 0 {
		graph := asciigraph.Plot(density,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("speed distribution (final frame)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tCOUNT\tDEVIATION FROM MAXWELL-BOLTZMANN")
	for _, sp := range []struct {
		name    string
		species int
	}{{"all", analysis.AllSpecies}, {"A", 0}, {"B", 1}} {
		n := len(last.Particles)
		if sp.species != analysis.AllSpecies {
			n = last.Count(sp.species)
		}
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\n", sp.name, n, analysis.ThermalDeviation(last.Particles, sp.species, bins))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if profile := analysis.DensityProfile(last, 0, bins); len(profile) > 0 && last.Count(0) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(profile,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("gas A density along x (final frame)"),
		))
	}

	if lyapSteps > 0 {
		if meta.Config == nil {
			return fmt.Errorf("run %s has no stored config", runID)
		}
		ref, err := experiment.Build(meta.Config, meta.Seed)
		if err != nil {
			return err
		}
		perturbed, err := analysis.Perturbed(ref, lyapEpsilon)
		if err != nil {
			return err
		}
		box := ref.Box()
		lambda := analysis.LyapunovExponent(ref, perturbed, lyapSteps, 0.1*box.Size())
		fmt.Printf("\nlyapunov exponent: %.4f (over %d steps, eps=%g)\n", lambda, lyapSteps, lyapEpsilon)
	}

	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	start := time.Now()
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("completed %d runs in %v\n", len(results), time.Since(start))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid min %q: %w", args[1], err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid max %q: %w", args[2], err)
	}

	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: args[0],
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  points,
		Metrics:   metricNames,
	}

	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), os.Stdout)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, args[0])
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w, "\tdrift")
	for _, r := range results {
		fmt.Fprintf(w, "%g", r.ParamValue)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintf(w, "\t%.2e\n", r.EnergyDrift)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	ens := experiment.NewEnsemble(cfg, registry, numRuns)
	if workers > 0 {
		ens.SetWorkers(workers)
	}

	fmt.Printf("running %d seeds of %s from seed %d...\n", numRuns, cfg.Name, cfg.Seed)
	start := time.Now()
	results, err := ens.Run(cmd.Context(), cfg.SimConfig())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN")
	for _, m := range registry.DefaultMetrics() {
		fmt.Fprintf(w, "%s\t%.6f\n", m.Name(), dynamo.Mean(results, m.Name()))
	}
	return w.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
