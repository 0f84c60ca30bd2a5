package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/analysis"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/config"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/export"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/metrics"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/optim"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/storage"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/viz"
)

var (
	dataDir string
	verbose bool
	logger  = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "eulerflow"})

	// Scene sources
	configFile string
	preset     string

	// Scene overrides
	width      int
	height     int
	cellSize   float64
	dt         float64
	steps      int
	iterations int
	viscosity  float64
	omega      float64
	order      string
	workers    int
	inflow     float64
	forceX     float64
	forceY     float64

	// Output
	live      bool
	frameRate int
	noSave    bool
	outFile   string
	withFaces bool
	svgPrefix string

	// Analysis
	probeName string
	tail      float64

	// Tuning
	tuneOmegas     []float64
	tuneIterations []float64
	tuneParallel   int
)

// Face speeds above this count as unstable for the stability metric.
const stabilityThreshold = 1e3

func main() {
	rootCmd := &cobra.Command{
		Use:   "eulerflow",
		Short: "incompressible flow on a staggered grid",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".eulerflow", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene and store its history",
		Args:  cobra.NoArgs,
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw the field while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate for --live")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot residual and probe history",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	exportCmd.Flags().BoolVar(&withFaces, "faces", false, "include the final face field")
	exportCmd.Flags().StringVar(&svgPrefix, "svg", "", "also write <prefix>-history.svg and <prefix>-field.svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "probe statistics and dominant frequency",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&probeName, "probe", "", "analyze only this probe")
	analyzeCmd.Flags().Float64Var(&tail, "tail", 0.5, "fraction of the history to analyze, from the end")

	inspectCmd := &cobra.Command{
		Use:   "inspect [run_id]",
		Short: "step and probe a field interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectRun,
	}
	addSceneFlags(inspectCmd)

	probeCmd := &cobra.Command{
		Use:   "probe [run_id] x y",
		Short: "sample the final velocity of a run at a point",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  probeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scene file to edit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initScene,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "steps per second for serial and parallel sweeps",
		Args:  cobra.NoArgs,
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search omega and iterations for the lowest divergence",
		Args:  cobra.NoArgs,
		RunE:  tuneScene,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneOmegas, "omegas", []float64{1.0, 1.5, 1.7, 1.9}, "over-relaxation factors to try")
	tuneCmd.Flags().Float64SliceVar(&tuneIterations, "sweeps", []float64{10, 20, 40}, "sweep counts to try")
	tuneCmd.Flags().IntVar(&tuneParallel, "parallel", runtime.NumCPU(), "trials to run at once")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, exportCmd, analyzeCmd, inspectCmd, probeCmd, presetsCmd, initCmd, benchCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml or ini)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "cells across")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "cells down")
	cmd.Flags().Float64Var(&cellSize, "cell", config.DefaultCellSize, "cell size")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "projection sweeps per step")
	cmd.Flags().Float64Var(&viscosity, "viscosity", 0, "derive sweeps from viscosity instead of --iterations")
	cmd.Flags().Float64Var(&omega, "omega", config.DefaultOmega, "over-relaxation factor in (0,2)")
	cmd.Flags().StringVar(&order, "order", projection.RowMajor.String(), "sweep order: row-major or checkerboard")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel workers for checkerboard sweeps (0 = all CPUs)")
	cmd.Flags().Float64Var(&inflow, "inflow", config.DefaultInflow, "inflow speed of the left edge")
	cmd.Flags().Float64Var(&forceX, "force-x", 0, "body force x")
	cmd.Flags().Float64Var(&forceY, "force-y", 0, "body force y")
}

// loadScene resolves the scene from defaults, then --preset, then --config,
// then any flag given explicitly.
func loadScene(cmd *cobra.Command) (*config.Scene, error) {
	sc := config.DefaultScene()

	if preset != "" {
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		sc = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		sc.Width = width
	}
	if flags.Changed("height") {
		sc.Height = height
	}
	if flags.Changed("cell") {
		sc.CellSize = cellSize
	}
	if flags.Changed("dt") {
		sc.Dt = dt
	}
	if flags.Changed("steps") {
		sc.Steps = steps
	}
	if flags.Changed("iterations") {
		sc.Iterations = iterations
	}
	if flags.Changed("viscosity") {
		sc.Viscosity = viscosity
	}
	if flags.Changed("omega") {
		sc.Omega = omega
	}
	if flags.Changed("order") {
		sc.Order = order
	}
	if flags.Changed("workers") {
		sc.Workers = workers
	}
	if flags.Changed("inflow") {
		sc.Boundary.Left = config.EdgeConfig{Kind: "inflow", Value: inflow}
	}
	if flags.Changed("force-x") {
		sc.Force.X = forceX
	}
	if flags.Changed("force-y") {
		sc.Force.Y = forceY
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func defaultMetrics() []flow.Option {
	return []flow.Option{
		flow.WithMetric(metrics.NewDivergence()),
		flow.WithMetric(metrics.NewMaxSpeed()),
		flow.WithMetric(metrics.NewKineticEnergy()),
		flow.WithMetric(metrics.NewEnergyDrift()),
		flow.WithMetric(metrics.NewStability(stabilityThreshold)),
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}

	opts := defaultMetrics()
	var renderer *viz.Live
	if live {
		renderer = viz.NewLive(os.Stdout, sc.Name, 72, 24, frameRate)
		opts = append(opts, flow.WithObserver(renderer))
	}

	sim, err := sc.Build(opts...)
	if err != nil {
		return err
	}

	run := sc.RunConfig()
	logger.Info("running scene", "scene", sc.Name, "grid", fmt.Sprintf("%dx%d", sc.Width, sc.Height),
		"steps", run.Steps, "sweeps", run.IterationsFor(sc.CellSize), "omega", run.Omega, "order", sim.Order())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if renderer != nil {
		renderer.Start()
	}
	start := time.Now()
	result, err := sim.Run(ctx, run)
	elapsed := time.Since(start)
	if renderer != nil {
		renderer.Stop()
	}

	switch {
	case errors.Is(err, flow.ErrCanceled):
		logger.Warn("run interrupted", "steps", result.StepsTaken)
	case err != nil:
		return err
	}
	for _, e := range result.Errors {
		logger.Error("run stopped", "err", e)
	}

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(sc, result, elapsed)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Debug("run stored", "dir", st.Dir(), "id", runID)
	}

	printSummary(runID, result, elapsed)
	return nil
}

func printSummary(runID string, result *flow.Result, elapsed time.Duration) {
	var b strings.Builder
	b.WriteString(viz.Title.Render("run complete") + "\n")
	if runID != "" {
		b.WriteString(viz.Metric("run id ", runID) + "\n")
	}
	b.WriteString(viz.Metric("steps  ", strconv.Itoa(result.StepsTaken)) + "\n")
	b.WriteString(viz.Metric("elapsed", elapsed.Round(time.Millisecond).String()) + "\n")
	if n := len(result.Samples); n > 0 {
		b.WriteString(viz.Metric("residual", fmt.Sprintf("%.3e", result.Samples[n-1].Residual)) + "\n")
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		b.WriteString("\n" + viz.Subtle.Render("metrics") + "\n")
	}
	for _, name := range names {
		b.WriteString(viz.Metric(fmt.Sprintf("%-14s", name), fmt.Sprintf("%.6g", result.Metrics[name])) + "\n")
	}

	status := viz.StatusOK.Render("stable")
	if len(result.Errors) > 0 {
		status = viz.StatusError.Render(result.Errors[0].Error())
	}
	b.WriteString("\n" + status)

	fmt.Println(viz.Panel.Render(b.String()))
}

// resolveRun returns args[0] or, without arguments, the newest run.
func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	runID, err := st.Latest()
	if err != nil {
		return "", fmt.Errorf("no run given: %w", err)
	}
	logger.Debug("using latest run", "id", runID)
	return runID, nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tGRID\tSTEPS\tDT\tOMEGA\tELAPSED\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if len(run.Errors) > 0 {
			status = "unstable"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.4fs\t%.2f\t%v\t%s\n",
			run.ID,
			run.Scene.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Scene.Width, run.Scene.Height,
			run.StepsTaken,
			run.Scene.Dt,
			run.Scene.Omega,
			run.Elapsed.Round(time.Millisecond),
			status,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	data, err := st.Export(runID, false)
	if err != nil {
		return err
	}
	if len(data.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", data.ID)
	fmt.Printf("scene: %s (%dx%d, h=%g)\n", data.Scene, data.Width, data.Height, data.CellSize)
	fmt.Printf("samples: %d\n\n", len(data.Times))

	graph := asciigraph.Plot(data.Residuals,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("residual sum |div| after projection"),
	)
	fmt.Println(graph)
	fmt.Println()

	for _, p := range data.Probes {
		if len(p.U) < 2 {
			continue
		}
		graph := asciigraph.PlotMany([][]float64{p.U, p.V},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Cyan),
			asciigraph.Caption(fmt.Sprintf("probe %s at (%g, %g): u green, v cyan", p.Name, p.X, p.Y)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	data, err := st.Export(runID, withFaces || svgPrefix != "")
	if err != nil {
		return err
	}

	if svgPrefix != "" {
		if err := writeSVGs(svgPrefix, data); err != nil {
			return err
		}
	}
	if !withFaces {
		data.Faces = nil
	}

	if outFile == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	logger.Info("exported", "run", runID, "file", outFile)
	return nil
}

func writeSVGs(prefix string, data *storage.ExportData) error {
	series := []export.Series{{Name: "residual", X: data.Times, Y: data.Residuals}}
	for _, p := range data.Probes {
		series = append(series,
			export.Series{Name: p.Name + " u", X: data.Times, Y: p.U},
			export.Series{Name: p.Name + " v", X: data.Times, Y: p.V},
		)
	}

	files := map[string]string{
		prefix + "-history.svg": export.SeriesToSVG(series, 800, 400),
		prefix + "-field.svg":   export.FieldToSVG(data.Faces, 8),
	}
	for path, svg := range files {
		if svg == "" {
			logger.Warn("nothing to draw", "file", path)
			continue
		}
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote svg", "file", path)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	data, err := st.Export(runID, false)
	if err != nil {
		return err
	}
	if len(data.Probes) == 0 {
		return fmt.Errorf("run %s has no probes", runID)
	}
	if len(data.Times) < 2 {
		return fmt.Errorf("no data")
	}

	sampleDt := (data.Times[len(data.Times)-1] - data.Times[0]) / float64(len(data.Times)-1)

	fmt.Printf("frequency analysis: %s\n", data.ID)
	fmt.Printf("scene: %s, sample spacing %.4fs\n\n", data.Scene, sampleDt)

	found := false
	for _, p := range data.Probes {
		if probeName != "" && p.Name != probeName {
			continue
		}
		found = true

		u := analysis.Tail(p.U, tail)
		v := analysis.Tail(p.V, tail)
		fmt.Printf("probe %s at (%g, %g)\n", p.Name, p.X, p.Y)
		fmt.Printf("  u: %s\n", analysis.Summarize(u))
		fmt.Printf("  v: %s\n", analysis.Summarize(v))

		ps := analysis.PowerSpectrum(v)
		if len(ps) > 1 {
			graph := asciigraph.Plot(ps[1:],
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("power spectrum of v (%s)", p.Name)),
			)
			fmt.Println(graph)
		}

		freq, power := analysis.DominantFrequency(v, sampleDt)
		fmt.Printf("  dominant frequency: %.3f hz (power %.3g)\n", freq, power)
		if freq > 0 {
			fmt.Printf("  period: %.3f s\n", 1.0/freq)
		}
		fmt.Println()
	}

	if !found {
		return fmt.Errorf("no probe named %q", probeName)
	}
	return nil
}

func inspectRun(cmd *cobra.Command, args []string) error {
	if preset != "" || configFile != "" {
		sc, err := loadScene(cmd)
		if err != nil {
			return err
		}
		sim, err := sc.Build()
		if err != nil {
			return err
		}
		return viz.RunInspector(sim, sc.RunConfig())
	}

	sim, meta, err := restoreRun(args)
	if err != nil {
		return err
	}
	return viz.RunInspector(sim, meta.Scene.RunConfig())
}

func restoreRun(args []string) (*flow.Simulation, *storage.RunMetadata, error) {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	snap, err := st.LoadSnapshot(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s has no final field: %w", runID, err)
	}
	sim, err := meta.Scene.Restore(snap)
	if err != nil {
		return nil, nil, err
	}
	return sim, meta, nil
}

func probeRun(cmd *cobra.Command, args []string) error {
	coords := args[len(args)-2:]
	x, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		return fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		return fmt.Errorf("bad y: %w", err)
	}

	sim, meta, err := restoreRun(args[:len(args)-2])
	if err != nil {
		return err
	}

	vel := sim.SampleVelocity(x, y)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("velocity at (%g, %g): u=%.6g v=%.6g\n\n", x, y, vel.X, vel.Y)

	h := sim.Field().H()
	ix, iy := int(x/h), int(y/h)
	p, err := sim.Probe(ix, iy)
	if err != nil {
		logger.Debug("point outside the grid", "ix", ix, "iy", iy)
		return nil
	}
	fmt.Print(p.String())
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tDT\tSTEPS\tORDER\tLEFT\tRIGHT\tTOP\tBOTTOM\tOBSTACLES")
	for _, name := range config.ListPresets() {
		sc := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%.3f\t%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			name,
			sc.Width, sc.Height,
			sc.Dt,
			sc.Steps,
			sc.Order,
			edgeLabel(sc.Boundary.Left),
			edgeLabel(sc.Boundary.Right),
			edgeLabel(sc.Boundary.Top),
			edgeLabel(sc.Boundary.Bottom),
			len(sc.Obstacles),
		)
	}
	return w.Flush()
}

func edgeLabel(e config.EdgeConfig) string {
	if e.Kind == "inflow" {
		return fmt.Sprintf("inflow %g", e.Value)
	}
	return e.Kind
}

func initScene(cmd *cobra.Command, args []string) error {
	path := "scene.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	sc := config.DefaultScene()
	if preset != "" {
		sc = config.GetPreset(preset)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(path, sc); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") {
		sc.Steps = 50
	}

	type variant struct {
		order   projection.Order
		workers int
	}
	variants := []variant{
		{projection.RowMajor, 1},
		{projection.Checkerboard, 1},
		{projection.Checkerboard, runtime.NumCPU()},
	}

	run := sc.RunConfig()
	fmt.Printf("benchmarking %s (%dx%d, %d sweeps)\n\n", sc.Name, sc.Width, sc.Height, run.IterationsFor(sc.CellSize))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC\tRESIDUAL")

	for _, v := range variants {
		sim, err := sc.Build(flow.WithOrder(v.order), flow.WithWorkers(v.workers))
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := sim.Run(context.Background(), run)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
		residual := result.Samples[len(result.Samples)-1].Residual
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.1f\t%.3e\n",
			v.order, v.workers, result.StepsTaken, elapsed.Round(time.Microsecond), stepsPerSec, residual)
	}

	return w.Flush()
}

func tuneScene(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") {
		sc.Steps = min(sc.Steps, 50)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("tuning projection", "scene", sc.Name, "omegas", tuneOmegas, "sweeps", tuneIterations, "steps", sc.Steps)
	gs, best, val, err := optim.TuneProjection(ctx, sc, tuneOmegas, tuneIterations, tuneParallel)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OMEGA\tSWEEPS\tMEAN |DIV|\tNOTE")
	for _, o := range gs.Outcomes() {
		note := ""
		if o.Err != nil {
			note = o.Err.Error()
		}
		fmt.Fprintf(w, "%.2f\t%.0f\t%.4e\t%s\n", o.Params[optim.ParamOmega], o.Params[optim.ParamIterations], o.Value, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		viz.Title.Render("best"),
		viz.Metric("omega ", fmt.Sprintf("%.2f", best[optim.ParamOmega])),
		viz.Metric("sweeps", fmt.Sprintf("%.0f", best[optim.ParamIterations])),
		viz.Metric("|div| ", fmt.Sprintf("%.4e", val)),
	)))
	return nil
}
