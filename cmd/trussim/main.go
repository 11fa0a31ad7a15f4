package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/san-kum/trussim/internal/config"
	"github.com/san-kum/trussim/internal/export"
	"github.com/san-kum/trussim/internal/input"
	"github.com/san-kum/trussim/internal/report"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/storage"
	"github.com/san-kum/trussim/internal/truss"
	"github.com/san-kum/trussim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	tolerance  float64
	format     string
	save       bool
	svgPath    string
	svgScale   float64
	deformed   bool
	magnify    float64
	plot       bool
	workers    int
)

var metricOrder = []string{"strain_energy", "equilibrium_x", "equilibrium_y", "max_displacement", "max_abs_force"}

func main() {
	rootCmd := &cobra.Command{
		Use:          "trussim",
		Short:        "static analysis of plane pin-jointed trusses",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	solveCmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "solve a truss from a file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveTruss,
	}
	solveCmd.Flags().StringVar(&preset, "preset", "", "solve a built-in truss")
	solveCmd.Flags().Float64Var(&tolerance, "tol", 0, "pivot tolerance (default from config)")
	solveCmd.Flags().StringVar(&format, "format", config.DefaultFormat, "output format: text or json")
	solveCmd.Flags().BoolVar(&save, "save", false, "store the run under the data directory")
	solveCmd.Flags().StringVar(&svgPath, "svg", "", "write a drawing of the solved truss")
	solveCmd.Flags().Float64Var(&svgScale, "scale", config.DefaultSVGScale, "svg pixels per length unit")
	solveCmd.Flags().BoolVar(&deformed, "deformed", false, "overlay the deformed shape in the svg")
	solveCmd.Flags().Float64Var(&magnify, "magnify", 0, "displacement magnification (0 = auto)")
	solveCmd.Flags().BoolVar(&plot, "plot", false, "plot member forces")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the tables of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot member forces of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id] [out]",
		Short: "export a stored run as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in trusses",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNODES\tMEMBERS\tLOADS")
			for _, name := range config.ListPresets() {
				m := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", name, m.NumNodes(), m.NumMembers(), m.NumLoads())
			}
			return w.Flush()
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "solve and browse results interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  viewTruss,
	}
	viewCmd.Flags().StringVar(&preset, "preset", "", "view a built-in truss")
	viewCmd.Flags().Float64Var(&tolerance, "tol", 0, "pivot tolerance (default from config)")

	batchCmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "solve several trusses concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  batchSolve,
	}
	batchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent solvers")
	batchCmd.Flags().Float64Var(&tolerance, "tol", 0, "pivot tolerance (default from config)")
	batchCmd.Flags().BoolVar(&save, "save", false, "store successful runs")

	convertCmd := &cobra.Command{
		Use:   "convert [in] [out]",
		Short: "rewrite a truss file as yaml or json",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := input.Load(args[0])
			if err != nil {
				return err
			}
			return input.Save(args[1], m)
		},
	}

	newCmd := &cobra.Command{
		Use:   "new [out]",
		Short: "enter a truss at the prompt, solve it and optionally save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  newTruss,
	}
	newCmd.Flags().Float64Var(&tolerance, "tol", 0, "pivot tolerance (default from config)")

	rootCmd.AddCommand(solveCmd, listCmd, showCmd, plotCmd, exportCmd, presetsCmd, viewCmd, batchCmd, convertCmd, newCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when given; explicitly set flags win over the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Lookup("tol") != nil && flags.Changed("tol") {
		cfg.Solver.PivotTolerance = tolerance
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Solver.Workers = workers
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Lookup("scale") != nil && flags.Changed("scale") {
		cfg.Output.SVGScale = svgScale
	}
	if flags.Lookup("magnify") != nil && flags.Changed("magnify") {
		cfg.Output.Magnify = magnify
	}
	return cfg, nil
}

func loadModel(args []string) (*truss.Model, string, error) {
	if preset != "" {
		m := config.GetPreset(preset)
		if m == nil {
			return nil, "", fmt.Errorf("unknown preset %q (try: trussim presets)", preset)
		}
		return m, "preset:" + preset, nil
	}
	if len(args) == 0 {
		return nil, "", errors.New("need a truss file or --preset")
	}
	m, err := input.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	return m, args[0], nil
}

func runSolver(cmd *cobra.Command, cfg *config.Config, m *truss.Model) (*solver.Result, error) {
	logger := loggerFromContext(cmd.Context())
	s := solver.New(m,
		solver.WithTolerance(cfg.Solver.PivotTolerance),
		solver.WithLogger(logger),
	)
	if err := s.Solve(); err != nil {
		return nil, err
	}
	return s.Result()
}

func solveTruss(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	m, source, err := loadModel(args)
	if err != nil {
		return err
	}
	logger.Debug("loaded truss", "source", source, "nodes", m.NumNodes(), "members", m.NumMembers())

	res, err := runSolver(cmd, cfg, m)
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case "json":
		if err := report.WriteJSON(os.Stdout, res); err != nil {
			return err
		}
	case "text", "":
		p := report.NewPrinter(os.Stdout, cfg.Output.Precision)
		if err := p.Print(res); err != nil {
			return err
		}
		if verbose {
			fmt.Println()
			if err := p.Metrics(res, metricOrder); err != nil {
				return err
			}
		}
		if plot {
			if g := report.PlotForces(res.Forces, cfg.Output.PlotHeight, cfg.Output.PlotWidth); g != "" {
				fmt.Println()
				fmt.Println(g)
			}
		}
	default:
		return fmt.Errorf("unknown format %q", cfg.Output.Format)
	}

	if svgPath != "" {
		opts := export.SVGOptions{Scale: cfg.Output.SVGScale, Deformed: deformed, Magnify: cfg.Output.Magnify}
		if err := export.WriteSVG(svgPath, res, opts); err != nil {
			return err
		}
		logger.Info("wrote drawing", "path", svgPath)
	}

	if save {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(source, cfg.Solver.PivotTolerance, res)
		if err != nil {
			return err
		}
		logger.Info("saved run", "id", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tNODES\tMEMBERS\tSOURCE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Members,
			run.Source,
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*config.Config, *solver.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	res, err := storage.New(cfg.DataDir).LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, res, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	p := report.NewPrinter(os.Stdout, cfg.Output.Precision)
	if err := p.Print(res); err != nil {
		return err
	}
	fmt.Println()
	return p.Metrics(res, metricOrder)
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	forces, err := storage.New(cfg.DataDir).LoadForces(args[0])
	if err != nil {
		return err
	}
	g := report.PlotForces(forces, cfg.Output.PlotHeight, cfg.Output.PlotWidth)
	if g == "" {
		fmt.Println("need at least two members to plot")
		return nil
	}
	fmt.Println(g)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return report.WriteJSON(os.Stdout, res)
	}
	if err := report.ExportJSON(args[1], res); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("exported", "path", args[1])
	return nil
}

func newTruss(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := input.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Model()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := input.Save(args[0], m); err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Info("wrote truss", "path", args[0])
	}

	res, err := runSolver(cmd, cfg, m)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return report.NewPrinter(cmd.OutOrStdout(), cfg.Output.Precision).Print(res)
}

func viewTruss(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, _, err := loadModel(args)
	if err != nil {
		return err
	}
	res, err := runSolver(cmd, cfg, m)
	if err != nil {
		return err
	}
	return tui.Run(res)
}

func batchSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	models := make([]*truss.Model, 0, len(args))
	for _, path := range args {
		m, err := input.Load(path)
		if err != nil {
			return err
		}
		if m.Name == "" {
			m.Name = filepath.Base(path)
		}
		models = append(models, m)
	}

	results := solver.SolveBatch(cmd.Context(), models, solver.BatchConfig{
		Tolerance: cfg.Solver.PivotTolerance,
		Logger:    logger,
		Workers:   cfg.Solver.Workers,
	})

	var st *storage.Store
	if save {
		st = storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tNAME\tSTATUS\tMAX|N|\tMAX|U|")
	for i, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t%s\t%v\t\t\n", args[i], r.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\tok\t%.4g\t%.4g\n", args[i], r.Name,
			r.Result.Metrics["max_abs_force"], r.Result.Metrics["max_displacement"])
		if st != nil {
			if _, err := st.Save(args[i], cfg.Solver.PivotTolerance, r.Result); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d trusses failed", failed, len(results))
	}
	return nil
}
