package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/config"
	"github.com/san-kum/ridersim/internal/export"
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/logging"
	"github.com/san-kum/ridersim/internal/metrics"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/sim"
	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/track"
	"github.com/san-kum/ridersim/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	// Shared by run, plot, compare and export-svg
	frames      int
	stopOnCrash bool
	// Output paths
	outFile string
	csvFile string
	// Plot size
	plotHeight int
	plotWidth  int
	// Braille export
	braille bool
	cols    int
	rows    int
	// Backup pruning
	keep int
	// TUI theme
	theme string

	cfg    *config.Config
	logger *zap.Logger
)

// main registers the ridersim commands and runs the one named on the
// command line. With no subcommand the editor starts on an empty track.
func main() {
	rootCmd := &cobra.Command{
		Use:               "ridersim",
		Short:             "line rider track editor and simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runEdit,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml), default <data>/config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "physics preset")

	editCmd := &cobra.Command{
		Use:   "edit [track]",
		Short: "open the terminal editor",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEdit,
	}
	editCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [track]",
		Short: "simulate a track and print ride metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrack,
	}
	runCmd.Flags().IntVar(&frames, "frames", 400, "frames to simulate")
	runCmd.Flags().StringVar(&csvFile, "csv", "", "also write the rider trail as CSV")
	runCmd.Flags().BoolVar(&stopOnCrash, "stop-on-crash", false, "end the ride at the first crash")

	compareCmd := &cobra.Command{
		Use:   "compare [track] [preset...]",
		Short: "ride a track under several physics presets",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareTrack,
	}
	compareCmd.Flags().IntVar(&frames, "frames", 400, "frames to simulate")
	compareCmd.Flags().BoolVar(&stopOnCrash, "stop-on-crash", false, "end each ride at its first crash")

	plotCmd := &cobra.Command{
		Use:   "plot [track]",
		Short: "plot rider speed over a ride",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTrack,
	}
	plotCmd.Flags().IntVar(&frames, "frames", 400, "frames to simulate")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "graph height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "graph width")

	exportCmd := &cobra.Command{
		Use:   "export-svg [track]",
		Short: "export a track and its ride to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().IntVar(&frames, "frames", 400, "frames to simulate")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file, default <track>.svg")
	exportCmd.Flags().BoolVar(&braille, "braille", false, "export the terminal rendering instead")
	exportCmd.Flags().IntVar(&cols, "cols", 120, "braille canvas columns")
	exportCmd.Flags().IntVar(&rows, "rows", 40, "braille canvas rows")

	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "list built-in tracks",
		RunE:  listSamples,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRAVITY\tITERATIONS")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.3f\t%d\n", name, p.Gravity, p.Iterations)
			}
			return w.Flush()
		},
	}

	backupsCmd := &cobra.Command{
		Use:   "backups",
		Short: "list saved tracks and backups",
		RunE:  listBackups,
	}
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "delete old autosaves and crash backups",
		RunE:  pruneBackups,
	}
	pruneCmd.Flags().IntVar(&keep, "keep", config.DefaultMaxBackups, "backups to keep")
	backupsCmd.AddCommand(pruneCmd)

	rootCmd.AddCommand(editCmd, runCmd, compareCmd, plotCmd, exportCmd, samplesCmd, presetsCmd, backupsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and applies the global flags over it. Flags win
// only when given explicitly.
func setup(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = filepath.Join(dataDir, "config.yaml")
	}
	switch _, err := os.Stat(path); {
	case err == nil:
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	case configFile != "":
		return errors.Wrapf(err, "config %s", configFile)
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("preset") {
		p, ok := config.GetPreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Preset, cfg.Physics = preset, p
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The editor owns the terminal, so it logs to a file instead.
	if cmd.Name() == "edit" || cmd.Parent() == nil {
		return nil
	}
	l, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(filepath.Join(cfg.DataDir, "tracks"), storage.WithLogger(logger))
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// loadTrack resolves ref as a sample name, then a JSON file, then a backup
// id in the store.
func loadTrack(ctx context.Context, ref string) (*track.Track, error) {
	if trk, err := track.Sample(ref); err == nil {
		return trk, nil
	}
	if _, err := os.Stat(ref); err == nil {
		snap, err := storage.ReadFile(ref)
		if err != nil {
			return nil, err
		}
		return track.FromSnapshot(snap)
	}
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	trk, err := st.LoadTrack(ctx, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("unknown track %q (samples: %v)", ref, track.SampleNames())
	}
	return trk, err
}

// ride simulates frames of trk with the configured physics.
func ride(ctx context.Context, trk *track.Track) (*sim.Result, error) {
	s := sim.New(cfg.Physics, sim.WithLogger(logger))
	result, err := s.Run(ctx, trk, physics.NewRider(trk.Start(), trk.ZeroStart()), rideConfig())
	if err != nil {
		return nil, err
	}
	for _, rerr := range result.Errors {
		logger.Warn("ride stopped early", zap.Error(rerr))
	}
	return result, nil
}

func rideConfig() sim.Config {
	c := sim.DefaultConfig()
	c.Frames = frames
	c.StopOnCrash = stopOnCrash
	return c
}

func runTrack(cmd *cobra.Command, args []string) error {
	trk, err := loadTrack(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result, err := ride(cmd.Context(), trk)
	if err != nil {
		return err
	}

	fmt.Printf("track: %s (%d lines)\n", trk.Name(), trk.LineCount())
	fmt.Printf("frames: %d (%s)\n\n", len(result.Frames), result.Elapsed)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if csvFile == "" {
		return nil
	}
	f, err := os.Create(csvFile)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer f.Close()
	if err := export.WriteTrailCSV(f, result.Frames); err != nil {
		return err
	}
	fmt.Printf("\ntrail written to %s\n", csvFile)
	return nil
}

// compareTrack rides the track once per preset, all presets when none are
// named.
func compareTrack(cmd *cobra.Command, args []string) error {
	trk, err := loadTrack(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	params := config.Presets
	if len(args) > 1 {
		params = make(map[string]physics.Params, len(args)-1)
		for _, name := range args[1:] {
			p, ok := config.GetPreset(name)
			if !ok {
				return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
			}
			params[name] = p
		}
	}

	results, err := sim.NewEnsemble(params, sim.WithLogger(logger)).
		Run(cmd.Context(), trk, physics.NewRider(trk.Start(), trk.ZeroStart()), rideConfig())
	if err != nil {
		return err
	}

	fmt.Printf("track: %s (%d lines)\n\n", trk.Name(), trk.LineCount())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFRAMES\tMEAN SPEED\tMAX SPEED\tCRASH FRAME\tTIME")
	for _, r := range results {
		crash := "-"
		if f := r.Metrics["crash_frame"]; f >= 0 {
			crash = fmt.Sprintf("%.0f", f)
		}
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%s\t%s\n",
			r.Name, len(r.Frames), r.Metrics["mean_speed"], r.Metrics["max_speed"], crash, r.Elapsed)
	}
	return w.Flush()
}

func plotTrack(cmd *cobra.Command, args []string) error {
	trk, err := loadTrack(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result, err := ride(cmd.Context(), trk)
	if err != nil {
		return err
	}
	if len(result.Frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("track: %s\n", trk.Name())
	fmt.Printf("frames: %d\n", len(result.Frames))
	if f := result.Metrics["crash_frame"]; f >= 0 {
		fmt.Printf("crashed at frame %.0f\n", f)
	}
	fmt.Println()

	graph := asciigraph.Plot(metrics.SpeedSeries(result.Frames),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("speed vs frame"),
	)
	fmt.Println(graph)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	trk, err := loadTrack(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result, err := ride(cmd.Context(), trk)
	if err != nil {
		return err
	}
	states := result.States()

	var svg string
	if braille {
		svg = brailleSVG(trk, states)
	} else {
		svg = export.TrackToSVG(trk.Snapshot(), states, export.DefaultSVGOptions())
	}

	out := outFile
	if out == "" {
		out = trk.Name() + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		return errors.Wrap(err, "write svg")
	}
	fmt.Printf("exported %s to %s\n", trk.Name(), out)
	return nil
}

func brailleSVG(trk *track.Track, states []physics.RiderState) string {
	lines := trk.Lines()
	bounds := geom.Rect{Min: trk.Start(), Max: trk.Start()}
	for _, l := range lines {
		bounds = bounds.Include(l.P1).Include(l.P2)
	}
	c := viz.NewCanvas(cols, rows)
	v := viz.Fit(bounds.Expand(10), cols, rows)
	for _, s := range states {
		x, y := v.ToDot(s.Center())
		c.Set(x, y, viz.InkTrail)
	}
	var last []physics.RiderState
	if len(states) > 0 {
		last = states[len(states)-1:]
	}
	viz.Paint(c, v, lines, last...)
	return export.CanvasToSVG(c, viz.CurrentTheme, 4)
}

func listSamples(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLINES\tTRIGGERS")
	for _, name := range track.SampleNames() {
		trk, err := track.Sample(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", name, trk.LineCount(), len(trk.Triggers()))
	}
	return w.Flush()
}

func listBackups(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	list, err := st.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no backups found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tTIME\tLINES")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			m.ID,
			m.Name,
			m.Kind,
			m.Timestamp.Format("2006-01-02 15:04:05"),
			m.Lines,
		)
	}
	return w.Flush()
}

func pruneBackups(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	n, err := st.Prune(keep)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d backups\n", n)
	return nil
}
