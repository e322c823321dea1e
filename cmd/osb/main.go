package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ivlev/storyboard/internal/config"
	"github.com/ivlev/storyboard/internal/director"
	"github.com/ivlev/storyboard/internal/engine"
	"github.com/ivlev/storyboard/internal/renderer"
	"github.com/ivlev/storyboard/internal/source"
	"github.com/ivlev/storyboard/internal/storyboard"
	"github.com/ivlev/storyboard/internal/system"
	"github.com/ivlev/storyboard/internal/timeline"
)

// Set with -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   "osb",
	Short: "osu! storyboard parser and timeline inspector",
	Long: `osb parses osu! storyboard scripts (.osb), expands their loops and
answers point-in-time queries about every sprite and animation.

Without a path argument the newest .osb file in input/ is used.
Settings come from flags, OSB_* environment variables and an optional
osb.yaml in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[-] %v", err)
	}
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.Bool(config.KeyJSON, false, "output JSON")
	flags.BoolP(config.KeyQuiet, "q", false, "suppress progress and warnings")
	flags.Int(config.KeyMaxLoopCount, storyboard.DefaultMaxLoopCount, "reject loops with more iterations")
	flags.Int(config.KeyMaxExpanded, storyboard.DefaultMaxExpandedCommands, "reject objects whose loops unroll to more commands")
	_ = viper.BindPFlag(config.KeyJSON, flags.Lookup(config.KeyJSON))
	_ = viper.BindPFlag(config.KeyQuiet, flags.Lookup(config.KeyQuiet))
	_ = viper.BindPFlag(config.KeyMaxLoopCount, flags.Lookup(config.KeyMaxLoopCount))
	_ = viper.BindPFlag(config.KeyMaxExpanded, flags.Lookup(config.KeyMaxExpanded))
}

func registerCommands() {
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(rangesCmd())
	rootCmd.AddCommand(bakeCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(versionCmd())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	cfg.BuildVersion = buildVersion
	return cfg, nil
}

// inputPaths falls back to the configured input, then to the newest
// storyboard in input/.
func inputPaths(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.InputPath != "" {
		return []string{cfg.InputPath}, nil
	}
	latest, err := system.FindLatestStoryboard(config.DefaultInputDir)
	if err != nil {
		return nil, fmt.Errorf("%v. Put a .osb file into %s/ or pass a path", err, config.DefaultInputDir)
	}
	if !cfg.Quiet {
		fmt.Printf("[*] Selected file: %s\n", latest)
	}
	return []string{latest}, nil
}

func loadStoryboard(cfg *config.Config, args []string) (*storyboard.Storyboard, error) {
	paths, err := inputPaths(cfg, args)
	if err != nil {
		return nil, err
	}
	sb, err := storyboard.ParseFile(paths[0], cfg.ParseOptions())
	if err != nil {
		return nil, err
	}
	printWarnings(cfg, sb)
	return sb, nil
}

func printWarnings(cfg *config.Config, sb *storyboard.Storyboard) {
	if cfg.Quiet || cfg.JSON {
		return
	}
	for _, w := range sb.Warnings {
		fmt.Printf("[!] %s: %s\n", sb.Name, w)
	}
}

func objectAt(sb *storyboard.Storyboard, index int) (*storyboard.Object, error) {
	if index < 0 || index >= len(sb.Events.Objects) {
		return nil, fmt.Errorf("object %d out of range: %s has %d objects", index, sb.Name, len(sb.Events.Objects))
	}
	return sb.Events.Objects[index], nil
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Parse storyboards concurrently and report errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			paths, err := inputPaths(cfg, args)
			if err != nil {
				return err
			}
			cfg.InputPath = paths[0]

			sources, err := source.Expand(paths...)
			if err != nil {
				return err
			}
			system.InitResourceLimits(uint64(cfg.Workers*4 + 64))

			report, err := engine.NewProject(cfg, sources).Run(cmd.Context())
			if err != nil {
				return err
			}

			if cfg.JSON {
				type fileResult struct {
					File      string               `json:"file"`
					OK        bool                 `json:"ok"`
					Error     string               `json:"error,omitempty"`
					Objects   int                  `json:"objects"`
					Commands  int                  `json:"commands"`
					Warnings  []storyboard.Warning `json:"warnings,omitempty"`
					ElapsedMS float64              `json:"elapsed_ms"`
				}
				out := make([]fileResult, 0, len(report.Results))
				for _, r := range report.Results {
					fr := fileResult{File: r.Name, OK: r.Err == nil, Objects: r.Objects, Commands: r.Commands,
						ElapsedMS: float64(r.Elapsed.Microseconds()) / 1000}
					if r.Err != nil {
						fr.Error = r.Err.Error()
					} else {
						fr.Warnings = r.Storyboard.Warnings
					}
					out = append(out, fr)
				}
				if err := printJSON(out); err != nil {
					return err
				}
			} else {
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"File", "Status", "Objects", "Commands", "Warnings", "Time"})
				for _, r := range report.Results {
					if r.Err != nil {
						tw.AppendRow(table.Row{r.Name, r.Err, "", "", "", r.Elapsed.Round(time.Microsecond)})
						continue
					}
					printWarnings(cfg, r.Storyboard)
					tw.AppendRow(table.Row{r.Name, "OK", r.Objects, r.Commands, len(r.Storyboard.Warnings), r.Elapsed.Round(time.Microsecond)})
				}
				tw.AppendFooter(table.Row{"Total", fmt.Sprintf("%d failed", report.Failed), report.Objects, report.Commands, "", report.Total.Round(time.Microsecond)})
				tw.Render()
			}

			if report.Failed > 0 {
				return fmt.Errorf("%d of %d storyboards failed to parse", report.Failed, len(report.Results))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntP(config.KeyWorkers, "w", runtime.NumCPU(), "parallel parsers")
	flags.Bool(config.KeyStats, false, "print a performance report and append it to the stats log")
	flags.String(config.KeyStatsLog, config.DefaultStatsLog, "stats log file")
	_ = viper.BindPFlag(config.KeyWorkers, flags.Lookup(config.KeyWorkers))
	_ = viper.BindPFlag(config.KeyStats, flags.Lookup(config.KeyStats))
	_ = viper.BindPFlag(config.KeyStatsLog, flags.Lookup(config.KeyStatsLog))
	return cmd
}

type objectInfo struct {
	Index     int               `json:"index"`
	Line      int               `json:"line"`
	Type      string            `json:"type"`
	Layer     string            `json:"layer"`
	Origin    string            `json:"origin"`
	Image     string            `json:"image"`
	Commands  int               `json:"commands"`
	Flattened int               `json:"flattened"`
	Start     *int              `json:"start,omitempty"`
	End       *int              `json:"end,omitempty"`
	Visible   []timeline.Range  `json:"visible"`
	Animation *animationSummary `json:"animation,omitempty"`
}

type animationSummary struct {
	Frames   int     `json:"frames"`
	DelayMS  float64 `json:"delay_ms"`
	LoopType string  `json:"loop_type"`
}

func describe(index int, obj *storyboard.Object) objectInfo {
	c := timeline.Of(obj)
	info := objectInfo{
		Index:     index,
		Line:      obj.Line,
		Type:      obj.Type.String(),
		Layer:     obj.Layer.String(),
		Origin:    obj.Origin.String(),
		Image:     obj.ImagePath,
		Commands:  len(obj.Commands),
		Flattened: len(c.Flattened.Commands),
		Visible:   slices.Collect(timeline.VisibleRanges(c)),
	}
	if start, ok := c.Flattened.Start(); ok {
		end, _ := c.Flattened.End()
		info.Start, info.End = &start, &end
	}
	if a := obj.Animation; a != nil {
		info.Animation = &animationSummary{Frames: a.FrameCount, DelayMS: a.FrameDelay, LoopType: a.LoopType.String()}
	}
	return info
}

func optInt(v *int) any {
	if v == nil {
		return "-"
	}
	return *v
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the objects of a storyboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sb, err := loadStoryboard(cfg, args)
			if err != nil {
				return err
			}

			infos := make([]objectInfo, 0, len(sb.Events.Objects))
			for i, obj := range sb.Events.Objects {
				infos = append(infos, describe(i, obj))
			}
			if cfg.JSON {
				return printJSON(map[string]any{"name": sb.Name, "objects": infos, "warnings": sb.Warnings})
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetTitle(sb.Name)
			tw.AppendHeader(table.Row{"#", "Line", "Type", "Layer", "Origin", "Image", "Commands", "Flattened", "Start", "End", "Visible"})
			for _, info := range infos {
				tw.AppendRow(table.Row{info.Index, info.Line, info.Type, info.Layer, info.Origin, info.Image,
					info.Commands, info.Flattened, optInt(info.Start), optInt(info.End), len(info.Visible)})
			}
			tw.Render()
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	var (
		index         int
		at            float64
		width, height float64
	)
	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Print the interpolated state of an object at a given time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sb, err := loadStoryboard(cfg, args)
			if err != nil {
				return err
			}
			obj, err := objectAt(sb, index)
			if err != nil {
				return err
			}

			state := renderer.For(obj).State(at)
			var transform []float64
			if width > 0 && height > 0 {
				m := state.Transform(width, height)
				transform = m[:]
			}

			if cfg.JSON {
				return printJSON(map[string]any{"object": index, "state": state, "transform": transform})
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetTitle(fmt.Sprintf("%s #%d at %gms", sb.Name, index, at))
			tw.AppendHeader(table.Row{"Attribute", "Value"})
			tw.AppendRows([]table.Row{
				{"Position", fmt.Sprintf("%.3f, %.3f", state.X, state.Y)},
				{"Scale", fmt.Sprintf("%.3f, %.3f", state.ScaleX, state.ScaleY)},
				{"Rotation", fmt.Sprintf("%.4f rad", state.Rotation)},
				{"Opacity", fmt.Sprintf("%.3f", state.Opacity)},
				{"Colour", fmt.Sprintf("%.0f, %.0f, %.0f", state.R, state.G, state.B)},
				{"Flip", fmt.Sprintf("H=%v V=%v", state.FlipH, state.FlipV)},
				{"Additive", state.Additive},
				{"Origin", state.Origin},
			})
			if obj.Animation != nil {
				tw.AppendRow(table.Row{"Frame", fmt.Sprintf("%d (%s)", state.Frame, obj.FramePath(state.Frame))})
			}
			if transform != nil {
				tw.AppendRow(table.Row{"Transform", fmt.Sprintf("%.4f", transform)})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "object", "n", 0, "object index in [Events]")
	cmd.Flags().Float64VarP(&at, "at", "t", 0, "time in milliseconds")
	cmd.Flags().Float64Var(&width, "width", 0, "image width for the transform matrix")
	cmd.Flags().Float64Var(&height, "height", 0, "image height for the transform matrix")
	return cmd
}

func rangesCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "ranges [file]",
		Short: "Print the time ranges in which objects may be visible",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sb, err := loadStoryboard(cfg, args)
			if err != nil {
				return err
			}

			indices := make([]int, 0, len(sb.Events.Objects))
			if index >= 0 {
				if _, err := objectAt(sb, index); err != nil {
					return err
				}
				indices = append(indices, index)
			} else {
				for i := range sb.Events.Objects {
					indices = append(indices, i)
				}
			}

			all := make(map[int][]timeline.Range, len(indices))
			for _, i := range indices {
				all[i] = slices.Collect(timeline.VisibleRanges(timeline.Of(sb.Events.Objects[i])))
			}
			if cfg.JSON {
				return printJSON(all)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"#", "Image", "Start", "End", "Duration"})
			for _, i := range indices {
				for _, r := range all[i] {
					tw.AppendRow(table.Row{i, sb.Events.Objects[i].ImagePath, r.Start, r.End, r.End - r.Start})
				}
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "object", "n", -1, "object index in [Events] (default all)")
	return cmd
}

func bakeCmd() *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "bake [file]",
		Short: "Sample every object at a fixed frame rate into a YAML scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sb, err := loadStoryboard(cfg, args)
			if err != nil {
				return err
			}

			scenario, err := director.NewDirector(cfg.FPS).Bake(sb)
			if err != nil {
				return err
			}

			outputPath := cfg.OutputPath
			if outputPath == "" {
				outputPath = director.GenerateScenarioPath(sb.Name, compress)
			}
			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return err
			}
			if err := director.WriteScenario(scenario, outputPath); err != nil {
				return err
			}

			if !cfg.Quiet {
				fmt.Printf("[+++] Success! Scenario saved: %s (%d tracks @ %g fps)\n", outputPath, len(scenario.Tracks), scenario.FPS)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Float64(config.KeyFPS, config.DefaultFPS, "samples per second")
	flags.StringP(config.KeyOutput, "o", "", "output file, .zst for compressed (default output/<name>_<time>.yaml)")
	flags.BoolVar(&compress, "compress", false, "zstd-compress the generated default output")
	_ = viper.BindPFlag(config.KeyFPS, flags.Lookup(config.KeyFPS))
	_ = viper.BindPFlag(config.KeyOutput, flags.Lookup(config.KeyOutput))
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [scenario]",
		Short: "Summarise a baked scenario (default: the newest in output/)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				path, err = director.FindLatestScenario(director.ScenariosDir)
				if err != nil {
					return err
				}
			}
			scenario, err := director.ReadScenario(path)
			if err != nil {
				return err
			}

			if cfg.JSON {
				return printJSON(scenario)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetTitle(fmt.Sprintf("%s (v%s, %g fps)", scenario.Name, scenario.Version, scenario.FPS))
			tw.AppendHeader(table.Row{"#", "Line", "Type", "Image", "Start", "End", "Keyframes", "Visible"})
			for _, tr := range scenario.Tracks {
				visible := 0
				for _, kf := range tr.Keyframes {
					if kf.Visible {
						visible++
					}
				}
				tw.AppendRow(table.Row{tr.Object, tr.Line, tr.Type, tr.Image, tr.Start, tr.End, len(tr.Keyframes), visible})
			}
			tw.Render()
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(buildVersion)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
