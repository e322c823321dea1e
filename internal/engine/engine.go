package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/storyboard/internal/config"
	"github.com/ivlev/storyboard/internal/source"
	"github.com/ivlev/storyboard/internal/storyboard"
	"github.com/ivlev/storyboard/internal/system"
	"github.com/ivlev/storyboard/internal/timeline"
)

// Project parses a batch of storyboards
type Project struct {
	Config  *config.Config
	Sources []source.Source
}

func NewProject(cfg *config.Config, sources []source.Source) *Project {
	return &Project{
		Config:  cfg,
		Sources: sources,
	}
}

// Result is the outcome for one source. Err holds the parse error, if any.
type Result struct {
	Name       string
	Storyboard *storyboard.Storyboard
	Objects    int
	Commands   int // after loop expansion
	Elapsed    time.Duration
	Err        error
}

// Report summarises a run
type Report struct {
	Results  []Result
	Failed   int
	Objects  int
	Commands int
	Total    time.Duration
}

// Run parses every source with at most Config.Workers running at once. A
// malformed storyboard is recorded in its Result and does not stop the
// batch; a cancelled ctx does.
func (p *Project) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()
	count := len(p.Sources)
	if count == 0 {
		return nil, fmt.Errorf("no storyboards to process")
	}

	workers := p.Config.Workers
	if workers > count {
		workers = count
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, count)
	var done atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range p.Sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.parse(src)
			if !p.Config.Quiet {
				fmt.Printf("[>] Ready: %d/%d\n", done.Add(1), count)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Total: time.Since(startTime)}
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
			continue
		}
		report.Objects += r.Objects
		report.Commands += r.Commands
	}

	if p.Config.ShowStats {
		p.showStats(report)
	}
	return report, nil
}

func (p *Project) parse(src source.Source) Result {
	start := time.Now()
	res := Result{Name: src.Name()}

	r, err := src.Open()
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}
	defer r.Close()

	sb, err := storyboard.Parse(filepath.Base(src.Name()), r, p.Config.ParseOptions())
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	res.Storyboard = sb
	res.Objects = len(sb.Events.Objects)
	for _, obj := range sb.Events.Objects {
		res.Commands += len(timeline.Flatten(obj).Commands)
	}
	res.Elapsed = time.Since(start)
	return res
}

func (p *Project) showStats(report *Report) {
	rate := filesPerSecond(len(report.Results), report.Total)

	stats, err := system.CollectStats()
	if err != nil {
		fmt.Printf("[!] Host stats unavailable: %v\n", err)
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Files: %d (failed: %d)\n"+
			"Objects: %d | Commands: %d\n"+
			"Total Time: %.3fs\n"+
			"Throughput: %.2f files/s\n"+
			"Workers: %d | CPUs: %d\n"+
			"Memory (RSS): %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, len(report.Results), report.Failed,
		report.Objects, report.Commands, report.Total.Seconds(), rate,
		p.Config.Workers, stats.CPUs, system.FormatBytes(stats.RSS),
	)

	if p.Config.StatsLog == "" {
		return
	}

	input := p.Config.InputPath
	if input == "" && len(report.Results) > 0 {
		input = report.Results[0].Name
	}
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Files: %d | Failed: %d | Objects: %d | Commands: %d | Total: %.3fs | Rate: %.2f/s | RSS: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(input),
		len(report.Results),
		report.Failed,
		report.Objects,
		report.Commands,
		report.Total.Seconds(),
		rate,
		stats.RSS,
	)

	if err := appendStatsLog(p.Config.StatsLog, logEntry); err != nil {
		fmt.Printf("[!] Could not write %s: %v\n", p.Config.StatsLog, err)
	}
}

// filesPerSecond is 0 when the run was too short for the clock to measure
func filesPerSecond(files int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(files) / elapsed.Seconds()
}

func appendStatsLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
