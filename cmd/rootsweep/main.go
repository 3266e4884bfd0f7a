// Command rootsweep grows many sectional networks over a grid of branch
// angles and perturbations and ranks the settings by mean extension.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"rootweave/internal/app"
	"rootweave/internal/config"
	"rootweave/internal/growth"
	"rootweave/internal/soil"
)

type paramSet struct {
	angle        float64
	perturbation float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("angle=%.0f perturbation=%.2f", p.angle, p.perturbation)
}

type job struct {
	params paramSet
	seed   int64
}

type runResult struct {
	params    paramSet
	extension float64
	depth     int
	nodes     int
	err       error
}

type summary struct {
	params    paramSet
	mean      float64
	stddev    float64
	meanDepth float64
	failures  int
}

func main() {
	seeds := flag.Int("seeds", 16, "seeds per parameter set")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "number of best settings to print")
	path := flag.String("config", "", "YAML run file; defaults are used when empty")
	overrides := app.Pairs{}
	flag.Var(overrides, "set", "growth override in key=value form (repeatable)")
	flag.Parse()

	base := config.Default()
	if *path != "" {
		loaded, err := config.Load(*path)
		if err != nil {
			log.Fatalf("rootsweep: %v", err)
		}
		base = *loaded
	}
	base.Mode = config.ModeSectional
	base.Overrides(overrides)
	if err := base.Validate(); err != nil {
		log.Fatalf("rootsweep: %v", err)
	}
	ix, err := base.BuildIndex(context.Background(), nil)
	if err != nil {
		log.Fatalf("rootsweep: %v", err)
	}

	angleOptions := []float64{20, 30, 40, 50, 60}
	perturbationOptions := []float64{0, 0.1, 0.2, 0.35}
	var sets []paramSet
	for _, a := range angleOptions {
		for _, p := range perturbationOptions {
			sets = append(sets, paramSet{angle: a, perturbation: p})
		}
	}

	fmt.Printf("Sweeping %d parameter sets x %d seeds (%d workers, %d soil points)\n", len(sets), *seeds, *workers, ix.Len())

	jobs := make(chan job)
	results := make(chan runResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- runScenario(ix, base, j)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			for s := 0; s < *seeds; s++ {
				jobs <- job{params: params, seed: int64(s)}
			}
		}
		close(jobs)
	}()

	start := time.Now()
	byParams := map[paramSet][]runResult{}
	for res := range results {
		byParams[res.params] = append(byParams[res.params], res)
	}

	all := make([]summary, 0, len(byParams))
	for params, runs := range byParams {
		all = append(all, summarize(params, runs))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].mean != all[j].mean {
			return all[i].mean > all[j].mean
		}
		return all[i].params.String() < all[j].params.String()
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d settings (elapsed %s):\n", *top, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		s := all[i]
		fmt.Printf("%2d) extension=%.2f±%.2f depth=%.1f failures=%d %s\n",
			i+1, s.mean, s.stddev, s.meanDepth, s.failures, s.params)
	}
}

func runScenario(ix *soil.Index, base config.Config, j job) runResult {
	cfg := base.Sectional
	cfg.Params.BranchAngle = j.params.angle
	cfg.Params.Perturbation = j.params.perturbation
	seed := j.seed
	cfg.Seed = &seed

	res, err := growth.Grow(ix, base.Anchors[0], cfg)
	if err != nil {
		return runResult{params: j.params, err: err}
	}
	return runResult{
		params:    j.params,
		extension: res.Extension(),
		depth:     res.Depth(),
		nodes:     res.Graph.Len(),
	}
}

func summarize(params paramSet, runs []runResult) summary {
	var ext, depth []float64
	s := summary{params: params}
	for _, r := range runs {
		if r.err != nil {
			s.failures++
			continue
		}
		ext = append(ext, r.extension)
		depth = append(depth, float64(r.depth))
	}
	if len(ext) == 0 {
		return s
	}
	s.mean, s.stddev = stat.MeanStdDev(ext, nil)
	s.meanDepth = stat.Mean(depth, nil)
	return s
}
