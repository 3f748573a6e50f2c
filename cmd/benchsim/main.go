package main

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	algocloth "github.com/cwbudde/algo-cloth"
)

type benchResult struct {
	grid    gridSize
	workers int
	nsPerOp float64
}

type gridSize struct {
	cols, rows int
}

func main() {
	var (
		gridList   = flag.String("grids", "16x16,32x32,64x64", "comma-separated cloth grid sizes")
		workerList = flag.String("workers", "1,2,4,8", "comma-separated worker counts")
		substeps   = flag.Int("substeps", 16, "sub-steps per simulated frame")
		dt         = flag.Float64("dt", 1.0/60.0, "frame timestep in seconds")
		iters      = flag.Int("iters", 50, "benchmark iterations")
		warmup     = flag.Int("warmup", 5, "warmup iterations")
		emit       = flag.Bool("emit", false, "emit RecordWorkerDecision lines")
		tuningFile = flag.String("tuning", "", "export tuning to file (portable format)")
	)
	flag.Parse()

	grids := parseGrids(*gridList)
	if len(grids) == 0 {
		fmt.Println("no grid sizes specified")
		return
	}

	workers := parseInts(*workerList)
	if len(workers) == 0 {
		fmt.Println("no worker counts specified")
		return
	}

	fmt.Printf("iters=%d warmup=%d substeps=%d dt=%.5f\n", *iters, *warmup, *substeps, *dt)
	fmt.Printf("%10s  %10s  %8s  %12s\n", "grid", "springs", "workers", "ns/op")

	for _, g := range grids {
		results := benchmarkGrid(g, workers, *dt, *substeps, *iters, *warmup)
		if len(results) == 0 {
			continue
		}

		sort.Slice(results, func(i, j int) bool {
			return results[i].nsPerOp < results[j].nsPerOp
		})

		springs := springCount(g)
		for _, res := range results {
			fmt.Printf("%10s  %10d  %8d  %12.1f\n", g, springs, res.workers, res.nsPerOp)
		}

		best := results[0]
		particles := g.cols * g.rows
		algocloth.RecordWorkerDecision(particles, springs, best.workers)

		if *emit {
			fmt.Printf("algocloth.RecordWorkerDecision(%d, %d, %d)\n", particles, springs, best.workers)
		}
	}

	if *tuningFile != "" {
		if err := algocloth.ExportTuning(*tuningFile); err != nil {
			fmt.Printf("tuning export failed: %v\n", err)
			return
		}
		fmt.Printf("tuning exported to %s (%d entries)\n", *tuningFile, algocloth.TuningLen())
	}
}

func benchmarkGrid(g gridSize, workerCounts []int, dt float64, substeps, iters, warmup int) []benchResult {
	var results []benchResult

	for _, workers := range workerCounts {
		ns, err := benchmarkRun(g, workers, dt, substeps, iters, warmup)
		if err != nil {
			fmt.Printf("%10s  workers=%d failed: %v\n", g, workers, err)
			continue
		}

		results = append(results, benchResult{grid: g, workers: workers, nsPerOp: ns})
	}

	return results
}

func benchmarkRun(g gridSize, workers int, dt float64, substeps, iters, warmup int) (float64, error) {
	cfg := algocloth.DefaultGridConfig[float64]()

	sys, err := algocloth.NewClothGrid(g.cols, g.rows, 0.1, cfg)
	if err != nil {
		return 0, err
	}

	opts := algocloth.DefaultOptions[float64]()
	opts.Workers = workers

	it, err := algocloth.NewIntegrator(sys, opts)
	if err != nil {
		return 0, err
	}

	for i := 0; i < warmup; i++ {
		if _, err := it.Simulate(dt, substeps); err != nil {
			return 0, err
		}
	}

	start := time.Now()
	for i := 0; i < iters; i++ {
		if _, err := it.Simulate(dt, substeps); err != nil {
			return 0, err
		}
	}

	return float64(time.Since(start).Nanoseconds()) / float64(iters), nil
}

func springCount(g gridSize) int {
	structural := g.rows*(g.cols-1) + g.cols*(g.rows-1)
	shear := 2 * (g.cols - 1) * (g.rows - 1)
	return structural + shear
}

func (g gridSize) String() string {
	return fmt.Sprintf("%dx%d", g.cols, g.rows)
}

func parseGrids(s string) []gridSize {
	var grids []gridSize

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dims := strings.SplitN(part, "x", 2)
		if len(dims) != 2 {
			continue
		}

		cols, err1 := strconv.Atoi(dims[0])
		rows, err2 := strconv.Atoi(dims[1])
		if err1 != nil || err2 != nil || cols < 2 || rows < 2 {
			continue
		}

		grids = append(grids, gridSize{cols: cols, rows: rows})
	}

	return grids
}

func parseInts(s string) []int {
	var values []int

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		v, err := strconv.Atoi(part)
		if err != nil || v < 1 {
			continue
		}

		values = append(values, v)
	}

	return values
}
