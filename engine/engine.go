package engine

import (
	"fmt"
	"sort"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/estimator"
	"github.com/huku-/recover-go/fitness"
	"github.com/huku-/recover-go/graph"
	"github.com/huku-/recover-go/optimizer"
	"github.com/huku-/recover-go/storage"
)

// Config selects the estimator, optimizer and fitness function an
// Analyze call uses, mirroring the CLI surface of spec §6.
type Config struct {
	// Estimator is one of "agglnse", "agglpse", "apsnse", "apspse".
	// Ignored if LoadEstimation is set.
	Estimator string

	// LoadEstimation, if non-empty, skips estimation and loads a CUMap
	// from this path instead (spec §6: "--load-estimation FILE").
	LoadEstimation string

	// Optimizer is one of "none", "brute_fast", "brute", "genetic".
	Optimizer string

	// Fitness is one of "modularity", "clustering". Unused when
	// Optimizer is "none".
	Fitness string

	// Segment is the substring matched against exported segment names
	// (spec §6: "--segment NAME", default ".text").
	Segment string

	// Seed seeds the Genetic optimizer's RNG for reproducibility (spec
	// §5: "expose a seed parameter"). Ignored by other optimizers.
	Seed uint64
}

// Analyze loads the program data previously exported to dir (with the
// given file-name prefix), estimates or loads an initial CUMap for
// cfg.Segment's function set, optimizes it to a fixed point, and
// returns the result alongside per-phase timing (spec §2's load ->
// estimate -> optimize -> persist data flow, minus the final persist
// step which callers perform explicitly via storage.SaveCUMap).
func Analyze(dir, prefix string, cfg Config) (*cumap.CUMap, *Stats, error) {
	stats := NewStats()

	var data *storage.Data
	if err := stats.Time("load", func() error {
		d, err := storage.LoadData(dir, prefix)
		data = d
		return err
	}); err != nil {
		return nil, stats, fmt.Errorf("engine.Analyze: %w", err)
	}

	sel, err := data.Selector(cfg.Segment)
	if err != nil {
		return nil, stats, fmt.Errorf("engine.Analyze: %w", err)
	}
	funcs := segmentFuncs(data, sel)

	var cuMap *cumap.CUMap
	if err := stats.Time("estimate", func() error {
		m, err := loadOrEstimate(cfg, data, funcs)
		cuMap = m
		return err
	}); err != nil {
		return nil, stats, fmt.Errorf("engine.Analyze: %w", err)
	}
	cuMap.Renumber()

	if cfg.Optimizer != "none" {
		ff, err := buildFitnessFactory(cfg.Fitness, data)
		if err != nil {
			return nil, stats, fmt.Errorf("engine.Analyze: %w", err)
		}
		strat, err := buildOptimizer(cfg.Optimizer, ff, cfg.Seed)
		if err != nil {
			return nil, stats, fmt.Errorf("engine.Analyze: %w", err)
		}

		if err := stats.Time("optimize", func() error {
			optimizer.NewEngine(cuMap, strat).Optimize()
			return nil
		}); err != nil {
			return nil, stats, fmt.Errorf("engine.Analyze: %w", err)
		}
	}

	cuMap.Renumber()

	// get_invalid_cus() non-empty under validation is a fatal runtime
	// error (spec §7), not a reportable configuration mistake.
	if invalid := cuMap.GetInvalidCUs(); len(invalid) > 0 {
		panic(fmt.Sprintf("engine: invalid CUs after analysis: %v", invalid))
	}

	return cuMap, stats, nil
}

// segmentFuncs returns the sorted addresses of every CODE node in
// data's AFCG restricted to selector, the function set every
// estimator and optimizer pass operates over (spec §4.4: "all
// estimators consume the AFCG restricted to the target segment").
func segmentFuncs(data *storage.Data, selector int32) []uint64 {
	view := graph.SegmentView(data.AFCG, selector)
	nodes := view.Nodes()
	funcs := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		funcs = append(funcs, n.Addr)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i] < funcs[j] })
	return funcs
}

func loadOrEstimate(cfg Config, data *storage.Data, funcs []uint64) (*cumap.CUMap, error) {
	if cfg.LoadEstimation != "" {
		return storage.LoadCUMap(cfg.LoadEstimation)
	}

	est, err := buildEstimator(cfg.Estimator, data.PDG)
	if err != nil {
		return nil, err
	}
	return est.Estimate(funcs)
}

func buildEstimator(name string, pdg graph.Viewer) (estimator.Estimator, error) {
	switch name {
	case "agglnse":
		return estimator.NewAGGLNSE(pdg), nil
	case "agglpse":
		return estimator.NewAGGLPSE(pdg), nil
	case "apsnse":
		return estimator.NewAPSNSE(pdg), nil
	case "apspse":
		return estimator.NewAPSPSE(pdg), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownEstimator)
	}
}

func buildFitnessFactory(name string, data *storage.Data) (optimizer.FitnessFactory, error) {
	// Modularity and ClusteringCoefficient both score against the PDG
	// with SEQUENCE edges removed (spec §4.6: "replace data.pdg with
	// its no-sequence view").
	pdg := graph.NoSequenceView(data.PDG)
	isFunction := func(addr uint64) bool {
		n, ok := data.PDG.Node(addr)
		return ok && n.Type == graph.NodeCode
	}

	switch name {
	case "modularity":
		return func(funcs []uint64) fitness.Function {
			return fitness.NewModularity(pdg, data.DFG, funcs, isFunction)
		}, nil
	case "clustering":
		return func(funcs []uint64) fitness.Function {
			return fitness.NewClusteringCoefficient(pdg, data.DFG, funcs, isFunction)
		}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownFitness)
	}
}

func buildOptimizer(name string, ff optimizer.FitnessFactory, seed uint64) (optimizer.Strategy, error) {
	switch name {
	case "none":
		return optimizer.None{}, nil
	case "brute_fast":
		return optimizer.NewBruteForceFast(ff), nil
	case "brute":
		return optimizer.NewBruteForce(ff), nil
	case "genetic":
		return optimizer.NewGenetic(ff, seed), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownOptimizer)
	}
}
