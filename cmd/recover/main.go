// Command recover is the REcover CLI driver (spec §6): it wires
// storage (load) -> estimator/cumap (or --load-estimation) ->
// optimizer -> storage (save) into one batch run over a directory of
// previously exported program data. It does not talk to a
// disassembler itself (spec §1 Non-goals: the exporter adapter is out
// of scope); it only knows the persisted pdg.gob/afcg.gob/dfg.gob/
// segs.gob contract the storage package reads and writes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/huku-/recover-go/cumap"
	"github.com/huku-/recover-go/engine"
	"github.com/huku-/recover-go/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// options is the fully-resolved set of settings a run uses, after
// flags, environment variables and an optional --config file have
// been merged (flag > env > config file > default, the same priority
// order beadwork's cmd/bw/main.go uses for its background-mode
// setting).
type options struct {
	path           string
	estimator      string
	loadEstimation string
	optimizer      string
	fitnessFunc    string
	segment        string
	pickle         string
	json           string
	showTime       bool
	debug          bool
}

func run(argv []string) int {
	fs := flag.NewFlagSet("recover", flag.ContinueOnError)

	estimator := fs.String("estimator", "apspse", "algorithm to use for initial compile-unit number estimation (agglnse, agglpse, apsnse, apspse)")
	fs.StringVar(estimator, "e", *estimator, "shorthand for -estimator")
	loadEstimation := fs.String("load-estimation", "", "load initial compile-unit estimation from this file")
	fs.StringVar(loadEstimation, "l", *loadEstimation, "shorthand for -load-estimation")
	optimizerName := fs.String("optimizer", "brute_fast", "algorithm to use for compile-unit layout optimization (none, brute_fast, brute, genetic)")
	fs.StringVar(optimizerName, "o", *optimizerName, "shorthand for -optimizer")
	fitnessFunc := fs.String("fitness-function", "modularity", "fitness function to use for compile-unit layout optimization (modularity, clustering)")
	fs.StringVar(fitnessFunc, "f", *fitnessFunc, "shorthand for -fitness-function")
	segment := fs.String("segment", ".text", "segment name whose functions to split in compile-units")
	fs.StringVar(segment, "s", *segment, "shorthand for -segment")
	pickle := fs.String("pickle", "", "path to write the binary (gob) compile-unit map to")
	jsonPath := fs.String("json", "", "path to write the JSON compile-unit map to")
	showTime := fs.Bool("time", false, "print per-phase run time after completion")
	debug := fs.Bool("debug", false, "enable debug logging")
	configPath := fs.String("config", "", "load settings from a YAML config file")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: recover [flags] PATH")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return 2
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var fc fileConfig
	if *configPath != "" {
		loaded, err := loadFileConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "recover: loading config: %v\n", err)
			return 1
		}
		fc = loaded
	}

	opts := options{
		path:           resolvePath(fs.Arg(0), fc.Path),
		estimator:      resolve(explicit["estimator"] || explicit["e"], *estimator, "RECOVER_ESTIMATOR", fc.Estimator),
		loadEstimation: resolve(explicit["load-estimation"] || explicit["l"], *loadEstimation, "RECOVER_LOAD_ESTIMATION", fc.LoadEstimation),
		optimizer:      resolve(explicit["optimizer"] || explicit["o"], *optimizerName, "RECOVER_OPTIMIZER", fc.Optimizer),
		fitnessFunc:    resolve(explicit["fitness-function"] || explicit["f"], *fitnessFunc, "RECOVER_FITNESS_FUNCTION", fc.FitnessFunc),
		segment:        resolve(explicit["segment"] || explicit["s"], *segment, "RECOVER_SEGMENT", fc.Segment),
		pickle:         resolve(explicit["pickle"], *pickle, "", fc.Pickle),
		json:           resolve(explicit["json"], *jsonPath, "", fc.JSON),
		showTime:       *showTime || fc.Time,
		debug:          *debug || fc.Debug,
	}

	// RECOVER_HEADLESS names a comma-separated list of actions to run
	// (plugins/ida_pro/recover.py's run_headless). "export" drives the
	// disassembler exporter, out of scope here (spec §1); if set and
	// "analyze" is not requested, there is nothing for this binary to
	// do.
	if actions := os.Getenv("RECOVER_HEADLESS"); actions != "" && !containsAction(actions, "analyze") {
		return 0
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// RECOVER_EXIT, in the original IDA Pro plugin, forces an explicit
	// idc.qexit(r) to end an otherwise-persistent GUI session. This
	// binary has no event loop to keep alive: os.Exit(run(...)) in
	// main always reports the resulting code, so RECOVER_EXIT's
	// presence changes nothing here; it is accepted only so headless
	// automation scripts written against the original tool still work
	// unmodified.

	if opts.path == "" {
		fmt.Fprintln(os.Stderr, "recover: missing PATH")
		fs.Usage()
		return 2
	}

	if err := runAnalysis(logger, opts); err != nil {
		logger.Error("analysis failed", "error", err)
		return 1
	}
	return 0
}

func runAnalysis(logger *slog.Logger, opts options) error {
	logger.Info("loading exported program data", "path", opts.path)

	cfg := engine.Config{
		Estimator:      opts.estimator,
		LoadEstimation: opts.loadEstimation,
		Optimizer:      opts.optimizer,
		Fitness:        opts.fitnessFunc,
		Segment:        opts.segment,
	}

	if cfg.LoadEstimation != "" {
		logger.Info("loading initial estimation from file", "file", cfg.LoadEstimation)
	} else {
		logger.Info("using estimator for initial CU estimation", "estimator", cfg.Estimator)
	}
	if cfg.Optimizer != "none" {
		logger.Info("using optimizer for layout optimization", "optimizer", cfg.Optimizer, "fitness", cfg.Fitness)
	}

	cuMap, stats, err := engine.Analyze(opts.path, "", cfg)
	if err != nil {
		return fmt.Errorf("recover: %w", err)
	}

	showCUs(logger, cuMap)

	if opts.showTime {
		fmt.Print(stats.String())
	}

	if err := saveOutputs(cuMap, opts); err != nil {
		return fmt.Errorf("recover: %w", err)
	}

	fmt.Printf("Recovered %d compile-units\n", cuMap.Len())
	return nil
}

func saveOutputs(cuMap *cumap.CUMap, opts options) error {
	if opts.pickle != "" {
		if err := storage.SaveCUMap(opts.pickle, cuMap); err != nil {
			return err
		}
	}
	if opts.json != "" {
		if err := storage.SaveCUMap(opts.json, cuMap); err != nil {
			return err
		}
	}
	return nil
}

func showCUs(logger *slog.Logger, cuMap *cumap.CUMap) {
	cu, ok := cuMap.GetFirstCU()
	for ok {
		logger.Debug("compile-unit", "id", cu.ID, "num_funcs", len(cu.Funcs))
		cu, ok = cuMap.GetNextCU(cu)
	}
}

// resolve picks flagVal if the flag was set explicitly on the command
// line, else the environment variable named by env (when set and
// non-empty), else fromConfig, else flagVal as-is (which already holds
// the flag's built-in default when not explicitly set).
func resolve(explicitlySet bool, flagVal, env, fromConfig string) string {
	if explicitlySet {
		return flagVal
	}
	if env != "" {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v
		}
	}
	if fromConfig != "" {
		return fromConfig
	}
	return flagVal
}

// resolvePath resolves the positional PATH argument: the command line
// if given, else RECOVER_PATH, else the config file's path field.
func resolvePath(argVal, fromConfig string) string {
	if argVal != "" {
		return argVal
	}
	if v, ok := os.LookupEnv("RECOVER_PATH"); ok && v != "" {
		return v
	}
	return fromConfig
}

func containsAction(actions, want string) bool {
	for _, a := range strings.Split(actions, ",") {
		if strings.TrimSpace(a) == want {
			return true
		}
	}
	return false
}
