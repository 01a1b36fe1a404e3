// Command wheelsim plays the wheel headlessly and prints a JSON report.
//
// Without -script it runs a Monte-Carlo batch with the built-in threshold
// strategy. With -script it plays -runs sessions driven by a JavaScript
// decide() function, one interpreter per session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/autoplay"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/config"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/logging"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/scripting"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/sim"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type scriptReport struct {
	Runs     int               `json:"runs"`
	Sessions []autoplay.Result `json:"sessions"`
	Totals   autoplay.Result   `json:"totals"`
	Elapsed  time.Duration     `json:"elapsed"`
}

func main() {
	var (
		configPath   = flag.String("config", "", "path to a YAML config file")
		runs         = flag.Int("runs", 10000, "number of runs (sessions with -script)")
		workers      = flag.Int("workers", runtime.GOMAXPROCS(0), "parallel workers")
		seed         = flag.Int64("seed", 0, "base seed; run i uses seed+i")
		seeded       = flag.Bool("seeded", false, "use -seed instead of entropy")
		leaveAt      = flag.Int("leave-at", 10, "leave once this zone is reached (0 never leaves)")
		maxContinues = flag.Int("max-continues", 0, "revives bought per run")
		maxSteps     = flag.Int("max-steps", 0, "action limit per run (0 uses the default)")
		bombChance   = flag.Float64("bomb-chance", -1, "fixed bomb chance in [0,1] (negative uses the curve)")
		scriptPath   = flag.String("script", "", "JavaScript strategy file defining decide()")
		scriptRuns   = flag.Int("script-max-runs", 1, "runs per scripted session before it stops")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logging.New(&logging.Config{Mode: logging.Dev, Level: level, App: "wheelsim"})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rcfg := cfg.Randomizer()
	var chance *float64
	if *bombChance >= 0 {
		chance = bombChance
	}

	var out any
	if *scriptPath == "" {
		out, err = sim.Run(ctx, cfg.Profile(), rcfg, sim.Params{
			Runs:       *runs,
			Workers:    *workers,
			Seed:       *seed,
			UseSeed:    *seeded,
			Strategy:   autoplay.Threshold{LeaveAtZone: *leaveAt, MaxContinues: *maxContinues},
			MaxSteps:   *maxSteps,
			BombChance: chance,
		}, log)
	} else {
		src, rerr := os.ReadFile(*scriptPath)
		if rerr != nil {
			log.Fatal("read script", zap.Error(rerr))
		}
		rcfg.UseSeed = *seeded
		out, err = runScript(ctx, cfg, rcfg, string(src), scriptOptions{
			runs:       *runs,
			workers:    *workers,
			seed:       *seed,
			bombChance: chance,
			play:       autoplay.Options{MaxSteps: *maxSteps, MaxRuns: *scriptRuns},
		}, log)
	}
	if err != nil {
		log.Error("simulation failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal("encode report", zap.Error(err))
	}
}

type scriptOptions struct {
	runs       int
	workers    int
	seed       int64
	bombChance *float64
	play       autoplay.Options
}

func runScript(ctx context.Context, cfg *config.Config, rcfg spin.Config, src string, opts scriptOptions, log *zap.Logger) (*scriptReport, error) {
	if opts.runs <= 0 || opts.runs > sim.MaxRuns {
		return nil, fmt.Errorf("runs must be within [1, %d], got %d", sim.MaxRuns, opts.runs)
	}
	profile := cfg.Profile()
	profile.PostSpinDelay = 0

	start := time.Now()
	report := &scriptReport{Runs: opts.runs, Sessions: make([]autoplay.Result, opts.runs)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.workers))
	var logMu sync.Mutex
	for i := range opts.runs {
		g.Go(func() error {
			strategy, err := scripting.NewStrategy(gctx, src)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			c := rcfg
			c.Seed = opts.seed + int64(i)
			r := spin.New(c)
			if opts.bombChance != nil {
				r.SetBombChance(*opts.bombChance)
			}
			session := game.New(game.Options{
				Profile:    profile,
				Randomizer: r,
				Animator:   game.ManualAnimator{},
				Logger:     log,
			})
			session.Start()
			defer session.Close()

			res, err := autoplay.Play(gctx, session, strategy, opts.play)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			res.Final = nil
			report.Sessions[i] = res

			if entries := strategy.Logs(); len(entries) > 0 {
				logMu.Lock()
				for _, e := range entries {
					log.Debug("script", zap.Int("session", i), zap.Any("entry", e))
				}
				logMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range report.Sessions {
		t := &report.Totals
		t.Steps += res.Steps
		t.Spins += res.Spins
		t.Bombs += res.Bombs
		t.Revives += res.Revives
		t.GiveUps += res.GiveUps
		t.Leaves += res.Leaves
		t.Runs += res.Runs
		t.Rejected += res.Rejected
		t.MaxZone = max(t.MaxZone, res.MaxZone)
		t.Banked += res.Banked
		t.Spent += res.Spent
	}
	report.Elapsed = time.Since(start)
	return report, nil
}
