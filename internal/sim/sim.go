// Package sim estimates how a strategy fares against a profile by playing
// many independent runs in parallel.
package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/autoplay"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

const (
	MaxRuns         = 1_000_000
	defaultMaxSteps = 5_000
)

// Params describes one simulation. Run i is seeded with Seed+i when
// UseSeed is set, so a seeded simulation is reproducible regardless of the
// worker count.
type Params struct {
	Runs       int                `json:"runs"`
	Workers    int                `json:"workers"`
	Seed       int64              `json:"seed"`
	UseSeed    bool               `json:"use_seed"`
	Strategy   autoplay.Threshold `json:"strategy"`
	MaxSteps   int                `json:"max_steps"`
	BombChance *float64           `json:"bomb_chance,omitempty"`
}

// Outcome is the result of a single run.
type Outcome struct {
	Zone    int
	Banked  int
	Spent   int
	Spins   int
	Bust    bool
	Revives int
	Done    bool
}

// Run plays params.Runs runs of profile on an ants worker pool.
func Run(ctx context.Context, profile wheel.Profile, rcfg spin.Config, params Params, log *zap.Logger) (*Report, error) {
	if params.Runs <= 0 || params.Runs > MaxRuns {
		return nil, fmt.Errorf("sim: runs must be within [1, %d], got %d", MaxRuns, params.Runs)
	}
	if params.Workers <= 0 {
		params.Workers = runtime.GOMAXPROCS(0)
	}
	if params.MaxSteps <= 0 {
		params.MaxSteps = defaultMaxSteps
	}
	if log == nil {
		log = zap.NewNop()
	}
	profile.PostSpinDelay = 0

	pool, err := ants.NewPool(min(params.Workers, params.Runs))
	if err != nil {
		return nil, fmt.Errorf("sim: create pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()
	outcomes := make([]Outcome, params.Runs)
	var (
		wg        sync.WaitGroup
		errMu     sync.Mutex
		firstErr  error
		submitErr int
	)
	for i := range outcomes {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			out, err := playOne(ctx, profile, rcfg, params, int64(i))
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			outcomes[i] = out
		}); err != nil {
			wg.Done()
			submitErr++
		}
	}
	wg.Wait()

	if submitErr > 0 {
		log.Warn("failed to submit runs to ants pool", zap.Int("count", submitErr))
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	report := summarize(outcomes)
	report.Elapsed = time.Since(start)
	log.Info("simulation finished",
		zap.Int("runs", report.Runs),
		zap.Float64("bust_rate", report.BustRate),
		zap.Float64("mean_zone", report.Zone.Mean),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func playOne(ctx context.Context, profile wheel.Profile, rcfg spin.Config, params Params, i int64) (Outcome, error) {
	cfg := rcfg
	cfg.UseSeed = params.UseSeed
	cfg.Seed = params.Seed + i
	r := spin.New(cfg)
	if params.BombChance != nil {
		r.SetBombChance(*params.BombChance)
	}

	g := game.New(game.Options{Profile: profile, Randomizer: r})
	g.Start()
	defer g.Close()

	res, err := autoplay.Play(ctx, g, params.Strategy, autoplay.Options{MaxSteps: params.MaxSteps, MaxRuns: 1})
	if err != nil {
		return Outcome{}, fmt.Errorf("sim: run %d: %w", i, err)
	}
	return Outcome{
		Zone:    res.MaxZone,
		Banked:  res.Banked,
		Spent:   res.Spent,
		Spins:   res.Spins,
		Bust:    res.GiveUps > 0,
		Revives: res.Revives,
		Done:    res.Runs > 0,
	}, nil
}
