// Command gachasim estimates draw outcomes for the configured weights and pity limit.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/config"
	"github.com/xtding233/wordharbor/internal/gacha"
	"github.com/xtding233/wordharbor/internal/logger"
)

func main() {
	fs := pflag.NewFlagSet("gachasim", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	cat, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Overlays...)
	if err != nil {
		log.Fatal("catalog", "error", err)
	}
	var rng gacha.RandomSource
	if cfg.Sim.Seed != 0 {
		rng = gacha.NewSeededRNG(cfg.Sim.Seed)
	}
	engine, err := gacha.NewEngine(cat, cfg.Engine(), rng)
	if err != nil {
		log.Fatal("engine", "error", err)
	}

	p := gacha.SimParams{Goal: gacha.GoalFirstHigh, Trials: cfg.Sim.Trials}
	if cfg.Sim.Budget > 0 {
		p = gacha.SimParams{Goal: gacha.GoalFixedBudget, Trials: cfg.Sim.Trials, Budget: cfg.Sim.Budget}
	}
	rep := gacha.Simulate(engine, p)

	fmt.Printf("goal=%s trials=%d draws=%d forced=%d pity_limit=%d\n",
		p.Goal, p.Trials, rep.Draws, rep.Forced, cfg.Gacha.PityLimit)
	fmt.Printf("mean=%.3f sd=%.3f p50=%.0f p90=%.0f p99=%.0f max=%d\n",
		rep.Stats.Mean, rep.Stats.StdDev, rep.Stats.P50, rep.Stats.P90, rep.Stats.P99, rep.Stats.Max)

	want := cfg.Gacha.Weights.Probabilities()
	rarities := make([]int, 0, len(rep.ByRarity))
	for r := range rep.ByRarity {
		rarities = append(rarities, r)
	}
	sort.Ints(rarities)
	for _, r := range rarities {
		fmt.Printf("rarity %d: observed %.4f configured %.4f\n", r, rep.Share(r), want[r])
	}
}
