package gacha

import (
	"math"
	"sort"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Draws until the first high-rarity result, starting from a zero pity count.
	GoalFirstHigh TrialGoal = "first_high"
	// Given a fixed budget N, count high-rarity results.
	GoalFixedBudget TrialGoal = "fixed_budget"
)

// SimParams describes one simulation run.
type SimParams struct {
	Goal   TrialGoal
	Trials int
	Budget int // draws per trial for GoalFixedBudget
	Start  int // pity count carried into each trial
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	Max    int
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// SimReport is the result of Simulate.
type SimReport struct {
	Stats    Stats
	Draws    int         // total draws performed
	Forced   int         // draws decided by the pity guarantee
	ByRarity map[int]int // resolved rarity histogram over every draw
}

// Share returns the observed fraction of draws that landed on rarity.
func (r SimReport) Share(rarity int) float64 {
	if r.Draws == 0 {
		return 0
	}
	return float64(r.ByRarity[rarity]) / float64(r.Draws)
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	maxV := xs[0]
	for _, v := range xs {
		sum += float64(v)
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Max:     maxV,
		Samples: xs,
	}
}

// Simulate repeats trials against the engine, carrying a pity counter the same way the
// progression store does, and returns summary stats.
func Simulate(e *Engine, p SimParams) SimReport {
	report := SimReport{ByRarity: make(map[int]int)}
	if p.Trials <= 0 {
		return report
	}
	samples := make([]int, p.Trials)
	for i := range samples {
		samples[i] = simulateOne(e, p, &report)
	}
	report.Stats = calcStats(samples)
	return report
}

// simulateOne returns the primary metric for one trial depending on the goal.
func simulateOne(e *Engine, p SimParams, report *SimReport) int {
	count := p.Start
	draw := func() Result {
		res := e.Draw(count)
		count = e.pity.Next(count, res.HighRarity)
		report.Draws++
		report.ByRarity[res.Rarity]++
		if res.Forced {
			report.Forced++
		}
		return res
	}

	switch p.Goal {
	case GoalFixedBudget:
		hits := 0
		for i := 0; i < p.Budget; i++ {
			if draw().HighRarity {
				hits++
			}
		}
		return hits
	default:
		draws := 0
		for {
			draws++
			if draw().HighRarity {
				return draws
			}
		}
	}
}
