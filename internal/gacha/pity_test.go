package gacha

import "testing"

func TestPity(t *testing.T) {
	p := Pity{Limit: 10}

	count := 0
	// first 9 misses are not forced
	for i := 0; i < 9; i++ {
		if p.Forced(count) {
			t.Fatalf("should not be forced before pity, i=%d", i)
		}
		count = p.Next(count, false)
	}
	if count != 9 {
		t.Fatalf("count after 9 misses = %d, want 9", count)
	}
	// the 10th draw is guaranteed
	if !p.Forced(count) {
		t.Fatalf("expected pity at 10th draw")
	}
	count = p.Next(count, true)
	if count != 0 {
		t.Fatalf("count should reset after high rarity; got %d", count)
	}

	if got := p.Next(-3, false); got != 1 {
		t.Fatalf("negative count should restart from 0; got %d", got)
	}
	if (Pity{}).Forced(100) {
		t.Fatalf("zero limit never forces")
	}
	if p.Max() != 9 {
		t.Fatalf("max = %d, want 9", p.Max())
	}
}

func TestSimulate(t *testing.T) {
	e, err := NewEngine(defaultCatalog(t), DefaultConfig(), NewSeededRNG(1))
	if err != nil {
		t.Fatal(err)
	}

	rep := Simulate(e, SimParams{Goal: GoalFirstHigh, Trials: 5000})
	if rep.Stats.Max > DefaultPityLimit {
		t.Fatalf("first high-rarity result took %d draws, bound is %d", rep.Stats.Max, DefaultPityLimit)
	}
	if rep.Stats.Mean < 1 || rep.Stats.Mean > DefaultPityLimit {
		t.Fatalf("mean %f outside [1,%d]", rep.Stats.Mean, DefaultPityLimit)
	}
	if rep.Forced == 0 {
		t.Fatalf("expected some trials to reach pity")
	}

	budget := Simulate(e, SimParams{Goal: GoalFixedBudget, Trials: 200, Budget: 100})
	if budget.Draws != 200*100 {
		t.Fatalf("draws = %d", budget.Draws)
	}
	// with a 10-draw guarantee every 100 draws contain at least 10 high-rarity results
	if budget.Stats.Samples[0] < 10 {
		t.Fatalf("budget trial had %d high results", budget.Stats.Samples[0])
	}
	if s := budget.Share(1) + budget.Share(2) + budget.Share(3) + budget.Share(4); s < 0.999 || s > 1.001 {
		t.Fatalf("shares sum to %f", s)
	}

	if empty := Simulate(e, SimParams{}); empty.Draws != 0 {
		t.Fatalf("zero trials should not draw")
	}
}
