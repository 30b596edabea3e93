package gacha

// Weight is one tier of a categorical rarity distribution.
type Weight struct {
	Rarity int `koanf:"rarity" yaml:"rarity"`
	Weight int `koanf:"weight" yaml:"weight"`
}

// WeightTable is scanned in order; order decides ties.
type WeightTable []Weight

// DefaultWeights is the unconstrained distribution: 60/25/10/5.
func DefaultWeights() WeightTable {
	return WeightTable{
		{Rarity: 1, Weight: 60},
		{Rarity: 2, Weight: 25},
		{Rarity: 3, Weight: 10},
		{Rarity: 4, Weight: 5},
	}
}

// DefaultHighWeights is the distribution used when pity forces a high-rarity draw.
func DefaultHighWeights() WeightTable {
	return WeightTable{
		{Rarity: 3, Weight: 70},
		{Rarity: 4, Weight: 30},
	}
}

// Total sums the non-negative weights.
func (t WeightTable) Total() int {
	sum := 0
	for _, w := range t {
		if w.Weight > 0 {
			sum += w.Weight
		}
	}
	return sum
}

// Pick draws u uniformly over [0, total) and returns the first tier whose
// cumulative weight meets or exceeds u. Zero-weight tiers are never picked.
// The table must be valid.
func (t WeightTable) Pick(rng RandomSource) int {
	total := t.Total()
	u := rng.Float64() * float64(total)
	cum := 0
	last := 0
	for _, w := range t {
		if w.Weight <= 0 {
			continue
		}
		cum += w.Weight
		last = w.Rarity
		if float64(cum) >= u {
			return w.Rarity
		}
	}
	// only reachable through float rounding at the very top of the range
	return last
}

// Probabilities returns each tier's share of the total, keyed by rarity.
func (t WeightTable) Probabilities() map[int]float64 {
	total := float64(t.Total())
	out := make(map[int]float64, len(t))
	if total == 0 {
		return out
	}
	for _, w := range t {
		if w.Weight > 0 {
			out[w.Rarity] = float64(w.Weight) / total
		}
	}
	return out
}
