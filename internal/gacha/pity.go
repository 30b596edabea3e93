package gacha

// DefaultPityLimit: a high-rarity result is guaranteed at least once every 10 draws.
const DefaultPityLimit = 10

// DefaultHighRarity is the lowest tier that counts as a high-rarity result.
const DefaultHighRarity = 3

// Pity handles a "hard pity": once the counter reaches Limit-1, the next draw is guaranteed.
// It holds no counter itself; the caller owns the count.
type Pity struct {
	Limit int // draws per guaranteed high-rarity result
}

// Forced reports whether a draw taken at count is forced high-rarity.
func (p Pity) Forced(count int) bool {
	if p.Limit <= 0 {
		return false
	}
	return count+1 >= p.Limit
}

// Next returns the counter after a draw: reset on a high-rarity result, else incremented.
func (p Pity) Next(count int, gotHighRarity bool) int {
	if gotHighRarity {
		return 0
	}
	if count < 0 {
		count = 0
	}
	return count + 1
}

// Max is the largest count a caller should carry into a draw.
func (p Pity) Max() int {
	if p.Limit <= 0 {
		return 0
	}
	return p.Limit - 1
}
