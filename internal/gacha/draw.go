package gacha

import (
	"fmt"

	"github.com/xtding233/wordharbor/internal/catalog"
)

// Config describes the draw mechanics.
type Config struct {
	Weights     WeightTable // unconstrained distribution
	HighWeights WeightTable // distribution when pity forces a high-rarity draw
	PityLimit   int         // draws per guaranteed high-rarity result
	HighRarity  int         // lowest tier counted as high rarity
}

func DefaultConfig() Config {
	return Config{
		Weights:     DefaultWeights(),
		HighWeights: DefaultHighWeights(),
		PityLimit:   DefaultPityLimit,
		HighRarity:  DefaultHighRarity,
	}
}

// Result reports one draw.
type Result struct {
	Card       catalog.Card
	Rarity     int  // resolved rarity, i.e. the drawn card's tier
	HighRarity bool // Rarity >= the high-rarity threshold; drives the pity counter
	Forced     bool // the pity guarantee applied to this draw
}

// Engine draws cards from a catalog. It never touches progression state:
// the pity count comes in as an argument and the caller applies the result.
type Engine struct {
	cat  *catalog.Catalog
	cfg  Config
	pity Pity
	rng  RandomSource
	high []catalog.Card // every card at or above HighRarity
}

// NewEngine validates cfg against the catalog. A nil rng means DefaultRNG.
func NewEngine(cat *catalog.Catalog, cfg Config, rng RandomSource) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, ErrEmptyPool
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	e := &Engine{cat: cat, cfg: cfg, pity: Pity{Limit: cfg.PityLimit}, rng: rng}
	for _, c := range cat.Cards() {
		if c.Rarity >= cfg.HighRarity {
			e.high = append(e.high, c)
		}
	}
	if len(e.high) == 0 {
		return nil, fmt.Errorf("%w: no card with rarity >= %d", ErrNoHighRarity, cfg.HighRarity)
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Pity() Pity     { return e.pity }

// RollRarity selects a tier from the unconstrained distribution.
func (e *Engine) RollRarity() int {
	return e.cfg.Weights.Pick(e.rng)
}

// PickCardForRarity selects uniformly among cards of exactly that rarity,
// falling back to the whole catalog when the tier is empty.
func (e *Engine) PickCardForRarity(rarity int) catalog.Card {
	pool := e.cat.ByRarity(rarity)
	if len(pool) == 0 {
		pool = e.cat.Cards()
	}
	return pool[e.rng.IntN(len(pool))]
}

// Draw performs one pity-aware draw.
// - If pityCount reaches the guarantee (pityCount >= PityLimit-1), the tier comes from HighWeights.
// - Otherwise RollRarity is used unconstrained.
// A forced draw whose tier has no cards falls back to the high-rarity pool, not the whole
// catalog, so the guarantee holds for any catalog NewEngine accepted.
func (e *Engine) Draw(pityCount int) Result {
	if e.pity.Forced(pityCount) {
		rarity := e.cfg.HighWeights.Pick(e.rng)
		pool := e.cat.ByRarity(rarity)
		if len(pool) == 0 {
			pool = e.high
		}
		card := pool[e.rng.IntN(len(pool))]
		return e.result(card, true)
	}
	return e.result(e.PickCardForRarity(e.RollRarity()), false)
}

func (e *Engine) result(card catalog.Card, forced bool) Result {
	return Result{
		Card:       card,
		Rarity:     card.Rarity,
		HighRarity: card.Rarity >= e.cfg.HighRarity,
		Forced:     forced,
	}
}
