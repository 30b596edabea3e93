package gacha

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/wordharbor/internal/catalog"
)

var (
	ErrInvalidWeights = errors.New("invalid weight table")
	ErrEmptyPool      = errors.New("draw pool is empty")
	ErrNoHighRarity   = errors.New("catalog has no card eligible for the pity guarantee")
)

// Validate checks a weight table: non-empty, rarities in range and unique,
// weights non-negative and not all zero.
func (t WeightTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidWeights)
	}
	var errs []string
	seen := make(map[int]bool, len(t))
	total := 0
	for i, w := range t {
		if w.Rarity < catalog.MinRarity || w.Rarity > catalog.MaxRarity {
			errs = append(errs, fmt.Sprintf("[%d] rarity %d out of range %d..%d", i, w.Rarity, catalog.MinRarity, catalog.MaxRarity))
		}
		if seen[w.Rarity] {
			errs = append(errs, fmt.Sprintf("[%d] duplicate rarity %d", i, w.Rarity))
		}
		seen[w.Rarity] = true
		if w.Weight < 0 {
			errs = append(errs, fmt.Sprintf("[%d] weight %d is negative", i, w.Weight))
			continue
		}
		total += w.Weight
	}
	if total <= 0 {
		errs = append(errs, "weights sum to zero")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidWeights, strings.Join(errs, "; "))
	}
	return nil
}

func (c Config) validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.HighWeights.Validate(); err != nil {
		return fmt.Errorf("high weights: %w", err)
	}
	for _, w := range c.HighWeights {
		if w.Weight > 0 && w.Rarity < c.HighRarity {
			return fmt.Errorf("%w: high weights: rarity %d is below the high-rarity threshold %d", ErrInvalidWeights, w.Rarity, c.HighRarity)
		}
	}
	if c.PityLimit < 1 {
		return fmt.Errorf("%w: pity limit must be >= 1", ErrInvalidWeights)
	}
	if c.HighRarity < catalog.MinRarity || c.HighRarity > catalog.MaxRarity {
		return fmt.Errorf("%w: high rarity %d out of range", ErrInvalidWeights, c.HighRarity)
	}
	return nil
}
