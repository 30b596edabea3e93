// Package progress holds a player's progression record and the store that is its only writer.
package progress

import (
	"slices"
	"time"

	"github.com/xtding233/wordharbor/internal/catalog"
)

// DateLayout is the calendar-date form used for daily resets.
const DateLayout = "2006-01-02"

// Today formats t as a daily-reset date in UTC.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// State is the persisted per-user record. Field names match the stored JSON document.
type State struct {
	OwnedCardIDs        []string       `json:"ownedCardIds"`
	MasteryMap          map[string]int `json:"masteryMap"`
	DailyGachaRemaining int            `json:"dailyGachaRemaining"`
	BonusGacha          int            `json:"bonusGacha"`
	PityCount           int            `json:"pityCount"`
	SecretaryCardID     string         `json:"secretaryCardId"` // "" when unset
	DailyReviewDone     bool           `json:"dailyReviewDone"`
	NewCardIDs          []string       `json:"newCardIds"`
	LastLoginDate       string         `json:"lastLoginDate"`
}

// Rules are the tunable limits the store enforces.
type Rules struct {
	DailyGrant  int // draws granted by each daily reset
	MaxMastery  int // mastery ceiling
	PityLimit   int // draws per guaranteed high-rarity result
	ReviewSize  int // quizzes per daily review
	ReviewBonus int // bonus draws for an all-correct review
}

func DefaultRules() Rules {
	return Rules{
		DailyGrant:  3,
		MaxMastery:  3,
		PityLimit:   10,
		ReviewSize:  3,
		ReviewBonus: 1,
	}
}

// DefaultState is the first-run record; it does not depend on the catalog.
func DefaultState() State {
	return NewState(DefaultRules())
}

// NewState is the first-run record under r.
func NewState(r Rules) State {
	return State{
		OwnedCardIDs:        []string{},
		MasteryMap:          map[string]int{},
		DailyGachaRemaining: r.DailyGrant,
		NewCardIDs:          []string{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.OwnedCardIDs = append([]string{}, s.OwnedCardIDs...)
	out.NewCardIDs = append([]string{}, s.NewCardIDs...)
	out.MasteryMap = make(map[string]int, len(s.MasteryMap))
	for k, v := range s.MasteryMap {
		out.MasteryMap[k] = v
	}
	return out
}

func (s State) Owns(id string) bool {
	return slices.Contains(s.OwnedCardIDs, id)
}

// Mastery is the level of an owned card; 0 for anything else.
func (s State) Mastery(id string) int {
	return s.MasteryMap[id]
}

// TotalGachaRemaining is the daily grant plus bonus draws.
func (s State) TotalGachaRemaining() int {
	return s.DailyGachaRemaining + s.BonusGacha
}

// Normalize repairs a state read from storage so every invariant holds:
// unique owned ids, mastery present and clamped for owned cards only,
// non-negative counters, pity below the guarantee, and a secretary that is owned.
func Normalize(s State, r Rules) State {
	out := State{
		MasteryMap:          make(map[string]int, len(s.OwnedCardIDs)),
		DailyGachaRemaining: max(s.DailyGachaRemaining, 0),
		BonusGacha:          max(s.BonusGacha, 0),
		PityCount:           min(max(s.PityCount, 0), max(r.PityLimit-1, 0)),
		DailyReviewDone:     s.DailyReviewDone,
		LastLoginDate:       s.LastLoginDate,
		OwnedCardIDs:        dedupe(s.OwnedCardIDs, nil),
	}
	for _, id := range out.OwnedCardIDs {
		out.MasteryMap[id] = min(max(s.MasteryMap[id], 0), r.MaxMastery)
	}
	out.NewCardIDs = dedupe(s.NewCardIDs, out.Owns)
	if s.SecretaryCardID != "" && out.Owns(s.SecretaryCardID) {
		out.SecretaryCardID = s.SecretaryCardID
	}
	return out
}

func dedupe(ids []string, keep func(string) bool) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] || (keep != nil && !keep(id)) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CompletionRate is the share of catalog cards that are owned.
func CompletionRate(s State, cat *catalog.Catalog) float64 {
	if cat == nil || cat.Len() == 0 {
		return 0
	}
	owned := 0
	for _, id := range s.OwnedCardIDs {
		if cat.Has(id) {
			owned++
		}
	}
	return float64(owned) / float64(cat.Len())
}
