package progress

import (
	"slices"
	"time"
)

// Transitions are pure: each takes a state it may modify (the caller passes a clone)
// and reports whether anything changed. Requests that make no sense for the current
// state are no-ops.

func addCard(s State, id string) (State, bool) {
	if id == "" || s.Owns(id) {
		return s, false
	}
	s.OwnedCardIDs = append(s.OwnedCardIDs, id)
	s.MasteryMap[id] = 0
	if !slices.Contains(s.NewCardIDs, id) {
		s.NewCardIDs = append(s.NewCardIDs, id)
	}
	if s.SecretaryCardID == "" {
		s.SecretaryCardID = id
	}
	return s, true
}

func increaseMastery(s State, id string, ceiling int) (State, bool) {
	if !s.Owns(id) || s.MasteryMap[id] >= ceiling {
		return s, false
	}
	s.MasteryMap[id]++
	return s, true
}

// consumeGacha spends a bonus draw first, then a daily one.
func consumeGacha(s State) (State, bool) {
	switch {
	case s.BonusGacha > 0:
		s.BonusGacha--
	case s.DailyGachaRemaining > 0:
		s.DailyGachaRemaining--
	default:
		return s, false
	}
	return s, true
}

// updatePityCount resets on a high-rarity result, else increments, never past the guarantee.
func updatePityCount(s State, gotHighRarity bool, limit int) (State, bool) {
	next := 0
	if !gotHighRarity {
		next = min(s.PityCount+1, max(limit-1, 0))
	}
	if next == s.PityCount {
		return s, false
	}
	s.PityCount = next
	return s, true
}

// setSecretaryCard accepts "" to clear; any other id must be owned.
func setSecretaryCard(s State, id string) (State, bool) {
	if id != "" && !s.Owns(id) {
		return s, false
	}
	if s.SecretaryCardID == id {
		return s, false
	}
	s.SecretaryCardID = id
	return s, true
}

func completeDailyReview(s State) (State, bool) {
	if s.DailyReviewDone {
		return s, false
	}
	s.DailyReviewDone = true
	return s, true
}

func addBonusGacha(s State, n int) (State, bool) {
	if n <= 0 {
		return s, false
	}
	s.BonusGacha += n
	return s, true
}

func clearNewCardIDs(s State) (State, bool) {
	if len(s.NewCardIDs) == 0 {
		return s, false
	}
	s.NewCardIDs = []string{}
	return s, true
}

// resetDailyIfNeeded replenishes daily counters once per calendar date.
// A malformed date is ignored.
func resetDailyIfNeeded(s State, today string, grant int) (State, bool) {
	if _, err := time.Parse(DateLayout, today); err != nil {
		return s, false
	}
	if s.LastLoginDate == today {
		return s, false
	}
	s.DailyGachaRemaining = grant
	s.BonusGacha = 0
	s.DailyReviewDone = false
	s.NewCardIDs = []string{}
	s.LastLoginDate = today
	return s, true
}
