package progress

import (
	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/gacha"
)

// DrawOutcome is what a single user-initiated draw produced.
type DrawOutcome struct {
	gacha.Result
	IsNew     bool // first time this card is owned
	Mastery   int  // card mastery after the draw
	Remaining int  // total draws left after the draw
	PityCount int  // counter carried into the next draw
}

// Draw runs the fixed per-draw sequence as one transition:
// draw with the current pity count, update the pity counter from the draw's
// high-rarity flag, consume one draw allowance, then add the card. A duplicate
// of an owned card raises its mastery instead.
func (s *Store) Draw(d Drawer) (DrawOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TotalGachaRemaining() <= 0 {
		return DrawOutcome{}, ErrNoDrawsRemaining
	}

	res := d.Draw(s.state.PityCount)
	var isNew bool
	_, err := s.apply("draw", func(st State) (State, bool) {
		st, _ = updatePityCount(st, res.HighRarity, s.rules.PityLimit)
		st, _ = consumeGacha(st)
		st, isNew = addCard(st, res.Card.ID)
		if !isNew {
			st, _ = increaseMastery(st, res.Card.ID, s.rules.MaxMastery)
		}
		return st, true
	})

	out := DrawOutcome{
		Result:    res,
		IsNew:     isNew,
		Mastery:   s.state.Mastery(res.Card.ID),
		Remaining: s.state.TotalGachaRemaining(),
		PityCount: s.state.PityCount,
	}
	s.log.Debug("draw",
		"card", res.Card.ID,
		"rarity", res.Rarity,
		"high", res.HighRarity,
		"forced", res.Forced,
		"new", isNew,
		"pity", out.PityCount,
		"remaining", out.Remaining,
	)
	return out, err
}

// QuizOutcome reports a graded quiz answer.
type QuizOutcome struct {
	Correct bool
	Raised  bool // mastery went up
	Mastery int
}

// AnswerQuiz grades option against the card's quiz. A correct answer on an owned
// card below the ceiling raises its mastery by one.
func (s *Store) AnswerQuiz(cardID string, option int) (QuizOutcome, error) {
	q, ok := s.quiz(cardID)
	if !ok {
		return QuizOutcome{}, ErrUnknownQuiz
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := QuizOutcome{Correct: q.IsCorrect(option)}
	var err error
	if out.Correct {
		out.Raised, err = s.apply("answerQuiz", func(st State) (State, bool) {
			return increaseMastery(st, cardID, s.rules.MaxMastery)
		})
	}
	out.Mastery = s.state.Mastery(cardID)
	return out, err
}

func (s *Store) quiz(cardID string) (catalog.Quiz, bool) {
	if s.cat == nil {
		return catalog.Quiz{}, false
	}
	return s.cat.Quiz(cardID)
}

// CollectionEntry is one catalog card as seen by the player.
type CollectionEntry struct {
	Card      catalog.Card
	Owned     bool
	Mastery   int
	New       bool
	Secretary bool
}

// Collection lists every catalog card in catalog order with the player's standing on it.
func (s *Store) Collection() []CollectionEntry {
	if s.cat == nil {
		return nil
	}
	st := s.Snapshot()
	fresh := make(map[string]bool, len(st.NewCardIDs))
	for _, id := range st.NewCardIDs {
		fresh[id] = true
	}
	cards := s.cat.Cards()
	out := make([]CollectionEntry, 0, len(cards))
	for _, c := range cards {
		out = append(out, CollectionEntry{
			Card:      c,
			Owned:     st.Owns(c.ID),
			Mastery:   st.Mastery(c.ID),
			New:       fresh[c.ID],
			Secretary: st.SecretaryCardID == c.ID,
		})
	}
	return out
}
