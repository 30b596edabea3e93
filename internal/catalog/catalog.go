// Package catalog holds the read-only card and quiz content the progression engine draws from.
package catalog

import "sort"

// Catalog is an immutable, validated set of cards and quizzes.
// It is safe for concurrent reads.
type Catalog struct {
	version  string
	cards    []Card
	byID     map[string]int
	byRarity map[int][]Card
	quizzes  map[string]Quiz
}

// New validates raw content and builds a Catalog from it.
// An empty or malformed catalog is a configuration error.
func New(raw RawCatalog) (*Catalog, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}

	c := &Catalog{
		version:  raw.Version,
		cards:    make([]Card, 0, len(raw.Cards)),
		byID:     make(map[string]int, len(raw.Cards)),
		byRarity: make(map[int][]Card),
		quizzes:  make(map[string]Quiz, len(raw.Quizzes)),
	}
	for _, rc := range raw.Cards {
		card := Card{
			ID:          rc.ID,
			Word:        rc.Word,
			Rarity:      rc.Rarity,
			Description: rc.Description,
			Examples:    append([]string(nil), rc.Examples...),
			Image:       rc.Image,
			Audio:       rc.Audio,
		}
		c.byID[card.ID] = len(c.cards)
		c.cards = append(c.cards, card)
		c.byRarity[card.Rarity] = append(c.byRarity[card.Rarity], card)
	}
	for id, rq := range raw.Quizzes {
		q := Quiz{Question: rq.Question, Options: make([]QuizOption, len(rq.Options))}
		for i, o := range rq.Options {
			q.Options[i] = QuizOption{Text: o.Text, Correct: o.Correct}
		}
		c.quizzes[id] = q
	}
	return c, nil
}

func (c *Catalog) Version() string { return c.version }

// Len is the number of cards.
func (c *Catalog) Len() int { return len(c.cards) }

// Cards returns the cards in catalog order.
func (c *Catalog) Cards() []Card {
	return append([]Card(nil), c.cards...)
}

// Card looks up a card by id.
func (c *Catalog) Card(id string) (Card, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Card{}, false
	}
	return c.cards[i], true
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// ByRarity returns the cards of exactly the given rarity, in catalog order.
func (c *Catalog) ByRarity(rarity int) []Card {
	return c.byRarity[rarity]
}

// Rarities lists the tiers that have at least one card, ascending.
func (c *Catalog) Rarities() []int {
	out := make([]int, 0, len(c.byRarity))
	for r := range c.byRarity {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// Quiz returns the quiz attached to a card, if any.
func (c *Catalog) Quiz(id string) (Quiz, bool) {
	q, ok := c.quizzes[id]
	return q, ok
}
