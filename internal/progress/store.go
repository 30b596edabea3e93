package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/gacha"
	"github.com/xtding233/wordharbor/internal/logger"
)

var (
	// ErrSaveFailed wraps a persistence failure. The in-memory transition that
	// triggered the save has already been applied and is kept.
	ErrSaveFailed = errors.New("progress not saved")

	ErrNoDrawsRemaining = errors.New("no draws remaining")
	ErrUnknownQuiz      = errors.New("no quiz for card")
)

// Persister loads and saves the whole record under a single key.
type Persister interface {
	Load(ctx context.Context) State
	Save(ctx context.Context, s State) error
}

// Drawer produces one pity-aware draw.
type Drawer interface {
	Draw(pityCount int) gacha.Result
}

// Store is the only writer of a State. Every operation runs under one mutex:
// it computes the next state from a copy, swaps it in and persists it before
// releasing the lock, so no caller observes a state that has not been written.
type Store struct {
	mu     sync.Mutex
	state  State
	cat    *catalog.Catalog
	rules  Rules
	p      Persister
	log    *logger.Logger
	review *ReviewSession
}

// Open loads the record through p (nil keeps state in memory only) and repairs it.
func Open(ctx context.Context, cat *catalog.Catalog, rules Rules, p Persister, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	st := NewState(rules)
	if p != nil {
		st = p.Load(ctx)
	}
	return &Store{
		state: Normalize(st, rules),
		cat:   cat,
		rules: rules,
		p:     p,
		log:   log.With("component", "progress"),
	}
}

func (s *Store) Rules() Rules { return s.rules }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// apply runs one transition. The caller holds s.mu.
func (s *Store) apply(op string, fn func(State) (State, bool)) (bool, error) {
	next, changed := fn(s.state.Clone())
	if !changed {
		return false, nil
	}
	s.state = next
	return true, s.persist(op)
}

func (s *Store) persist(op string) error {
	if s.p == nil {
		return nil
	}
	if err := s.p.Save(context.Background(), s.state.Clone()); err != nil {
		s.log.Warn("save failed, keeping in-memory state", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, ErrSaveFailed, err)
	}
	return nil
}

// AddCard takes ownership of a catalog card. It reports whether the card is new;
// owned or unknown ids are a no-op. The first card owned becomes the secretary.
func (s *Store) AddCard(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat != nil && !s.cat.Has(id) {
		return false, nil
	}
	return s.apply("addCard", func(st State) (State, bool) { return addCard(st, id) })
}

// IncreaseMastery raises an owned card by one level up to the ceiling.
func (s *Store) IncreaseMastery(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("increaseMastery", func(st State) (State, bool) {
		return increaseMastery(st, id, s.rules.MaxMastery)
	})
	return err
}

// ConsumeGacha spends one draw, bonus before daily.
func (s *Store) ConsumeGacha() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("consumeGacha", consumeGacha)
	return err
}

// UpdatePityCount must be fed the HighRarity flag of the draw it follows.
func (s *Store) UpdatePityCount(gotHighRarity bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("updatePityCount", func(st State) (State, bool) {
		return updatePityCount(st, gotHighRarity, s.rules.PityLimit)
	})
	return err
}

// SetSecretaryCard points the secretary at an owned card; "" clears it.
// Unowned ids are ignored.
func (s *Store) SetSecretaryCard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("setSecretaryCard", func(st State) (State, bool) { return setSecretaryCard(st, id) })
	return err
}

func (s *Store) ClearSecretaryCard() error {
	return s.SetSecretaryCard("")
}

func (s *Store) CompleteDailyReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("completeDailyReview", completeDailyReview)
	return err
}

func (s *Store) AddBonusGacha(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("addBonusGacha", func(st State) (State, bool) { return addBonusGacha(st, count) })
	return err
}

func (s *Store) ClearNewCardIds() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply("clearNewCardIds", clearNewCardIDs)
	return err
}

// ResetDailyIfNeeded replenishes the daily counters when today differs from the
// last evaluated date. Call it once at session start, before any draw.
// It reports whether a reset happened; an in-progress review is dropped with it.
func (s *Store) ResetDailyIfNeeded(today string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed, err := s.apply("resetDailyIfNeeded", func(st State) (State, bool) {
		return resetDailyIfNeeded(st, today, s.rules.DailyGrant)
	})
	if changed {
		s.review = nil
		s.log.Info("daily reset", "date", today, "grant", s.rules.DailyGrant)
	}
	return changed, err
}

// TotalGachaRemaining is the daily grant plus bonus draws.
func (s *Store) TotalGachaRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalGachaRemaining()
}

// CompletionRate is owned cards over catalog size.
func (s *Store) CompletionRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CompletionRate(s.state, s.cat)
}

func (s *Store) Owned(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Owns(id)
}

func (s *Store) Mastery(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Mastery(id)
}
