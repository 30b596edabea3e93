package progress

import (
	"errors"

	"github.com/google/uuid"

	"github.com/xtding233/wordharbor/internal/gacha"
)

var (
	ErrReviewDone       = errors.New("daily review already completed")
	ErrNothingToReview  = errors.New("no owned card has a quiz")
	ErrNoReview         = errors.New("no review in progress")
	ErrReviewAnswered   = errors.New("every review question is already answered")
	ErrReviewIncomplete = errors.New("review has unanswered questions")
)

// ReviewSession is the in-memory daily review: a few owned cards quizzed in order.
// The correct count is tallied as answers arrive.
type ReviewSession struct {
	ID      string
	CardIDs []string
	Answers []bool // correctness per answered question
	Correct int
}

// Current is the card of the next unanswered question, or "" when all are answered.
func (r *ReviewSession) Current() string {
	if r == nil || len(r.Answers) >= len(r.CardIDs) {
		return ""
	}
	return r.CardIDs[len(r.Answers)]
}

func (r *ReviewSession) Done() bool {
	return r != nil && len(r.Answers) == len(r.CardIDs)
}

func (r *ReviewSession) clone() *ReviewSession {
	if r == nil {
		return nil
	}
	return &ReviewSession{
		ID:      r.ID,
		CardIDs: append([]string(nil), r.CardIDs...),
		Answers: append([]bool(nil), r.Answers...),
		Correct: r.Correct,
	}
}

// ReviewAnswer reports one graded review question.
type ReviewAnswer struct {
	CardID    string
	Correct   bool
	Remaining int // questions left
}

// ReviewResult is the finished tally.
type ReviewResult struct {
	Correct int
	Total   int
	Bonus   int // bonus draws granted
}

// StartReview picks up to Rules.ReviewSize distinct owned cards that have quizzes, in
// random order. Calling it again while a review is in progress returns that review.
func (s *Store) StartReview(rng gacha.RandomSource) (*ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.DailyReviewDone {
		return nil, ErrReviewDone
	}
	if s.review != nil {
		return s.review.clone(), nil
	}

	var pool []string
	for _, id := range s.state.OwnedCardIDs {
		if s.cat == nil {
			break
		}
		if _, ok := s.cat.Quiz(id); ok {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNothingToReview
	}
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	// Fisher-Yates
	for i := len(pool) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	n := min(max(s.rules.ReviewSize, 1), len(pool))
	s.review = &ReviewSession{ID: uuid.NewString(), CardIDs: pool[:n]}
	s.log.Debug("review started", "review", s.review.ID, "cards", s.review.CardIDs)
	return s.review.clone(), nil
}

// Review returns the review in progress, if any.
func (s *Store) Review() (*ReviewSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.review.clone(), s.review != nil
}

// AnswerReview grades the current review question and moves to the next one.
func (s *Store) AnswerReview(option int) (ReviewAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.review == nil {
		return ReviewAnswer{}, ErrNoReview
	}
	id := s.review.Current()
	if id == "" {
		return ReviewAnswer{}, ErrReviewAnswered
	}
	q, _ := s.quiz(id)
	ok := q.IsCorrect(option)
	s.review.Answers = append(s.review.Answers, ok)
	if ok {
		s.review.Correct++
	}
	return ReviewAnswer{
		CardID:    id,
		Correct:   ok,
		Remaining: len(s.review.CardIDs) - len(s.review.Answers),
	}, nil
}

// FinishReview closes a fully answered review: the daily review is marked done and,
// when every answer was correct, Rules.ReviewBonus bonus draws are granted. Both
// changes are one transition.
func (s *Store) FinishReview() (ReviewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.review == nil {
		return ReviewResult{}, ErrNoReview
	}
	if !s.review.Done() {
		return ReviewResult{}, ErrReviewIncomplete
	}

	res := ReviewResult{Correct: s.review.Correct, Total: len(s.review.CardIDs)}
	if res.Correct == res.Total {
		res.Bonus = s.rules.ReviewBonus
	}
	s.review = nil
	_, err := s.apply("finishReview", func(st State) (State, bool) {
		st, done := completeDailyReview(st)
		st, bonus := addBonusGacha(st, res.Bonus)
		return st, done || bonus
	})
	s.log.Info("review finished", "correct", res.Correct, "total", res.Total, "bonus", res.Bonus)
	return res, err
}
