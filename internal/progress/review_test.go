package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/gacha"
)

// scriptedDrawer hands out cards in order and records the pity counts it saw.
type scriptedDrawer struct {
	cat   *catalog.Catalog
	ids   []string
	seen  []int
	calls int
}

func (d *scriptedDrawer) Draw(pity int) gacha.Result {
	d.seen = append(d.seen, pity)
	c, _ := d.cat.Card(d.ids[d.calls%len(d.ids)])
	d.calls++
	return gacha.Result{Card: c, Rarity: c.Rarity, HighRarity: c.Rarity >= gacha.DefaultHighRarity}
}

func TestDrawAtPityGuaranteesHighRarity(t *testing.T) {
	cat := testCatalog(t)
	engine, err := gacha.NewEngine(cat, gacha.DefaultConfig(), gacha.NewSeededRNG(7))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		s, _ := openStore(t, &State{DailyGachaRemaining: 1, PityCount: 9})
		out, err := s.Draw(engine)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Rarity, 3)
		assert.True(t, out.HighRarity)
		assert.True(t, out.Forced)
		assert.Equal(t, 0, out.PityCount)
		assert.Equal(t, 0, s.Snapshot().PityCount)
		assert.Equal(t, 0, out.Remaining)
	}
}

func TestDrawSequence(t *testing.T) {
	cat := testCatalog(t)
	d := &scriptedDrawer{cat: cat, ids: []string{"c001", "c001", "c010"}}
	s, p := openStore(t, &State{DailyGachaRemaining: 2, BonusGacha: 1})

	out, err := s.Draw(d)
	require.NoError(t, err)
	assert.True(t, out.IsNew)
	assert.Equal(t, 0, out.Mastery)
	assert.Equal(t, 1, out.PityCount)
	assert.Equal(t, 2, out.Remaining)
	assert.Equal(t, 0, s.Snapshot().BonusGacha, "bonus is spent first")

	out, err = s.Draw(d)
	require.NoError(t, err)
	assert.False(t, out.IsNew)
	assert.Equal(t, 1, out.Mastery, "duplicate raises mastery")
	assert.Equal(t, 2, out.PityCount)

	out, err = s.Draw(d)
	require.NoError(t, err)
	assert.True(t, out.IsNew)
	assert.Equal(t, 0, out.PityCount, "high rarity resets pity")
	assert.Equal(t, 0, out.Remaining)

	assert.Equal(t, []int{0, 1, 2}, d.seen)
	assert.Len(t, p.saved, 3, "one save per draw")

	st := s.Snapshot()
	assert.Equal(t, []string{"c001", "c010"}, st.OwnedCardIDs)
	assert.Equal(t, []string{"c001", "c010"}, st.NewCardIDs)
	assert.Equal(t, "c001", st.SecretaryCardID)

	_, err = s.Draw(d)
	assert.ErrorIs(t, err, ErrNoDrawsRemaining)
	assert.Equal(t, 3, d.calls, "no draw without allowance")
}

func TestAnswerQuiz(t *testing.T) {
	s, _ := openStore(t, nil)
	_, _ = s.AddCard("c002")

	out, err := s.AnswerQuiz("c002", 1)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.False(t, out.Raised)
	assert.Equal(t, 0, out.Mastery)

	for want := 1; want <= 4; want++ {
		out, err = s.AnswerQuiz("c002", 0)
		require.NoError(t, err)
		assert.True(t, out.Correct)
		assert.Equal(t, want <= 3, out.Raised)
		assert.Equal(t, min(want, 3), out.Mastery)
	}

	out, err = s.AnswerQuiz("c003", 0)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.False(t, out.Raised, "unowned card gains nothing")

	_, err = s.AnswerQuiz("nope", 0)
	assert.ErrorIs(t, err, ErrUnknownQuiz)
}

func ownAll(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := s.AddCard(id)
		require.NoError(t, err)
	}
}

func TestReviewAllCorrectGrantsBonus(t *testing.T) {
	s, _ := openStore(t, &State{LastLoginDate: "2024-05-01", DailyGachaRemaining: 3})
	ownAll(t, s, "c001", "c002", "c005", "c009")

	r, err := s.StartReview(gacha.NewSeededRNG(1))
	require.NoError(t, err)
	require.Len(t, r.CardIDs, 3)
	seen := map[string]bool{}
	for _, id := range r.CardIDs {
		assert.True(t, s.Owned(id))
		assert.False(t, seen[id], "review cards are distinct")
		seen[id] = true
	}

	again, err := s.StartReview(gacha.NewSeededRNG(99))
	require.NoError(t, err)
	assert.Equal(t, r.CardIDs, again.CardIDs, "start is idempotent while active")
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, r.ID, again.ID)

	_, err = s.FinishReview()
	assert.ErrorIs(t, err, ErrReviewIncomplete)

	for i := range r.CardIDs {
		ans, err := s.AnswerReview(0)
		require.NoError(t, err)
		assert.Equal(t, r.CardIDs[i], ans.CardID)
		assert.True(t, ans.Correct)
		assert.Equal(t, 2-i, ans.Remaining)
	}
	_, err = s.AnswerReview(0)
	assert.ErrorIs(t, err, ErrReviewAnswered)

	res, err := s.FinishReview()
	require.NoError(t, err)
	assert.Equal(t, ReviewResult{Correct: 3, Total: 3, Bonus: 1}, res)

	st := s.Snapshot()
	assert.True(t, st.DailyReviewDone)
	assert.Equal(t, 1, st.BonusGacha)
	assert.Equal(t, 4, s.TotalGachaRemaining())

	_, ok := s.Review()
	assert.False(t, ok)
	_, err = s.StartReview(nil)
	assert.ErrorIs(t, err, ErrReviewDone)
	_, err = s.FinishReview()
	assert.ErrorIs(t, err, ErrNoReview)
}

func TestReviewWithMistakeGrantsNothing(t *testing.T) {
	s, _ := openStore(t, nil)
	ownAll(t, s, "c001", "c002")

	r, err := s.StartReview(gacha.NewSeededRNG(3))
	require.NoError(t, err)
	require.Len(t, r.CardIDs, 2, "review shrinks to what is owned")

	_, err = s.AnswerReview(0)
	require.NoError(t, err)
	ans, err := s.AnswerReview(5)
	require.NoError(t, err)
	assert.False(t, ans.Correct)

	res, err := s.FinishReview()
	require.NoError(t, err)
	assert.Equal(t, ReviewResult{Correct: 1, Total: 2}, res)
	assert.True(t, s.Snapshot().DailyReviewDone)
	assert.Equal(t, 0, s.Snapshot().BonusGacha)
}

func TestReviewPreconditions(t *testing.T) {
	s, _ := openStore(t, &State{LastLoginDate: "2024-05-01"})

	_, err := s.StartReview(nil)
	assert.ErrorIs(t, err, ErrNothingToReview)
	_, err = s.AnswerReview(0)
	assert.ErrorIs(t, err, ErrNoReview)

	ownAll(t, s, "c004")
	_, err = s.StartReview(gacha.NewSeededRNG(5))
	require.NoError(t, err)

	reset, err := s.ResetDailyIfNeeded("2024-05-02")
	require.NoError(t, err)
	require.True(t, reset)
	_, ok := s.Review()
	assert.False(t, ok, "a new day drops the open review")
}
