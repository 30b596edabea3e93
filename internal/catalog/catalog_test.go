package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 12, cat.Len())
	assert.Equal(t, []int{1, 2, 3, 4}, cat.Rarities())
	for r := MinRarity; r <= MaxRarity; r++ {
		assert.Len(t, cat.ByRarity(r), 3, "rarity %d", r)
	}

	c, ok := cat.Card("c001")
	require.True(t, ok)
	assert.Equal(t, "actually", c.Word)
	assert.Equal(t, 1, c.Rarity)

	for _, card := range cat.Cards() {
		q, ok := cat.Quiz(card.ID)
		require.True(t, ok, "quiz for %s", card.ID)
		assert.True(t, q.IsCorrect(0), "first option of %s is the answer", card.ID)
		assert.False(t, q.IsCorrect(1))
		assert.False(t, q.IsCorrect(-1))
		assert.False(t, q.IsCorrect(len(q.Options)))
	}

	_, ok = cat.Card("nope")
	assert.False(t, ok)
	assert.False(t, cat.Has("nope"))
}

func TestValidateRaw(t *testing.T) {
	good := RawCard{ID: "a", Word: "alpha", Rarity: 1}

	testCases := []struct {
		name    string
		raw     RawCatalog
		wantErr error
	}{
		{
			name:    "empty",
			raw:     RawCatalog{},
			wantErr: ErrEmptyCatalog,
		},
		{
			name: "valid",
			raw: RawCatalog{
				Cards: []RawCard{good},
				Quizzes: map[string]RawQuiz{
					"a": {Question: "q?", Options: []RawQuizOption{{Text: "yes", Correct: true}, {Text: "no"}}},
				},
			},
		},
		{
			name:    "rarity out of range",
			raw:     RawCatalog{Cards: []RawCard{{ID: "a", Word: "alpha", Rarity: 5}}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "missing id",
			raw:     RawCatalog{Cards: []RawCard{{Word: "alpha", Rarity: 1}}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "duplicate id",
			raw:     RawCatalog{Cards: []RawCard{good, good}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "quiz for unknown card",
			raw: RawCatalog{
				Cards: []RawCard{good},
				Quizzes: map[string]RawQuiz{
					"b": {Question: "q?", Options: []RawQuizOption{{Text: "yes", Correct: true}, {Text: "no"}}},
				},
			},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "two correct options",
			raw: RawCatalog{
				Cards: []RawCard{good},
				Quizzes: map[string]RawQuiz{
					"a": {Question: "q?", Options: []RawQuizOption{{Text: "yes", Correct: true}, {Text: "also", Correct: true}}},
				},
			},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "single option",
			raw: RawCatalog{
				Cards: []RawCard{good},
				Quizzes: map[string]RawQuiz{
					"a": {Question: "q?", Options: []RawQuizOption{{Text: "yes", Correct: true}}},
				},
			},
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRaw(tc.raw)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(`
version: "3"
cards:
  - id: c001
    word: actually
    rarity: 2
  - id: c013
    word: call it a day
    rarity: 3
`), 0o644))

	cat, err := Load("", overlay, filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "3", cat.Version())
	assert.Equal(t, 13, cat.Len())
	c, ok := cat.Card("c001")
	require.True(t, ok)
	assert.Equal(t, 2, c.Rarity)
	assert.Len(t, cat.ByRarity(1), 2)
	assert.Len(t, cat.ByRarity(3), 4)
	_, ok = cat.Quiz("c001")
	assert.True(t, ok, "quizzes from the base survive the merge")
}

func TestLoadMissingBase(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
