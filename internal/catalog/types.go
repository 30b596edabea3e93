// types.go
package catalog

// Rarity bounds for catalog cards. Higher is rarer.
const (
	MinRarity = 1
	MaxRarity = 4
)

// RawCatalog is the catalog file as decoded from YAML; mirrors the content schema.
type RawCatalog struct {
	Version string             `yaml:"version"`
	Cards   []RawCard          `yaml:"cards" validate:"dive"`
	Quizzes map[string]RawQuiz `yaml:"quizzes,omitempty" validate:"dive"`
	Notes   string             `yaml:"notes,omitempty"`
}

type RawCard struct {
	ID          string   `yaml:"id" validate:"required"`
	Word        string   `yaml:"word" validate:"required"`
	Rarity      int      `yaml:"rarity" validate:"min=1,max=4"`
	Description string   `yaml:"description,omitempty"`
	Examples    []string `yaml:"examples,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	Audio       string   `yaml:"audio,omitempty"`
}

type RawQuiz struct {
	Question string          `yaml:"question" validate:"required"`
	Options  []RawQuizOption `yaml:"options" validate:"min=2,dive"`
}

type RawQuizOption struct {
	Text    string `yaml:"text" validate:"required"`
	Correct bool   `yaml:"correct"`
}

// Card is an immutable catalog entry.
type Card struct {
	ID          string
	Word        string
	Rarity      int
	Description string
	Examples    []string
	Image       string
	Audio       string
}

// QuizOption is one answer choice of a Quiz.
type QuizOption struct {
	Text    string
	Correct bool
}

// Quiz is the single-question check attached to a card.
type Quiz struct {
	Question string
	Options  []QuizOption
}

// IsCorrect reports whether option index i is the correct answer.
// Out-of-range indexes are simply wrong.
func (q Quiz) IsCorrect(i int) bool {
	if i < 0 || i >= len(q.Options) {
		return false
	}
	return q.Options[i].Correct
}
