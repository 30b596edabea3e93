package rpc

import (
	"github.com/xtding233/wordharbor/internal/catalog"
	"github.com/xtding233/wordharbor/internal/progress"
)

// The helpers below build map[string]any trees that structpb.NewStruct accepts:
// lists must be []any and maps map[string]any.

func anyList(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func stateFields(st progress.State, cat *catalog.Catalog) map[string]any {
	mastery := make(map[string]any, len(st.MasteryMap))
	for id, lvl := range st.MasteryMap {
		mastery[id] = lvl
	}
	return map[string]any{
		"ownedCardIds":        anyList(st.OwnedCardIDs),
		"masteryMap":          mastery,
		"dailyGachaRemaining": st.DailyGachaRemaining,
		"bonusGacha":          st.BonusGacha,
		"pityCount":           st.PityCount,
		"secretaryCardId":     st.SecretaryCardID,
		"dailyReviewDone":     st.DailyReviewDone,
		"newCardIds":          anyList(st.NewCardIDs),
		"lastLoginDate":       st.LastLoginDate,
		"totalGachaRemaining": st.TotalGachaRemaining(),
		"completionRate":      progress.CompletionRate(st, cat),
	}
}

func cardFields(c catalog.Card) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"word":        c.Word,
		"rarity":      c.Rarity,
		"description": c.Description,
		"examples":    anyList(c.Examples),
		"image":       c.Image,
		"audio":       c.Audio,
	}
}

// quizFields leaves out which option is correct; grading happens server side.
func quizFields(cardID string, q catalog.Quiz) map[string]any {
	opts := make([]any, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	return map[string]any{
		"cardId":   cardID,
		"question": q.Question,
		"options":  opts,
	}
}
