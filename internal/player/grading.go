package player

import (
	"eduassist/internal/domain"
	"eduassist/internal/util"
)

// PassThreshold is the minimum percentage that counts as passed.
const PassThreshold = 50

// Result is the score of one submission.
type Result struct {
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
}

// Grade scores answers against questions. Unanswered questions count as
// incorrect.
func Grade(questions []domain.Question, answers map[int]int) Result {
	score := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.CorrectIndex {
			score++
		}
	}
	pct := util.RoundPercent(score, len(questions))
	return Result{
		Score:      score,
		Total:      len(questions),
		Percentage: pct,
		Passed:     pct >= PassThreshold,
	}
}

// ReviewItem is one row of the post-submission review.
type ReviewItem struct {
	Index        int      `json:"index"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Selected     *int     `json:"selected,omitempty"`
	Answered     bool     `json:"answered"`
	Correct      bool     `json:"correct"`
}

// Review lists every question with the respondent's choice.
func Review(questions []domain.Question, answers map[int]int) []ReviewItem {
	items := make([]ReviewItem, 0, len(questions))
	for i, q := range questions {
		item := ReviewItem{
			Index:        i,
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		}
		if selected, ok := answers[i]; ok {
			sel := selected
			item.Selected = &sel
			item.Answered = true
			item.Correct = selected == q.CorrectIndex
		}
		items = append(items, item)
	}
	return items
}
