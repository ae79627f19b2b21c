// Package ranking computes the display order of a session's questions.
// It is pure: callers pass the unordered set and receive a new slice.
package ranking

import (
	"sort"

	"github.com/askfloor/backend/internal/models"
)

// Rank orders questions by upvote count descending, breaking ties by
// creation time ascending so earlier-asked questions rank higher among
// equals. The sort is stable and the input slice is not modified.
func Rank(questions []models.Question) []models.Question {
	ranked := make([]models.Question, len(questions))
	copy(ranked, questions)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].VoteCount() != ranked[j].VoteCount() {
			return ranked[i].VoteCount() > ranked[j].VoteCount()
		}
		return ranked[i].Created.Before(ranked[j].Created)
	})
	return ranked
}

// Visible filters out hidden questions for the public view. Order is
// preserved, so Visible(Rank(qs)) is the attendee-facing list.
func Visible(questions []models.Question) []models.Question {
	visible := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if !q.Hidden {
			visible = append(visible, q)
		}
	}
	return visible
}
