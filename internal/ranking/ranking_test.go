package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/askfloor/backend/internal/models"
)

func question(id string, created time.Time, voters ...string) models.Question {
	return models.Question{
		ID:        id,
		SessionID: "s1",
		Text:      "text " + id,
		Created:   created,
		Upvotes:   voters,
	}
}

func ids(qs []models.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestRankOrdersByVotesDescending(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	qs := []models.Question{
		question("q1", base),
		question("q2", base.Add(time.Minute), "v1", "v2"),
		question("q3", base.Add(2*time.Minute), "v1"),
	}

	ranked := Rank(qs)
	assert.Equal(t, []string{"q2", "q3", "q1"}, ids(ranked))
}

func TestRankBreaksTiesByCreationTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	qs := []models.Question{
		question("later", base.Add(time.Hour), "v1"),
		question("earlier", base, "v2"),
	}

	ranked := Rank(qs)
	assert.Equal(t, []string{"earlier", "later"}, ids(ranked))
}

func TestRankIgnoresCreationOrderWhenVotesDiffer(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	qs := []models.Question{
		question("old", base),
		question("new", base.Add(time.Hour), "v1", "v2", "v3"),
	}

	ranked := Rank(qs)
	assert.Equal(t, []string{"new", "old"}, ids(ranked))
}

func TestRankDoesNotModifyInput(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	qs := []models.Question{
		question("q1", base),
		question("q2", base.Add(time.Minute), "v1"),
	}

	_ = Rank(qs)
	assert.Equal(t, []string{"q1", "q2"}, ids(qs))
}

func TestVisibleDropsHiddenQuestions(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	hidden := question("hidden", base, "v1")
	hidden.Hidden = true
	qs := []models.Question{
		question("shown", base.Add(time.Minute)),
		hidden,
	}

	visible := Visible(Rank(qs))
	assert.Equal(t, []string{"shown"}, ids(visible))
}

func TestVisibleOnEmptyInput(t *testing.T) {
	assert.Empty(t, Visible(nil))
	assert.Empty(t, Rank(nil))
}
