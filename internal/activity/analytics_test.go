package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzie/internal/models"
)

func withImpressions(id string, impressions ...int64) models.Activity {
	a := models.Activity{
		ID:           id,
		Title:        "Activity " + id,
		ActivityType: models.ActivityQuiz,
		CreatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	for i, n := range impressions {
		a.Questions = append(a.Questions, models.Question{
			ID:          fmt.Sprintf("%s-q%d", id, i),
			Question:    "?",
			Impressions: n,
		})
	}
	return a
}

func TestSummarize(t *testing.T) {
	got := Summarize([]models.Activity{
		withImpressions("a1", 10, 20),
		withImpressions("a2", 5),
	})
	assert.Equal(t, models.Summary{
		TotalImpressions:     "35",
		TotalQuestions:       3,
		TotalQuizzesAndPolls: 2,
	}, got)
}

func TestSummarizeFormatsLargeTotals(t *testing.T) {
	got := Summarize([]models.Activity{
		withImpressions("a1", 1_200_000),
		withImpressions("a2", 300_000, 0),
	})
	assert.Equal(t, "1.5M", got.TotalImpressions)
	assert.Equal(t, 3, got.TotalQuestions)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, models.Summary{TotalImpressions: "0"}, Summarize(nil))
}

func TestAnalyzeQuiz(t *testing.T) {
	a := withImpressions("quiz", 40)
	a.Questions[0].CorrectAnswers = 12
	a.Questions[0].WrongAnswers = 3

	got, err := Analyze(&a)
	require.NoError(t, err)
	assert.Equal(t, "40", got.Impressions)
	require.Len(t, got.Questions, 1)

	q := got.Questions[0]
	require.NotNil(t, q.CorrectAnswers)
	require.NotNil(t, q.TotalAttempts)
	assert.Equal(t, int64(12), *q.CorrectAnswers)
	assert.Equal(t, int64(3), *q.WrongAnswers)
	assert.Equal(t, int64(15), *q.TotalAttempts)
	assert.Nil(t, q.Options)
}

func TestAnalyzePoll(t *testing.T) {
	a := withImpressions("poll", 9)
	a.ActivityType = models.ActivityPoll
	a.Questions[0].Options = []models.Option{
		{ID: "o1", Text: "Red", SelectionCount: 4},
		{ID: "o2", Text: "Blue", SelectionCount: 5},
	}

	got, err := Analyze(&a)
	require.NoError(t, err)
	q := got.Questions[0]
	assert.Nil(t, q.CorrectAnswers)
	assert.Nil(t, q.TotalAttempts)
	assert.Equal(t, []models.OptionAnalytics{
		{ID: "o1", Text: "Red", SelectionCount: 4},
		{ID: "o2", Text: "Blue", SelectionCount: 5},
	}, q.Options)
}

func TestAnalyzeWithoutQuestions(t *testing.T) {
	a := withImpressions("empty")
	_, err := Analyze(&a)
	assert.ErrorIs(t, err, models.ErrNoAnalytics)
}

func TestTrendingCapsAndOrders(t *testing.T) {
	var activities []models.Activity
	for i := 0; i < 13; i++ {
		// 100, 200, ... 1300 spread over two questions
		total := int64(i+1) * 100
		activities = append(activities, withImpressions(fmt.Sprintf("a%02d", i), total/2, total-total/2))
	}

	got := Trending(activities, TrendingLimit)
	require.Len(t, got, TrendingLimit)
	assert.Equal(t, "a12", got[0].ID)
	assert.Equal(t, "1.3K", got[0].Impressions)
	assert.Equal(t, "a01", got[11].ID)
	for _, e := range got {
		assert.NotEqual(t, "a00", e.ID)
	}
}

func TestTrendingKeepsStorageOrderOnTies(t *testing.T) {
	got := Trending([]models.Activity{
		withImpressions("first", 5),
		withImpressions("top", 50),
		withImpressions("second", 5),
		withImpressions("third", 2, 3),
	}, TrendingLimit)

	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, ids)
}

func TestTrendingEmpty(t *testing.T) {
	got := Trending(nil, TrendingLimit)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList(t *testing.T) {
	got := List([]models.Activity{
		withImpressions("b", 1500),
		withImpressions("a", 2),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "1.5K", got[0].Impressions)
	assert.Equal(t, "Activity a", got[1].Title)
}
