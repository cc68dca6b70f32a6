package activity

import (
	"sort"

	"quizzie/internal/models"
	"quizzie/pkg/numfmt"
)

// TrendingLimit caps the trending ranking.
const TrendingLimit = 12

// Summarize totals a creator's activities. Impressions are counted per
// question, so an activity's share is the sum over its questions.
func Summarize(activities []models.Activity) models.Summary {
	var impressions int64
	var questions int
	for i := range activities {
		impressions += activities[i].TotalImpressions()
		questions += len(activities[i].Questions)
	}
	return models.Summary{
		TotalImpressions:     numfmt.Compact(impressions),
		TotalQuestions:       questions,
		TotalQuizzesAndPolls: len(activities),
	}
}

// Analyze projects the per-activity breakdown. Quizzes report answer tallies,
// polls report option selection counts.
func Analyze(a *models.Activity) (*models.ActivityAnalytics, error) {
	if len(a.Questions) == 0 {
		return nil, models.ErrNoAnalytics
	}

	out := &models.ActivityAnalytics{
		ID:           a.ID,
		Title:        a.Title,
		ActivityType: a.ActivityType,
		Impressions:  numfmt.Compact(a.TotalImpressions()),
		CreatedAt:    a.CreatedAt,
		Questions:    make([]models.QuestionAnalytics, 0, len(a.Questions)),
	}
	for _, q := range a.Questions {
		qa := models.QuestionAnalytics{
			ID:          q.ID,
			Question:    q.Question,
			Impressions: q.Impressions,
		}
		switch a.ActivityType {
		case models.ActivityPoll:
			qa.Options = make([]models.OptionAnalytics, 0, len(q.Options))
			for _, o := range q.Options {
				qa.Options = append(qa.Options, models.OptionAnalytics{
					ID:             o.ID,
					Text:           o.Text,
					SelectionCount: o.SelectionCount,
				})
			}
		default:
			correct, wrong := q.CorrectAnswers, q.WrongAnswers
			attempts := correct + wrong
			qa.CorrectAnswers = &correct
			qa.WrongAnswers = &wrong
			qa.TotalAttempts = &attempts
		}
		out.Questions = append(out.Questions, qa)
	}
	return out, nil
}

// Trending ranks activities by total question impressions, highest first,
// keeping storage order between equal totals, and returns at most limit.
func Trending(activities []models.Activity, limit int) []models.TrendingEntry {
	type ranked struct {
		activity    *models.Activity
		impressions int64
	}
	rows := make([]ranked, len(activities))
	for i := range activities {
		rows[i] = ranked{activity: &activities[i], impressions: activities[i].TotalImpressions()}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].impressions > rows[j].impressions
	})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]models.TrendingEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TrendingEntry{
			ID:           r.activity.ID,
			Title:        r.activity.Title,
			ActivityType: r.activity.ActivityType,
			Impressions:  numfmt.Compact(r.impressions),
			CreatedAt:    r.activity.CreatedAt,
		})
	}
	return out
}

// List builds the lightweight dashboard listing in storage order.
func List(activities []models.Activity) []models.ActivityListEntry {
	out := make([]models.ActivityListEntry, 0, len(activities))
	for i := range activities {
		out = append(out, models.ActivityListEntry{
			ID:          activities[i].ID,
			Title:       activities[i].Title,
			Impressions: numfmt.Compact(activities[i].TotalImpressions()),
			CreatedAt:   activities[i].CreatedAt,
		})
	}
	return out
}
