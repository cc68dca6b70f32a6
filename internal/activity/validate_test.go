package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzie/internal/models"
)

func TestBuildQuestions(t *testing.T) {
	yes := true
	got, err := buildQuestions([]models.QuestionRequest{
		{
			Question:   "Capital of France?",
			OptionType: "text",
			Options: []models.OptionRequest{
				{Text: "Paris", IsCorrect: &yes},
				{Text: "Lyon"},
			},
		},
		{
			Question:   "Pick a flag",
			OptionType: "text_image",
			Options: []models.OptionRequest{
				{Text: "FR", ImageURL: "https://cdn.example.com/fr.png"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, models.OptionText, first.OptionType)
	assert.Zero(t, first.Impressions)
	require.Len(t, first.Options, 2)
	assert.NotEqual(t, first.Options[0].ID, first.Options[1].ID)
	assert.Equal(t, first.ID, first.Options[1].QuestionID)
	assert.Equal(t, 1, first.Options[1].Position)
	assert.True(t, *first.Options[0].IsCorrect)
	assert.Nil(t, first.Options[1].IsCorrect)

	assert.Equal(t, 1, got[1].Position)
	assert.NotEqual(t, first.ID, got[1].ID)
}

func TestBuildQuestionsRejects(t *testing.T) {
	tests := []struct {
		name  string
		in    []models.QuestionRequest
		field string
	}{
		{"no questions", nil, "questions"},
		{
			"blank question",
			[]models.QuestionRequest{{Question: " ", OptionType: "text", Options: []models.OptionRequest{{Text: "a"}}}},
			"questions[0].question",
		},
		{
			"unknown option type",
			[]models.QuestionRequest{{Question: "q", OptionType: "video", Options: []models.OptionRequest{{Text: "a"}}}},
			"questions[0].optionType",
		},
		{
			"no options",
			[]models.QuestionRequest{{Question: "q", OptionType: "text"}},
			"questions[0].options",
		},
		{
			"option without text",
			[]models.QuestionRequest{
				{Question: "q", OptionType: "text", Options: []models.OptionRequest{{Text: "a"}}},
				{Question: "q", OptionType: "text", Options: []models.OptionRequest{{Text: "a"}, {Text: ""}}},
			},
			"questions[1].options[1].text",
		},
		{
			"image option without url",
			[]models.QuestionRequest{{Question: "q", OptionType: "image", Options: []models.OptionRequest{{Text: "a"}}}},
			"questions[0].options[0].imageUrl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildQuestions(tt.in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseActivityType(t *testing.T) {
	for raw, want := range map[string]models.ActivityType{
		"quiz": models.ActivityQuiz,
		"QA":   models.ActivityQuiz,
		"poll": models.ActivityPoll,
		"Poll": models.ActivityPoll,
	} {
		got, err := parseActivityType(&raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseActivityType(nil)
	assert.True(t, models.IsValidation(err))
	bad := "survey"
	_, err = parseActivityType(&bad)
	assert.True(t, models.IsValidation(err))
}

func TestParseTitleAndTimer(t *testing.T) {
	title := "  Weekly quiz "
	got, err := parseTitle(&title)
	require.NoError(t, err)
	assert.Equal(t, "Weekly quiz", got)

	blank := "   "
	_, err = parseTitle(&blank)
	assert.True(t, models.IsValidation(err))

	timer, err := parseTimer(nil)
	require.NoError(t, err)
	assert.Zero(t, timer)

	negative := -1
	_, err = parseTimer(&negative)
	assert.True(t, models.IsValidation(err))
}
