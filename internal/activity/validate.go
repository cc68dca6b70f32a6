package activity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quizzie/internal/models"
)

// buildQuestions validates the requested questions and turns them into a
// fresh tree with ids assigned and every counter at zero.
func buildQuestions(in []models.QuestionRequest) ([]models.Question, error) {
	if len(in) == 0 {
		return nil, models.NewValidationError("questions", "at least one question is required")
	}

	questions := make([]models.Question, 0, len(in))
	for i, qr := range in {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(qr.Question) == "" {
			return nil, models.NewValidationError(field+".question", "is required")
		}
		optionType, ok := models.ParseOptionType(qr.OptionType)
		if !ok {
			return nil, models.NewValidationError(field+".optionType", "must be one of text, image, text_image")
		}
		if len(qr.Options) == 0 {
			return nil, models.NewValidationError(field+".options", "at least one option is required")
		}

		q := models.Question{
			ID:         uuid.NewString(),
			Position:   i,
			Question:   qr.Question,
			OptionType: optionType,
			Options:    make([]models.Option, 0, len(qr.Options)),
		}
		for j, or := range qr.Options {
			ofield := fmt.Sprintf("%s.options[%d]", field, j)
			if strings.TrimSpace(or.Text) == "" {
				return nil, models.NewValidationError(ofield+".text", "is required")
			}
			if optionType.NeedsImage() && strings.TrimSpace(or.ImageURL) == "" {
				return nil, models.NewValidationError(ofield+".imageUrl", fmt.Sprintf("is required for %s options", optionType))
			}
			q.Options = append(q.Options, models.Option{
				ID:         uuid.NewString(),
				QuestionID: q.ID,
				Position:   j,
				Text:       or.Text,
				ImageURL:   or.ImageURL,
				IsCorrect:  or.IsCorrect,
			})
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func parseActivityType(raw *string) (models.ActivityType, error) {
	if raw == nil || *raw == "" {
		return "", models.NewValidationError("activityType", "is required")
	}
	t, ok := models.ParseActivityType(*raw)
	if !ok {
		return "", models.NewValidationError("activityType", "must be quiz or poll")
	}
	return t, nil
}

func parseTitle(raw *string) (string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return "", models.NewValidationError("title", "is required")
	}
	return strings.TrimSpace(*raw), nil
}

func parseTimer(raw *int) (int, error) {
	if raw == nil {
		return 0, nil
	}
	if *raw < 0 {
		return 0, models.NewValidationError("timer", "must not be negative")
	}
	return *raw, nil
}
