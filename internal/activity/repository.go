package activity

import (
	"context"

	"quizzie/internal/models"
)

// Repository is the Activity Store. Implementations live under
// internal/storage and must return the models sentinel errors (possibly
// wrapped) for missing activities, questions and options.
type Repository interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id string) (*models.Activity, error)
	// FindByCreator returns the creator's activities in creation order.
	FindByCreator(ctx context.Context, creatorID string, projection models.Projection) ([]models.Activity, error)
	// Update writes the title, type, timer and updatedAt. With
	// replaceQuestions the stored question tree is swapped for
	// activity.Questions and its counters start over; without it the stored
	// questions and counters are left alone.
	Update(ctx context.Context, activity *models.Activity, replaceQuestions bool) error
	Delete(ctx context.Context, id string) error

	IncrementQuestionCounter(ctx context.Context, activityID, questionID string, counter models.QuestionCounter) (int64, error)
	IncrementOptionSelection(ctx context.Context, activityID, questionID, optionID string) (int64, error)
}

// UserFinder resolves the creator reference at creation time.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
