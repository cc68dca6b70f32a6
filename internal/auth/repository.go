package auth

import (
	"context"

	"quizzie/internal/models"
)

// Repository persists users. CreateUser returns models.ErrEmailTaken for a
// duplicate email; lookups return models.ErrUserNotFound.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
