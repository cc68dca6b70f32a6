// Package pgstore is the PostgreSQL backend, built on gorm. Activities,
// questions and options live in their own tables; order inside a tree is
// kept in the position columns.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quizzie/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.Question{},
		&models.Option{},
	)
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *Store) tree(ctx context.Context, projection models.Projection) *gorm.DB {
	q := s.db.WithContext(ctx).Preload("Questions", byPosition)
	if projection == models.ProjectionFull {
		q = q.Preload("Questions.Options", byPosition)
	}
	return q
}

func (s *Store) Create(ctx context.Context, activity *models.Activity) error {
	return s.db.WithContext(ctx).Create(activity).Error
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	if err := s.tree(ctx, models.ProjectionFull).First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (s *Store) FindByCreator(ctx context.Context, creatorID string, projection models.Projection) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := s.tree(ctx, projection).
		Where("creator_id = ?", creatorID).
		Order("created_at ASC, id ASC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// Update writes the activity columns. With replaceQuestions the old
// questions and options go and the new ones are inserted with fresh counters,
// all in one transaction.
func (s *Store) Update(ctx context.Context, activity *models.Activity, replaceQuestions bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := activityExists(tx, activity.ID); err != nil {
			return err
		}

		err := tx.Model(&models.Activity{}).Where("id = ?", activity.ID).Updates(map[string]interface{}{
			"title":         activity.Title,
			"activity_type": activity.ActivityType,
			"timer":         activity.Timer,
			"updated_at":    activity.UpdatedAt,
		}).Error
		if err != nil {
			return err
		}

		if !replaceQuestions {
			return nil
		}
		if err := deleteQuestions(tx, activity.ID); err != nil {
			return err
		}
		if len(activity.Questions) == 0 {
			return nil
		}
		return tx.Create(&activity.Questions).Error
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteQuestions(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Activity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrActivityNotFound
		}
		return nil
	})
}

func (s *Store) IncrementQuestionCounter(ctx context.Context, activityID, questionID string, counter models.QuestionCounter) (int64, error) {
	col := counter.Column()
	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := activityExists(tx, activityID); err != nil {
			return err
		}
		res := tx.Model(&models.Question{}).
			Where("id = ? AND activity_id = ?", questionID, activityID).
			UpdateColumn(col, gorm.Expr(col+" + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrQuestionNotFound
		}
		return tx.Model(&models.Question{}).Select(col).Where("id = ?", questionID).Row().Scan(&value)
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *Store) IncrementOptionSelection(ctx context.Context, activityID, questionID, optionID string) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := activityExists(tx, activityID); err != nil {
			return err
		}
		var questions int64
		err := tx.Model(&models.Question{}).
			Where("id = ? AND activity_id = ?", questionID, activityID).
			Count(&questions).Error
		if err != nil {
			return err
		}
		if questions == 0 {
			return models.ErrQuestionNotFound
		}

		res := tx.Model(&models.Option{}).
			Where("id = ? AND question_id = ?", optionID, questionID).
			UpdateColumn("selection_count", gorm.Expr("selection_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrOptionNotFound
		}
		return tx.Model(&models.Option{}).Select("selection_count").Where("id = ?", optionID).Row().Scan(&value)
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func activityExists(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&models.Activity{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.ErrActivityNotFound
	}
	return nil
}

func deleteQuestions(tx *gorm.DB, activityID string) error {
	var ids []string
	if err := tx.Model(&models.Question{}).Where("activity_id = ?", activityID).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("question_id IN ?", ids).Delete(&models.Option{}).Error; err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if err := tx.Where("activity_id = ?", activityID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}
