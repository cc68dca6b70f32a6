// Package activity owns quizzes and polls: authoring, the public counter
// endpoints and the analytics built from those counters.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"quizzie/internal/models"
	"quizzie/pkg/metrics"
)

type Service struct {
	repo    Repository
	users   UserFinder
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, users UserFinder, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		log:     log,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateActivity(ctx context.Context, creatorID string, req models.ActivityRequest) (*models.Activity, error) {
	title, err := parseTitle(req.Title)
	if err != nil {
		return nil, err
	}
	activityType, err := parseActivityType(req.ActivityType)
	if err != nil {
		return nil, err
	}
	timer, err := parseTimer(req.Timer)
	if err != nil {
		return nil, err
	}
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByID(ctx, creatorID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve creator: %w", err)
	}

	now := s.now()
	activity := &models.Activity{
		ID:           uuid.NewString(),
		Title:        title,
		ActivityType: activityType,
		CreatorID:    creatorID,
		Timer:        timer,
		CreatedAt:    now,
		UpdatedAt:    now,
		Questions:    questions,
	}
	attachQuestions(activity)

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"activity": activity.ID,
		"creator":  creatorID,
		"type":     activityType,
	}).Info("activity created")
	return activity, nil
}

func (s *Service) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateActivity applies the supplied fields. A supplied questions array
// replaces the stored one wholesale, counters included.
func (s *Service) UpdateActivity(ctx context.Context, requesterID, id string, req models.ActivityRequest) (*models.Activity, error) {
	activity, err := s.ownedActivity(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if activity.Title, err = parseTitle(req.Title); err != nil {
			return nil, err
		}
	}
	if req.ActivityType != nil {
		if activity.ActivityType, err = parseActivityType(req.ActivityType); err != nil {
			return nil, err
		}
	}
	if req.Timer != nil {
		if activity.Timer, err = parseTimer(req.Timer); err != nil {
			return nil, err
		}
	}
	if req.Questions != nil {
		if activity.Questions, err = buildQuestions(req.Questions); err != nil {
			return nil, err
		}
	}
	activity.UpdatedAt = s.now()
	attachQuestions(activity)

	if err := s.repo.Update(ctx, activity, req.Questions != nil); err != nil {
		return nil, fmt.Errorf("update activity %s: %w", id, err)
	}
	s.log.WithField("activity", id).Info("activity updated")
	return activity, nil
}

func (s *Service) DeleteActivity(ctx context.Context, requesterID, id string) error {
	if _, err := s.ownedActivity(ctx, requesterID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	s.log.WithField("activity", id).Info("activity deleted")
	return nil
}

// Summary totals impressions, questions and activities for one creator.
func (s *Service) Summary(ctx context.Context, creatorID string) (models.Summary, error) {
	activities, err := s.repo.FindByCreator(ctx, creatorID, models.ProjectionQuestions)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summary for %s: %w", creatorID, err)
	}
	return Summarize(activities), nil
}

// ActivityAnalytics returns the breakdown of one activity. Activities owned by
// someone else are reported as not found.
func (s *Service) ActivityAnalytics(ctx context.Context, requesterID, id string) (*models.ActivityAnalytics, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.CreatorID != requesterID {
		return nil, models.ErrActivityNotFound
	}
	return Analyze(activity)
}

func (s *Service) Trending(ctx context.Context, creatorID string) ([]models.TrendingEntry, error) {
	activities, err := s.repo.FindByCreator(ctx, creatorID, models.ProjectionQuestions)
	if err != nil {
		return nil, fmt.Errorf("trending for %s: %w", creatorID, err)
	}
	return Trending(activities, TrendingLimit), nil
}

func (s *Service) ListActivities(ctx context.Context, creatorID string) ([]models.ActivityListEntry, error) {
	activities, err := s.repo.FindByCreator(ctx, creatorID, models.ProjectionQuestions)
	if err != nil {
		return nil, fmt.Errorf("list activities for %s: %w", creatorID, err)
	}
	return List(activities), nil
}

func (s *Service) IncreaseQuestionImpression(ctx context.Context, activityID, questionID string) (int64, error) {
	value, err := s.repo.IncrementQuestionCounter(ctx, activityID, questionID, models.CounterImpressions)
	if err != nil {
		return 0, err
	}
	s.metrics.IncrementCounter(metrics.KindImpression)
	return value, nil
}

func (s *Service) IncreaseOptionSelectionCount(ctx context.Context, activityID, questionID, optionID string) (int64, error) {
	value, err := s.repo.IncrementOptionSelection(ctx, activityID, questionID, optionID)
	if err != nil {
		return 0, err
	}
	s.metrics.IncrementCounter(metrics.KindSelection)
	return value, nil
}

// IncreaseAnswerCount rejects anything but "correct" or "wrong" before the
// store is touched.
func (s *Service) IncreaseAnswerCount(ctx context.Context, activityID, questionID, rawType string) (int64, error) {
	answer, err := models.ParseAnswerType(rawType)
	if err != nil {
		return 0, err
	}
	value, err := s.repo.IncrementQuestionCounter(ctx, activityID, questionID, answer.Counter())
	if err != nil {
		return 0, err
	}
	switch answer {
	case models.AnswerCorrect:
		s.metrics.IncrementCounter(metrics.KindCorrect)
	case models.AnswerWrong:
		s.metrics.IncrementCounter(metrics.KindWrong)
	}
	return value, nil
}

func (s *Service) ownedActivity(ctx context.Context, requesterID, id string) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.CreatorID != requesterID {
		s.log.WithFields(logrus.Fields{
			"activity":  id,
			"requester": requesterID,
		}).Warn("rejected change to another creator's activity")
		return nil, models.ErrForbidden
	}
	return activity, nil
}

// attachQuestions fills the back-references relational stores need.
func attachQuestions(a *models.Activity) {
	for i := range a.Questions {
		a.Questions[i].ActivityID = a.ID
		a.Questions[i].Position = i
		for j := range a.Questions[i].Options {
			a.Questions[i].Options[j].QuestionID = a.Questions[i].ID
			a.Questions[i].Options[j].Position = j
		}
	}
}
