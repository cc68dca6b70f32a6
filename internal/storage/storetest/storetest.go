// Package storetest holds the behaviour every storage backend must share.
// Backend packages call RunActivityRepository and RunUserRepository from
// their own tests against a live (or in-memory) server.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzie/internal/activity"
	"quizzie/internal/auth"
	"quizzie/internal/models"
)

// NewActivity builds a fully linked activity with the given number of
// questions, each carrying three options. The first option is the correct one.
func NewActivity(creatorID string, kind models.ActivityType, questions int) *models.Activity {
	now := time.Now().UTC().Truncate(time.Millisecond)
	a := &models.Activity{
		ID:           uuid.NewString(),
		Title:        fmt.Sprintf("%s by %s", kind, creatorID[:8]),
		ActivityType: kind,
		CreatorID:    creatorID,
		Timer:        30,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := 0; i < questions; i++ {
		q := models.Question{
			ID:         uuid.NewString(),
			ActivityID: a.ID,
			Position:   i,
			Question:   fmt.Sprintf("Question %d?", i+1),
			OptionType: models.OptionText,
		}
		for j := 0; j < 3; j++ {
			correct := j == 0
			q.Options = append(q.Options, models.Option{
				ID:         uuid.NewString(),
				QuestionID: q.ID,
				Position:   j,
				Text:       fmt.Sprintf("Option %d", j+1),
				IsCorrect:  &correct,
			})
		}
		a.Questions = append(a.Questions, q)
	}
	return a
}

// RunActivityRepository exercises repo. Every subtest works on fresh
// creator ids so the backend can be shared across runs.
func RunActivityRepository(t *testing.T, repo activity.Repository) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 2)
		require.NoError(t, repo.Create(ctx, a))

		got, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Title, got.Title)
		assert.Equal(t, a.CreatorID, got.CreatorID)
		assert.Equal(t, models.ActivityQuiz, got.ActivityType)
		assert.Equal(t, 30, got.Timer)
		assert.WithinDuration(t, a.CreatedAt, got.CreatedAt, time.Millisecond)
		require.Len(t, got.Questions, 2)
		for i := range a.Questions {
			assert.Equal(t, a.Questions[i].ID, got.Questions[i].ID)
			require.Len(t, got.Questions[i].Options, 3)
			assert.Equal(t, a.Questions[i].Options[0].ID, got.Questions[i].Options[0].ID)
			require.NotNil(t, got.Questions[i].Options[0].IsCorrect)
			assert.True(t, *got.Questions[i].Options[0].IsCorrect)
		}
	})

	t.Run("find missing activity", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, models.ErrActivityNotFound)
	})

	t.Run("find by creator keeps creation order", func(t *testing.T) {
		creator := uuid.NewString()
		var ids []string
		for i := 0; i < 3; i++ {
			a := NewActivity(creator, models.ActivityPoll, 1)
			a.CreatedAt = a.CreatedAt.Add(time.Duration(i) * time.Second)
			require.NoError(t, repo.Create(ctx, a))
			ids = append(ids, a.ID)
		}
		require.NoError(t, repo.Create(ctx, NewActivity(uuid.NewString(), models.ActivityPoll, 1)))

		got, err := repo.FindByCreator(ctx, creator, models.ProjectionQuestions)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i := range got {
			assert.Equal(t, ids[i], got[i].ID)
			require.Len(t, got[i].Questions, 1)
			assert.Empty(t, got[i].Questions[0].Options)
		}

		full, err := repo.FindByCreator(ctx, creator, models.ProjectionFull)
		require.NoError(t, err)
		require.Len(t, full, 3)
		assert.Len(t, full[0].Questions[0].Options, 3)
	})

	t.Run("find by unknown creator", func(t *testing.T) {
		got, err := repo.FindByCreator(ctx, uuid.NewString(), models.ProjectionQuestions)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update replaces questions", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 2)
		require.NoError(t, repo.Create(ctx, a))
		_, err := repo.IncrementQuestionCounter(ctx, a.ID, a.Questions[0].ID, models.CounterImpressions)
		require.NoError(t, err)

		replacement := NewActivity(a.CreatorID, models.ActivityPoll, 1)
		replacement.ID = a.ID
		replacement.Title = "Renamed"
		replacement.CreatedAt = a.CreatedAt
		for i := range replacement.Questions {
			replacement.Questions[i].ActivityID = a.ID
		}
		require.NoError(t, repo.Update(ctx, replacement, true))

		got, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, models.ActivityPoll, got.ActivityType)
		require.Len(t, got.Questions, 1)
		assert.Equal(t, replacement.Questions[0].ID, got.Questions[0].ID)
		assert.Zero(t, got.Questions[0].Impressions)

		_, err = repo.IncrementQuestionCounter(ctx, a.ID, a.Questions[0].ID, models.CounterImpressions)
		assert.ErrorIs(t, err, models.ErrQuestionNotFound)
	})

	t.Run("title only update keeps questions and counters", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 2)
		require.NoError(t, repo.Create(ctx, a))

		snapshot, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		q := a.Questions[1]
		_, err = repo.IncrementQuestionCounter(ctx, a.ID, q.ID, models.CounterImpressions)
		require.NoError(t, err)
		_, err = repo.IncrementOptionSelection(ctx, a.ID, q.ID, q.Options[1].ID)
		require.NoError(t, err)

		snapshot.Title = "Renamed"
		snapshot.Timer = 45
		snapshot.Questions = nil
		require.NoError(t, repo.Update(ctx, snapshot, false))

		got, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, 45, got.Timer)
		require.Len(t, got.Questions, 2)
		assert.Equal(t, a.Questions[0].ID, got.Questions[0].ID)
		assert.Equal(t, q.ID, got.Questions[1].ID)
		assert.Equal(t, int64(1), got.Questions[1].Impressions)
		require.Len(t, got.Questions[1].Options, 3)
		assert.Equal(t, q.Options[1].ID, got.Questions[1].Options[1].ID)
		assert.Equal(t, int64(1), got.Questions[1].Options[1].SelectionCount)
	})

	t.Run("update missing activity", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 1)
		assert.ErrorIs(t, repo.Update(ctx, a, true), models.ErrActivityNotFound)
		assert.ErrorIs(t, repo.Update(ctx, a, false), models.ErrActivityNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 1)
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Delete(ctx, a.ID))

		_, err := repo.FindByID(ctx, a.ID)
		assert.ErrorIs(t, err, models.ErrActivityNotFound)
		listed, err := repo.FindByCreator(ctx, a.CreatorID, models.ProjectionQuestions)
		require.NoError(t, err)
		assert.Empty(t, listed)

		assert.ErrorIs(t, repo.Delete(ctx, a.ID), models.ErrActivityNotFound)
	})

	t.Run("question counters", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 2)
		require.NoError(t, repo.Create(ctx, a))
		qid := a.Questions[1].ID

		for want := int64(1); want <= 3; want++ {
			got, err := repo.IncrementQuestionCounter(ctx, a.ID, qid, models.CounterImpressions)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		got, err := repo.IncrementQuestionCounter(ctx, a.ID, qid, models.CounterCorrectAnswers)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
		got, err = repo.IncrementQuestionCounter(ctx, a.ID, qid, models.CounterWrongAnswers)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)

		stored, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.Questions[0].Impressions)
		assert.Equal(t, int64(3), stored.Questions[1].Impressions)
		assert.Equal(t, int64(1), stored.Questions[1].CorrectAnswers)
		assert.Equal(t, int64(1), stored.Questions[1].WrongAnswers)
	})

	t.Run("counter on missing targets", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityPoll, 1)
		require.NoError(t, repo.Create(ctx, a))
		q := a.Questions[0]

		_, err := repo.IncrementQuestionCounter(ctx, uuid.NewString(), q.ID, models.CounterImpressions)
		assert.ErrorIs(t, err, models.ErrActivityNotFound)
		_, err = repo.IncrementQuestionCounter(ctx, a.ID, uuid.NewString(), models.CounterImpressions)
		assert.ErrorIs(t, err, models.ErrQuestionNotFound)

		_, err = repo.IncrementOptionSelection(ctx, uuid.NewString(), q.ID, q.Options[0].ID)
		assert.ErrorIs(t, err, models.ErrActivityNotFound)
		_, err = repo.IncrementOptionSelection(ctx, a.ID, uuid.NewString(), q.Options[0].ID)
		assert.ErrorIs(t, err, models.ErrQuestionNotFound)
		_, err = repo.IncrementOptionSelection(ctx, a.ID, q.ID, uuid.NewString())
		assert.ErrorIs(t, err, models.ErrOptionNotFound)

		stored, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, stored.Questions, 1)
		assert.Zero(t, stored.Questions[0].Impressions)
		assert.Zero(t, stored.Questions[0].CorrectAnswers)
		assert.Zero(t, stored.Questions[0].WrongAnswers)
		for _, o := range stored.Questions[0].Options {
			assert.Zero(t, o.SelectionCount, o.ID)
		}
	})

	t.Run("concurrent selections are not lost", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityPoll, 1)
		require.NoError(t, repo.Create(ctx, a))
		q := a.Questions[0]

		const workers = 4
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.IncrementOptionSelection(ctx, a.ID, q.ID, q.Options[2].ID); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		stored, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(workers), stored.Questions[0].Options[2].SelectionCount)
		assert.Zero(t, stored.Questions[0].Options[0].SelectionCount)
	})

	t.Run("many concurrent counters all land", func(t *testing.T) {
		a := NewActivity(uuid.NewString(), models.ActivityQuiz, 1)
		require.NoError(t, repo.Create(ctx, a))
		q := a.Questions[0]

		const increments = 32
		var wg sync.WaitGroup
		errs := make(chan error, 2*increments)
		for i := 0; i < increments; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				if _, err := repo.IncrementQuestionCounter(ctx, a.ID, q.ID, models.CounterImpressions); err != nil {
					errs <- err
				}
			}()
			go func() {
				defer wg.Done()
				if _, err := repo.IncrementOptionSelection(ctx, a.ID, q.ID, q.Options[0].ID); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		stored, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(increments), stored.Questions[0].Impressions)
		assert.Equal(t, int64(increments), stored.Questions[0].Options[0].SelectionCount)
	})
}

// RunUserRepository exercises the user half of a backend.
func RunUserRepository(t *testing.T, repo auth.Repository) {
	ctx := context.Background()

	newUser := func() *models.User {
		now := time.Now().UTC().Truncate(time.Millisecond)
		id := uuid.NewString()
		return &models.User{
			ID:        id,
			Name:      "Ada",
			Email:     id[:8] + "@example.com",
			Password:  "$2a$10$hash",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("create and look up", func(t *testing.T) {
		u := newUser()
		require.NoError(t, repo.CreateUser(ctx, u))

		byID, err := repo.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)
		assert.Equal(t, u.Password, byID.Password)

		byEmail, err := repo.GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.Equal(t, "Ada", byEmail.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		u := newUser()
		require.NoError(t, repo.CreateUser(ctx, u))

		dup := newUser()
		dup.Email = u.Email
		assert.ErrorIs(t, repo.CreateUser(ctx, dup), models.ErrEmailTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetUserByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		_, err = repo.GetUserByEmail(ctx, "nobody-"+uuid.NewString()[:8]+"@example.com")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
