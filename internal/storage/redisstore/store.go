// Package redisstore keeps activities and users in Redis.
//
// Layout:
//
//	activity:{id}              JSON activity tree, counters left at zero
//	activity:{id}:counters     hash of counters, see questionField/optionField
//	creator:{id}:activities    list of activity ids in creation order
//	user:{id}                  JSON user record
//	user:email:{email}         user id
//
// Counters are bumped by a Lua script that checks the activity, question and
// option exist and increments the hash field in one step. Structural edits
// (update, delete) are optimistic WATCH/MULTI transactions on the tree key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"quizzie/internal/models"
)

const defaultMaxRetries = 5

// ErrContention is returned when an update or delete keeps losing its WATCH
// race against another edit of the same activity.
var ErrContention = errors.New("redisstore: too many concurrent writers")

// incrementScript returns the new value, or -1, -2, -3 when the activity,
// the question (ARGV[1]) or the target field (ARGV[2]) is missing.
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
if redis.call("HEXISTS", KEYS[2], ARGV[1]) == 0 then
	return -2
end
if redis.call("HEXISTS", KEYS[2], ARGV[2]) == 0 then
	return -3
end
return redis.call("HINCRBY", KEYS[2], ARGV[2], 1)
`)

type Store struct {
	client     *redis.Client
	maxRetries int
}

func New(client *redis.Client) *Store {
	return &Store{client: client, maxRetries: defaultMaxRetries}
}

func activityKey(id string) string { return "activity:" + id }
func countersKey(id string) string { return "activity:" + id + ":counters" }
func creatorKey(creatorID string) string { return "creator:" + creatorID + ":activities" }
func userKey(id string) string { return "user:" + id }
func userEmailKey(email string) string { return "user:email:" + email }

func questionField(questionID string, counter models.QuestionCounter) string {
	return "q:" + questionID + ":" + counter.Field()
}

func optionField(questionID, optionID string) string {
	return "o:" + questionID + ":" + optionID
}

// zeroCounters lists every counter field of the tree, all at zero.
func zeroCounters(a *models.Activity) map[string]interface{} {
	fields := make(map[string]interface{})
	for _, q := range a.Questions {
		for _, c := range []models.QuestionCounter{models.CounterImpressions, models.CounterCorrectAnswers, models.CounterWrongAnswers} {
			fields[questionField(q.ID, c)] = 0
		}
		for _, o := range q.Options {
			fields[optionField(q.ID, o.ID)] = 0
		}
	}
	return fields
}

func applyCounters(a *models.Activity, counters map[string]string) {
	read := func(field string) int64 {
		n, _ := strconv.ParseInt(counters[field], 10, 64)
		return n
	}
	for i := range a.Questions {
		q := &a.Questions[i]
		q.Impressions = read(questionField(q.ID, models.CounterImpressions))
		q.CorrectAnswers = read(questionField(q.ID, models.CounterCorrectAnswers))
		q.WrongAnswers = read(questionField(q.ID, models.CounterWrongAnswers))
		for j := range q.Options {
			q.Options[j].SelectionCount = read(optionField(q.ID, q.Options[j].ID))
		}
	}
}

// document encodes the tree with its counters zeroed; the hash owns them.
func document(a *models.Activity) ([]byte, error) {
	stripped := *a
	stripped.Questions = make([]models.Question, len(a.Questions))
	for i, q := range a.Questions {
		q.Impressions, q.CorrectAnswers, q.WrongAnswers = 0, 0, 0
		if q.Options != nil {
			opts := make([]models.Option, len(q.Options))
			for j, o := range q.Options {
				o.SelectionCount = 0
				opts[j] = o
			}
			q.Options = opts
		}
		stripped.Questions[i] = q
	}
	return json.Marshal(&stripped)
}

func decode(id string, data []byte) (*models.Activity, error) {
	var activity models.Activity
	if err := json.Unmarshal(data, &activity); err != nil {
		return nil, fmt.Errorf("decode activity %s: %w", id, err)
	}
	return &activity, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// load reads the tree without counters.
func (s *Store) load(ctx context.Context, g getter, id string) (*models.Activity, error) {
	data, err := g.Get(ctx, activityKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load activity %s: %w", id, err)
	}
	return decode(id, data)
}

func (s *Store) Create(ctx context.Context, activity *models.Activity) error {
	data, err := document(activity)
	if err != nil {
		return err
	}
	counters := zeroCounters(activity)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, activityKey(activity.ID), data, 0)
		if len(counters) > 0 {
			pipe.HSet(ctx, countersKey(activity.ID), counters)
		}
		pipe.RPush(ctx, creatorKey(activity.CreatorID), activity.ID)
		return nil
	})
	return err
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	var (
		tree     *redis.StringCmd
		counters *redis.StringStringMapCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		tree = pipe.Get(ctx, activityKey(id))
		counters = pipe.HGetAll(ctx, countersKey(id))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load activity %s: %w", id, err)
	}
	data, err := tree.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load activity %s: %w", id, err)
	}

	activity, err := decode(id, data)
	if err != nil {
		return nil, err
	}
	applyCounters(activity, counters.Val())
	return activity, nil
}

func (s *Store) FindByCreator(ctx context.Context, creatorID string, projection models.Projection) ([]models.Activity, error) {
	ids, err := s.client.LRange(ctx, creatorKey(creatorID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Activity{}, nil
	}

	trees := make([]*redis.StringCmd, len(ids))
	counters := make([]*redis.StringStringMapCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			trees[i] = pipe.Get(ctx, activityKey(id))
			counters[i] = pipe.HGetAll(ctx, countersKey(id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(ids))
	for i, id := range ids {
		data, err := trees[i].Bytes()
		if errors.Is(err, redis.Nil) {
			// deleted between LRANGE and GET
			continue
		}
		if err != nil {
			return nil, err
		}
		activity, err := decode(id, data)
		if err != nil {
			return nil, err
		}
		applyCounters(activity, counters[i].Val())
		if projection == models.ProjectionQuestions {
			for j := range activity.Questions {
				activity.Questions[j].Options = nil
			}
		}
		activities = append(activities, *activity)
	}
	return activities, nil
}

func (s *Store) Update(ctx context.Context, activity *models.Activity, replaceQuestions bool) error {
	return s.withRetry(ctx, activity.ID, func(tx *redis.Tx) error {
		current, err := s.load(ctx, tx, activity.ID)
		if err != nil {
			return err
		}

		next := current
		if replaceQuestions {
			replacement := *activity
			next = &replacement
			next.CreatorID = current.CreatorID
			next.CreatedAt = current.CreatedAt
		} else {
			next.Title = activity.Title
			next.ActivityType = activity.ActivityType
			next.Timer = activity.Timer
			next.UpdatedAt = activity.UpdatedAt
		}
		data, err := document(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, activityKey(activity.ID), data, 0)
			if replaceQuestions {
				pipe.Del(ctx, countersKey(activity.ID))
				if counters := zeroCounters(next); len(counters) > 0 {
					pipe.HSet(ctx, countersKey(activity.ID), counters)
				}
			}
			return nil
		})
		return err
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withRetry(ctx, id, func(tx *redis.Tx) error {
		activity, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, activityKey(id), countersKey(id))
			pipe.LRem(ctx, creatorKey(activity.CreatorID), 0, id)
			return nil
		})
		return err
	})
}

func (s *Store) IncrementQuestionCounter(ctx context.Context, activityID, questionID string, counter models.QuestionCounter) (int64, error) {
	return s.increment(ctx, activityID,
		questionField(questionID, models.CounterImpressions),
		questionField(questionID, counter))
}

func (s *Store) IncrementOptionSelection(ctx context.Context, activityID, questionID, optionID string) (int64, error) {
	return s.increment(ctx, activityID,
		questionField(questionID, models.CounterImpressions),
		optionField(questionID, optionID))
}

func (s *Store) increment(ctx context.Context, activityID, questionMarker, field string) (int64, error) {
	keys := []string{activityKey(activityID), countersKey(activityID)}
	n, err := incrementScript.Run(ctx, s.client, keys, questionMarker, field).Int64()
	if err != nil {
		return 0, fmt.Errorf("increment %s on activity %s: %w", field, activityID, err)
	}
	switch n {
	case -1:
		return 0, models.ErrActivityNotFound
	case -2:
		return 0, models.ErrQuestionNotFound
	case -3:
		return 0, models.ErrOptionNotFound
	}
	return n, nil
}

func (s *Store) withRetry(ctx context.Context, id string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < s.maxRetries; i++ {
		err := s.client.Watch(ctx, fn, activityKey(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("activity %s: %w", id, ErrContention)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	ok, err := s.client.SetNX(ctx, userEmailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrEmailTaken
	}

	data, err := json.Marshal(user.Stored())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, userKey(user.ID), data, 0).Err(); err != nil {
		s.client.Del(ctx, userEmailKey(user.Email))
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := s.client.Get(ctx, userEmailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	var stored models.StoredUser
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	user := stored.User()
	return &user, nil
}
