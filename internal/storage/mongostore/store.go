// Package mongostore keeps each activity as a single document with its
// questions and options embedded.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizzie/internal/models"
)

const (
	activitiesCollection = "activities"
	usersCollection      = "users"
)

type Store struct {
	activities *mongo.Collection
	users      *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		activities: db.Collection(activitiesCollection),
		users:      db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique email index and the creator listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	_, err = s.activities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "creator", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("creator_createdAt"),
	})
	if err != nil {
		return fmt.Errorf("activities index: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, activity *models.Activity) error {
	_, err := s.activities.InsertOne(ctx, activity)
	return err
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	if err := s.activities.FindOne(ctx, bson.M{"_id": id}).Decode(&activity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (s *Store) FindByCreator(ctx context.Context, creatorID string, projection models.Projection) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if projection == models.ProjectionQuestions {
		opts.SetProjection(bson.M{"questions.options": 0})
	}

	cursor, err := s.activities.Find(ctx, bson.M{"creator": creatorID}, opts)
	if err != nil {
		return nil, err
	}
	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *Store) Update(ctx context.Context, activity *models.Activity, replaceQuestions bool) error {
	set := bson.M{
		"title":        activity.Title,
		"activityType": activity.ActivityType,
		"timer":        activity.Timer,
		"updatedAt":    activity.UpdatedAt,
	}
	if replaceQuestions {
		set["questions"] = activity.Questions
	}
	res, err := s.activities.UpdateOne(ctx, bson.M{"_id": activity.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrActivityNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.activities.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrActivityNotFound
	}
	return nil
}

func (s *Store) IncrementQuestionCounter(ctx context.Context, activityID, questionID string, counter models.QuestionCounter) (int64, error) {
	filter := bson.M{"_id": activityID, "questions._id": questionID}
	update := bson.M{"$inc": bson.M{"questions.$." + counter.Field(): 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var activity models.Activity
	if err := s.activities.FindOneAndUpdate(ctx, filter, update, opts).Decode(&activity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if err := s.missing(ctx, activityID, questionID); err != nil {
				return 0, err
			}
			return 0, models.ErrQuestionNotFound
		}
		return 0, err
	}

	q, ok := activity.FindQuestion(questionID)
	if !ok {
		return 0, models.ErrQuestionNotFound
	}
	switch counter {
	case models.CounterCorrectAnswers:
		return q.CorrectAnswers, nil
	case models.CounterWrongAnswers:
		return q.WrongAnswers, nil
	default:
		return q.Impressions, nil
	}
}

func (s *Store) IncrementOptionSelection(ctx context.Context, activityID, questionID, optionID string) (int64, error) {
	filter := bson.M{
		"_id": activityID,
		"questions": bson.M{"$elemMatch": bson.M{
			"_id":         questionID,
			"options._id": optionID,
		}},
	}
	update := bson.M{"$inc": bson.M{"questions.$[q].options.$[o].selectionCount": 1}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.M{"q._id": questionID},
			bson.M{"o._id": optionID},
		}})

	var activity models.Activity
	if err := s.activities.FindOneAndUpdate(ctx, filter, update, opts).Decode(&activity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if err := s.missing(ctx, activityID, questionID); err != nil {
				return 0, err
			}
			return 0, models.ErrOptionNotFound
		}
		return 0, err
	}

	q, ok := activity.FindQuestion(questionID)
	if !ok {
		return 0, models.ErrQuestionNotFound
	}
	o, ok := q.FindOption(optionID)
	if !ok {
		return 0, models.ErrOptionNotFound
	}
	return o.SelectionCount, nil
}

// missing works out which part of a failed counter filter did not match.
// It returns nil when both the activity and the question exist.
func (s *Store) missing(ctx context.Context, activityID, questionID string) error {
	n, err := s.activities.CountDocuments(ctx, bson.M{"_id": activityID})
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrActivityNotFound
	}
	n, err = s.activities.CountDocuments(ctx, bson.M{"_id": activityID, "questions._id": questionID})
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
