// Package models holds the domain types shared by the services and the
// storage backends, plus the request payloads and sentinel errors.
package models

import (
	"time"
)

type ActivityType string

const (
	ActivityQuiz ActivityType = "quiz"
	ActivityPoll ActivityType = "poll"
)

// ParseActivityType accepts both the current names and the QA/Poll aliases
// older clients still send.
func ParseActivityType(raw string) (ActivityType, bool) {
	switch raw {
	case "quiz", "QA":
		return ActivityQuiz, true
	case "poll", "Poll":
		return ActivityPoll, true
	}
	return "", false
}

type OptionType string

const (
	OptionText      OptionType = "text"
	OptionImage     OptionType = "image"
	OptionTextImage OptionType = "text_image"
)

func ParseOptionType(raw string) (OptionType, bool) {
	switch t := OptionType(raw); t {
	case OptionText, OptionImage, OptionTextImage:
		return t, true
	}
	return "", false
}

// NeedsImage reports whether options of this type must carry an image URL.
func (t OptionType) NeedsImage() bool {
	return t == OptionImage || t == OptionTextImage
}

type Activity struct {
	ID           string       `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Title        string       `json:"title" bson:"title" gorm:"not null"`
	ActivityType ActivityType `json:"activityType" bson:"activityType" gorm:"type:varchar(8);not null"`
	CreatorID    string       `json:"creator" bson:"creator" gorm:"type:varchar(36);not null;index"`
	Timer        int          `json:"timer" bson:"timer" gorm:"not null;default:0"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updatedAt"`
	Questions    []Question   `json:"questions" bson:"questions" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

type Question struct {
	ID             string     `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	ActivityID     string     `json:"-" bson:"-" gorm:"type:varchar(36);not null;index"`
	Position       int        `json:"-" bson:"-" gorm:"not null"`
	Question       string     `json:"question" bson:"question" gorm:"not null"`
	OptionType     OptionType `json:"optionType" bson:"optionType" gorm:"type:varchar(16);not null"`
	Options        []Option   `json:"options,omitempty" bson:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Impressions    int64      `json:"impressions" bson:"impressions" gorm:"not null;default:0"`
	CorrectAnswers int64      `json:"correctAnswers" bson:"correctAnswers" gorm:"not null;default:0"`
	WrongAnswers   int64      `json:"wrongAnswers" bson:"wrongAnswers" gorm:"not null;default:0"`
}

type Option struct {
	ID             string `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	QuestionID     string `json:"-" bson:"-" gorm:"type:varchar(36);not null;index"`
	Position       int    `json:"-" bson:"-" gorm:"not null"`
	Text           string `json:"text" bson:"text" gorm:"not null"`
	ImageURL       string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	IsCorrect      *bool  `json:"isCorrect,omitempty" bson:"isCorrect,omitempty"`
	SelectionCount int64  `json:"selectionCount" bson:"selectionCount" gorm:"not null;default:0"`
}

// FindQuestion looks up a question by id within the activity.
func (a *Activity) FindQuestion(id string) (*Question, bool) {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i], true
		}
	}
	return nil, false
}

func (q *Question) FindOption(id string) (*Option, bool) {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// TotalImpressions sums the impression counters of every question.
func (a *Activity) TotalImpressions() int64 {
	var total int64
	for _, q := range a.Questions {
		total += q.Impressions
	}
	return total
}

// Projection selects how much of an activity tree a read materializes.
type Projection int

const (
	// ProjectionQuestions loads questions and their counters but no options.
	ProjectionQuestions Projection = iota
	// ProjectionFull loads the whole tree.
	ProjectionFull
)

// QuestionCounter names one of the per-question counters.
type QuestionCounter int

const (
	CounterImpressions QuestionCounter = iota
	CounterCorrectAnswers
	CounterWrongAnswers
)

// Column is the SQL column backing the counter.
func (c QuestionCounter) Column() string {
	switch c {
	case CounterCorrectAnswers:
		return "correct_answers"
	case CounterWrongAnswers:
		return "wrong_answers"
	default:
		return "impressions"
	}
}

// Field is the document field backing the counter.
func (c QuestionCounter) Field() string {
	switch c {
	case CounterCorrectAnswers:
		return "correctAnswers"
	case CounterWrongAnswers:
		return "wrongAnswers"
	default:
		return "impressions"
	}
}

// Apply increments the counter on q and returns the new value.
func (c QuestionCounter) Apply(q *Question) int64 {
	switch c {
	case CounterCorrectAnswers:
		q.CorrectAnswers++
		return q.CorrectAnswers
	case CounterWrongAnswers:
		q.WrongAnswers++
		return q.WrongAnswers
	default:
		q.Impressions++
		return q.Impressions
	}
}

// AnswerType is the closed set of answer outcomes a respondent can report.
type AnswerType int

const (
	AnswerCorrect AnswerType = iota + 1
	AnswerWrong
)

func ParseAnswerType(raw string) (AnswerType, error) {
	switch raw {
	case "correct":
		return AnswerCorrect, nil
	case "wrong":
		return AnswerWrong, nil
	}
	return 0, ErrInvalidAnswerType
}

func (t AnswerType) Counter() QuestionCounter {
	if t == AnswerCorrect {
		return CounterCorrectAnswers
	}
	return CounterWrongAnswers
}

func (t AnswerType) String() string {
	switch t {
	case AnswerCorrect:
		return "correct"
	case AnswerWrong:
		return "wrong"
	}
	return "unknown"
}
