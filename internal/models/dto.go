package models

import "time"

// ActivityRequest is the body accepted by create and update. Pointer fields
// distinguish "absent" from "zero" on partial updates.
type ActivityRequest struct {
	Title        *string           `json:"title"`
	ActivityType *string           `json:"activityType"`
	Timer        *int              `json:"timer"`
	Questions    []QuestionRequest `json:"questions"`
}

type QuestionRequest struct {
	Question   string          `json:"question"`
	OptionType string          `json:"optionType"`
	Options    []OptionRequest `json:"options"`
}

type OptionRequest struct {
	Text      string `json:"text"`
	ImageURL  string `json:"imageUrl,omitempty"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// Summary is the creator-level dashboard.
type Summary struct {
	TotalImpressions     string `json:"totalImpressions"`
	TotalQuestions       int    `json:"totalQuestions"`
	TotalQuizzesAndPolls int    `json:"totalQuizzesAndPolls"`
}

// ActivityAnalytics is the per-activity breakdown. Quiz activities fill
// Questions with answer tallies; poll activities fill them with options.
type ActivityAnalytics struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	ActivityType ActivityType        `json:"activityType"`
	Impressions  string              `json:"impressions"`
	CreatedAt    time.Time           `json:"createdAt"`
	Questions    []QuestionAnalytics `json:"questions"`
}

type QuestionAnalytics struct {
	ID             string            `json:"id"`
	Question       string            `json:"question"`
	Impressions    int64             `json:"impressions"`
	CorrectAnswers *int64            `json:"correctAnswers,omitempty"`
	WrongAnswers   *int64            `json:"wrongAnswers,omitempty"`
	TotalAttempts  *int64            `json:"totalAttempts,omitempty"`
	Options        []OptionAnalytics `json:"options,omitempty"`
}

type OptionAnalytics struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	SelectionCount int64  `json:"selectionCount"`
}

type TrendingEntry struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	ActivityType ActivityType `json:"activityType"`
	Impressions  string       `json:"impressions"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type ActivityListEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Impressions string    `json:"impressions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CounterValue is returned by the increment endpoints.
type CounterValue struct {
	ActivityID string `json:"activityId"`
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId,omitempty"`
	Value      int64  `json:"value"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
