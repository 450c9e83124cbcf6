package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is one submitted answer inside a quiz. The list is append-only and
// holds at most one answer per question.
type Answer struct {
	QuestionID       primitive.ObjectID `bson:"question_id" json:"question_id"`
	Answer           string             `bson:"answer" json:"answer"`
	TimeTakenSeconds int64              `bson:"time_taken" json:"time_taken_secs"`
	Correct          bool               `bson:"correct" json:"correct"`
}

// Quiz is one attempt by one user at a sampled question set. EndTime unset
// means the attempt is still open; once set the document is sealed and no
// further answers are accepted.
type Quiz struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	SessionToken string               `bson:"session_token" json:"session_token"`
	UserID       primitive.ObjectID   `bson:"user_id" json:"user_id"`
	CategoryID   primitive.ObjectID   `bson:"category_id" json:"category_id"`
	Difficulty   Difficulty           `bson:"difficulty" json:"difficulty"`
	Questions    []primitive.ObjectID `bson:"questions" json:"-"`
	Answers      []Answer             `bson:"answers" json:"answers"`
	StartTime    time.Time            `bson:"start_time" json:"start_time"`
	EndTime      *time.Time           `bson:"end_time" json:"end_time"`
	Score        int                  `bson:"score" json:"score"`
	Paused       bool                 `bson:"paused" json:"paused"`
}

// Finished reports whether the quiz has been sealed.
func (q *Quiz) Finished() bool {
	return q.EndTime != nil
}

// Answered reports whether questionID already has a submitted answer.
func (q *Quiz) Answered(questionID primitive.ObjectID) bool {
	for _, a := range q.Answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

type QuizResponse struct {
	ID           string     `json:"id"`
	SessionToken string     `json:"session_token"`
	UserID       string     `json:"user_id"`
	CategoryID   string     `json:"category_id"`
	Difficulty   Difficulty `json:"difficulty"`
	Questions    []string   `json:"questions"`
	Answers      []Answer   `json:"answers"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Score        int        `json:"score"`
	Paused       bool       `json:"paused"`
}

func (q *Quiz) Response() QuizResponse {
	questions := make([]string, 0, len(q.Questions))
	for _, id := range q.Questions {
		questions = append(questions, id.Hex())
	}
	answers := q.Answers
	if answers == nil {
		answers = []Answer{}
	}
	return QuizResponse{
		ID:           q.ID.Hex(),
		SessionToken: q.SessionToken,
		UserID:       q.UserID.Hex(),
		CategoryID:   q.CategoryID.Hex(),
		Difficulty:   q.Difficulty,
		Questions:    questions,
		Answers:      answers,
		StartTime:    q.StartTime,
		EndTime:      q.EndTime,
		Score:        q.Score,
		Paused:       q.Paused,
	}
}
