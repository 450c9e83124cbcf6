package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MultipleChoice"
	TrueFalse      QuestionType = "TrueFalse"
	CodePrediction QuestionType = "CodePrediction"
)

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
	Expert       Difficulty = "Expert"
)

// ValidDifficulty reports whether d is one of the four recognized tiers.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID    primitive.ObjectID `bson:"category_id" json:"category_id"`
	Text          string             `bson:"question" json:"text"`
	Type          QuestionType       `bson:"question_type" json:"question_type"`
	Options       []string           `bson:"options" json:"options"`
	CorrectAnswer string             `bson:"correct_answer" json:"correct_answer"`
	Explanation   string             `bson:"explanation" json:"explanation"`
	Difficulty    Difficulty         `bson:"difficulty" json:"difficulty"`
	TimerSeconds  int64              `bson:"timer" json:"timer_secs"`
	Tags          []string           `bson:"tags" json:"tags"`
}

type QuestionResponse struct {
	ID            string       `json:"id"`
	CategoryID    string       `json:"category_id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"question_type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Difficulty    Difficulty   `json:"difficulty"`
	TimerSeconds  int64        `json:"timer_secs"`
	Tags          []string     `json:"tags"`
}

func (q *Question) Response() QuestionResponse {
	resp := QuestionResponse{
		ID:            q.ID.Hex(),
		CategoryID:    q.CategoryID.Hex(),
		Text:          q.Text,
		Type:          q.Type,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		TimerSeconds:  q.TimerSeconds,
		Tags:          q.Tags,
	}
	if resp.Options == nil {
		resp.Options = []string{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}
