package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserScore is the aggregation projection of one user's total finished-quiz
// score within a category.
type UserScore struct {
	UserID     primitive.ObjectID `bson:"_id" json:"user_id"`
	TotalScore int                `bson:"total_score" json:"total_score"`
}

// CategoryTopScorer joins a category with the user holding its highest
// finished-quiz total, as produced by the categories-with-top-users pipeline.
type CategoryTopScorer struct {
	Category Category `bson:"category"`
	TopUser  *User    `bson:"top_user"`
}
