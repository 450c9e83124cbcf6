package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaderboardEntry is the materialized cumulative score for one (user,
// category) pair. Score and Rank are both derived from the finished-quiz
// aggregation; the ranking engine rebuilds them, they are never set by
// clients.
type LeaderboardEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	CategoryID primitive.ObjectID `bson:"category_id" json:"category_id"`
	Score      int                `bson:"score" json:"score"`
	Rank       int                `bson:"rank" json:"rank"`
}
