package repository

import (
	"context"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeaderboardRepository struct {
	Col *mongo.Collection
}

func NewLeaderboardRepository(db *mongo.Database) *LeaderboardRepository {
	return &LeaderboardRepository{Col: db.Collection("leaderboards")}
}

// ReplaceScore upserts the (user, category) entry with an absolute cumulative
// score. Writing the absolute value keeps rebuilds idempotent under retries.
func (r *LeaderboardRepository) ReplaceScore(ctx context.Context, userID, categoryID primitive.ObjectID, score int) error {
	filter := bson.M{"user_id": userID, "category_id": categoryID}
	update := bson.M{"$set": bson.M{
		"user_id":     userID,
		"category_id": categoryID,
		"score":       score,
	}}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to upsert leaderboard entry", err)
	}
	return nil
}

// FindByCategoryByScore lists a category's entries ordered score descending,
// user id ascending — the rank assignment order.
func (r *LeaderboardRepository) FindByCategoryByScore(ctx context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "score", Value: -1}, {Key: "user_id", Value: 1}})
	return r.findByCategory(ctx, categoryID, opts)
}

// FindByCategoryByRank lists a category's entries in ascending rank order,
// the shape served to clients.
func (r *LeaderboardRepository) FindByCategoryByRank(ctx context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}, {Key: "user_id", Value: 1}})
	return r.findByCategory(ctx, categoryID, opts)
}

func (r *LeaderboardRepository) findByCategory(ctx context.Context, categoryID primitive.ObjectID, opts *options.FindOptions) ([]models.LeaderboardEntry, error) {
	cur, err := r.Col.Find(ctx, bson.M{"category_id": categoryID}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list leaderboard", err)
	}
	defer cur.Close(ctx)
	var entries []models.LeaderboardEntry
	for cur.Next(ctx) {
		var e models.LeaderboardEntry
		if err := cur.Decode(&e); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode leaderboard entry", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *LeaderboardRepository) SetRank(ctx context.Context, id primitive.ObjectID, rank int) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"rank": rank}})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to set rank", err)
	}
	return nil
}
