package repository

import (
	"context"
	"errors"
	"time"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	res, err := r.Col.InsertOne(ctx, quiz)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to start quiz", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		quiz.ID = oid
	}
	return nil
}

func (r *QuizRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "quiz not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to fetch quiz", err)
	}
	return &quiz, nil
}

// AppendAnswer pushes one answer and bumps the score in a single conditional
// update. The filter re-checks open/unpaused/not-yet-answered at the store so
// concurrent submissions cannot lose an increment or sneak past a pause.
// Returns false when no document matched the conditions.
func (r *QuizRepository) AppendAnswer(ctx context.Context, quizID primitive.ObjectID, answer models.Answer, points int) (bool, error) {
	filter := bson.M{
		"_id":                 quizID,
		"end_time":            nil,
		"paused":              false,
		"answers.question_id": bson.M{"$ne": answer.QuestionID},
	}
	update := bson.M{
		"$push": bson.M{"answers": answer},
		"$inc":  bson.M{"score": points},
	}
	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, apperr.Wrap(apperr.Upstream, "failed to record answer", err)
	}
	return res.MatchedCount > 0, nil
}

// SetPaused sets the paused flag on an open quiz. Returns false when the quiz
// is absent or already sealed.
func (r *QuizRepository) SetPaused(ctx context.Context, quizID primitive.ObjectID, paused bool) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": quizID, "end_time": nil},
		bson.M{"$set": bson.M{"paused": paused}},
	)
	if err != nil {
		return false, apperr.Wrap(apperr.Upstream, "failed to pause quiz", err)
	}
	return res.MatchedCount > 0, nil
}

// Seal stamps the end timestamp and clears paused, but only on a quiz that is
// not yet finished. Returns false when the quiz was already sealed, which
// makes a retried finish a no-op.
func (r *QuizRepository) Seal(ctx context.Context, quizID primitive.ObjectID, endTime time.Time) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": quizID, "end_time": nil},
		bson.M{"$set": bson.M{"end_time": endTime, "paused": false}},
	)
	if err != nil {
		return false, apperr.Wrap(apperr.Upstream, "failed to finish quiz", err)
	}
	return res.MatchedCount > 0, nil
}

// UserCategoryTotal sums one user's scores across finished quizzes in a
// category.
func (r *QuizRepository) UserCategoryTotal(ctx context.Context, userID, categoryID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":     userID,
			"category_id": categoryID,
			"end_time":    bson.M{"$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "total_score": bson.M{"$sum": "$score"}}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, apperr.Wrap(apperr.Upstream, "failed to aggregate scores", err)
	}
	defer cur.Close(ctx)
	if cur.Next(ctx) {
		var total models.UserScore
		if err := cur.Decode(&total); err != nil {
			return 0, apperr.Wrap(apperr.Upstream, "failed to decode score total", err)
		}
		return total.TotalScore, nil
	}
	return 0, nil
}

// CategoryTotals returns every user's finished-quiz total in a category,
// highest first. Ties order by user id so recomputations are reproducible.
func (r *QuizRepository) CategoryTotals(ctx context.Context, categoryID primitive.ObjectID) ([]models.UserScore, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"category_id": categoryID,
			"end_time":    bson.M{"$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "total_score": bson.M{"$sum": "$score"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_score", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to aggregate scores", err)
	}
	defer cur.Close(ctx)
	var totals []models.UserScore
	for cur.Next(ctx) {
		var t models.UserScore
		if err := cur.Decode(&t); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode score total", err)
		}
		totals = append(totals, t)
	}
	return totals, nil
}

// CategoriesWithTopScorers groups finished quizzes by (category, user), keeps
// each category's best total and joins category and user documents in one
// pipeline. Categories with no finished quizzes are not included here.
func (r *QuizRepository) CategoriesWithTopScorers(ctx context.Context) ([]models.CategoryTopScorer, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"end_time": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"category_id": "$category_id", "user_id": "$user_id"},
			"total_score": bson.M{"$sum": "$score"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_score", Value: -1}, {Key: "_id.user_id", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$_id.category_id",
			"top_user_id": bson.M{"$first": "$_id.user_id"},
			"top_score":   bson.M{"$first": "$total_score"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "category_info",
		}}},
		{{Key: "$unwind", Value: "$category_info"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "top_user_id",
			"foreignField": "_id",
			"as":           "top_user_info",
		}}},
		{{Key: "$project", Value: bson.M{
			"category": "$category_info",
			"top_user": bson.M{"$arrayElemAt": bson.A{"$top_user_info", 0}},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to aggregate top scorers", err)
	}
	defer cur.Close(ctx)
	var results []models.CategoryTopScorer
	for cur.Next(ctx) {
		var row models.CategoryTopScorer
		if err := cur.Decode(&row); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode top scorer", err)
		}
		results = append(results, row)
	}
	return results, nil
}
