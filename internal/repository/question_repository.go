package repository

import (
	"context"
	"errors"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	res, err := r.Col.InsertOne(ctx, question)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to create question", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		question.ID = oid
	}
	return nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "question not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to fetch question", err)
	}
	return &question, nil
}

// FindAll lists questions, optionally limited to one category.
func (r *QuestionRepository) FindAll(ctx context.Context, categoryID *primitive.ObjectID) ([]models.Question, error) {
	filter := bson.M{}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list questions", err)
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode question", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to update question", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "question not found")
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to delete question", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "question not found")
	}
	return nil
}

// Sample draws up to n random questions matching the category and difficulty,
// without replacement. Callers decide whether fewer than n is acceptable.
func (r *QuestionRepository) Sample(ctx context.Context, categoryID primitive.ObjectID, difficulty models.Difficulty, n int) ([]models.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category_id": categoryID, "difficulty": difficulty}}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to sample questions", err)
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode question", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
