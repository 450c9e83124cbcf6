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

type CategoryRepository struct {
	Col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{Col: db.Collection("categories")}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	res, err := r.Col.InsertOne(ctx, category)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to create category", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to fetch category", err)
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list categories", err)
	}
	defer cur.Close(ctx)
	var categories []models.Category
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode category", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
	cur, err := r.Col.Find(ctx, bson.M{"parent_id": parentID})
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list child categories", err)
	}
	defer cur.Close(ctx)
	var categories []models.Category
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to decode category", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to delete category", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "category not found")
	}
	return nil
}

// SetTopUser writes the denormalized top-user pointer. A nil userID clears it.
func (r *CategoryRepository) SetTopUser(ctx context.Context, id primitive.ObjectID, userID *primitive.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"top_user_id": userID}})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to set top user", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "category not found")
	}
	return nil
}
