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

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.Col.InsertOne(ctx, user)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to create user", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"phone_number": phone}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.Profile) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"profile": profile}})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to update profile", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// AddXP increments the user's XP atomically.
func (r *UserRepository) AddXP(ctx context.Context, id primitive.ObjectID, xp int) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"xp": xp}})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to add xp", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// AppendQuizHistory records a finished quiz's session token. $addToSet keeps
// the append idempotent when a finish is retried.
func (r *UserRepository) AppendQuizHistory(ctx context.Context, id primitive.ObjectID, sessionToken string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"quiz_history": sessionToken}})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to append quiz history", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}
