package service

import (
	"context"

	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	Users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.Users.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, profile models.Profile) (*models.User, error) {
	if err := s.Users.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	return s.Users.FindByID(ctx, userID)
}
