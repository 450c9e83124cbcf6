package service

import (
	"context"
	"time"

	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the services. The repository package provides
// the Mongo-backed implementations; tests substitute in-memory fakes.

type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error)
	AppendAnswer(ctx context.Context, quizID primitive.ObjectID, answer models.Answer, points int) (bool, error)
	SetPaused(ctx context.Context, quizID primitive.ObjectID, paused bool) (bool, error)
	Seal(ctx context.Context, quizID primitive.ObjectID, endTime time.Time) (bool, error)
	UserCategoryTotal(ctx context.Context, userID, categoryID primitive.ObjectID) (int, error)
	CategoryTotals(ctx context.Context, categoryID primitive.ObjectID) ([]models.UserScore, error)
	CategoriesWithTopScorers(ctx context.Context) ([]models.CategoryTopScorer, error)
}

type QuestionStore interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	FindAll(ctx context.Context, categoryID *primitive.ObjectID) ([]models.Question, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Sample(ctx context.Context, categoryID primitive.ObjectID, difficulty models.Difficulty, n int) ([]models.Question, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile models.Profile) error
	AddXP(ctx context.Context, id primitive.ObjectID, xp int) error
	AppendQuizHistory(ctx context.Context, id primitive.ObjectID, sessionToken string) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetTopUser(ctx context.Context, id primitive.ObjectID, userID *primitive.ObjectID) error
}

type LeaderboardStore interface {
	ReplaceScore(ctx context.Context, userID, categoryID primitive.ObjectID, score int) error
	FindByCategoryByScore(ctx context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error)
	FindByCategoryByRank(ctx context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error)
	SetRank(ctx context.Context, id primitive.ObjectID, rank int) error
}
