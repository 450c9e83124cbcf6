package service

import (
	"context"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TopUserService tracks the highest-scoring user per category. The source of
// truth is the finished-quiz aggregation; the pointer cached on the category
// document is a convenience that may briefly lag it.
type TopUserService struct {
	Quizzes    QuizStore
	Categories CategoryStore
	Users      UserStore
}

func NewTopUserService(quizzes QuizStore, categories CategoryStore, users UserStore) *TopUserService {
	return &TopUserService{Quizzes: quizzes, Categories: categories, Users: users}
}

// Recompute refreshes the category's cached top-user pointer from the
// finished-quiz totals. A category with no finished quizzes gets a cleared
// pointer.
func (s *TopUserService) Recompute(ctx context.Context, categoryID primitive.ObjectID) error {
	totals, err := s.Quizzes.CategoryTotals(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		return s.Categories.SetTopUser(ctx, categoryID, nil)
	}
	top := totals[0].UserID
	return s.Categories.SetTopUser(ctx, categoryID, &top)
}

// TopUserForCategory resolves the category's current top scorer directly
// from the aggregation. Returns nil when nobody has finished a quiz there.
func (s *TopUserService) TopUserForCategory(ctx context.Context, categoryID primitive.ObjectID) (*models.UserResponse, error) {
	if _, err := s.Categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	totals, err := s.Quizzes.CategoryTotals(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}
	user, err := s.Users.FindByID(ctx, totals[0].UserID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			// Top scorer's account no longer exists.
			return nil, nil
		}
		return nil, err
	}
	resp := user.Response()
	return &resp, nil
}

// CategoriesWithTopUsers lists every category alongside its top scorer.
// Categories nobody has played yet appear with a nil top user.
func (s *TopUserService) CategoriesWithTopUsers(ctx context.Context) ([]models.CategoryWithTopUser, error) {
	scored, err := s.Quizzes.CategoriesWithTopScorers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.CategoryWithTopUser, 0, len(scored))
	seen := make(map[primitive.ObjectID]bool, len(scored))
	for _, row := range scored {
		entry := models.CategoryWithTopUser{Category: row.Category.Response()}
		if row.TopUser != nil {
			userResp := row.TopUser.Response()
			entry.TopUser = &userResp
		}
		results = append(results, entry)
		seen[row.Category.ID] = true
	}

	all, err := s.Categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if seen[c.ID] {
			continue
		}
		results = append(results, models.CategoryWithTopUser{Category: c.Response()})
	}
	return results, nil
}
