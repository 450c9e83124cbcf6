package service

import (
	"context"

	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaderboardService maintains the materialized per-(user, category)
// cumulative scores and their dense ranks. Scores are always recomputed from
// the finished-quiz aggregation rather than applied as deltas, so an update
// can be retried without double-counting.
type LeaderboardService struct {
	Entries LeaderboardStore
	Quizzes QuizStore
}

func NewLeaderboardService(entries LeaderboardStore, quizzes QuizStore) *LeaderboardService {
	return &LeaderboardService{Entries: entries, Quizzes: quizzes}
}

// Update refreshes the user's cumulative score for the category and rewrites
// the category's ranks. The rank pass reads then writes every entry with no
// isolation; concurrent updates in one category can interleave and leave
// ranks stale until the last pass lands.
func (s *LeaderboardService) Update(ctx context.Context, userID, categoryID primitive.ObjectID) error {
	total, err := s.Quizzes.UserCategoryTotal(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if err := s.Entries.ReplaceScore(ctx, userID, categoryID, total); err != nil {
		return err
	}
	return s.recomputeRanks(ctx, categoryID)
}

// recomputeRanks assigns ranks 1..N in score-descending order, a contiguous
// sequence with no gaps or duplicates. Tied scores take sequential ranks in
// user-id order, so recomputations are reproducible.
func (s *LeaderboardService) recomputeRanks(ctx context.Context, categoryID primitive.ObjectID) error {
	entries, err := s.Entries.FindByCategoryByScore(ctx, categoryID)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if err := s.Entries.SetRank(ctx, entry.ID, i+1); err != nil {
			return err
		}
	}
	return nil
}

// GetLeaderboard returns the category's entries in ascending rank order.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	entries, err := s.Entries.FindByCategoryByRank(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}
