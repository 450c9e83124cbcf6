package service

import (
	"context"
	"time"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"
	"quiz-backend/internal/scoring"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizService owns the lifecycle of a quiz attempt: start, answer
// submission, pause/resume and finish. Finish drives the downstream
// aggregates through the top-user and leaderboard services.
type QuizService struct {
	Quizzes     QuizStore
	Questions   QuestionStore
	Users       UserStore
	Categories  CategoryStore
	Leaderboard *LeaderboardService
	TopUsers    *TopUserService
}

func NewQuizService(
	quizzes QuizStore,
	questions QuestionStore,
	users UserStore,
	categories CategoryStore,
	leaderboard *LeaderboardService,
	topUsers *TopUserService,
) *QuizService {
	return &QuizService{
		Quizzes:     quizzes,
		Questions:   questions,
		Users:       users,
		Categories:  categories,
		Leaderboard: leaderboard,
		TopUsers:    topUsers,
	}
}

// StartQuiz samples exactly n questions for (category, difficulty) and
// persists a new active quiz. No quiz is created when fewer than n eligible
// questions exist.
func (s *QuizService) StartQuiz(ctx context.Context, userID, categoryID primitive.ObjectID, difficulty models.Difficulty, n int) (*models.Quiz, error) {
	if n <= 0 {
		return nil, apperr.New(apperr.InvalidReference, "number of questions must be positive")
	}
	if !models.ValidDifficulty(difficulty) {
		return nil, apperr.Newf(apperr.InvalidReference, "unknown difficulty %q", difficulty)
	}
	if _, err := s.Categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	questions, err := s.Questions.Sample(ctx, categoryID, difficulty, n)
	if err != nil {
		return nil, err
	}
	if len(questions) < n {
		return nil, apperr.New(apperr.InsufficientContent, "not enough questions available")
	}

	questionIDs := make([]primitive.ObjectID, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	quiz := &models.Quiz{
		SessionToken: uuid.NewString(),
		UserID:       userID,
		CategoryID:   categoryID,
		Difficulty:   difficulty,
		Questions:    questionIDs,
		Answers:      []models.Answer{},
		StartTime:    time.Now().UTC(),
		Score:        0,
		Paused:       false,
	}
	if err := s.Quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID primitive.ObjectID) (*models.Quiz, error) {
	return s.Quizzes.FindByID(ctx, quizID)
}

// SubmitAnswer grades one answer and appends it to the quiz. Correctness is
// an exact, case-sensitive match against the stored answer. The write is a
// single conditional push+increment, so a concurrent pause, finish or
// duplicate submission loses cleanly instead of clobbering the score.
func (s *QuizService) SubmitAnswer(ctx context.Context, quizID, questionID primitive.ObjectID, answerText string, timeTakenSecs int64) (*models.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Finished() {
		return nil, apperr.New(apperr.InvalidState, "quiz already finished")
	}
	if quiz.Paused {
		return nil, apperr.New(apperr.InvalidState, "cannot submit answer to a paused quiz")
	}
	if quiz.Answered(questionID) {
		return nil, apperr.New(apperr.InvalidState, "question already answered")
	}

	inQuiz := false
	for _, id := range quiz.Questions {
		if id == questionID {
			inQuiz = true
			break
		}
	}
	if !inQuiz {
		return nil, apperr.New(apperr.NotFound, "question is not part of this quiz")
	}

	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	correct := question.CorrectAnswer == answerText
	points := scoring.ComputePoints(question.Difficulty, correct, timeTakenSecs, question.TimerSeconds)
	answer := models.Answer{
		QuestionID:       questionID,
		Answer:           answerText,
		TimeTakenSeconds: timeTakenSecs,
		Correct:          correct,
	}

	recorded, err := s.Quizzes.AppendAnswer(ctx, quizID, answer, points)
	if err != nil {
		return nil, err
	}
	if !recorded {
		// The quiz was paused, sealed or answered concurrently between the
		// read above and the write.
		return nil, apperr.New(apperr.InvalidState, "quiz state changed, answer not recorded")
	}

	quiz.Answers = append(quiz.Answers, answer)
	quiz.Score += points
	return quiz, nil
}

// PauseQuiz sets the paused flag. Setting the current value again is a
// no-op, not an error.
func (s *QuizService) PauseQuiz(ctx context.Context, quizID primitive.ObjectID, paused bool) (*models.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Finished() {
		return nil, apperr.New(apperr.InvalidState, "quiz already finished")
	}
	updated, err := s.Quizzes.SetPaused(ctx, quizID, paused)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.New(apperr.InvalidState, "quiz already finished")
	}
	quiz.Paused = paused
	return quiz, nil
}

// FinishQuiz seals the quiz and runs the side-effect chain in order:
// history append, XP award, top-user recomputation, leaderboard rebuild.
// The seal itself happens at most once; the chain runs on every call so a
// finish retried after a partial failure completes the remaining steps.
// Each step is idempotent: history is a set append keyed on the session
// token, the XP award is skipped once that token is recorded, and both
// aggregates are absolute recomputations. Step failures propagate without
// rolling back the seal.
func (s *QuizService) FinishQuiz(ctx context.Context, quizID primitive.ObjectID) (int, error) {
	if _, err := s.Quizzes.Seal(ctx, quizID, time.Now().UTC()); err != nil {
		return 0, err
	}

	// Read the sealed document; an answer recorded between an earlier read
	// and the seal is included in the score and the XP award.
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return 0, err
	}

	user, err := s.Users.FindByID(ctx, quiz.UserID)
	if err != nil {
		return 0, err
	}
	awardXP := quiz.Score > 0 && !contains(user.QuizHistory, quiz.SessionToken)

	if err := s.Users.AppendQuizHistory(ctx, quiz.UserID, quiz.SessionToken); err != nil {
		return 0, err
	}
	if awardXP {
		if err := s.Users.AddXP(ctx, quiz.UserID, quiz.Score); err != nil {
			return 0, err
		}
	}
	if err := s.TopUsers.Recompute(ctx, quiz.CategoryID); err != nil {
		return 0, err
	}
	if err := s.Leaderboard.Update(ctx, quiz.UserID, quiz.CategoryID); err != nil {
		return 0, err
	}

	return quiz.Score, nil
}
