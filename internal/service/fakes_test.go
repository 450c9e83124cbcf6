package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes. They mirror the conditional-write semantics of the
// Mongo repositories so the services can be tested without a database.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return &u, nil
}

func (s *fakeUserStore) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.PhoneNumber == phone {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	u.Profile = profile
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) AddXP(_ context.Context, id primitive.ObjectID, xp int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	u.XP += xp
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) AppendQuizHistory(_ context.Context, id primitive.ObjectID, sessionToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	for _, t := range u.QuizHistory {
		if t == sessionToken {
			return nil
		}
	}
	u.QuizHistory = append(u.QuizHistory, sessionToken)
	s.users[id] = u
	return nil
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]models.Category

	setTopUserErr error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[primitive.ObjectID]models.Category)}
}

func (s *fakeCategoryStore) Create(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	category.ID = primitive.NewObjectID()
	s.categories[category.ID] = *category
	return nil
}

func (s *fakeCategoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	return &c, nil
}

func (s *fakeCategoryStore) FindAll(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (s *fakeCategoryStore) FindByParent(_ context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Category
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return apperr.New(apperr.NotFound, "category not found")
	}
	delete(s.categories, id)
	return nil
}

func (s *fakeCategoryStore) SetTopUser(_ context.Context, id primitive.ObjectID, userID *primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setTopUserErr != nil {
		return s.setTopUserErr
	}
	c, ok := s.categories[id]
	if !ok {
		return apperr.New(apperr.NotFound, "category not found")
	}
	c.TopUserID = userID
	s.categories[id] = c
	return nil
}

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions map[primitive.ObjectID]models.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[primitive.ObjectID]models.Question)}
}

func (s *fakeQuestionStore) Create(_ context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	question.ID = primitive.NewObjectID()
	s.questions[question.ID] = *question
	return nil
}

func (s *fakeQuestionStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "question not found")
	}
	return &q, nil
}

func (s *fakeQuestionStore) FindAll(_ context.Context, categoryID *primitive.ObjectID) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Question
	for _, q := range s.questions {
		if categoryID == nil || q.CategoryID == *categoryID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (s *fakeQuestionStore) Update(_ context.Context, id primitive.ObjectID, update bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return apperr.New(apperr.NotFound, "question not found")
	}
	for field, value := range update {
		switch field {
		case "question":
			q.Text = value.(string)
		case "options":
			q.Options = value.([]string)
		case "correct_answer":
			q.CorrectAnswer = value.(string)
		case "explanation":
			q.Explanation = value.(string)
		case "difficulty":
			q.Difficulty = value.(models.Difficulty)
		case "timer":
			q.TimerSeconds = value.(int64)
		case "tags":
			q.Tags = value.([]string)
		}
	}
	s.questions[id] = q
	return nil
}

func (s *fakeQuestionStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return apperr.New(apperr.NotFound, "question not found")
	}
	delete(s.questions, id)
	return nil
}

func (s *fakeQuestionStore) Sample(_ context.Context, categoryID primitive.ObjectID, difficulty models.Difficulty, n int) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var eligible []models.Question
	for _, q := range s.questions {
		if q.CategoryID == categoryID && q.Difficulty == difficulty {
			eligible = append(eligible, q)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID.Hex() < eligible[j].ID.Hex() })
	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible, nil
}

type fakeQuizStore struct {
	mu      sync.Mutex
	quizzes map[primitive.ObjectID]models.Quiz

	// referenced for the lookup stages of the aggregation fakes
	categories *fakeCategoryStore
	users      *fakeUserStore

	// sealHook runs once before the next Seal takes effect, letting tests
	// interleave a write between a caller's read and its seal.
	sealHook func()
}

func newFakeQuizStore(categories *fakeCategoryStore, users *fakeUserStore) *fakeQuizStore {
	return &fakeQuizStore{
		quizzes:    make(map[primitive.ObjectID]models.Quiz),
		categories: categories,
		users:      users,
	}
}

func cloneQuiz(q models.Quiz) models.Quiz {
	q.Questions = append([]primitive.ObjectID(nil), q.Questions...)
	q.Answers = append([]models.Answer(nil), q.Answers...)
	return q
}

func (s *fakeQuizStore) Create(_ context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.ID = primitive.NewObjectID()
	s.quizzes[quiz.ID] = cloneQuiz(*quiz)
	return nil
}

func (s *fakeQuizStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "quiz not found")
	}
	q = cloneQuiz(q)
	return &q, nil
}

func (s *fakeQuizStore) AppendAnswer(_ context.Context, quizID primitive.ObjectID, answer models.Answer, points int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[quizID]
	if !ok || q.EndTime != nil || q.Paused || q.Answered(answer.QuestionID) {
		return false, nil
	}
	q = cloneQuiz(q)
	q.Answers = append(q.Answers, answer)
	q.Score += points
	s.quizzes[quizID] = q
	return true, nil
}

func (s *fakeQuizStore) SetPaused(_ context.Context, quizID primitive.ObjectID, paused bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[quizID]
	if !ok || q.EndTime != nil {
		return false, nil
	}
	q.Paused = paused
	s.quizzes[quizID] = q
	return true, nil
}

func (s *fakeQuizStore) Seal(_ context.Context, quizID primitive.ObjectID, endTime time.Time) (bool, error) {
	if hook := s.sealHook; hook != nil {
		s.sealHook = nil
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[quizID]
	if !ok || q.EndTime != nil {
		return false, nil
	}
	q.EndTime = &endTime
	q.Paused = false
	s.quizzes[quizID] = q
	return true, nil
}

func (s *fakeQuizStore) UserCategoryTotal(_ context.Context, userID, categoryID primitive.ObjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, q := range s.quizzes {
		if q.UserID == userID && q.CategoryID == categoryID && q.EndTime != nil {
			total += q.Score
		}
	}
	return total, nil
}

func (s *fakeQuizStore) CategoryTotals(_ context.Context, categoryID primitive.ObjectID) ([]models.UserScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryTotalsLocked(categoryID), nil
}

func (s *fakeQuizStore) categoryTotalsLocked(categoryID primitive.ObjectID) []models.UserScore {
	totals := make(map[primitive.ObjectID]int)
	for _, q := range s.quizzes {
		if q.CategoryID == categoryID && q.EndTime != nil {
			totals[q.UserID] += q.Score
		}
	}
	out := make([]models.UserScore, 0, len(totals))
	for userID, total := range totals {
		out = append(out, models.UserScore{UserID: userID, TotalScore: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].UserID.Hex() < out[j].UserID.Hex()
	})
	return out
}

func (s *fakeQuizStore) CategoriesWithTopScorers(ctx context.Context) ([]models.CategoryTopScorer, error) {
	s.mu.Lock()
	played := make(map[primitive.ObjectID]bool)
	for _, q := range s.quizzes {
		if q.EndTime != nil {
			played[q.CategoryID] = true
		}
	}
	ids := make([]primitive.ObjectID, 0, len(played))
	for id := range played {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	topByCategory := make(map[primitive.ObjectID]primitive.ObjectID, len(ids))
	for _, id := range ids {
		totals := s.categoryTotalsLocked(id)
		topByCategory[id] = totals[0].UserID
	}
	s.mu.Unlock()

	var out []models.CategoryTopScorer
	for _, id := range ids {
		category, err := s.categories.FindByID(ctx, id)
		if err != nil {
			continue
		}
		row := models.CategoryTopScorer{Category: *category}
		if user, err := s.users.FindByID(ctx, topByCategory[id]); err == nil {
			row.TopUser = user
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeLeaderboardStore struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]models.LeaderboardEntry
}

func newFakeLeaderboardStore() *fakeLeaderboardStore {
	return &fakeLeaderboardStore{entries: make(map[primitive.ObjectID]models.LeaderboardEntry)}
}

func (s *fakeLeaderboardStore) ReplaceScore(_ context.Context, userID, categoryID primitive.ObjectID, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.UserID == userID && e.CategoryID == categoryID {
			e.Score = score
			s.entries[id] = e
			return nil
		}
	}
	id := primitive.NewObjectID()
	s.entries[id] = models.LeaderboardEntry{ID: id, UserID: userID, CategoryID: categoryID, Score: score}
	return nil
}

func (s *fakeLeaderboardStore) FindByCategoryByScore(_ context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	out := s.byCategory(categoryID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID.Hex() < out[j].UserID.Hex()
	})
	return out, nil
}

func (s *fakeLeaderboardStore) FindByCategoryByRank(_ context.Context, categoryID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	out := s.byCategory(categoryID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].UserID.Hex() < out[j].UserID.Hex()
	})
	return out, nil
}

func (s *fakeLeaderboardStore) byCategory(categoryID primitive.ObjectID) []models.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LeaderboardEntry
	for _, e := range s.entries {
		if e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeLeaderboardStore) SetRank(_ context.Context, id primitive.ObjectID, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return apperr.New(apperr.NotFound, "leaderboard entry not found")
	}
	e.Rank = rank
	s.entries[id] = e
	return nil
}

// testEnv wires the full service graph over the fakes.
type testEnv struct {
	users       *fakeUserStore
	categories  *fakeCategoryStore
	questions   *fakeQuestionStore
	quizzes     *fakeQuizStore
	entries     *fakeLeaderboardStore
	quiz        *QuizService
	leaderboard *LeaderboardService
	topUsers    *TopUserService
	content     *ContentService
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	categories := newFakeCategoryStore()
	questions := newFakeQuestionStore()
	quizzes := newFakeQuizStore(categories, users)
	entries := newFakeLeaderboardStore()

	leaderboard := NewLeaderboardService(entries, quizzes)
	topUsers := NewTopUserService(quizzes, categories, users)
	return &testEnv{
		users:       users,
		categories:  categories,
		questions:   questions,
		quizzes:     quizzes,
		entries:     entries,
		quiz:        NewQuizService(quizzes, questions, users, categories, leaderboard, topUsers),
		leaderboard: leaderboard,
		topUsers:    topUsers,
		content:     NewContentService(categories, questions, fakeImageStore{}),
	}
}

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}

type fakeImageStore struct{}

func (fakeImageStore) Save(_ []byte, ext string) (string, error) {
	return "http://localhost:8000/uploads/test" + ext, nil
}

func (e *testEnv) addUser(ctx context.Context, username string) *models.User {
	u := &models.User{
		PhoneNumber: "+1555000" + username,
		Username:    username,
		Role:        models.RoleUser,
		QuizHistory: []string{},
	}
	_ = e.users.Create(ctx, u)
	return u
}

func (e *testEnv) addCategory(ctx context.Context, name string) *models.Category {
	c := &models.Category{Name: name, Tags: []string{}}
	_ = e.categories.Create(ctx, c)
	return c
}

func (e *testEnv) addQuestions(ctx context.Context, categoryID primitive.ObjectID, difficulty models.Difficulty, timer int64, n int) []models.Question {
	out := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		q := &models.Question{
			CategoryID:    categoryID,
			Text:          "question",
			Type:          models.MultipleChoice,
			Options:       []string{"right", "wrong"},
			CorrectAnswer: "right",
			Difficulty:    difficulty,
			TimerSeconds:  timer,
		}
		_ = e.questions.Create(ctx, q)
		out = append(out, *q)
	}
	return out
}
