package service

import (
	"context"
	"strings"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/models"
	"quiz-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentService covers the admin-facing catalog: categories, their images,
// and questions.
type ContentService struct {
	Categories CategoryStore
	Questions  QuestionStore
	Images     storage.ImageStore
}

func NewContentService(categories CategoryStore, questions QuestionStore, images storage.ImageStore) *ContentService {
	return &ContentService{Categories: categories, Questions: questions, Images: images}
}

type CreateCategoryInput struct {
	Name     string
	Tags     []string
	ParentID *primitive.ObjectID
	Image    []byte
	ImageExt string
}

func (s *ContentService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.New(apperr.InvalidReference, "category name is required")
	}
	if in.ParentID != nil {
		if _, err := s.Categories.FindByID(ctx, *in.ParentID); err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return nil, apperr.New(apperr.InvalidReference, "parent category does not exist")
			}
			return nil, err
		}
	}

	category := &models.Category{
		Name:     in.Name,
		Tags:     in.Tags,
		ParentID: in.ParentID,
	}
	if category.Tags == nil {
		category.Tags = []string{}
	}
	if len(in.Image) > 0 {
		url, err := s.Images.Save(in.Image, in.ImageExt)
		if err != nil {
			return nil, err
		}
		category.ImageURL = &url
	}
	if err := s.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ContentService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return s.Categories.FindByID(ctx, id)
}

func (s *ContentService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Categories.FindAll(ctx)
}

func (s *ContentService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.Categories.Delete(ctx, id)
}

// CategorySubtree returns the category and all of its descendants,
// breadth-first. A visited set guards against parent cycles in stored data.
func (s *ContentService) CategorySubtree(ctx context.Context, rootID primitive.ObjectID) ([]models.Category, error) {
	root, err := s.Categories.FindByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	result := []models.Category{*root}
	visited := map[primitive.ObjectID]bool{rootID: true}
	queue := []primitive.ObjectID{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.Categories.FindByParent(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}
	return result, nil
}

type CreateQuestionInput struct {
	CategoryID    primitive.ObjectID
	Text          string
	Type          models.QuestionType
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    models.Difficulty
	TimerSeconds  int64
	Tags          []string
}

func (s *ContentService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	if err := s.validateQuestion(in); err != nil {
		return nil, err
	}
	if _, err := s.Categories.FindByID(ctx, in.CategoryID); err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.New(apperr.InvalidReference, "category does not exist")
		}
		return nil, err
	}

	question := &models.Question{
		CategoryID:    in.CategoryID,
		Text:          in.Text,
		Type:          in.Type,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
		Difficulty:    in.Difficulty,
		TimerSeconds:  in.TimerSeconds,
		Tags:          in.Tags,
	}
	if question.Options == nil {
		question.Options = []string{}
	}
	if question.Tags == nil {
		question.Tags = []string{}
	}
	if err := s.Questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *ContentService) GetQuestion(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	return s.Questions.FindByID(ctx, id)
}

func (s *ContentService) ListQuestions(ctx context.Context, categoryID *primitive.ObjectID) ([]models.Question, error) {
	return s.Questions.FindAll(ctx, categoryID)
}

// UpdateQuestionInput carries optional field updates; nil means unchanged.
type UpdateQuestionInput struct {
	Text          *string
	Options       []string
	CorrectAnswer *string
	Explanation   *string
	Difficulty    *models.Difficulty
	TimerSeconds  *int64
	Tags          []string
}

func (s *ContentService) UpdateQuestion(ctx context.Context, id primitive.ObjectID, in UpdateQuestionInput) (*models.Question, error) {
	set := bson.M{}
	if in.Text != nil {
		if strings.TrimSpace(*in.Text) == "" {
			return nil, apperr.New(apperr.InvalidReference, "question text cannot be empty")
		}
		set["question"] = *in.Text
	}
	if in.Options != nil {
		set["options"] = in.Options
	}
	if in.CorrectAnswer != nil {
		set["correct_answer"] = *in.CorrectAnswer
	}
	if in.Explanation != nil {
		set["explanation"] = *in.Explanation
	}
	if in.Difficulty != nil {
		if !models.ValidDifficulty(*in.Difficulty) {
			return nil, apperr.New(apperr.InvalidReference, "unknown difficulty")
		}
		set["difficulty"] = *in.Difficulty
	}
	if in.TimerSeconds != nil {
		if *in.TimerSeconds <= 0 {
			return nil, apperr.New(apperr.InvalidReference, "timer must be positive")
		}
		set["timer"] = *in.TimerSeconds
	}
	if in.Tags != nil {
		set["tags"] = in.Tags
	}
	if len(set) > 0 {
		if err := s.Questions.Update(ctx, id, set); err != nil {
			return nil, err
		}
	}
	return s.Questions.FindByID(ctx, id)
}

func (s *ContentService) DeleteQuestion(ctx context.Context, id primitive.ObjectID) error {
	return s.Questions.Delete(ctx, id)
}

func (s *ContentService) validateQuestion(in CreateQuestionInput) error {
	if strings.TrimSpace(in.Text) == "" {
		return apperr.New(apperr.InvalidReference, "question text is required")
	}
	if strings.TrimSpace(in.CorrectAnswer) == "" {
		return apperr.New(apperr.InvalidReference, "correct answer is required")
	}
	if !models.ValidDifficulty(in.Difficulty) {
		return apperr.New(apperr.InvalidReference, "unknown difficulty")
	}
	if in.TimerSeconds <= 0 {
		return apperr.New(apperr.InvalidReference, "timer must be positive")
	}
	switch in.Type {
	case models.MultipleChoice:
		if len(in.Options) < 2 {
			return apperr.New(apperr.InvalidReference, "multiple choice questions need at least two options")
		}
		if !contains(in.Options, in.CorrectAnswer) {
			return apperr.New(apperr.InvalidReference, "correct answer must be one of the options")
		}
	case models.TrueFalse:
		if in.CorrectAnswer != "true" && in.CorrectAnswer != "false" {
			return apperr.New(apperr.InvalidReference, "true/false answer must be \"true\" or \"false\"")
		}
	case models.CodePrediction:
		// Free-form answer, nothing extra to check.
	default:
		return apperr.New(apperr.InvalidReference, "unknown question type")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
