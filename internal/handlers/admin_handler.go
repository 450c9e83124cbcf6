package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"quiz-backend/internal/models"
	"quiz-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler serves the content-management surface: categories, category
// images, questions and the top-user projections.
type AdminHandler struct {
	Content  *service.ContentService
	TopUsers *service.TopUserService
}

func NewAdminHandler(content *service.ContentService, topUsers *service.TopUserService) *AdminHandler {
	return &AdminHandler{Content: content, TopUsers: topUsers}
}

// CreateCategory accepts multipart form data: name, tags (comma separated),
// optional parent_id and optional image file.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	in := service.CreateCategoryInput{
		Name: c.PostForm("name"),
	}
	if tags := c.PostForm("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				in.Tags = append(in.Tags, trimmed)
			}
		}
	}
	if parentHex := c.PostForm("parent_id"); parentHex != "" {
		parentID, err := parseID(parentHex)
		if err != nil {
			writeError(c, err)
			return
		}
		in.ParentID = &parentID
	}

	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.Image = data
		in.ImageExt = filepath.Ext(file.Filename)
	}

	category, err := h.Content.CreateCategory(context.Background(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category.Response())
}

func (h *AdminHandler) GetCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	category, err := h.Content.GetCategory(context.Background(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category.Response())
}

func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.Content.ListCategories(context.Background())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]models.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, categories[i].Response())
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.Content.DeleteCategory(context.Background(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *AdminHandler) CategorySubtree(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	tree, err := h.Content.CategorySubtree(context.Background(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]models.CategoryResponse, 0, len(tree))
	for i := range tree {
		out = append(out, tree[i].Response())
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) TopUserForCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	top, err := h.TopUsers.TopUserForCategory(context.Background(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_user": top})
}

func (h *AdminHandler) CategoriesWithTopUsers(c *gin.Context) {
	rows, err := h.TopUsers.CategoriesWithTopUsers(context.Background())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type createQuestionRequest struct {
	CategoryID    string              `json:"category_id" binding:"required"`
	Text          string              `json:"text" binding:"required"`
	Type          models.QuestionType `json:"question_type" binding:"required"`
	Options       []string            `json:"options"`
	CorrectAnswer string              `json:"correct_answer" binding:"required"`
	Explanation   string              `json:"explanation"`
	Difficulty    models.Difficulty   `json:"difficulty" binding:"required"`
	TimerSeconds  int64               `json:"timer_secs" binding:"required"`
	Tags          []string            `json:"tags"`
}

func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	question, err := h.Content.CreateQuestion(context.Background(), service.CreateQuestionInput{
		CategoryID:    categoryID,
		Text:          req.Text,
		Type:          req.Type,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Difficulty:    req.Difficulty,
		TimerSeconds:  req.TimerSeconds,
		Tags:          req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question.Response())
}

func (h *AdminHandler) GetQuestion(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	question, err := h.Content.GetQuestion(context.Background(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question.Response())
}

func (h *AdminHandler) ListQuestions(c *gin.Context) {
	var categoryID *primitive.ObjectID
	if hex := c.Query("category_id"); hex != "" {
		id, err := parseID(hex)
		if err != nil {
			writeError(c, err)
			return
		}
		categoryID = &id
	}
	questions, err := h.Content.ListQuestions(context.Background(), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]models.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].Response())
	}
	c.JSON(http.StatusOK, out)
}

type updateQuestionRequest struct {
	Text          *string            `json:"text"`
	Options       []string           `json:"options"`
	CorrectAnswer *string            `json:"correct_answer"`
	Explanation   *string            `json:"explanation"`
	Difficulty    *models.Difficulty `json:"difficulty"`
	TimerSeconds  *int64             `json:"timer_secs"`
	Tags          []string           `json:"tags"`
}

func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := h.Content.UpdateQuestion(context.Background(), id, service.UpdateQuestionInput{
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Difficulty:    req.Difficulty,
		TimerSeconds:  req.TimerSeconds,
		Tags:          req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, question.Response())
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.Content.DeleteQuestion(context.Background(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
