package handlers

import (
	"context"
	"net/http"

	"quiz-backend/internal/middleware"
	"quiz-backend/internal/models"
	"quiz-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Quiz        *service.QuizService
	Leaderboard *service.LeaderboardService
}

func NewQuizHandler(quiz *service.QuizService, leaderboard *service.LeaderboardService) *QuizHandler {
	return &QuizHandler{Quiz: quiz, Leaderboard: leaderboard}
}

type startQuizRequest struct {
	CategoryID   string            `json:"category_id" binding:"required"`
	Difficulty   models.Difficulty `json:"difficulty" binding:"required"`
	NumQuestions int               `json:"num_questions" binding:"required"`
}

func (h *QuizHandler) StartQuiz(c *gin.Context) {
	var req startQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := parseID(c.GetString(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	quiz, err := h.Quiz.StartQuiz(context.Background(), userID, categoryID, req.Difficulty, req.NumQuestions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz.Response())
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	quiz, err := h.Quiz.GetQuiz(context.Background(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz.Response())
}

type submitAnswerRequest struct {
	QuestionID       string `json:"question_id" binding:"required"`
	Answer           string `json:"answer"`
	TimeTakenSeconds int64  `json:"time_taken_secs"`
}

func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	quizID, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	questionID, err := parseID(req.QuestionID)
	if err != nil {
		writeError(c, err)
		return
	}
	quiz, err := h.Quiz.SubmitAnswer(context.Background(), quizID, questionID, req.Answer, req.TimeTakenSeconds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz.Response())
}

type pauseQuizRequest struct {
	Paused *bool `json:"paused" binding:"required"`
}

func (h *QuizHandler) PauseQuiz(c *gin.Context) {
	quizID, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req pauseQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz, err := h.Quiz.PauseQuiz(context.Background(), quizID, *req.Paused)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz.Response())
}

func (h *QuizHandler) FinishQuiz(c *gin.Context) {
	quizID, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	score, err := h.Quiz.FinishQuiz(context.Background(), quizID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *QuizHandler) GetLeaderboard(c *gin.Context) {
	categoryID, err := parseID(c.Param("category_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.Leaderboard.GetLeaderboard(context.Background(), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
