package handler

import (
	"ludora/internal/dto"
	"ludora/internal/logger"
	"ludora/internal/middleware"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *middleware.ValidationMiddleware
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *middleware.ValidationMiddleware) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Assembles a quiz from stored questions, generating new ones when none match.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateQuizRequest true "Quiz filters"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 422 {object} dto.ErrorResponse "A slot could not be filled"
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.GenerateQuizRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	quiz, err := h.service.GenerateQuiz(c.UserContext(), userID, &req)
	if err != nil {
		logger.Get().Warn("Failed to generate quiz",
			zap.String("userID", userID),
			zap.Int("num_questions", req.NumQuestions),
			zap.Error(err),
		)
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Answers are included once the quiz is completed.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	quiz, err := h.service.GetQuiz(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades every question, records progress and advances quests.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Quiz already completed or empty"
// @Router /quizzes/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitQuizRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	result, err := h.service.SubmitQuiz(c.UserContext(), userID, c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
