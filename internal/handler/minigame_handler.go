package handler

import (
	"ludora/internal/dto"
	"ludora/internal/middleware"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MinigameHandler struct {
	minigameService service.MinigameService
	validator       *middleware.ValidationMiddleware
}

func NewMinigameHandler(minigameService service.MinigameService, validator *middleware.ValidationMiddleware) *MinigameHandler {
	return &MinigameHandler{
		minigameService: minigameService,
		validator:       validator,
	}
}

// ListMinigames godoc
// @Summary List minigames
// @Tags minigames
// @Produce json
// @Success 200 {array} dto.MinigameResponse
// @Router /minigames [get]
func (h *MinigameHandler) ListMinigames(c *fiber.Ctx) error {
	games, err := h.minigameService.ListMinigames(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(games)
}

// GetSessionQuestions godoc
// @Summary Questions for one play
// @Tags minigames
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Minigame ID"
// @Success 200 {array} dto.MinigameQuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /minigames/{id}/questions [get]
func (h *MinigameHandler) GetSessionQuestions(c *fiber.Ctx) error {
	questions, err := h.minigameService.GetSessionQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// RecordSession godoc
// @Summary Record a finished play
// @Tags minigames
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Minigame ID"
// @Param request body dto.RecordSessionRequest true "Session result"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /minigames/{id}/sessions [post]
func (h *MinigameHandler) RecordSession(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RecordSessionRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	session, err := h.minigameService.RecordSession(c.UserContext(), userID, c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}
