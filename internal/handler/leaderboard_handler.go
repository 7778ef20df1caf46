package handler

import (
	"ludora/internal/dto"
	"ludora/internal/logger"
	"ludora/internal/middleware"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
	validator          *middleware.ValidationMiddleware
}

func NewLeaderboardHandler(leaderboardService service.LeaderboardService, validator *middleware.ValidationMiddleware) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		validator:          validator,
	}
}

// ListLeaderboards godoc
// @Summary List leaderboards
// @Tags leaderboards
// @Produce json
// @Param include_inactive query bool false "Include retired boards"
// @Success 200 {array} dto.LeaderboardResponse
// @Router /leaderboards [get]
func (h *LeaderboardHandler) ListLeaderboards(c *fiber.Ctx) error {
	var query dto.LeaderboardListQuery
	if err := h.validator.BindQuery(c, &query); err != nil {
		return err
	}

	boards, err := h.leaderboardService.ListLeaderboards(c.UserContext(), !query.IncludeInactive)
	if err != nil {
		return err
	}
	return c.JSON(boards)
}

// CreateLeaderboard godoc
// @Summary Define a leaderboard
// @Tags leaderboards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateLeaderboardRequest true "Leaderboard definition"
// @Success 201 {object} dto.LeaderboardResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Minigame or topic not found"
// @Failure 409 {object} dto.ErrorResponse "Name already used"
// @Router /leaderboards [post]
func (h *LeaderboardHandler) CreateLeaderboard(c *fiber.Ctx) error {
	var req dto.CreateLeaderboardRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	board, err := h.leaderboardService.CreateLeaderboard(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// GetEntries godoc
// @Summary Ranked entries of the current window
// @Tags leaderboards
// @Produce json
// @Param id path string true "Leaderboard ID"
// @Param limit query int false "Max entries (1-1000)"
// @Success 200 {object} dto.LeaderboardEntriesResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /leaderboards/{id}/entries [get]
func (h *LeaderboardHandler) GetEntries(c *fiber.Ctx) error {
	var query dto.EntriesQuery
	if err := h.validator.BindQuery(c, &query); err != nil {
		return err
	}

	entries, err := h.leaderboardService.GetEntries(c.UserContext(), c.Params("id"), query.Limit)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// RefreshLeaderboard godoc
// @Summary Recompute a leaderboard
// @Tags leaderboards
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Leaderboard ID"
// @Success 200 {object} dto.RecomputeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /leaderboards/{id}/refresh [post]
func (h *LeaderboardHandler) RefreshLeaderboard(c *fiber.Ctx) error {
	id := c.Params("id")
	resp, err := h.leaderboardService.Recompute(c.UserContext(), id)
	if err != nil {
		return err
	}
	logger.Get().Info("Leaderboard refreshed on request",
		zap.String("leaderboardID", id),
		zap.Int("entries", resp.EntriesUpdated),
	)
	return c.JSON(resp)
}
