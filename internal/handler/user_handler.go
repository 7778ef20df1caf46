package handler

import (
	"ludora/internal/dto"
	"ludora/internal/middleware"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the /users/me resources.
type UserHandler struct {
	userService  service.UserService
	shopService  service.ShopService
	questService service.QuestService
	validator    *middleware.ValidationMiddleware
}

func NewUserHandler(
	userService service.UserService,
	shopService service.ShopService,
	questService service.QuestService,
	validator *middleware.ValidationMiddleware,
) *UserHandler {
	return &UserHandler{
		userService:  userService,
		shopService:  shopService,
		questService: questService,
		validator:    validator,
	}
}

// GetMyProfile godoc
// @Summary Get current user's profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdateMyProfile godoc
// @Summary Update current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	profile, err := h.userService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// GetMyProgress godoc
// @Summary List learning progress
// @Description Most recent quiz and minigame results first.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Max records (1-200, default 50)"
// @Success 200 {array} dto.ProgressResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /users/me/progress [get]
func (h *UserHandler) GetMyProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var query dto.LimitQuery
	if err := h.validator.BindQuery(c, &query); err != nil {
		return err
	}

	records, err := h.userService.ListProgress(c.UserContext(), userID, query.Limit)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetMyRecommendations godoc
// @Summary Recommend weak topics to practise
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.RecommendationResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me/recommendations [get]
func (h *UserHandler) GetMyRecommendations(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	recommendations, err := h.userService.GetRecommendations(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(recommendations)
}

// GetMyInventory godoc
// @Summary List owned items
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.InventoryItemResponse
// @Router /users/me/inventory [get]
func (h *UserHandler) GetMyInventory(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	inventory, err := h.shopService.ListInventory(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(inventory)
}

// GetMyQuests godoc
// @Summary List quests
// @Tags quests
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "pending, active, completed or cancelled"
// @Success 200 {array} dto.QuestResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /users/me/quests [get]
func (h *UserHandler) GetMyQuests(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var query dto.QuestListQuery
	if err := h.validator.BindQuery(c, &query); err != nil {
		return err
	}

	quests, err := h.questService.ListQuests(c.UserContext(), userID, query.Status)
	if err != nil {
		return err
	}
	return c.JSON(quests)
}

// GenerateMyQuests godoc
// @Summary Generate personalised quests
// @Description Predicts weak topics and creates up to two new quests for them.
// @Tags quests
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} dto.GenerateQuestsResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /users/me/quests/generate [post]
func (h *UserHandler) GenerateMyQuests(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	resp, err := h.questService.GenerateForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
