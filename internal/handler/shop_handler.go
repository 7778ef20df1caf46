package handler

import (
	"ludora/internal/dto"
	"ludora/internal/middleware"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	shopService service.ShopService
	validator   *middleware.ValidationMiddleware
}

func NewShopHandler(shopService service.ShopService, validator *middleware.ValidationMiddleware) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		validator:   validator,
	}
}

// ListItems godoc
// @Summary List shop items
// @Tags shop
// @Produce json
// @Success 200 {array} dto.ItemResponse
// @Router /shop/items [get]
func (h *ShopHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.shopService.ListItems(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Purchase godoc
// @Summary Buy an item
// @Description Deducts price times quantity from the user's currency.
// @Tags shop
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Item ID"
// @Param request body dto.PurchaseRequest true "Quantity"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Not enough currency"
// @Router /shop/items/{id}/purchase [post]
func (h *ShopHandler) Purchase(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.PurchaseRequest
	if err := h.validator.BindBody(c, &req); err != nil {
		return err
	}

	resp, err := h.shopService.Purchase(c.UserContext(), userID, c.Params("id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
