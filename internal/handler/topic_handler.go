package handler

import (
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TopicHandler struct {
	topicService service.TopicService
}

func NewTopicHandler(topicService service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

// ListTopics godoc
// @Summary List curriculum topics
// @Tags topics
// @Produce json
// @Success 200 {array} dto.TopicResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics [get]
func (h *TopicHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.topicService.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(topics)
}
