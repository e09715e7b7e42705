package handler

import (
	"errors"

	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// EngagementHandler exposes reaction tallies and the reaction toggle.
type EngagementHandler struct {
	service service.EngagementService
	logger  zerolog.Logger
}

// NewEngagementHandler constructs a handler instance.
func NewEngagementHandler(service service.EngagementService, logger zerolog.Logger) *EngagementHandler {
	return &EngagementHandler{
		service: service,
		logger:  logger.With().Str("component", "engagement_handler").Logger(),
	}
}

// Register binds the reaction routes under the post group.
func (h *EngagementHandler) Register(router fiber.Router) {
	router.Get("/:id/reactions", h.reactions)
	router.Post("/:id/reactions/:type", h.toggle)
}

func (h *EngagementHandler) reactions(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reactions, err := h.service.PostReactions(withRequestContext(c), uint(id), userIDFromContext(c))
	if err != nil {
		if service.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "reactions", reactions)
}

func (h *EngagementHandler) toggle(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Toggle(withRequestContext(c), uint(id), userID, c.Params("type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReaction):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case service.IsNotFound(err):
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "reaction toggled", result)
}
