package handler

import (
	"errors"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/models"
	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ModerationHandler exposes the moderator-facing flag queue and review
// endpoint. The router guards these routes with a role check.
type ModerationHandler struct {
	service service.ModerationService
	logger  zerolog.Logger
}

// NewModerationHandler constructs a handler instance.
func NewModerationHandler(service service.ModerationService, logger zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  logger.With().Str("component", "moderation_handler").Logger(),
	}
}

// Register binds the moderation routes.
func (h *ModerationHandler) Register(router fiber.Router) {
	router.Get("/flags", h.listFlags)
	router.Post("/flags/:id/review", h.reviewFlag)
}

func (h *ModerationHandler) listFlags(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", models.FlagStatusPending, models.FlagStatusApproved, models.FlagStatusRemoved:
	default:
		return utils.SendError(c, fiber.StatusBadRequest, "invalid status filter")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	flags, err := h.service.ListFlags(withRequestContext(c), status, limit, offset)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "flags", flags)
}

func (h *ModerationHandler) reviewFlag(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FlagReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	flag, err := h.service.ReviewFlag(withRequestContext(c), uint(id), payload.Decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDecision):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case service.IsNotFound(err):
			return utils.SendError(c, fiber.StatusNotFound, "flag not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	h.logger.Info().Uint64("flag_id", id).Str("decision", payload.Decision).Str("reviewer", userIDFromContext(c)).Msg("flag review recorded")

	return utils.SendSuccess(c, "flag reviewed", flag)
}
