package handler

import (
	"errors"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PostHandler exposes post creation, listing, summarization and reporting.
// Creation routes through the moderation engine so every post is scored
// before it is stored.
type PostHandler struct {
	moderation service.ModerationService
	threads    service.ThreadService
	logger     zerolog.Logger
}

// NewPostHandler constructs a handler instance.
func NewPostHandler(moderation service.ModerationService, threads service.ThreadService, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		moderation: moderation,
		threads:    threads,
		logger:     logger.With().Str("component", "post_handler").Logger(),
	}
}

// Register binds the post routes.
func (h *PostHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id/summarize", h.summarize)
	router.Post("/:id/report", h.report)
}

func (h *PostHandler) list(c *fiber.Ctx) error {
	threadID, err := parseUintQuery(c, "thread_id")
	if err != nil || threadID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "thread_id query parameter required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	posts, err := h.threads.ListPosts(withRequestContext(c), threadID, limit, offset)
	if err != nil {
		if service.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "posts", posts)
}

func (h *PostHandler) create(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.moderation.CreatePost(withRequestContext(c), userID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCrossThreadParent):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case service.IsNotFound(err):
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post created", response)
}

func (h *PostHandler) summarize(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.threads.SummarizePost(withRequestContext(c), uint(id))
	if err != nil {
		if service.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if !summary.Available {
		return utils.SendSuccess(c, "no summary available", summary)
	}

	return utils.SendSuccess(c, "post summarized", summary)
}

func (h *PostHandler) report(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FlagReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	flag, err := h.moderation.ReportPost(withRequestContext(c), uint(id), userID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case service.IsNotFound(err):
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		default:
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post reported", flag)
}
