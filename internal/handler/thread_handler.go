package handler

import (
	"strings"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ThreadHandler provides HTTP endpoints for discussion threads.
type ThreadHandler struct {
	service service.ThreadService
	logger  zerolog.Logger
}

// NewThreadHandler constructs a handler instance.
func NewThreadHandler(service service.ThreadService, logger zerolog.Logger) *ThreadHandler {
	return &ThreadHandler{
		service: service,
		logger:  logger.With().Str("component", "thread_handler").Logger(),
	}
}

// Register binds the thread routes.
func (h *ThreadHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/summarize", h.summarize)
}

func (h *ThreadHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	threads, err := h.service.List(withRequestContext(c), limit, offset)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "threads", threads)
}

func (h *ThreadHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	includePosts := strings.ToLower(strings.TrimSpace(c.Query("include_posts"))) == "true"

	thread, err := h.service.Get(withRequestContext(c), uint(id), includePosts)
	if err != nil {
		if service.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "thread", thread)
}

func (h *ThreadHandler) create(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.ThreadCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(withRequestContext(c), userID, payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if isValidationError(err) {
			status = fiber.StatusBadRequest
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread created", response)
}

func (h *ThreadHandler) summarize(c *fiber.Ctx) error {
	id, err := parseUintParamValue(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.SummarizeThread(withRequestContext(c), uint(id))
	if err != nil {
		if service.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if !summary.Available {
		return utils.SendSuccess(c, "no summary available", summary)
	}

	return utils.SendSuccess(c, "thread summarized", summary)
}
