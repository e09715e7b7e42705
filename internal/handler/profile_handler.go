package handler

import (
	"errors"
	"io"

	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProfileHandler exposes profile lookup, trust score reads and avatar upload.
type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewProfileHandler constructs a handler instance.
func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register binds the profile routes.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/me", h.me)
	router.Post("/me/avatar", h.uploadAvatar)
	router.Get("/:id", h.get)
	router.Get("/:id/trust", h.trustScore)
}

func (h *ProfileHandler) me(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	profile, err := h.service.EnsureProfile(withRequestContext(c), userID, usernameFromContext(c))
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile", profile)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "profile id required")
	}

	profile, err := h.service.GetProfile(withRequestContext(c), id)
	if err != nil {
		if service.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusNotFound, "profile not found")
		}
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile", profile)
}

func (h *ProfileHandler) trustScore(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "profile id required")
	}

	score, err := h.service.TrustScore(withRequestContext(c), id)
	if err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "trust score", fiber.Map{"user_id": id, "trust_score": score})
}

func (h *ProfileHandler) uploadAvatar(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read file")
	}

	profile, err := h.service.UploadAvatar(withRequestContext(c), userID, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedAvatarType) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("avatar upload failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "avatar upload failed")
	}

	return utils.SendSuccess(c, "avatar updated", profile)
}
