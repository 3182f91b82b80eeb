package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"market-service/internal/models"
	"market-service/internal/services"
	"market-service/shared/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	feedService *services.NotificationFeedService
	validate    *validator.Validate
}

func NewNotificationHandler(feedService *services.NotificationFeedService) *NotificationHandler {
	return &NotificationHandler{
		feedService: feedService,
		validate:    validator.New(),
	}
}

func (h *NotificationHandler) Register(router fiber.Router) {
	group := router.Group("/notifications")
	group.Get("/", h.ListNotifications)
	group.Post("/seen", h.MarkSeen)
	group.Get("/settings", h.GetSettings)
	group.Put("/settings", h.UpdateSettings)
}

// ListNotifications renders the caller's grouped feed and marks it seen.
func (h *NotificationHandler) ListNotifications(c fiber.Ctx) error {
	unseenOnly := false
	if raw := c.Query("unseen_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "unseen_only must be true or false"))
		}
		unseenOnly = v
	}

	groups, err := h.feedService.ListGroups(c.Context(), currentUserID(c), unseenOnly)
	if err != nil {
		slog.Error("failed to list notifications", "user_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_SERVER_ERROR", "failed to retrieve notifications"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(groups))
}

func (h *NotificationHandler) MarkSeen(c fiber.Ctx) error {
	var req models.MarkSeenRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("VALIDATION_ERROR", err.Error()))
	}

	marked, err := h.feedService.MarkSeen(c.Context(), currentUserID(c), req.NotificationIDs)
	if err != nil {
		slog.Error("failed to mark notifications seen", "user_id", currentUserID(c), "marked", marked, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_SERVER_ERROR", "failed to mark notifications seen"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{"marked": marked}))
}

func (h *NotificationHandler) GetSettings(c fiber.Ctx) error {
	settings, err := h.feedService.GetSettings(c.Context(), currentUserID(c))
	if err != nil {
		slog.Error("failed to get notification settings", "user_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_SERVER_ERROR", "failed to retrieve settings"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(settings))
}

func (h *NotificationHandler) UpdateSettings(c fiber.Ctx) error {
	var req models.UpdateNotificationSettingsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("VALIDATION_ERROR", err.Error()))
	}

	settings, err := h.feedService.UpdateSettings(c.Context(), currentUserID(c), &req)
	if err != nil {
		slog.Error("failed to update notification settings", "user_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_SERVER_ERROR", "failed to update settings"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(settings))
}
