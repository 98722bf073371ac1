package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/tenant"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

type FlagHandler struct {
	flagService *services.FlagService
	metrics     *metrics.Metrics
}

// NewFlagHandler accepts a nil m when metrics are disabled.
func NewFlagHandler(flagService *services.FlagService, m *metrics.Metrics) *FlagHandler {
	return &FlagHandler{flagService: flagService, metrics: m}
}

func (h *FlagHandler) List(c *fiber.Ctx) error {
	ownerID, err := tenant.GetOwnerID(c)
	if err != nil {
		return unauthorized(c)
	}

	items, err := h.flagService.List(c.UserContext(), ownerID, c.Query("status"), c.Query("priority"))
	if err != nil {
		return h.fail(c, err, ownerID, 0)
	}
	return c.JSON(items)
}

func (h *FlagHandler) Get(c *fiber.Ctx) error {
	ownerID, err := tenant.GetOwnerID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid flag id")
	}

	item, err := h.flagService.Get(c.UserContext(), id, ownerID)
	if err != nil {
		return h.fail(c, err, ownerID, id)
	}
	return c.JSON(item)
}

func (h *FlagHandler) Create(c *fiber.Ctx) error {
	ownerID, err := tenant.GetOwnerID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.flagService.Create(c.UserContext(), ownerID, services.CreateFlagInput{
		ContentType: req.ContentType,
		Content:     req.Content,
	})
	if err != nil {
		return h.fail(c, err, ownerID, 0)
	}

	h.metrics.FlagCreated(item.Priority)
	slog.Info("flag created",
		"action", "create_flag",
		"owner_id", ownerID,
		"flag_id", item.ID,
		"priority", string(item.Priority),
	)
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *FlagHandler) Update(c *fiber.Ctx) error {
	ownerID, err := tenant.GetOwnerID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid flag id")
	}

	var req dto.UpdateFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.flagService.UpdateStatus(c.UserContext(), id, ownerID, req.Status)
	if err != nil {
		return h.fail(c, err, ownerID, id)
	}
	return c.JSON(item)
}

func (h *FlagHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := tenant.GetOwnerID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid flag id")
	}

	if err := h.flagService.Delete(c.UserContext(), id, ownerID); err != nil {
		return h.fail(c, err, ownerID, id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FlagHandler) Stats(c *fiber.Ctx) error {
	ownerID, err := tenant.GetOwnerID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.flagService.Stats(c.UserContext(), ownerID)
	if err != nil {
		return h.fail(c, err, ownerID, 0)
	}
	return c.JSON(stats)
}

// fail maps service errors to responses. Unexpected errors are logged and
// reported; their detail never reaches the client.
func (h *FlagHandler) fail(c *fiber.Ctx, err error, ownerID string, flagID int64) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: verr.Error(),
		})
	case errors.Is(err, services.ErrFlagNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Flagged item not found",
		})
	case errors.Is(err, services.ErrClassifierUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Classifier unavailable, try again later",
		})
	}

	slog.Error("flag request failed",
		"method", c.Method(),
		"path", c.Path(),
		"owner_id", ownerID,
		"flag_id", flagID,
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
