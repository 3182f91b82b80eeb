package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"market-service/internal/models"
	"market-service/internal/services"
	"market-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func (h *ContractHandler) Register(router fiber.Router) {
	router.Post("/createmarket", h.CreateMarket)
}

func (h *ContractHandler) CreateMarket(c fiber.Ctx) error {
	var req models.CreateMarketRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	contract, err := h.contractService.CreateMarket(c.Context(), currentUserID(c), &req)
	if err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.Status).JSON(utils.CreateErrorResponse("BAD_REQUEST", apiErr.Message))
		}
		slog.Error("failed to create market", "user_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_SERVER_ERROR", "failed to create market"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(contract))
}
