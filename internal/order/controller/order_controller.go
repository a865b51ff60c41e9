package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brewline/internal/auth"
	"brewline/internal/domain"
	"brewline/internal/dto"
	apperrors "brewline/internal/errors"
	"brewline/internal/order/usecase"
)

const maxOrderItems = 50

type ProcessOrderUseCase interface {
	ProcessOrder(ctx context.Context, customerID uuid.UUID, shopID uuid.UUID, lines []usecase.OrderLine, specialInstructions *string) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, customerID uuid.UUID) ([]dto.OrderResponse, error)
	CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*dto.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) (*dto.OrderResponse, error)
}

type OrderController struct {
	useCase ProcessOrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase ProcessOrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	shopID, lines, validationErr := c.validateCreateOrderRequest(req)
	if validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	resp, err := c.useCase.ProcessOrder(r.Context(), customerID, shopID, lines, req.SpecialInstructions)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, resp)
}

func (c *OrderController) validateCreateOrderRequest(req dto.CreateOrderRequest) (uuid.UUID, []usecase.OrderLine, error) {
	var details []apperrors.ValidationDetail

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "shopId",
			Message: "shopId must be a valid UUID",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxOrderItems),
		})
	}

	seen := make(map[uuid.UUID]bool)
	lines := make([]usecase.OrderLine, 0, len(req.Items))
	for idx, item := range req.Items {
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].menuItemId",
				Message: "menuItemId must be a valid UUID",
			})
			continue
		}

		if seen[menuItemID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].menuItemId",
				Message: "menuItemId must not be duplicated",
			})
		}
		seen[menuItemID] = true

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be at least 1",
			})
		}

		lines = append(lines, usecase.OrderLine{
			MenuItemID:          menuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	if len(details) > 0 {
		return uuid.Nil, nil, apperrors.NewValidationError("validation failed", details...)
	}

	return shopID, lines, nil
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid UUID",
		})
		return
	}

	resp, err := c.useCase.GetOrder(r.Context(), customerID, orderID)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	responses, err := c.useCase.ListOrders(r.Context(), customerID)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid UUID",
		})
		return
	}

	resp, err := c.useCase.CancelOrder(r.Context(), customerID, orderID)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid UUID",
		})
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	status := domain.OrderStatus(req.Status)
	switch status {
	case domain.OrderStatusConfirmed, domain.OrderStatusPreparing,
		domain.OrderStatusReady, domain.OrderStatusCompleted:
	default:
		c.writeValidationError(w, "invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of CONFIRMED, PREPARING, READY, COMPLETED",
		})
		return
	}

	resp, err := c.useCase.UpdateOrderStatus(r.Context(), orderID, status)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
