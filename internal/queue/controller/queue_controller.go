package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brewline/internal/auth"
	"brewline/internal/domain"
	"brewline/internal/dto"
	apperrors "brewline/internal/errors"
)

type QueueService interface {
	AddToQueue(ctx context.Context, shopID, customerID, orderID uuid.UUID) (*domain.QueueEntry, error)
	RemoveFromQueue(ctx context.Context, entryID uuid.UUID) error
	ServeCustomer(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error)
	CompleteService(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error)
	GetQueueEntry(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error)
	GetQueueForShop(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error)
	GetTotalWaitingCustomers(ctx context.Context, shopID uuid.UUID) (int, error)
	EstimateWaitTime(position int) int
}

type OrderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type QueueController struct {
	queueSvc  QueueService
	orderRepo OrderFinder
	logger    *zap.Logger
}

func NewQueueController(queueSvc QueueService, orderRepo OrderFinder, logger *zap.Logger) *QueueController {
	return &QueueController{
		queueSvc:  queueSvc,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// JoinQueue places the authenticated customer in the queue of the shop
// the order belongs to. Orders placed through the order endpoint join
// automatically; this endpoint covers walk-ins whose order was created
// without a queue entry.
func (c *QueueController) JoinQueue(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.JoinQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid UUID",
		})
		return
	}

	order, err := c.orderRepo.FindByID(r.Context(), orderID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	if order.CustomerID != customerID {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", "order does not belong to the authenticated customer")
		return
	}

	entry, err := c.queueSvc.AddToQueue(r.Context(), order.ShopID, customerID, orderID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writePosition(w, r, http.StatusCreated, entry, logger)
}

func (c *QueueController) GetPosition(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryId"))
	if err != nil {
		c.writeValidationError(w, "invalid entryId", apperrors.ValidationDetail{
			Field:   "entryId",
			Message: "entryId must be a valid UUID",
		})
		return
	}

	entry, err := c.queueSvc.GetQueueEntry(r.Context(), entryID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	if entry.CustomerID != customerID {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", "queue entry does not belong to the authenticated customer")
		return
	}

	c.writePosition(w, r, http.StatusOK, entry, logger)
}

func (c *QueueController) GetShopQueue(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	shopID, err := uuid.Parse(chi.URLParam(r, "shopId"))
	if err != nil {
		c.writeValidationError(w, "invalid shopId", apperrors.ValidationDetail{
			Field:   "shopId",
			Message: "shopId must be a valid UUID",
		})
		return
	}

	entries, err := c.queueSvc.GetQueueForShop(r.Context(), shopID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	responses := make([]dto.QueueEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toQueueEntryResponse(entry))
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *QueueController) ServeCustomer(w http.ResponseWriter, r *http.Request) {
	c.transitionEntry(w, r, func(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error) {
		return c.queueSvc.ServeCustomer(ctx, entryID)
	})
}

func (c *QueueController) CompleteService(w http.ResponseWriter, r *http.Request) {
	c.transitionEntry(w, r, func(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error) {
		return c.queueSvc.CompleteService(ctx, entryID)
	})
}

func (c *QueueController) transitionEntry(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error),
) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	entryID, err := uuid.Parse(chi.URLParam(r, "entryId"))
	if err != nil {
		c.writeValidationError(w, "invalid entryId", apperrors.ValidationDetail{
			Field:   "entryId",
			Message: "entryId must be a valid UUID",
		})
		return
	}

	entry, err := transition(r.Context(), entryID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toQueueEntryResponse(*entry))
}

func (c *QueueController) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID, ok := auth.CustomerID(r.Context())
	if !ok {
		c.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryId"))
	if err != nil {
		c.writeValidationError(w, "invalid entryId", apperrors.ValidationDetail{
			Field:   "entryId",
			Message: "entryId must be a valid UUID",
		})
		return
	}

	entry, err := c.queueSvc.GetQueueEntry(r.Context(), entryID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	if entry.CustomerID != customerID {
		c.writeError(w, http.StatusForbidden, "FORBIDDEN", "queue entry does not belong to the authenticated customer")
		return
	}

	if err := c.queueSvc.RemoveFromQueue(r.Context(), entryID); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *QueueController) writePosition(w http.ResponseWriter, r *http.Request, status int, entry *domain.QueueEntry, logger *zap.Logger) {
	totalWaiting, err := c.queueSvc.GetTotalWaitingCustomers(r.Context(), entry.ShopID)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, status, dto.QueuePositionResponse{
		QueueEntryID:             entry.ID.String(),
		Position:                 entry.Position,
		TotalWaiting:             totalWaiting,
		EstimatedWaitTimeMinutes: c.queueSvc.EstimateWaitTime(entry.Position),
		Status:                   string(entry.Status),
		Notes:                    entry.Notes,
	})
}

func toQueueEntryResponse(entry domain.QueueEntry) dto.QueueEntryResponse {
	return dto.QueueEntryResponse{
		ID:         entry.ID.String(),
		ShopID:     entry.ShopID.String(),
		CustomerID: entry.CustomerID.String(),
		OrderID:    entry.OrderID.String(),
		Position:   entry.Position,
		Status:     string(entry.Status),
		JoinedAt:   entry.JoinedAt,
		ServedAt:   entry.ServedAt,
		LeftAt:     entry.LeftAt,
		Notes:      entry.Notes,
	}
}

func (c *QueueController) handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
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

func (c *QueueController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *QueueController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *QueueController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
