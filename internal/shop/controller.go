package shop

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "brewline/internal/errors"
	"brewline/internal/shop/repository"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) HandleGetShop(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shopId"))
	if err != nil {
		c.writeValidationError(w, "invalid shopId", apperrors.ValidationDetail{
			Field:   "shopId",
			Message: "shopId must be a valid UUID",
		})
		return
	}

	shop, err := c.service.GetShop(r.Context(), shopID)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toShopDTO(*shop))
}

func (c *Controller) HandleListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := c.service.ListActiveShops(r.Context())
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	dtos := make([]ShopDTO, 0, len(shops))
	for _, s := range shops {
		dtos = append(dtos, toShopDTO(s))
	}

	c.writeJSON(w, http.StatusOK, dtos)
}

func (c *Controller) HandleGetMenu(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shopId"))
	if err != nil {
		c.writeValidationError(w, "invalid shopId", apperrors.ValidationDetail{
			Field:   "shopId",
			Message: "shopId must be a valid UUID",
		})
		return
	}

	var filter repository.MenuFilter
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}
	if r.URL.Query().Get("available") == "true" {
		filter.AvailableOnly = true
	}

	items, err := c.service.GetMenu(r.Context(), shopID, filter)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	dtos := make([]MenuItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toMenuItemDTO(item))
	}

	c.writeJSON(w, http.StatusOK, dtos)
}

func (c *Controller) handleServiceError(w http.ResponseWriter, err error) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "NOT_FOUND",
			"message": nfe.Message,
		})
		return
	}

	c.logger.Error("shop request failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
