package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"brewline/internal/domain"
	apperrors "brewline/internal/errors"
)

var mobileNumberPattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.User, error)
	ExistsByMobileNumber(ctx context.Context, mobileNumber string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user domain.User) error
}

type Controller struct {
	userRepo UserRepository
	tokens   *TokenManager
	logger   *zap.Logger
}

func NewController(userRepo UserRepository, tokens *TokenManager, logger *zap.Logger) *Controller {
	return &Controller{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (c *Controller) HandleRegister(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateRegisterRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	exists, err := c.userRepo.ExistsByMobileNumber(r.Context(), req.MobileNumber)
	if err != nil {
		c.writeInternalError(w, logger, err)
		return
	}
	if exists {
		c.writeConflict(w, "user with mobile number already exists")
		return
	}

	if req.Email != "" {
		exists, err = c.userRepo.ExistsByEmail(r.Context(), req.Email)
		if err != nil {
			c.writeInternalError(w, logger, err)
			return
		}
		if exists {
			c.writeConflict(w, "user with email already exists")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.writeInternalError(w, logger, err)
		return
	}

	user := domain.User{
		ID:           uuid.New(),
		MobileNumber: req.MobileNumber,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         domain.RoleCustomer,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := c.userRepo.Insert(r.Context(), user); err != nil {
		c.writeInternalError(w, logger, err)
		return
	}

	token, err := c.tokens.Issue(user.ID)
	if err != nil {
		c.writeInternalError(w, logger, err)
		return
	}

	logger.Info("user registered", zap.String("userId", user.ID.String()))
	c.writeJSON(w, http.StatusCreated, authResponse(user, token))
}

func (c *Controller) HandleLogin(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := c.userRepo.FindByMobileNumber(r.Context(), req.MobileNumber)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeUnauthorized(w)
			return
		}
		c.writeInternalError(w, logger, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.writeUnauthorized(w)
		return
	}

	token, err := c.tokens.Issue(user.ID)
	if err != nil {
		c.writeInternalError(w, logger, err)
		return
	}

	logger.Info("user logged in", zap.String("userId", user.ID.String()))
	c.writeJSON(w, http.StatusOK, authResponse(*user, token))
}

func validateRegisterRequest(req RegisterRequest) error {
	var details []apperrors.ValidationDetail

	if !mobileNumberPattern.MatchString(req.MobileNumber) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "mobileNumber",
			Message: "invalid mobile number format",
		})
	}
	if len(req.Password) < 8 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration request", details...)
	}
	return nil
}

func authResponse(user domain.User, token string) AuthResponse {
	resp := AuthResponse{
		Token:        token,
		UserID:       user.ID.String(),
		MobileNumber: user.MobileNumber,
		Name:         user.Name,
		Role:         string(user.Role),
	}
	if user.Email != nil {
		resp.Email = *user.Email
	}
	return resp
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

func (c *Controller) writeConflict(w http.ResponseWriter, message string) {
	c.writeJSON(w, http.StatusConflict, map[string]string{
		"error":   "CONFLICT",
		"message": message,
	})
}

func (c *Controller) writeUnauthorized(w http.ResponseWriter) {
	c.writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error":   "UNAUTHORIZED",
		"message": "invalid credentials",
	})
}

func (c *Controller) writeInternalError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("auth request failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
