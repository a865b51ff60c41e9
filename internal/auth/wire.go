package auth

import (
	"database/sql"

	"go.uber.org/zap"

	"brewline/internal/auth/repository"
	"brewline/internal/config"
)

type Module struct {
	Controller *Controller
	Tokens     *TokenManager
	UserRepo   UserRepository
}

func NewModule(db *sql.DB, cfg config.AuthConfig, logger *zap.Logger) *Module {
	userRepo := repository.NewMySQLUserRepository(db)
	tokens := NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	return &Module{
		Controller: NewController(userRepo, tokens, logger),
		Tokens:     tokens,
		UserRepo:   userRepo,
	}
}
