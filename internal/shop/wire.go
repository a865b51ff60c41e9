package shop

import (
	"database/sql"

	"go.uber.org/zap"

	"brewline/internal/shop/repository"
)

type Module struct {
	Controller *Controller
	ShopRepo   ShopRepository
	MenuRepo   MenuItemRepository
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	shopRepo := repository.NewMySQLShopRepository(db)
	menuRepo := repository.NewMySQLMenuItemRepository(db)

	svc := NewService(shopRepo, menuRepo)

	return &Module{
		Controller: NewController(svc, logger),
		ShopRepo:   shopRepo,
		MenuRepo:   menuRepo,
	}
}
