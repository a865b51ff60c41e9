package shop

import (
	"context"

	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/shop/repository"
)

type Service interface {
	GetShop(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	ListActiveShops(ctx context.Context) ([]domain.Shop, error)
	GetMenu(ctx context.Context, shopID uuid.UUID, filter repository.MenuFilter) ([]domain.MenuItem, error)
}

type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	ListActive(ctx context.Context) ([]domain.Shop, error)
}

type MenuItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.MenuItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.MenuItem, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, filter repository.MenuFilter) ([]domain.MenuItem, error)
}
