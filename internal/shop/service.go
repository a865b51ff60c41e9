package shop

import (
	"context"

	"github.com/google/uuid"

	"brewline/internal/domain"
	"brewline/internal/shop/repository"
)

type shopService struct {
	shopRepo ShopRepository
	menuRepo MenuItemRepository
}

func NewService(shopRepo ShopRepository, menuRepo MenuItemRepository) Service {
	return &shopService{
		shopRepo: shopRepo,
		menuRepo: menuRepo,
	}
}

func (s *shopService) GetShop(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return s.shopRepo.FindByID(ctx, id)
}

func (s *shopService) ListActiveShops(ctx context.Context) ([]domain.Shop, error) {
	return s.shopRepo.ListActive(ctx)
}

func (s *shopService) GetMenu(ctx context.Context, shopID uuid.UUID, filter repository.MenuFilter) ([]domain.MenuItem, error) {
	// Listing the menu of an unknown shop is NotFound, not an empty list.
	if _, err := s.shopRepo.FindByID(ctx, shopID); err != nil {
		return nil, err
	}

	return s.menuRepo.ListByShop(ctx, shopID, filter)
}
