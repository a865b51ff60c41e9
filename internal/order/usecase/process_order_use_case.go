package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brewline/internal/domain"
	"brewline/internal/dto"
	apperrors "brewline/internal/errors"
	"brewline/internal/pricing"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
}

type MenuItemRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.MenuItem, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
}

type OrderItemReader interface {
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	ConfirmOrder(ctx context.Context, orderID uuid.UUID, estimatedReadyTime time.Time) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*domain.Order, error)
}

type QueueService interface {
	AddToQueue(ctx context.Context, shopID, customerID, orderID uuid.UUID) (*domain.QueueEntry, error)
	RemoveFromQueue(ctx context.Context, entryID uuid.UUID) error
	GetQueueEntryForOrder(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error)
	GetTotalWaitingCustomers(ctx context.Context, shopID uuid.UUID) (int, error)
	EstimateWaitTime(position int) int
}

// OrderLine is one validated line of an incoming order.
type OrderLine struct {
	MenuItemID          uuid.UUID
	Quantity            int
	SpecialInstructions *string
}

const cancelledByCustomerReason = "Cancelled by customer"

type ProcessOrderUseCase struct {
	customerRepo  CustomerRepository
	shopRepo      ShopRepository
	menuItemRepo  MenuItemRepository
	orderReader   OrderReader
	orderItems    OrderItemReader
	orderWriter   OrderWriter
	queueSvc      QueueService
	logger        *zap.Logger
}

func NewProcessOrderUseCase(
	customerRepo CustomerRepository,
	shopRepo ShopRepository,
	menuItemRepo MenuItemRepository,
	orderReader OrderReader,
	orderItems OrderItemReader,
	orderWriter OrderWriter,
	queueSvc QueueService,
	logger *zap.Logger,
) *ProcessOrderUseCase {
	return &ProcessOrderUseCase{
		customerRepo: customerRepo,
		shopRepo:     shopRepo,
		menuItemRepo: menuItemRepo,
		orderReader:  orderReader,
		orderItems:   orderItems,
		orderWriter:  orderWriter,
		queueSvc:     queueSvc,
		logger:       logger,
	}
}

// ProcessOrder runs the acceptance workflow: validate the customer,
// shop and every line, price the order, persist it as PENDING, place
// the customer in the shop's queue and confirm. A failure before the
// queue step leaves nothing behind; a failure at the queue step leaves
// a PENDING order that never entered the queue.
func (uc *ProcessOrderUseCase) ProcessOrder(ctx context.Context, customerID uuid.UUID, shopID uuid.UUID, lines []OrderLine, specialInstructions *string) (*dto.OrderResponse, error) {
	uc.logger.Info("order processing started",
		zap.String("customerId", customerID.String()),
		zap.String("shopId", shopID.String()),
		zap.Int("itemCount", len(lines)))

	customer, err := uc.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	shop, err := uc.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if !shop.IsActive {
		return nil, apperrors.NewConflictError("shop is not accepting orders")
	}

	menuItems, err := uc.resolveMenuItems(ctx, shop.ID, lines)
	if err != nil {
		return nil, err
	}

	priceLines := make([]pricing.Line, len(lines))
	for i, line := range lines {
		item := menuItems[line.MenuItemID]
		priceLines[i] = pricing.Line{
			Quantity:               line.Quantity,
			UnitPriceCents:         item.PriceCents,
			PreparationTimeMinutes: item.PreparationTimeMinutes,
		}
	}
	quote := pricing.Price(priceLines)

	createdAt := time.Now().UTC()
	pendingReady := createdAt.Add(time.Duration(quote.EstimatedPreparationMinutes) * time.Minute)
	order := domain.Order{
		ID:                  uuid.New(),
		CustomerID:          customer.ID,
		ShopID:              shop.ID,
		Status:              domain.OrderStatusPending,
		SubtotalCents:       quote.SubtotalCents,
		TaxCents:            quote.TaxCents,
		TotalCents:          quote.TotalCents,
		SpecialInstructions: specialInstructions,
		CreatedAt:           createdAt,
		// A pending order already carries a ready estimate from
		// preparation time alone; confirmation refines it with the
		// queue wait once the position is known.
		EstimatedReadyTime: &pendingReady,
	}
	for i, line := range lines {
		order.Items = append(order.Items, domain.OrderItem{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			MenuItemID:          line.MenuItemID,
			Quantity:            line.Quantity,
			UnitPriceCents:      quote.Lines[i].UnitPriceCents,
			TotalPriceCents:     quote.Lines[i].TotalPriceCents,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	if err := uc.orderWriter.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	entry, err := uc.queueSvc.AddToQueue(ctx, shop.ID, customer.ID, order.ID)
	if err != nil {
		uc.logger.Warn("order left pending, queue join failed",
			zap.String("orderId", order.ID.String()), zap.Error(err))
		return nil, err
	}

	waitMinutes := uc.queueSvc.EstimateWaitTime(entry.Position)
	estimatedReady := time.Now().UTC().Add(time.Duration(waitMinutes+quote.EstimatedPreparationMinutes) * time.Minute)

	confirmed, err := uc.orderWriter.ConfirmOrder(ctx, order.ID, estimatedReady)
	if err != nil {
		return nil, err
	}
	confirmed.Items = order.Items

	uc.logger.Info("order confirmed",
		zap.String("orderId", order.ID.String()),
		zap.Int64("totalCents", order.TotalCents),
		zap.Int("queuePosition", entry.Position))

	resp := uc.toOrderResponse(ctx, *confirmed, entry)
	resp.CustomerName = customer.Name
	resp.ShopName = shop.Name
	return resp, nil
}

func (uc *ProcessOrderUseCase) resolveMenuItems(ctx context.Context, shopID uuid.UUID, lines []OrderLine) (map[uuid.UUID]domain.MenuItem, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.MenuItemID
	}

	items, err := uc.menuItemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]domain.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for _, line := range lines {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item with id %s not found", line.MenuItemID))
		}
		if item.ShopID != shopID {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "items",
				Message: fmt.Sprintf("menu item %s does not belong to the shop", line.MenuItemID),
			})
		}
		if !item.IsAvailable {
			return nil, apperrors.NewConflictError(fmt.Sprintf("menu item %s is currently unavailable", item.Name))
		}
	}

	return byID, nil
}

// GetOrder returns the order with its items and, while the customer is
// still in line, the live queue position.
func (uc *ProcessOrderUseCase) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := uc.orderReader.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, apperrors.NewForbiddenError("order does not belong to the authenticated customer")
	}

	items, err := uc.orderItems.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	entry, err := uc.activeQueueEntry(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return uc.toOrderResponse(ctx, *order, entry), nil
}

// activeQueueEntry looks up the order's queue entry, treating only a
// missing entry as "not in the queue". Other lookup failures propagate.
func (uc *ProcessOrderUseCase) activeQueueEntry(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error) {
	entry, err := uc.queueSvc.GetQueueEntryForOrder(ctx, orderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, nil
		}
		return nil, err
	}
	if !entry.Status.IsActive() {
		return nil, nil
	}
	return entry, nil
}

func (uc *ProcessOrderUseCase) ListOrders(ctx context.Context, customerID uuid.UUID) ([]dto.OrderResponse, error) {
	orders, err := uc.orderReader.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		items, err := uc.orderItems.FindByOrderID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		responses = append(responses, *uc.toOrderResponse(ctx, order, nil))
	}

	return responses, nil
}

// CancelOrder cancels the customer's own non-terminal order and pulls
// them out of the queue if they are still in it.
func (uc *ProcessOrderUseCase) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := uc.orderReader.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, apperrors.NewForbiddenError("order does not belong to the authenticated customer")
	}

	// The status guard runs before the queue is touched: a terminal order
	// must fail with Conflict without compacting anyone's position.
	if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}

	entry, err := uc.activeQueueEntry(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		if err := uc.queueSvc.RemoveFromQueue(ctx, entry.ID); err != nil {
			return nil, err
		}
	}

	cancelled, err := uc.orderWriter.CancelOrder(ctx, orderID, cancelledByCustomerReason)
	if err != nil {
		return nil, err
	}

	items, err := uc.orderItems.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	cancelled.Items = items

	uc.logger.Info("order cancelled",
		zap.String("orderId", orderID.String()),
		zap.String("customerId", customerID.String()))

	return uc.toOrderResponse(ctx, *cancelled, nil), nil
}

// UpdateOrderStatus advances the order through preparation. The queue
// lifecycle is driven separately through the queue endpoints.
func (uc *ProcessOrderUseCase) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) (*dto.OrderResponse, error) {
	updated, err := uc.orderWriter.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		return nil, err
	}

	items, err := uc.orderItems.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	updated.Items = items

	return uc.toOrderResponse(ctx, *updated, nil), nil
}

func (uc *ProcessOrderUseCase) toOrderResponse(ctx context.Context, order domain.Order, entry *domain.QueueEntry) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:                  order.ID.String(),
		CustomerID:          order.CustomerID.String(),
		ShopID:              order.ShopID.String(),
		Status:              string(order.Status),
		SubtotalCents:       order.SubtotalCents,
		TaxCents:            order.TaxCents,
		TotalCents:          order.TotalCents,
		SpecialInstructions: order.SpecialInstructions,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
		EstimatedReadyTime:  order.EstimatedReadyTime,
		CompletedAt:         order.CompletedAt,
		CancellationReason:  order.CancellationReason,
	}

	resp.Items = make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:                  item.ID.String(),
			MenuItemID:          item.MenuItemID.String(),
			Quantity:            item.Quantity,
			UnitPriceCents:      item.UnitPriceCents,
			TotalPriceCents:     item.TotalPriceCents,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	if entry != nil {
		totalWaiting, err := uc.queueSvc.GetTotalWaitingCustomers(ctx, entry.ShopID)
		if err != nil {
			uc.logger.Warn("failed to count waiting customers", zap.String("shopId", entry.ShopID.String()), zap.Error(err))
			totalWaiting = entry.Position
		}
		resp.QueuePosition = &dto.QueuePositionResponse{
			QueueEntryID:             entry.ID.String(),
			Position:                 entry.Position,
			TotalWaiting:             totalWaiting,
			EstimatedWaitTimeMinutes: uc.queueSvc.EstimateWaitTime(entry.Position),
			Status:                   string(entry.Status),
			Notes:                    entry.Notes,
		}
	}

	return resp
}
