package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

const txTimeout = 5 * time.Second

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) error
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Order, error)
	Update(ctx context.Context, tx *sql.Tx, order domain.Order) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error
}

// OrderService owns the transactional writes of the order lifecycle.
// Validation and orchestration live in the use case layer.
type OrderService struct {
	db            TransactionManager
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	logger        *zap.Logger
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		logger:        logger,
	}
}

// CreateOrder persists the order and its items atomically. The order
// is written exactly as given; callers price and validate first.
func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := s.orderItemRepo.Insert(txCtx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID.String()), zap.Error(err))
		return err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID.String()),
		zap.String("shopId", order.ShopID.String()),
		zap.Int64("totalCents", order.TotalCents),
		zap.Int("itemCount", len(order.Items)))

	return nil
}

// ConfirmOrder moves a freshly created order from PENDING to CONFIRMED
// and stamps the estimated ready time.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID uuid.UUID, estimatedReadyTime time.Time) (*domain.Order, error) {
	return s.transition(ctx, orderID, func(order *domain.Order) error {
		if !order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
			return errors.NewConflictError(fmt.Sprintf("order cannot move from %s to %s", order.Status, domain.OrderStatusConfirmed))
		}
		order.Status = domain.OrderStatusConfirmed
		order.EstimatedReadyTime = &estimatedReadyTime
		return nil
	})
}

// UpdateStatus applies one step of the order status machine.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) (*domain.Order, error) {
	return s.transition(ctx, orderID, func(order *domain.Order) error {
		if !order.Status.CanTransitionTo(newStatus) {
			return errors.NewConflictError(fmt.Sprintf("order cannot move from %s to %s", order.Status, newStatus))
		}
		order.Status = newStatus
		if newStatus == domain.OrderStatusCompleted {
			now := time.Now().UTC()
			order.CompletedAt = &now
		}
		return nil
	})
}

// CancelOrder cancels any non-terminal order, recording why.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*domain.Order, error) {
	return s.transition(ctx, orderID, func(order *domain.Order) error {
		if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
			return errors.NewConflictError(fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}
		order.Status = domain.OrderStatusCancelled
		order.CancellationReason = &reason
		return nil
	})
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, mutate func(*domain.Order) error) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.UpdatedAt = &now

	if err := s.orderRepo.Update(txCtx, tx, *order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", orderID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("orderId", order.ID.String()),
		zap.String("status", string(order.Status)))

	return order, nil
}
