package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brewline/internal/domain"
	"brewline/internal/errors"
)

// averageServiceTimeMinutes is the flat per-customer estimate used for
// wait times. Shops carry their own configured average but estimates
// deliberately ignore it so two customers at the same position always
// see the same number.
// TODO: read the shop's averageServiceTimeMinutes once estimates are
// surfaced on the shop dashboard.
const averageServiceTimeMinutes = 5

const txTimeout = 5 * time.Second

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type QueueEntryRepository interface {
	LockShopQueue(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) error
	HasActiveEntry(ctx context.Context, tx *sql.Tx, shopID, customerID uuid.UUID) (bool, error)
	MaxWaitingPosition(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) (int, error)
	Insert(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.QueueEntry, error)
	Update(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error
	ShiftPositionsAfter(ctx context.Context, tx *sql.Tx, shopID uuid.UUID, position int) error
	FindByShopOrderedByPosition(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error)
	FindWaitingByShop(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error)
	CountWaiting(ctx context.Context, shopID uuid.UUID) (int, error)
}

type QueueService struct {
	db               TransactionManager
	queueRepo        QueueEntryRepository
	logger           *zap.Logger
	maxRetryAttempts int

	mu        sync.Mutex
	shopLocks map[uuid.UUID]*sync.Mutex
}

func NewQueueService(
	db TransactionManager,
	queueRepo QueueEntryRepository,
	logger *zap.Logger,
	maxRetryAttempts int,
) *QueueService {
	return &QueueService{
		db:               db,
		queueRepo:        queueRepo,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		shopLocks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockShop serializes queue mutation per shop within this process.
// The database shop-row lock still guards against other processes;
// this keeps the critical section single-file without hitting
// InnoDB lock waits in the common case. Locks for distinct shops
// are independent.
func (s *QueueService) lockShop(shopID uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.shopLocks[shopID]
	if !ok {
		l = &sync.Mutex{}
		s.shopLocks[shopID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// AddToQueue appends the customer at position max(WAITING)+1, or 1 for
// an empty queue. A customer already WAITING or BEING_SERVED in this
// shop's queue is rejected with a conflict.
func (s *QueueService) AddToQueue(ctx context.Context, shopID, customerID, orderID uuid.UUID) (*domain.QueueEntry, error) {
	var entry *domain.QueueEntry
	err := s.withDeadlockRetry(ctx, "addToQueue", func() error {
		var err error
		entry, err = s.addToQueue(ctx, shopID, customerID, orderID)
		return err
	})
	return entry, err
}

func (s *QueueService) addToQueue(ctx context.Context, shopID, customerID, orderID uuid.UUID) (*domain.QueueEntry, error) {
	unlock := s.lockShop(shopID)
	defer unlock()

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	if err := s.queueRepo.LockShopQueue(txCtx, tx, shopID); err != nil {
		return nil, err
	}

	active, err := s.queueRepo.HasActiveEntry(txCtx, tx, shopID, customerID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, errors.NewConflictError("customer is already in the queue for this shop")
	}

	maxPos, err := s.queueRepo.MaxWaitingPosition(txCtx, tx, shopID)
	if err != nil {
		return nil, err
	}

	entry := domain.QueueEntry{
		ID:         uuid.New(),
		ShopID:     shopID,
		CustomerID: customerID,
		OrderID:    orderID,
		Position:   maxPos + 1,
		Status:     domain.QueueStatusWaiting,
		JoinedAt:   time.Now().UTC(),
	}

	if err := s.queueRepo.Insert(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("shopId", shopID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer added to queue",
		zap.String("queueEntryId", entry.ID.String()),
		zap.String("shopId", shopID.String()),
		zap.String("customerId", customerID.String()),
		zap.Int("position", entry.Position))

	return &entry, nil
}

// RemoveFromQueue marks the entry LEFT and closes the gap it occupied.
// A SERVED entry cannot be removed; an entry that already left is a
// conflict rather than a second removal.
func (s *QueueService) RemoveFromQueue(ctx context.Context, entryID uuid.UUID) error {
	return s.withDeadlockRetry(ctx, "removeFromQueue", func() error {
		return s.removeFromQueue(ctx, entryID)
	})
}

func (s *QueueService) removeFromQueue(ctx context.Context, entryID uuid.UUID) error {
	return s.mutateEntry(ctx, entryID, func(entry *domain.QueueEntry) (bool, error) {
		if entry.Status == domain.QueueStatusServed {
			return false, errors.NewConflictError("cannot remove a served customer from the queue")
		}
		if !entry.Status.CanTransitionTo(domain.QueueStatusLeft) {
			return false, errors.NewConflictError("customer has already left the queue")
		}

		now := time.Now().UTC()
		entry.Status = domain.QueueStatusLeft
		entry.LeftAt = &now
		return true, nil
	})
}

// ServeCustomer moves a WAITING entry to BEING_SERVED. The entry keeps
// its position until service completes.
func (s *QueueService) ServeCustomer(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error) {
	var served *domain.QueueEntry
	err := s.withDeadlockRetry(ctx, "serveCustomer", func() error {
		return s.mutateEntryCapture(ctx, entryID, &served, func(entry *domain.QueueEntry) (bool, error) {
			if !entry.Status.CanTransitionTo(domain.QueueStatusBeingServed) {
				return false, errors.NewConflictError("customer is not waiting to be served")
			}

			now := time.Now().UTC()
			entry.Status = domain.QueueStatusBeingServed
			entry.ServedAt = &now
			return false, nil
		})
	})
	return served, err
}

// CompleteService moves a BEING_SERVED entry to SERVED and compacts the
// queue past its position.
func (s *QueueService) CompleteService(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error) {
	var completed *domain.QueueEntry
	err := s.withDeadlockRetry(ctx, "completeService", func() error {
		return s.mutateEntryCapture(ctx, entryID, &completed, func(entry *domain.QueueEntry) (bool, error) {
			if !entry.Status.CanTransitionTo(domain.QueueStatusServed) {
				return false, errors.NewConflictError("customer is not being served")
			}

			entry.Status = domain.QueueStatusServed
			return true, nil
		})
	})
	return completed, err
}

// mutateEntry runs one status change under the owning shop's lock.
// The mutate callback returns whether the vacated position must be
// compacted away. The entry is re-read under FOR UPDATE inside the
// transaction so the callback always sees the committed state.
func (s *QueueService) mutateEntry(ctx context.Context, entryID uuid.UUID, mutate func(*domain.QueueEntry) (bool, error)) error {
	var discard *domain.QueueEntry
	return s.mutateEntryCapture(ctx, entryID, &discard, mutate)
}

func (s *QueueService) mutateEntryCapture(
	ctx context.Context,
	entryID uuid.UUID,
	out **domain.QueueEntry,
	mutate func(*domain.QueueEntry) (bool, error),
) error {
	// The shop is not known until the entry is read, so resolve it
	// first and take the lock before opening the transaction.
	peek, err := s.queueRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}

	unlock := s.lockShop(peek.ShopID)
	defer unlock()

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.queueRepo.LockShopQueue(txCtx, tx, peek.ShopID); err != nil {
		return err
	}

	entry, err := s.queueRepo.FindByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return err
	}

	compact, err := mutate(entry)
	if err != nil {
		return err
	}

	if err := s.queueRepo.Update(txCtx, tx, *entry); err != nil {
		return err
	}

	if compact {
		if err := s.queueRepo.ShiftPositionsAfter(txCtx, tx, entry.ShopID, entry.Position); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("queueEntryId", entryID.String()), zap.Error(err))
		return err
	}

	s.logger.Info("queue entry updated",
		zap.String("queueEntryId", entry.ID.String()),
		zap.String("shopId", entry.ShopID.String()),
		zap.String("status", string(entry.Status)),
		zap.Bool("compacted", compact))

	*out = entry
	return nil
}

func (s *QueueService) GetQueueEntry(ctx context.Context, entryID uuid.UUID) (*domain.QueueEntry, error) {
	return s.queueRepo.FindByID(ctx, entryID)
}

func (s *QueueService) GetQueueEntryForOrder(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error) {
	return s.queueRepo.FindByOrderID(ctx, orderID)
}

func (s *QueueService) GetQueueForShop(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error) {
	return s.queueRepo.FindByShopOrderedByPosition(ctx, shopID)
}

func (s *QueueService) GetWaitingCustomers(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error) {
	return s.queueRepo.FindWaitingByShop(ctx, shopID)
}

func (s *QueueService) GetTotalWaitingCustomers(ctx context.Context, shopID uuid.UUID) (int, error) {
	return s.queueRepo.CountWaiting(ctx, shopID)
}

// EstimateWaitTime returns how long the customer at the given position
// should expect to wait. Position 1 is next, so it waits zero.
func (s *QueueService) EstimateWaitTime(position int) int {
	ahead := position - 1
	if ahead < 0 {
		ahead = 0
	}
	return ahead * averageServiceTimeMinutes
}

func (s *QueueService) withDeadlockRetry(ctx context.Context, operation string, fn func() error) error {
	maxAttempts := s.maxRetryAttempts
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if isDeadlockError(err) {
			if attempt < maxAttempts {
				// Calculate jitter: ±20% of backoff base
				jitter := backoffs[attempt-1] * time.Duration(0.8+rand.Float64()*0.4)
				time.Sleep(backoffs[attempt-1] + jitter)
				s.logger.Warn("deadlock detected, retrying",
					zap.String("operation", operation),
					zap.Int("attempt", attempt),
					zap.Int("maxAttempts", maxAttempts))
				continue
			}
			break
		}

		return err
	}

	return errors.NewDeadlockError(fmt.Sprintf("%s: max retries exceeded", operation))
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
