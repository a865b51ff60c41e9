package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"brewline/internal/domain"
	apperrors "brewline/internal/errors"
)

type mockTransactionManager struct {
	BeginTxFunc func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func (m *mockTransactionManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.BeginTxFunc(ctx, opts)
}

type mockQueueEntryRepository struct {
	LockShopQueueFunc               func(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) error
	HasActiveEntryFunc              func(ctx context.Context, tx *sql.Tx, shopID, customerID uuid.UUID) (bool, error)
	MaxWaitingPositionFunc          func(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) (int, error)
	InsertFunc                      func(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error
	FindByIDFunc                    func(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error)
	FindByIDForUpdateFunc           func(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.QueueEntry, error)
	UpdateFunc                      func(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error
	ShiftPositionsAfterFunc         func(ctx context.Context, tx *sql.Tx, shopID uuid.UUID, position int) error
	FindByShopOrderedByPositionFunc func(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error)
	FindWaitingByShopFunc           func(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error)
	FindByOrderIDFunc               func(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error)
	CountWaitingFunc                func(ctx context.Context, shopID uuid.UUID) (int, error)
}

func (m *mockQueueEntryRepository) LockShopQueue(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) error {
	return m.LockShopQueueFunc(ctx, tx, shopID)
}

func (m *mockQueueEntryRepository) HasActiveEntry(ctx context.Context, tx *sql.Tx, shopID, customerID uuid.UUID) (bool, error) {
	return m.HasActiveEntryFunc(ctx, tx, shopID, customerID)
}

func (m *mockQueueEntryRepository) MaxWaitingPosition(ctx context.Context, tx *sql.Tx, shopID uuid.UUID) (int, error) {
	return m.MaxWaitingPositionFunc(ctx, tx, shopID)
}

func (m *mockQueueEntryRepository) Insert(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error {
	return m.InsertFunc(ctx, tx, entry)
}

func (m *mockQueueEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockQueueEntryRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.QueueEntry, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockQueueEntryRepository) Update(ctx context.Context, tx *sql.Tx, entry domain.QueueEntry) error {
	return m.UpdateFunc(ctx, tx, entry)
}

func (m *mockQueueEntryRepository) ShiftPositionsAfter(ctx context.Context, tx *sql.Tx, shopID uuid.UUID, position int) error {
	return m.ShiftPositionsAfterFunc(ctx, tx, shopID, position)
}

func (m *mockQueueEntryRepository) FindByShopOrderedByPosition(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error) {
	return m.FindByShopOrderedByPositionFunc(ctx, shopID)
}

func (m *mockQueueEntryRepository) FindWaitingByShop(ctx context.Context, shopID uuid.UUID) ([]domain.QueueEntry, error) {
	return m.FindWaitingByShopFunc(ctx, shopID)
}

func (m *mockQueueEntryRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.QueueEntry, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

func (m *mockQueueEntryRepository) CountWaiting(ctx context.Context, shopID uuid.UUID) (int, error) {
	return m.CountWaitingFunc(ctx, shopID)
}

func newTestQueueService(db TransactionManager, repo QueueEntryRepository) *QueueService {
	return NewQueueService(db, repo, zap.NewNop(), 3)
}

func TestEstimateWaitTime(t *testing.T) {
	svc := newTestQueueService(nil, nil)

	assert.Equal(t, 0, svc.EstimateWaitTime(1))
	assert.Equal(t, 5, svc.EstimateWaitTime(2))
	assert.Equal(t, 10, svc.EstimateWaitTime(3))
	assert.Equal(t, 45, svc.EstimateWaitTime(10))
}

func TestEstimateWaitTime_NonPositivePosition(t *testing.T) {
	svc := newTestQueueService(nil, nil)

	assert.Equal(t, 0, svc.EstimateWaitTime(0))
	assert.Equal(t, 0, svc.EstimateWaitTime(-3))
}

func TestLockShop_SerializesSameShop(t *testing.T) {
	svc := newTestQueueService(nil, nil)
	shopID := uuid.New()

	var inSection int
	var maxInSection int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := svc.lockShop(shopID)
			defer unlock()

			mu.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			mu.Unlock()

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInSection)
}

func TestLockShop_IndependentShops(t *testing.T) {
	svc := newTestQueueService(nil, nil)

	// Holding one shop's lock must not block another shop's.
	unlockA := svc.lockShop(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := svc.lockShop(uuid.New())
		unlockB()
		close(done)
	}()

	<-done
}

func TestAddToQueue_BeginTxError(t *testing.T) {
	txErr := errors.New("connection refused")
	txMgr := &mockTransactionManager{
		BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
			return nil, txErr
		},
	}

	svc := newTestQueueService(txMgr, &mockQueueEntryRepository{})

	_, err := svc.AddToQueue(context.Background(), uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, txErr)
}

func TestRemoveFromQueue_EntryNotFound(t *testing.T) {
	repo := &mockQueueEntryRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.QueueEntry, error) {
			return nil, apperrors.NewNotFoundError("queue entry not found")
		},
	}

	svc := newTestQueueService(&mockTransactionManager{}, repo)

	err := svc.RemoveFromQueue(context.Background(), uuid.New())
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestWithDeadlockRetry_RetriesThenGivesUp(t *testing.T) {
	svc := newTestQueueService(nil, nil)

	calls := 0
	err := svc.withDeadlockRetry(context.Background(), "addToQueue", func() error {
		calls++
		return &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	})

	assert.Equal(t, 3, calls)
	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok)
}

func TestWithDeadlockRetry_SucceedsAfterDeadlock(t *testing.T) {
	svc := newTestQueueService(nil, nil)

	calls := 0
	err := svc.withDeadlockRetry(context.Background(), "serveCustomer", func() error {
		calls++
		if calls == 1 {
			return &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithDeadlockRetry_NonDeadlockErrorReturnsImmediately(t *testing.T) {
	svc := newTestQueueService(nil, nil)

	conflict := apperrors.NewConflictError("customer is already in the queue for this shop")
	calls := 0
	err := svc.withDeadlockRetry(context.Background(), "addToQueue", func() error {
		calls++
		return conflict
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, conflict, err)
}

func TestIsDeadlockError(t *testing.T) {
	assert.True(t, isDeadlockError(&mysql.MySQLError{Number: 1213}))
	assert.True(t, isDeadlockError(&mysql.MySQLError{Number: 1205}))
	assert.False(t, isDeadlockError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDeadlockError(errors.New("not a mysql error")))
	assert.False(t, isDeadlockError(nil))
}
