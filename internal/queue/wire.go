package queue

import (
	"database/sql"

	"go.uber.org/zap"

	"brewline/internal/config"
	orderrepo "brewline/internal/order/repository"
	"brewline/internal/queue/controller"
	"brewline/internal/queue/repository"
	"brewline/internal/queue/service"
)

type Module struct {
	Controller *controller.QueueController
	Service    *service.QueueService
}

// NewModule wires the queue feature. The returned Service must be the
// only QueueService in the process: it owns the per-shop locks that
// serialize queue mutation.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	queueRepo := repository.NewMySQLQueueEntryRepository(db)
	queueSvc := service.NewQueueService(db, queueRepo, logger, cfg.Queue.MaxRetryAttempts)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)

	return &Module{
		Controller: controller.NewQueueController(queueSvc, orderRepo, logger),
		Service:    queueSvc,
	}
}
