package order

import (
	"database/sql"

	"go.uber.org/zap"

	authrepo "brewline/internal/auth/repository"
	"brewline/internal/order/controller"
	orderrepo "brewline/internal/order/repository"
	"brewline/internal/order/service"
	"brewline/internal/order/usecase"
	queueservice "brewline/internal/queue/service"
	shoprepo "brewline/internal/shop/repository"
)

type Module struct {
	Controller *controller.OrderController
	UseCase    *usecase.ProcessOrderUseCase
}

// NewModule wires the order feature. The queue service is shared with
// the queue module so both mutate queues through the same locks.
func NewModule(db *sql.DB, queueSvc *queueservice.QueueService, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	userRepo := authrepo.NewMySQLUserRepository(db)
	shopRepo := shoprepo.NewMySQLShopRepository(db)
	menuItemRepo := shoprepo.NewMySQLMenuItemRepository(db)

	orderSvc := service.NewOrderService(db, orderRepo, orderItemRepo, logger)

	uc := usecase.NewProcessOrderUseCase(
		userRepo,
		shopRepo,
		menuItemRepo,
		orderRepo,
		orderItemRepo,
		orderSvc,
		queueSvc,
		logger,
	)

	return &Module{
		Controller: controller.NewOrderController(uc, logger),
		UseCase:    uc,
	}
}
