package services

import (
	"github.com/finkit/bulk_payout_app/internal/core/ports"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateway ports.PaymentGateway) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	paymentExec := NewPaymentService(repos.LedgerRepo, repos.AccountRepo, repos.Transactor, gateway)

	container.BulkPayment = NewBulkPaymentService(
		repos.BulkTaskRepo,
		repos.AccountRepo,
		paymentExec,
		WithBatchSize(cfg.BulkBatchSize),
		WithGatewayInterval(cfg.GatewayCallInterval),
		WithStaleThreshold(cfg.TaskStaleThreshold),
	)
	container.BulkTask = NewBulkTaskService(
		repos.BulkTaskRepo,
		WithTaskStaleThreshold(cfg.TaskStaleThreshold),
	)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Account = NewAccountService(repos.AccountRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.BulkPaymentSvcFacade = (*bulkPaymentService)(nil)
	_ portssvc.BulkTaskSvcFacade    = (*bulkTaskService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ ports.Pacer                   = (*gatewayPacer)(nil)
)
