package services

import (
	portsrepo "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/repositories"
	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
	"github.com/pesa-dev/networth_snapshot_service/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	valuation := NewValuationService(cfg.ReportingCurrency, cfg.FXRates)

	container := &portssvc.ServiceContainer{}
	container.Snapshot = NewSnapshotService(repos.AccountRepo, repos.SnapshotRepo, valuation, cfg.SweepLocation)
	container.Sweep = NewSweepService(repos.AccountRepo, container.Snapshot, cfg.SweepConcurrency)
	return container
}
