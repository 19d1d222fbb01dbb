// Package statistics wires the registration statistics module.
package statistics

import (
	"go.uber.org/zap"

	rosterrepo "github.com/festy23/buildathon_roster/internal/roster/repository"
	"github.com/festy23/buildathon_roster/internal/statistics/repository"
	"github.com/festy23/buildathon_roster/internal/statistics/service"
)

// Service is the statistics service.
type Service = service.Service

// New builds the statistics service on top of the roster repository.
func New(roster *rosterrepo.Repository, logger *zap.SugaredLogger) Service {
	return service.New(repository.New(roster, logger), logger)
}
