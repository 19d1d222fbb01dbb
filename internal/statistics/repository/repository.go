// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"

	rosterrepo "github.com/festy23/buildathon_roster/internal/roster/repository"
	"github.com/festy23/buildathon_roster/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetRoster returns a consistent copy of participants, teams and check-ins.
	GetRoster(ctx context.Context) (*model.Roster, error)
}

type repository struct {
	roster *rosterrepo.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(roster *rosterrepo.Repository, logger *zap.SugaredLogger) Repository {
	return &repository{
		roster: roster,
		logger: logger,
	}
}

// GetRoster returns a consistent copy of participants, teams and check-ins.
func (r *repository) GetRoster(ctx context.Context) (*model.Roster, error) {
	r.logger.Debugw("GetRoster called")

	participants, teams, checkins, err := r.roster.Snapshot(ctx)
	if err != nil {
		r.logger.Errorw("GetRoster store error", "error", err)
		return nil, err
	}

	return &model.Roster{
		Participants: participants,
		Teams:        teams,
		Checkins:     checkins,
	}, nil
}
