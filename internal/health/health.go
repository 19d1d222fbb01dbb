// Package health provides the roster store health check.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/roster/repository"
	"github.com/festy23/buildathon_roster/internal/storage"
)

// Statuses reported by Check.
const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
)

const checkTimeout = 5 * time.Second

// Checker checks the store and reports collection sizes.
type Checker struct {
	store  storage.Store
	repo   *repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new health checker instance.
func New(store storage.Store, repo *repository.Repository, logger *zap.SugaredLogger) *Checker {
	return &Checker{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	Participants int    `json:"participants"`
	Teams        int    `json:"teams"`
	Checkins     int    `json:"checkins"`
}

// Check pings the store and reads the collections.
func (c *Checker) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := c.store.Health(ctx); err != nil {
		c.logger.Warnw("health check failed", "error", err)
		return Response{Status: StatusUnhealthy, Error: err.Error()}
	}

	participants, teams, checkins, err := c.repo.Snapshot(ctx)
	if err != nil {
		c.logger.Warnw("health check failed", "error", err)
		return Response{Status: StatusUnhealthy, Error: err.Error()}
	}

	return Response{
		Status:       StatusOK,
		Participants: len(participants),
		Teams:        len(teams),
		Checkins:     len(checkins),
	}
}
