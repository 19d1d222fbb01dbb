// Package backup exports and restores the whole roster, and projects
// check-ins into an accounting CSV.
package backup

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/metrics"
	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
)

// Snapshot is the backup document.
type Snapshot struct {
	Timestamp    time.Time           `json:"timestamp"`
	Participants []model.Participant `json:"participants"`
	Teams        []model.Team        `json:"teams"`
	Checkins     model.Checkins      `json:"checkins"`
}

// payload is Snapshot with presence tracking for the required collections.
type payload struct {
	Timestamp    *time.Time           `json:"timestamp"`
	Participants *[]model.Participant `json:"participants"`
	Teams        *[]model.Team        `json:"teams"`
	Checkins     model.Checkins       `json:"checkins"`
}

// ImportSummary reports what a restore wrote. Violations are consistency
// problems found in the restored data; they do not block the restore.
type ImportSummary struct {
	Timestamp    *time.Time        `json:"timestamp,omitempty"`
	Participants int               `json:"participants"`
	Teams        int               `json:"teams"`
	Checkins     int               `json:"checkins"`
	Violations   []model.Violation `json:"violations,omitempty"`
}

// Codec defines backup operations.
type Codec interface {
	// Export serializes all three collections with the current time.
	Export(ctx context.Context) ([]byte, error)

	// Import replaces all three collections with the contents of data.
	Import(ctx context.Context, data []byte) (*ImportSummary, error)

	// ExportCheckedInCSV renders checked-in participants as First Name,
	// Last Name, School, Email rows.
	ExportCheckedInCSV(ctx context.Context) ([]byte, error)
}

type codec struct {
	repo    *repository.Repository
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

// New creates a new backup codec. m may be nil.
func New(repo *repository.Repository, logger *zap.SugaredLogger, m *metrics.Metrics) Codec {
	return &codec{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

func (c *codec) Export(ctx context.Context) ([]byte, error) {
	start := time.Now()

	participants, teams, checkins, err := c.repo.Snapshot(ctx)
	if err != nil {
		c.observe("export_backup", err, start)
		c.logger.Errorw("Failed to read roster for backup", "error", err)
		return nil, err
	}

	data, err := json.MarshalIndent(Snapshot{
		Timestamp:    c.repo.Clock().Now().UTC(),
		Participants: participants,
		Teams:        teams,
		Checkins:     checkins,
	}, "", "  ")
	c.observe("export_backup", err, start)
	if err != nil {
		return nil, err
	}

	c.logger.Infow("Backup exported",
		"participants", len(participants),
		"teams", len(teams),
		"checkins", len(checkins),
	)
	return data, nil
}

func (c *codec) Import(ctx context.Context, data []byte) (*ImportSummary, error) {
	start := time.Now()

	snapshot, err := decode(data)
	if err != nil {
		c.observe("restore_backup", err, start)
		c.logger.Warnw("Backup rejected", "error", err)
		return nil, err
	}

	participants, teams, checkins := *snapshot.Participants, *snapshot.Teams, snapshot.Checkins
	if checkins == nil {
		checkins = model.Checkins{}
	}

	err = c.repo.ReplaceAll(ctx, participants, teams, checkins)
	c.observe("restore_backup", err, start)
	if err != nil {
		c.logger.Errorw("Failed to restore backup", "error", err)
		return nil, err
	}

	summary := &ImportSummary{
		Timestamp:    snapshot.Timestamp,
		Participants: len(participants),
		Teams:        len(teams),
		Checkins:     len(checkins),
		Violations:   model.CheckConsistency(participants, teams),
	}
	c.metrics.SetRosterSize(summary.Participants, summary.Teams, summary.Checkins)

	for _, v := range summary.Violations {
		c.logger.Warnw("Restored roster inconsistency",
			"kind", v.Kind,
			"participant_id", v.ParticipantID,
			"team_id", v.TeamID,
			"message", v.Message,
		)
	}
	c.logger.Infow("Backup restored",
		"participants", summary.Participants,
		"teams", summary.Teams,
		"checkins", summary.Checkins,
		"violations", len(summary.Violations),
	)
	return summary, nil
}

func decode(data []byte) (*payload, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &model.ValidationError{Field: "backup", Reason: err.Error()}
	}
	if p.Participants == nil {
		return nil, &model.ValidationError{Field: "participants", Reason: "missing required collection"}
	}
	if p.Teams == nil {
		return nil, &model.ValidationError{Field: "teams", Reason: "missing required collection"}
	}
	return &p, nil
}

func (c *codec) observe(operation string, err error, start time.Time) {
	c.metrics.ObserveOperation(operation, model.Outcome(err), time.Since(start))
}
