// Package service provides the roster consistency engine: operations that
// change participants and teams together while keeping their role flags,
// membership lists and leader assignment consistent.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/metrics"
	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
)

// Service defines the roster operations.
type Service interface {
	// AddMemberToTeam adds a participant to a team. Adding a current member is a
	// no-op reported with model.StatusAlreadyInTeam.
	AddMemberToTeam(ctx context.Context, teamID, participantID string) (*model.AddMemberResult, error)

	// RemoveMemberFromTeam removes a non-leader member and returns them to seeking.
	RemoveMemberFromTeam(ctx context.Context, teamID, participantID string) (*model.RemoveMemberResult, error)

	// ChangeTeamLead promotes a participant to lead; the previous lead stays as a member.
	ChangeTeamLead(ctx context.Context, teamID, newLeaderID string) (*model.ChangeLeadResult, error)

	// DeleteTeam removes a team, resets its members to seeking and renumbers the rest.
	DeleteTeam(ctx context.Context, teamID string) (*model.DeleteTeamResult, error)

	// RenumberTeams makes team names contiguous ("Team 1".."Team N").
	RenumberTeams(ctx context.Context) ([]model.RenameResult, error)

	// MigrateTeamNames rewrites legacy "<leader>'s Team" names and backfills leader names.
	MigrateTeamNames(ctx context.Context) ([]model.RenameResult, error)

	// CreateTeam creates a team led by req.LeaderID with optional initial members.
	CreateTeam(ctx context.Context, req model.NewTeam) (*model.Team, error)

	// SetTeamMembers reconciles a team's members with memberIDs. The leader is never removed.
	SetTeamMembers(ctx context.Context, teamID string, memberIDs []string) (*model.Team, error)

	// UpdateTeamRecruitment updates seekingMembers and slotsNeeded.
	UpdateTeamRecruitment(ctx context.Context, teamID string, update model.RecruitmentUpdate) (*model.Team, error)

	// AddParticipant registers a participant.
	AddParticipant(ctx context.Context, in model.NewParticipant) (*model.Participant, error)

	// UpdateParticipant edits participant details.
	UpdateParticipant(ctx context.Context, id string, patch model.ParticipantPatch) (*model.Participant, error)

	// DeleteParticipant removes a participant, their team membership and check-in.
	DeleteParticipant(ctx context.Context, id string) error

	// CheckIn records a participant's arrival.
	CheckIn(ctx context.Context, participantID string) (time.Time, error)

	// UndoCheckIn clears a participant's check-in.
	UndoCheckIn(ctx context.Context, participantID string) error

	// Verify reports every broken roster invariant.
	Verify(ctx context.Context) ([]model.Violation, error)
}

type service struct {
	repo    *repository.Repository
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

// New creates a new roster service instance. m may be nil.
func New(repo *repository.Repository, logger *zap.SugaredLogger, m *metrics.Metrics) Service {
	return &service{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// run executes fn in a repository transaction and records its outcome.
func (s *service) run(ctx context.Context, operation string, fn func(tx *repository.Tx) error) error {
	start := time.Now()
	err := s.repo.Transaction(ctx, fn)
	outcome := model.Outcome(err)
	s.metrics.ObserveOperation(operation, outcome, time.Since(start))

	if outcome == "error" {
		s.logger.Errorw("Roster operation failed",
			"operation", operation,
			"error", err,
		)
	}
	return err
}
