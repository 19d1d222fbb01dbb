package repository

import (
	"context"
	"time"

	"github.com/festy23/buildathon_roster/internal/roster/model"
)

// GetAllParticipants returns every participant.
func (r *Repository) GetAllParticipants(ctx context.Context) ([]model.Participant, error) {
	var out []model.Participant
	err := r.View(ctx, func(tx *Tx) error {
		out = tx.Participants()
		return nil
	})
	return out, err
}

// GetParticipant returns the participant with id.
func (r *Repository) GetParticipant(ctx context.Context, id string) (model.Participant, error) {
	var out model.Participant
	err := r.View(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.Participant(id)
		return err
	})
	return out, err
}

// AddParticipant creates a participant.
func (r *Repository) AddParticipant(ctx context.Context, in model.NewParticipant) (model.Participant, error) {
	var out model.Participant
	err := r.Transaction(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.AddParticipant(in)
		return err
	})
	return out, err
}

// UpdateParticipant applies patch to the participant with id.
func (r *Repository) UpdateParticipant(ctx context.Context, id string, patch model.ParticipantPatch) (model.Participant, error) {
	var out model.Participant
	err := r.Transaction(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.UpdateParticipant(id, patch)
		return err
	})
	return out, err
}

// GetAllTeams returns every team.
func (r *Repository) GetAllTeams(ctx context.Context) ([]model.Team, error) {
	var out []model.Team
	err := r.View(ctx, func(tx *Tx) error {
		out = tx.Teams()
		return nil
	})
	return out, err
}

// GetTeam returns the team with id.
func (r *Repository) GetTeam(ctx context.Context, id string) (model.Team, error) {
	var out model.Team
	err := r.View(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.Team(id)
		return err
	})
	return out, err
}

// GetCheckins returns the check-in index.
func (r *Repository) GetCheckins(ctx context.Context) (model.Checkins, error) {
	var out model.Checkins
	err := r.View(ctx, func(tx *Tx) error {
		out = tx.Checkins()
		return nil
	})
	return out, err
}

// CheckInParticipant records a check-in for an existing participant.
func (r *Repository) CheckInParticipant(ctx context.Context, participantID string) (time.Time, error) {
	var at time.Time
	err := r.Transaction(ctx, func(tx *Tx) error {
		var err error
		at, err = tx.CheckIn(participantID)
		return err
	})
	return at, err
}

// RemoveCheckin clears a participant's check-in.
func (r *Repository) RemoveCheckin(ctx context.Context, participantID string) error {
	return r.Transaction(ctx, func(tx *Tx) error {
		return tx.RemoveCheckin(participantID)
	})
}

// Snapshot returns copies of all three collections read under one lock.
func (r *Repository) Snapshot(ctx context.Context) ([]model.Participant, []model.Team, model.Checkins, error) {
	var (
		participants []model.Participant
		teams        []model.Team
		checkins     model.Checkins
	)
	err := r.View(ctx, func(tx *Tx) error {
		participants = tx.Participants()
		teams = tx.Teams()
		checkins = tx.Checkins()
		return nil
	})
	return participants, teams, checkins, err
}

// ReplaceAll overwrites all three collections in one store write.
func (r *Repository) ReplaceAll(ctx context.Context, participants []model.Participant, teams []model.Team, checkins model.Checkins) error {
	return r.Transaction(ctx, func(tx *Tx) error {
		tx.ReplaceAll(participants, teams, checkins)
		return nil
	})
}
