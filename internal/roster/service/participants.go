package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
)

// AddParticipant registers a participant in the seeking state unless a team role is given.
func (s *service) AddParticipant(ctx context.Context, in model.NewParticipant) (*model.Participant, error) {
	var p model.Participant
	err := s.run(ctx, "add_participant", func(tx *repository.Tx) error {
		if in.TeamID != nil {
			if _, err := tx.Team(*in.TeamID); err != nil {
				return err
			}
		}
		var err error
		p, err = tx.AddParticipant(in)
		if err != nil {
			return err
		}
		if p.OnTeam() {
			if _, err := addMember(tx, *p.TeamID, p.ID); err != nil {
				return err
			}
			p, err = tx.Participant(p.ID)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}

	s.logger.Infow("Participant added",
		"participant_id", p.ID,
		"role", p.Role(),
	)
	return &p, nil
}

// UpdateParticipant edits participant details. Role flags are owned by the
// team operations, so patches that would change a team member's role are
// rejected.
func (s *service) UpdateParticipant(ctx context.Context, id string, patch model.ParticipantPatch) (*model.Participant, error) {
	var p model.Participant
	err := s.run(ctx, "update_participant", func(tx *repository.Tx) error {
		current, err := tx.Participant(id)
		if err != nil {
			return err
		}
		if current.OnTeam() && (patch.SeekingTeam != nil || patch.IsTeamLead != nil || patch.IsTeamMember != nil) {
			return conflict(tx, current)
		}
		if !current.OnTeam() && (isTrue(patch.IsTeamLead) || isTrue(patch.IsTeamMember)) {
			return fmt.Errorf("%w: use a team operation to join a team", model.ErrInvalidParticipant)
		}

		p, err = tx.UpdateParticipant(id, patch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update participant %s: %w", id, err)
	}

	s.logger.Infow("Participant updated", "participant_id", id)
	return &p, nil
}

// DeleteParticipant removes a participant. A member is first removed from
// their team and any check-in is dropped; a leader must be replaced or their
// team deleted first.
func (s *service) DeleteParticipant(ctx context.Context, id string) error {
	var teamID string
	err := s.run(ctx, "delete_participant", func(tx *repository.Tx) error {
		p, err := tx.Participant(id)
		if err != nil {
			return err
		}

		for _, t := range tx.Teams() {
			if !t.HasMember(id) && t.LeaderID != id {
				continue
			}
			if t.LeaderID == id {
				return &model.ConflictError{
					ParticipantID:   id,
					ParticipantName: p.Name,
					TeamID:          t.ID,
					TeamName:        t.Name,
					Reason:          "leads",
				}
			}
			if _, err := removeMember(tx, t.ID, id); err != nil {
				return err
			}
			teamID = t.ID
		}

		if err := tx.RemoveCheckin(id); err != nil && !errors.Is(err, model.ErrCheckinNotFound) {
			return err
		}
		return tx.DeleteParticipant(id)
	})
	if err != nil {
		return fmt.Errorf("delete participant %s: %w", id, err)
	}

	s.logger.Infow("Participant deleted",
		"participant_id", id,
		"left_team_id", teamID,
	)
	return nil
}

// CheckIn records a participant's arrival.
func (s *service) CheckIn(ctx context.Context, participantID string) (time.Time, error) {
	var at time.Time
	err := s.run(ctx, "check_in", func(tx *repository.Tx) error {
		var err error
		at, err = tx.CheckIn(participantID)
		return err
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("check in %s: %w", participantID, err)
	}

	s.logger.Infow("Participant checked in",
		"participant_id", participantID,
		"at", at,
	)
	return at, nil
}

// UndoCheckIn clears a participant's check-in.
func (s *service) UndoCheckIn(ctx context.Context, participantID string) error {
	err := s.run(ctx, "undo_check_in", func(tx *repository.Tx) error {
		return tx.RemoveCheckin(participantID)
	})
	if err != nil {
		return fmt.Errorf("undo check-in %s: %w", participantID, err)
	}

	s.logger.Infow("Check-in removed", "participant_id", participantID)
	return nil
}

// Verify reports every broken roster invariant.
func (s *service) Verify(ctx context.Context) ([]model.Violation, error) {
	var violations []model.Violation
	err := s.repo.View(ctx, func(tx *repository.Tx) error {
		participants, teams, checkins := tx.Participants(), tx.Teams(), tx.Checkins()
		violations = model.CheckConsistency(participants, teams)
		s.metrics.SetRosterSize(len(participants), len(teams), len(checkins))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify roster: %w", err)
	}

	for _, v := range violations {
		s.logger.Warnw("Roster inconsistency",
			"kind", v.Kind,
			"participant_id", v.ParticipantID,
			"team_id", v.TeamID,
			"detail", v.Message,
		)
	}
	return violations, nil
}

func isTrue(v *bool) bool {
	return v != nil && *v
}
