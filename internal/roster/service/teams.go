package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
)

// AddMemberToTeam adds a participant to a team.
func (s *service) AddMemberToTeam(ctx context.Context, teamID, participantID string) (*model.AddMemberResult, error) {
	var result *model.AddMemberResult
	err := s.run(ctx, "add_member", func(tx *repository.Tx) error {
		var err error
		result, err = addMember(tx, teamID, participantID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add member %s to team %s: %w", participantID, teamID, err)
	}

	s.logger.Infow("Member added to team",
		"team_id", teamID,
		"team_name", result.Team.Name,
		"participant_id", participantID,
		"status", result.Status,
	)
	return result, nil
}

// RemoveMemberFromTeam removes a non-leader member from a team.
func (s *service) RemoveMemberFromTeam(ctx context.Context, teamID, participantID string) (*model.RemoveMemberResult, error) {
	var result *model.RemoveMemberResult
	err := s.run(ctx, "remove_member", func(tx *repository.Tx) error {
		var err error
		result, err = removeMember(tx, teamID, participantID)
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrLeaderRemoval) {
			s.logger.Warnw("Refused to remove team leader",
				"team_id", teamID,
				"participant_id", participantID,
			)
		}
		return nil, fmt.Errorf("remove member %s from team %s: %w", participantID, teamID, err)
	}

	s.logger.Infow("Member removed from team",
		"team_id", teamID,
		"team_name", result.Team.Name,
		"participant_id", participantID,
	)
	return result, nil
}

// ChangeTeamLead promotes newLeaderID to lead of the team.
func (s *service) ChangeTeamLead(ctx context.Context, teamID, newLeaderID string) (*model.ChangeLeadResult, error) {
	var result *model.ChangeLeadResult
	err := s.run(ctx, "change_lead", func(tx *repository.Tx) error {
		var err error
		result, err = changeLead(tx, teamID, newLeaderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("change lead of team %s to %s: %w", teamID, newLeaderID, err)
	}

	previous := ""
	if result.PreviousLeader != nil {
		previous = result.PreviousLeader.ID
	}
	s.logger.Infow("Team lead changed",
		"team_id", teamID,
		"team_name", result.Team.Name,
		"new_leader_id", newLeaderID,
		"previous_leader_id", previous,
	)
	return result, nil
}

// DeleteTeam removes a team, resets its members and renumbers the remaining teams.
func (s *service) DeleteTeam(ctx context.Context, teamID string) (*model.DeleteTeamResult, error) {
	var (
		result  *model.DeleteTeamResult
		renames []model.RenameResult
	)
	err := s.run(ctx, "delete_team", func(tx *repository.Tx) error {
		var err error
		result, err = deleteTeam(tx, teamID)
		if err != nil {
			return err
		}
		renames = renumber(tx)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete team %s: %w", teamID, err)
	}

	s.logger.Infow("Team deleted",
		"team_id", teamID,
		"team_name", result.Team.Name,
		"members_reset", len(result.Participants),
		"teams_renumbered", len(renames),
	)
	return result, nil
}

// RenumberTeams makes team names contiguous.
func (s *service) RenumberTeams(ctx context.Context) ([]model.RenameResult, error) {
	var renames []model.RenameResult
	err := s.run(ctx, "renumber_teams", func(tx *repository.Tx) error {
		renames = renumber(tx)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("renumber teams: %w", err)
	}

	for _, r := range renames {
		s.logger.Debugw("Team renumbered",
			"team_id", r.TeamID,
			"old_name", r.OldName,
			"new_name", r.NewName,
		)
	}
	return renames, nil
}

// MigrateTeamNames normalizes legacy team names and then renumbers.
func (s *service) MigrateTeamNames(ctx context.Context) ([]model.RenameResult, error) {
	var changes []model.RenameResult
	err := s.run(ctx, "migrate_team_names", func(tx *repository.Tx) error {
		teams := tx.Teams()
		changes = MigrateNames(teams, tx.Participants())
		putChanged(tx, teams, changes)
		changes = append(changes, renumber(tx)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("migrate team names: %w", err)
	}

	if len(changes) > 0 {
		s.logger.Infow("Team names migrated", "changes", len(changes))
	}
	return changes, nil
}

// CreateTeam creates a team with a leader and optional initial members.
func (s *service) CreateTeam(ctx context.Context, req model.NewTeam) (*model.Team, error) {
	if req.LeaderID == "" {
		return nil, fmt.Errorf("create team: %w: leader is required", model.ErrInvalidTeam)
	}
	if req.SlotsNeeded < 0 {
		return nil, fmt.Errorf("create team: %w: slotsNeeded must be non-negative", model.ErrInvalidTeam)
	}

	var team model.Team
	err := s.run(ctx, "create_team", func(tx *repository.Tx) error {
		leader, err := tx.Participant(req.LeaderID)
		if err != nil {
			return err
		}
		if leader.OnTeam() {
			return conflict(tx, leader)
		}

		created := tx.AddTeam(model.Team{
			Name:            TeamName(len(tx.Teams()) + 1),
			LeaderID:        leader.ID,
			LeaderName:      leader.Name,
			College:         req.College,
			ThemePreference: req.ThemePreference,
			ExperienceLevel: req.ExperienceLevel,
			SeekingMembers:  req.SeekingMembers,
			SlotsNeeded:     req.SlotsNeeded,
		})

		if _, err := addMember(tx, created.ID, leader.ID); err != nil {
			return err
		}
		for _, id := range req.MemberIDs {
			if id == leader.ID {
				continue
			}
			if _, err := addMember(tx, created.ID, id); err != nil {
				return err
			}
		}

		renumber(tx)
		team, err = tx.Team(created.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.logger.Infow("Team created",
		"team_id", team.ID,
		"team_name", team.Name,
		"leader_id", team.LeaderID,
		"members", len(team.Members),
	)
	return &team, nil
}

// SetTeamMembers removes non-leader members missing from memberIDs and adds
// the listed ones that are not yet members.
func (s *service) SetTeamMembers(ctx context.Context, teamID string, memberIDs []string) (*model.Team, error) {
	var (
		team    model.Team
		added   int
		removed int
	)
	err := s.run(ctx, "set_team_members", func(tx *repository.Tx) error {
		current, err := tx.Team(teamID)
		if err != nil {
			return err
		}

		for _, id := range current.Members {
			if id == current.LeaderID || slices.Contains(memberIDs, id) {
				continue
			}
			if _, err := removeMember(tx, teamID, id); err != nil {
				return err
			}
			removed++
		}
		for _, id := range memberIDs {
			if current.HasMember(id) {
				continue
			}
			res, err := addMember(tx, teamID, id)
			if err != nil {
				return err
			}
			if res.Status == model.StatusAdded {
				added++
			}
		}

		team, err = tx.Team(teamID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("set members of team %s: %w", teamID, err)
	}

	s.logger.Infow("Team members updated",
		"team_id", teamID,
		"team_name", team.Name,
		"added", added,
		"removed", removed,
	)
	return &team, nil
}

// UpdateTeamRecruitment updates the recruitment fields of a team.
func (s *service) UpdateTeamRecruitment(ctx context.Context, teamID string, update model.RecruitmentUpdate) (*model.Team, error) {
	if update.SlotsNeeded != nil && *update.SlotsNeeded < 0 {
		return nil, fmt.Errorf("update team %s: %w: slotsNeeded must be non-negative", teamID, model.ErrInvalidTeam)
	}

	var team model.Team
	err := s.run(ctx, "update_recruitment", func(tx *repository.Tx) error {
		var err error
		team, err = tx.Team(teamID)
		if err != nil {
			return err
		}
		if update.SeekingMembers != nil {
			team.SeekingMembers = *update.SeekingMembers
		}
		if update.SlotsNeeded != nil {
			team.SlotsNeeded = *update.SlotsNeeded
		}
		tx.PutTeam(team)
		team, err = tx.Team(teamID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update team %s: %w", teamID, err)
	}

	s.logger.Infow("Team recruitment updated",
		"team_id", teamID,
		"seeking_members", team.SeekingMembers,
		"slots_needed", team.SlotsNeeded,
	)
	return &team, nil
}
