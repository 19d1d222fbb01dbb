package service

import (
	"fmt"

	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
)

// addMember adds participantID to teamID inside tx.
func addMember(tx *repository.Tx, teamID, participantID string) (*model.AddMemberResult, error) {
	team, err := tx.Team(teamID)
	if err != nil {
		return nil, err
	}
	p, err := tx.Participant(participantID)
	if err != nil {
		return nil, err
	}

	if team.HasMember(participantID) {
		return &model.AddMemberResult{Status: model.StatusAlreadyInTeam, Team: team, Participant: p}, nil
	}

	if p.OnTeam() && !p.InTeam(teamID) {
		return nil, conflict(tx, p)
	}

	team.AddMember(participantID)
	if participantID == team.LeaderID {
		p.MakeLead(teamID)
	} else {
		p.MakeMember(teamID)
	}

	tx.PutTeam(team)
	tx.PutParticipant(p)
	team, _ = tx.Team(teamID)
	p, _ = tx.Participant(participantID)
	return &model.AddMemberResult{Status: model.StatusAdded, Team: team, Participant: p}, nil
}

// removeMember removes a non-leader member from teamID inside tx.
func removeMember(tx *repository.Tx, teamID, participantID string) (*model.RemoveMemberResult, error) {
	team, err := tx.Team(teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(participantID) {
		return nil, fmt.Errorf("%w: %s in %s", model.ErrNotTeamMember, participantID, team.Name)
	}
	if participantID == team.LeaderID {
		return nil, model.ErrLeaderRemoval
	}

	team.RemoveMember(participantID)
	tx.PutTeam(team)
	team, _ = tx.Team(teamID)

	result := &model.RemoveMemberResult{Team: team}
	if p, err := tx.Participant(participantID); err == nil {
		p.MakeSeeking()
		tx.PutParticipant(p)
		result.Participant, _ = tx.Participant(participantID)
	}
	return result, nil
}

// changeLead promotes newLeaderID to lead of teamID inside tx.
func changeLead(tx *repository.Tx, teamID, newLeaderID string) (*model.ChangeLeadResult, error) {
	team, err := tx.Team(teamID)
	if err != nil {
		return nil, err
	}
	newLeader, err := tx.Participant(newLeaderID)
	if err != nil {
		return nil, err
	}
	if newLeader.OnTeam() && !newLeader.InTeam(teamID) {
		return nil, conflict(tx, newLeader)
	}

	result := &model.ChangeLeadResult{}
	if team.LeaderID != newLeaderID {
		if prev, err := tx.Participant(team.LeaderID); err == nil && team.HasMember(prev.ID) {
			prev.MakeMember(teamID)
			tx.PutParticipant(prev)
			demoted, _ := tx.Participant(prev.ID)
			result.PreviousLeader = &demoted
		}
	}

	team.AddMember(newLeaderID)
	team.LeaderID = newLeaderID
	team.LeaderName = newLeader.Name
	newLeader.MakeLead(teamID)

	tx.PutTeam(team)
	tx.PutParticipant(newLeader)
	result.Team, _ = tx.Team(teamID)
	result.NewLeader, _ = tx.Participant(newLeaderID)
	return result, nil
}

// deleteTeam removes teamID and resets everyone on it to seeking inside tx.
func deleteTeam(tx *repository.Tx, teamID string) (*model.DeleteTeamResult, error) {
	team, err := tx.Team(teamID)
	if err != nil {
		return nil, err
	}

	result := &model.DeleteTeamResult{Team: team, Participants: []model.Participant{}}
	for _, p := range tx.Participants() {
		if !team.HasMember(p.ID) && !p.InTeam(teamID) {
			continue
		}
		p.MakeSeeking()
		tx.PutParticipant(p)
		reset, _ := tx.Participant(p.ID)
		result.Participants = append(result.Participants, reset)
	}

	if err := tx.DeleteTeam(teamID); err != nil {
		return nil, err
	}
	return result, nil
}

// renumber applies Renumber to the stored teams inside tx.
func renumber(tx *repository.Tx) []model.RenameResult {
	teams := tx.Teams()
	renames := Renumber(teams)
	putChanged(tx, teams, renames)
	return renames
}

func putChanged(tx *repository.Tx, teams []model.Team, changes []model.RenameResult) {
	changed := make(map[string]bool, len(changes))
	for _, c := range changes {
		changed[c.TeamID] = true
	}
	for _, t := range teams {
		if changed[t.ID] {
			tx.PutTeam(t)
		}
	}
}

func conflict(tx *repository.Tx, p model.Participant) error {
	other := *p.TeamID
	name := other
	if t, err := tx.Team(other); err == nil {
		name = t.Name
	}
	return &model.ConflictError{
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		TeamID:          other,
		TeamName:        name,
	}
}
