package model

import "fmt"

// Violation kinds reported by CheckConsistency.
const (
	ViolationRoleFlags       = "role-flags"
	ViolationTeamRef         = "team-ref"
	ViolationDuplicateMember = "duplicate-member"
	ViolationLeaderMissing   = "leader-not-member"
	ViolationMemberRef       = "member-ref"
	ViolationLeaderFlag      = "leader-flag"
)

// Violation describes one broken roster invariant.
type Violation struct {
	Kind          string `json:"kind"`
	ParticipantID string `json:"participantId,omitempty"`
	TeamID        string `json:"teamId,omitempty"`
	Message       string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// CheckConsistency reports every participant/team invariant broken by the
// given collections. An empty result means the roster is consistent.
func CheckConsistency(participants []Participant, teams []Team) []Violation {
	var out []Violation

	byID := make(map[string]Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	teamByID := make(map[string]Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	for _, p := range participants {
		flags := 0
		for _, f := range []bool{p.SeekingTeam, p.IsTeamLead, p.IsTeamMember} {
			if f {
				flags++
			}
		}
		if flags > 1 {
			out = append(out, Violation{
				Kind:          ViolationRoleFlags,
				ParticipantID: p.ID,
				Message:       fmt.Sprintf("participant %s has %d role flags set", p.ID, flags),
			})
		}

		onTeamRole := p.IsTeamLead || p.IsTeamMember
		switch {
		case onTeamRole && !p.OnTeam():
			out = append(out, Violation{
				Kind:          ViolationTeamRef,
				ParticipantID: p.ID,
				Message:       fmt.Sprintf("participant %s is flagged %s but has no team", p.ID, p.Role()),
			})
		case !onTeamRole && p.OnTeam():
			out = append(out, Violation{
				Kind:          ViolationTeamRef,
				ParticipantID: p.ID,
				TeamID:        *p.TeamID,
				Message:       fmt.Sprintf("participant %s references team %s without a team role", p.ID, *p.TeamID),
			})
		case p.OnTeam():
			t, ok := teamByID[*p.TeamID]
			if !ok {
				out = append(out, Violation{
					Kind:          ViolationTeamRef,
					ParticipantID: p.ID,
					TeamID:        *p.TeamID,
					Message:       fmt.Sprintf("participant %s references missing team %s", p.ID, *p.TeamID),
				})
			} else if p.IsTeamLead && t.LeaderID != p.ID {
				out = append(out, Violation{
					Kind:          ViolationLeaderFlag,
					ParticipantID: p.ID,
					TeamID:        t.ID,
					Message:       fmt.Sprintf("participant %s is flagged lead but %s is led by %s", p.ID, t.Name, t.LeaderID),
				})
			}
		}
	}

	for _, t := range teams {
		seen := make(map[string]bool, len(t.Members))
		for _, id := range t.Members {
			if seen[id] {
				out = append(out, Violation{
					Kind:          ViolationDuplicateMember,
					ParticipantID: id,
					TeamID:        t.ID,
					Message:       fmt.Sprintf("%s lists %s more than once", t.Name, id),
				})
				continue
			}
			seen[id] = true

			p, ok := byID[id]
			if !ok || !p.InTeam(t.ID) {
				out = append(out, Violation{
					Kind:          ViolationMemberRef,
					ParticipantID: id,
					TeamID:        t.ID,
					Message:       fmt.Sprintf("%s lists %s, whose record does not point back to it", t.Name, id),
				})
			}
		}

		if !seen[t.LeaderID] {
			out = append(out, Violation{
				Kind:          ViolationLeaderMissing,
				ParticipantID: t.LeaderID,
				TeamID:        t.ID,
				Message:       fmt.Sprintf("%s leader %s is not among its members", t.Name, t.LeaderID),
			})
		}
		if leader, ok := byID[t.LeaderID]; ok && !leader.IsTeamLead {
			out = append(out, Violation{
				Kind:          ViolationLeaderFlag,
				ParticipantID: t.LeaderID,
				TeamID:        t.ID,
				Message:       fmt.Sprintf("%s leader %s is not flagged as a lead", t.Name, t.LeaderID),
			})
		}
	}

	return out
}
