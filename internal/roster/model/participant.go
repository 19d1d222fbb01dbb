// Package model provides roster entities, error kinds and DTOs.
package model

import "time"

// Participant is an individual registrant. Exactly one of SeekingTeam,
// IsTeamLead and IsTeamMember is true, and TeamID is set iff the participant
// leads or belongs to a team.
type Participant struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	College         string     `json:"college"`
	ExperienceLevel string     `json:"experienceLevel"`
	ThemePreference string     `json:"themePreference"`
	SeekingTeam     bool       `json:"seekingTeam"`
	IsTeamLead      bool       `json:"isTeamLead"`
	IsTeamMember    bool       `json:"isTeamMember"`
	TeamID          *string    `json:"teamId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Role states of a participant.
const (
	RoleSeeking = "seeking"
	RoleLead    = "lead"
	RoleMember  = "member"
	RoleNone    = "none"
)

// Role returns the role state, or RoleNone when no flag is set.
func (p Participant) Role() string {
	switch {
	case p.IsTeamLead:
		return RoleLead
	case p.IsTeamMember:
		return RoleMember
	case p.SeekingTeam:
		return RoleSeeking
	default:
		return RoleNone
	}
}

// OnTeam reports whether the participant references a team.
func (p Participant) OnTeam() bool {
	return p.TeamID != nil && *p.TeamID != ""
}

// InTeam reports whether the participant references the given team.
func (p Participant) InTeam(teamID string) bool {
	return p.TeamID != nil && *p.TeamID == teamID
}

// MakeSeeking resets the participant to the seeking state with no team.
func (p *Participant) MakeSeeking() {
	p.SeekingTeam = true
	p.IsTeamLead = false
	p.IsTeamMember = false
	p.TeamID = nil
}

// MakeLead marks the participant as the leader of teamID.
func (p *Participant) MakeLead(teamID string) {
	p.SeekingTeam = false
	p.IsTeamLead = true
	p.IsTeamMember = false
	p.TeamID = &teamID
}

// MakeMember marks the participant as a non-lead member of teamID.
func (p *Participant) MakeMember(teamID string) {
	p.SeekingTeam = false
	p.IsTeamLead = false
	p.IsTeamMember = true
	p.TeamID = &teamID
}

// Clone returns a deep copy.
func (p Participant) Clone() Participant {
	if p.TeamID != nil {
		id := *p.TeamID
		p.TeamID = &id
	}
	if p.UpdatedAt != nil {
		at := *p.UpdatedAt
		p.UpdatedAt = &at
	}
	return p
}
