package model

// NewParticipant holds the fields supplied when a participant is created.
// SeekingTeam defaults to true when nil.
type NewParticipant struct {
	Name            string
	Email           string
	College         string
	ExperienceLevel string
	ThemePreference string
	SeekingTeam     *bool
	IsTeamLead      bool
	IsTeamMember    bool
	TeamID          *string
}

// ParticipantPatch holds optional participant field updates. Role flags set
// to true clear the other two.
type ParticipantPatch struct {
	Name            *string
	Email           *string
	College         *string
	ExperienceLevel *string
	ThemePreference *string
	SeekingTeam     *bool
	IsTeamLead      *bool
	IsTeamMember    *bool
}

// NewTeam holds the fields supplied when a team is created.
type NewTeam struct {
	LeaderID        string
	MemberIDs       []string
	College         string
	ThemePreference string
	ExperienceLevel string
	SeekingMembers  bool
	SlotsNeeded     int
}

// RecruitmentUpdate holds the team fields editable after creation.
type RecruitmentUpdate struct {
	SeekingMembers *bool
	SlotsNeeded    *int
}

// AddMemberStatus describes the result of adding a member.
type AddMemberStatus string

// AddMember statuses.
const (
	StatusAdded         AddMemberStatus = "added"
	StatusAlreadyInTeam AddMemberStatus = "already-in-team"
)

// AddMemberResult is returned by AddMemberToTeam.
type AddMemberResult struct {
	Status      AddMemberStatus `json:"status"`
	Team        Team            `json:"team"`
	Participant Participant     `json:"participant"`
}

// RemoveMemberResult is returned by RemoveMemberFromTeam.
type RemoveMemberResult struct {
	Team        Team        `json:"team"`
	Participant Participant `json:"participant"`
}

// ChangeLeadResult is returned by ChangeTeamLead.
type ChangeLeadResult struct {
	Team           Team         `json:"team"`
	PreviousLeader *Participant `json:"previousLeader,omitempty"`
	NewLeader      Participant  `json:"newLeader"`
}

// DeleteTeamResult is returned by DeleteTeam: the removed team and the
// participants that were reset to seeking.
type DeleteTeamResult struct {
	Team         Team          `json:"team"`
	Participants []Participant `json:"participants"`
}

// RenameResult records a team whose display name changed.
type RenameResult struct {
	TeamID  string `json:"teamId"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}
