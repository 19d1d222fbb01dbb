package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/festy23/buildathon_roster/internal/roster/model"
	"github.com/festy23/buildathon_roster/internal/storage"
)

func newID() string {
	return uuid.NewString()
}

// Tx is an in-memory view of the roster inside Repository.Transaction.
// Getters return copies; changes take effect through the Put/Add/Delete methods.
type Tx struct {
	clock clockwork.Clock
	newID func() string

	participants []model.Participant
	teams        []model.Team
	checkins     model.Checkins

	dirty map[string]bool
}

// Now returns the current time of the repository clock in UTC.
func (tx *Tx) Now() time.Time {
	return tx.clock.Now().UTC()
}

func (tx *Tx) touch(key string) {
	tx.dirty[key] = true
}

// Participants returns a copy of every participant in stored order.
func (tx *Tx) Participants() []model.Participant {
	out := make([]model.Participant, len(tx.participants))
	for i, p := range tx.participants {
		out[i] = p.Clone()
	}
	return out
}

func (tx *Tx) participantIndex(id string) int {
	for i := range tx.participants {
		if tx.participants[i].ID == id {
			return i
		}
	}
	return -1
}

// Participant returns the participant with id.
func (tx *Tx) Participant(id string) (model.Participant, error) {
	i := tx.participantIndex(id)
	if i < 0 {
		return model.Participant{}, model.ErrParticipantNotFound
	}
	return tx.participants[i].Clone(), nil
}

// AddParticipant creates a participant. SeekingTeam defaults to true and a
// lead or member flag clears it.
func (tx *Tx) AddParticipant(in model.NewParticipant) (model.Participant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Participant{}, model.ErrInvalidParticipant
	}

	p := model.Participant{
		ID:              tx.newID(),
		Name:            in.Name,
		Email:           in.Email,
		College:         in.College,
		ExperienceLevel: in.ExperienceLevel,
		ThemePreference: in.ThemePreference,
		SeekingTeam:     true,
		CreatedAt:       tx.Now(),
	}
	if in.SeekingTeam != nil {
		p.SeekingTeam = *in.SeekingTeam
	}

	switch {
	case in.IsTeamLead && in.TeamID != nil:
		p.MakeLead(*in.TeamID)
	case in.IsTeamMember && in.TeamID != nil:
		p.MakeMember(*in.TeamID)
	case in.IsTeamLead || in.IsTeamMember:
		return model.Participant{}, model.ErrInvalidParticipant
	}

	tx.participants = append(tx.participants, p)
	tx.touch(storage.KeyParticipants)
	return p.Clone(), nil
}

// UpdateParticipant applies patch. Setting one role flag to true clears the
// other two, with lead taking precedence over member over seeking.
func (tx *Tx) UpdateParticipant(id string, patch model.ParticipantPatch) (model.Participant, error) {
	i := tx.participantIndex(id)
	if i < 0 {
		return model.Participant{}, model.ErrParticipantNotFound
	}
	p := tx.participants[i]

	setString(&p.Name, patch.Name)
	setString(&p.Email, patch.Email)
	setString(&p.College, patch.College)
	setString(&p.ExperienceLevel, patch.ExperienceLevel)
	setString(&p.ThemePreference, patch.ThemePreference)
	if strings.TrimSpace(p.Name) == "" {
		return model.Participant{}, model.ErrInvalidParticipant
	}

	switch {
	case isTrue(patch.IsTeamLead):
		p.SeekingTeam, p.IsTeamLead, p.IsTeamMember = false, true, false
	case isTrue(patch.IsTeamMember):
		p.SeekingTeam, p.IsTeamLead, p.IsTeamMember = false, false, true
	case isTrue(patch.SeekingTeam):
		p.SeekingTeam, p.IsTeamLead, p.IsTeamMember = true, false, false
	default:
		setBool(&p.SeekingTeam, patch.SeekingTeam)
		setBool(&p.IsTeamLead, patch.IsTeamLead)
		setBool(&p.IsTeamMember, patch.IsTeamMember)
	}

	tx.PutParticipant(p)
	return tx.participants[i].Clone(), nil
}

// PutParticipant replaces the stored participant with the same id and stamps
// UpdatedAt.
func (tx *Tx) PutParticipant(p model.Participant) {
	i := tx.participantIndex(p.ID)
	if i < 0 {
		return
	}
	now := tx.Now()
	p = p.Clone()
	p.UpdatedAt = &now
	tx.participants[i] = p
	tx.touch(storage.KeyParticipants)
}

// DeleteParticipant removes the participant record only.
func (tx *Tx) DeleteParticipant(id string) error {
	i := tx.participantIndex(id)
	if i < 0 {
		return model.ErrParticipantNotFound
	}
	tx.participants = append(tx.participants[:i], tx.participants[i+1:]...)
	tx.touch(storage.KeyParticipants)
	return nil
}

// Teams returns a copy of every team in stored order.
func (tx *Tx) Teams() []model.Team {
	out := make([]model.Team, len(tx.teams))
	for i, t := range tx.teams {
		out[i] = t.Clone()
	}
	return out
}

func (tx *Tx) teamIndex(id string) int {
	for i := range tx.teams {
		if tx.teams[i].ID == id {
			return i
		}
	}
	return -1
}

// Team returns the team with id.
func (tx *Tx) Team(id string) (model.Team, error) {
	i := tx.teamIndex(id)
	if i < 0 {
		return model.Team{}, model.ErrTeamNotFound
	}
	return tx.teams[i].Clone(), nil
}

// AddTeam stores t with a fresh id and creation time. Members is initialised
// to an empty list when nil.
func (tx *Tx) AddTeam(t model.Team) model.Team {
	t = t.Clone()
	t.ID = tx.newID()
	t.CreatedAt = tx.Now()
	t.UpdatedAt = nil
	tx.teams = append(tx.teams, t)
	tx.touch(storage.KeyTeams)
	return t.Clone()
}

// PutTeam replaces the stored team with the same id and stamps UpdatedAt.
func (tx *Tx) PutTeam(t model.Team) {
	i := tx.teamIndex(t.ID)
	if i < 0 {
		return
	}
	now := tx.Now()
	t = t.Clone()
	t.UpdatedAt = &now
	tx.teams[i] = t
	tx.touch(storage.KeyTeams)
}

// DeleteTeam removes the team record only.
func (tx *Tx) DeleteTeam(id string) error {
	i := tx.teamIndex(id)
	if i < 0 {
		return model.ErrTeamNotFound
	}
	tx.teams = append(tx.teams[:i], tx.teams[i+1:]...)
	tx.touch(storage.KeyTeams)
	return nil
}

// Checkins returns a copy of the check-in index.
func (tx *Tx) Checkins() model.Checkins {
	return tx.checkins.Clone()
}

// CheckIn records the participant as checked in now. The participant must exist.
func (tx *Tx) CheckIn(participantID string) (time.Time, error) {
	if tx.participantIndex(participantID) < 0 {
		return time.Time{}, model.ErrParticipantNotFound
	}
	at := tx.Now()
	tx.checkins[participantID] = at
	tx.touch(storage.KeyCheckins)
	return at, nil
}

// RemoveCheckin clears the participant's check-in.
func (tx *Tx) RemoveCheckin(participantID string) error {
	if _, ok := tx.checkins[participantID]; !ok {
		return model.ErrCheckinNotFound
	}
	delete(tx.checkins, participantID)
	tx.touch(storage.KeyCheckins)
	return nil
}

// ReplaceAll overwrites all three collections.
func (tx *Tx) ReplaceAll(participants []model.Participant, teams []model.Team, checkins model.Checkins) {
	tx.participants = make([]model.Participant, len(participants))
	for i, p := range participants {
		tx.participants[i] = p.Clone()
	}
	tx.teams = make([]model.Team, len(teams))
	for i, t := range teams {
		tx.teams[i] = t.Clone()
	}
	if checkins == nil {
		checkins = model.Checkins{}
	}
	tx.checkins = checkins.Clone()

	tx.touch(storage.KeyParticipants)
	tx.touch(storage.KeyTeams)
	tx.touch(storage.KeyCheckins)
}

// NewID returns a fresh entity id.
func (tx *Tx) NewID() string {
	return tx.newID()
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func isTrue(v *bool) bool {
	return v != nil && *v
}
