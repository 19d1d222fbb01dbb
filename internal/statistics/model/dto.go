// Package model provides data transfer objects for statistics module.
package model

import rostermodel "github.com/festy23/buildathon_roster/internal/roster/model"

// Roster is the data statistics are computed from.
type Roster struct {
	Participants []rostermodel.Participant
	Teams        []rostermodel.Team
	Checkins     rostermodel.Checkins
}

// Count is one labelled bucket of a breakdown.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RegistrationStatistics summarizes registrations.
type RegistrationStatistics struct {
	TotalRegistrants    int     `json:"total_registrants"`
	IndividualsSeeking  int     `json:"individuals_seeking"`
	Teams               int     `json:"teams"`
	TeamsSeekingMembers int     `json:"teams_seeking_members"`
	CompleteTeams       int     `json:"complete_teams"`
	TotalOpenSlots      int     `json:"total_open_slots"`
	CheckedIn           int     `json:"checked_in"`
	BySchool            []Count `json:"by_school"`
	ByTheme             []Count `json:"by_theme"`
	ByExperience        []Count `json:"by_experience"`
}

// RegistrationStatisticsResponse represents response for registration statistics.
type RegistrationStatisticsResponse struct {
	Statistics RegistrationStatistics `json:"statistics"`
}
