package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/festy23/buildathon_roster/internal/roster/model"
)

// Diagnostics are data-quality counters gathered during an import. They do
// not fail the import.
type Diagnostics struct {
	TotalRowsProcessed        int           `json:"totalRowsProcessed"`
	SkippedRows               int           `json:"skippedRows"`
	Individuals               int           `json:"individuals"`
	TeamLeads                 int           `json:"teamLeads"`
	DeclaredAdditionalMembers int           `json:"declaredAdditionalMembers"`
	ActualMembersCreated      int           `json:"actualMembersCreated"`
	MissingMemberNames        int           `json:"missingMemberNames"`
	Participants              int           `json:"participants"`
	ExpectedRegistrants       int           `json:"expectedRegistrants"`
	MissingColumns            []string      `json:"missingColumns,omitempty"`
	Discrepancies             []Discrepancy `json:"discrepancies,omitempty"`
}

// Discrepancy describes a team whose named members do not match the count it
// declared.
type Discrepancy struct {
	Row                int    `json:"row"`
	TeamName           string `json:"teamName"`
	LeaderName         string `json:"leaderName"`
	DeclaredMembers    int    `json:"declaredMembers"`
	CreatedMembers     int    `json:"createdMembers"`
	MissingMemberNames int    `json:"missingMemberNames"`
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s (%s) declared %d additional members, %d named, %d blank",
		d.TeamName, d.LeaderName, d.DeclaredMembers, d.CreatedMembers, d.MissingMemberNames)
}

// Result is the outcome of reconciling a survey table.
type Result struct {
	Participants []model.Participant `json:"participants"`
	Teams        []model.Team        `json:"teams"`
	Diagnostics  Diagnostics         `json:"diagnostics"`
}

// Reconcile converts every survey record into participants and teams. Rows
// with a blank full name are skipped. A row registers a team when its
// registration type mentions "team"; the respondent leads it and each named
// member slot becomes a member sharing the team's details.
func Reconcile(table *Table, cols *Columns, now time.Time, newID func() string) (*Result, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if cols.FullName < 0 {
		return nil, &model.ValidationError{Field: "csv", Reason: "no Full Name column"}
	}

	result := &Result{
		Participants: []model.Participant{},
		Teams:        []model.Team{},
	}
	diag := &result.Diagnostics
	diag.MissingColumns = cols.Missing()

	for i, record := range table.Records {
		name := strings.TrimSpace(table.Value(record, cols.FullName))
		if name == "" {
			diag.SkippedRows++
			continue
		}
		diag.TotalRowsProcessed++

		if strings.Contains(table.Value(record, cols.RegistrationType), "team") {
			reconcileTeam(result, table, cols, record, i+1, name, now, newID)
			continue
		}

		diag.Individuals++
		result.Participants = append(result.Participants, model.Participant{
			ID:              newID(),
			Name:            name,
			Email:           field(table, record, cols.Email),
			College:         field(table, record, cols.College),
			ExperienceLevel: field(table, record, cols.IndividualExperience),
			ThemePreference: field(table, record, cols.IndividualTheme),
			SeekingTeam:     true,
			CreatedAt:       now,
		})
	}

	diag.Participants = len(result.Participants)
	diag.ExpectedRegistrants = diag.Individuals + diag.TeamLeads + diag.DeclaredAdditionalMembers
	return result, nil
}

func reconcileTeam(result *Result, table *Table, cols *Columns, record []string, row int, leaderName string, now time.Time, newID func() string) {
	diag := &result.Diagnostics
	diag.TeamLeads++

	teamID := newID()
	college := field(table, record, cols.College)
	experience := field(table, record, cols.TeamExperience)
	theme := field(table, record, cols.TeamTheme)

	leader := model.Participant{
		ID:              newID(),
		Name:            leaderName,
		Email:           field(table, record, cols.Email),
		College:         college,
		ExperienceLevel: experience,
		ThemePreference: theme,
		CreatedAt:       now,
	}
	leader.MakeLead(teamID)

	team := model.Team{
		ID:              teamID,
		Name:            fmt.Sprintf("Team %d", len(result.Teams)+1),
		LeaderID:        leader.ID,
		LeaderName:      leaderName,
		Members:         []string{leader.ID},
		College:         college,
		ThemePreference: theme,
		ExperienceLevel: experience,
		SeekingMembers:  strings.Contains(table.Value(record, cols.SeekingMembers), "Yes"),
		SlotsNeeded:     parseCount(table.Value(record, cols.SlotsNeeded)),
		CreatedAt:       now,
	}
	result.Participants = append(result.Participants, leader)

	declared := parseCount(table.Value(record, cols.DeclaredMemberCount))
	diag.DeclaredAdditionalMembers += declared

	// Slots past the last member column can only be blank.
	probe := max(defaultMemberSlots, min(declared, cols.MaxMemberSlot()))
	created, missing := 0, 0
	if declared > probe {
		missing = declared - probe
	}
	for slot := 1; slot <= probe; slot++ {
		memberName := strings.TrimSpace(table.Value(record, cols.MemberName(slot)))
		if memberName == "" {
			if slot <= declared {
				missing++
			}
			continue
		}

		member := model.Participant{
			ID:              newID(),
			Name:            memberName,
			Email:           field(table, record, cols.MemberEmail(slot)),
			College:         college,
			ExperienceLevel: experience,
			ThemePreference: theme,
			CreatedAt:       now,
		}
		member.MakeMember(teamID)
		team.AddMember(member.ID)
		result.Participants = append(result.Participants, member)
		created++
	}

	diag.ActualMembersCreated += created
	diag.MissingMemberNames += missing
	if created != declared || missing > 0 {
		diag.Discrepancies = append(diag.Discrepancies, Discrepancy{
			Row:                row,
			TeamName:           team.Name,
			LeaderName:         leaderName,
			DeclaredMembers:    declared,
			CreatedMembers:     created,
			MissingMemberNames: missing,
		})
	}
	result.Teams = append(result.Teams, team)
}

func field(table *Table, record []string, col int) string {
	return strings.TrimSpace(table.Value(record, col))
}

// parseCount reads the leading integer of s, as in "2 members". Anything
// unparsable or negative counts as zero.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
