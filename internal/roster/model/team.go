package model

import (
	"slices"
	"time"
)

// Team is a group with exactly one leader. Members is duplicate-free and
// always contains LeaderID.
type Team struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	LeaderID        string     `json:"leaderId"`
	LeaderName      string     `json:"leaderName"`
	Members         []string   `json:"members"`
	College         string     `json:"college"`
	ThemePreference string     `json:"themePreference"`
	ExperienceLevel string     `json:"experienceLevel"`
	SeekingMembers  bool       `json:"seekingMembers"`
	SlotsNeeded     int        `json:"slotsNeeded"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// HasMember reports whether id is listed in Members.
func (t Team) HasMember(id string) bool {
	return slices.Contains(t.Members, id)
}

// AddMember appends id unless already present.
func (t *Team) AddMember(id string) {
	if !t.HasMember(id) {
		t.Members = append(t.Members, id)
	}
}

// RemoveMember drops id from Members.
func (t *Team) RemoveMember(id string) {
	t.Members = slices.DeleteFunc(t.Members, func(m string) bool { return m == id })
}

// Clone returns a deep copy.
func (t Team) Clone() Team {
	t.Members = append([]string{}, t.Members...)
	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		t.UpdatedAt = &at
	}
	return t
}

// Checkins maps participant ids to their check-in time.
type Checkins map[string]time.Time

// Clone returns a copy of the index.
func (c Checkins) Clone() Checkins {
	out := make(Checkins, len(c))
	for id, at := range c {
		out[id] = at
	}
	return out
}
