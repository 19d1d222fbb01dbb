package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/festy23/buildathon_roster/internal/roster/model"
)

const legacyNameSuffix = "'s Team"

// TeamNumber extracts the display number from a team name by concatenating
// its digits. Names without digits number 0.
func TeamNumber(name string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// TeamName returns the display name for rank n.
func TeamName(n int) string {
	return fmt.Sprintf("Team %d", n)
}

// Renumber orders teams by (TeamNumber(name), CreatedAt) and renames every
// team whose number differs from its 1-based rank. teams is modified in
// place; the renames are returned in rank order. Applying Renumber to its
// own output changes nothing.
func Renumber(teams []model.Team) []model.RenameResult {
	order := make([]int, len(teams))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := teams[order[a]], teams[order[b]]
		na, nb := TeamNumber(ta.Name), TeamNumber(tb.Name)
		if na != nb {
			return na < nb
		}
		return ta.CreatedAt.Before(tb.CreatedAt)
	})

	var renames []model.RenameResult
	for rank, i := range order {
		want := rank + 1
		if TeamNumber(teams[i].Name) == want {
			continue
		}
		renames = append(renames, model.RenameResult{
			TeamID:  teams[i].ID,
			OldName: teams[i].Name,
			NewName: TeamName(want),
		})
		teams[i].Name = TeamName(want)
	}
	return renames
}

// MigrateNames rewrites legacy "<leader>'s Team" names to "Team <position>",
// keeping the leader's name in LeaderName, and backfills a missing LeaderName
// from participants. teams is modified in place. A result with equal old and
// new names records a LeaderName backfill.
func MigrateNames(teams []model.Team, participants []model.Participant) []model.RenameResult {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	var changes []model.RenameResult
	for i := range teams {
		t := &teams[i]
		oldName := t.Name
		changed := false

		if strings.Contains(t.Name, legacyNameSuffix) {
			t.LeaderName = strings.Replace(t.Name, legacyNameSuffix, "", 1)
			t.Name = TeamName(i + 1)
			changed = true
		}
		if t.LeaderName == "" && t.LeaderID != "" {
			if name, ok := names[t.LeaderID]; ok {
				t.LeaderName = name
				changed = true
			}
		}

		if changed {
			changes = append(changes, model.RenameResult{TeamID: t.ID, OldName: oldName, NewName: t.Name})
		}
	}
	return changes
}
