package csvimport

import (
	"strconv"
	"strings"
)

// defaultMemberSlots is how many member slots are probed on every team row,
// even when the team declared fewer additional members.
const defaultMemberSlots = 4

// slotToken is replaced with the slot number in member column patterns.
const slotToken = "{i}"

var memberNamePatterns = []string{
	"Full Name - Additional Team Member {i}",
	"Additional Team Member {i} - Full Name",
	"Full Name Additional Team Member {i}",
	"Team Member {i} Name",
	"Member {i} Name",
	"Additional Member {i} Name",
	"Team Member {i}",
}

var memberEmailPatterns = []string{
	"Email - Additional Team Member {i}",
	"Additional Team Member {i} - Email",
	"Email Additional Team Member {i}",
	"Team Member {i} Email",
	"Member {i} Email",
	"Additional Member {i} Email",
}

// matcher reports whether a normalized header text identifies a column.
type matcher func(header string) bool

func exact(texts ...string) matcher {
	want := make(map[string]bool, len(texts))
	for _, text := range texts {
		want[normalize(text)] = true
	}
	return func(header string) bool {
		return want[header]
	}
}

func containsAll(parts ...string) matcher {
	return func(header string) bool {
		for _, part := range parts {
			if !strings.Contains(header, normalize(part)) {
				return false
			}
		}
		return true
	}
}

func excluding(m matcher, parts ...string) matcher {
	return func(header string) bool {
		for _, part := range parts {
			if strings.Contains(header, normalize(part)) {
				return false
			}
		}
		return m(header)
	}
}

// normalize lowercases s and collapses runs of whitespace, so that survey
// headers with stray spaces still match.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Columns maps survey fields to column indexes. An index of -1 means the
// column is not present in the export.
type Columns struct {
	FullName             int
	RegistrationType     int
	Email                int
	College              int
	IndividualExperience int
	IndividualTheme      int
	TeamExperience       int
	TeamTheme            int
	SeekingMembers       int
	SlotsNeeded          int
	DeclaredMemberCount  int

	header        []string
	namePatterns  []string
	emailPatterns []string
	memberName    map[int]int
	memberEmail   map[int]int
	maxSlot       int
}

// ResolveColumns locates every known survey field in header. Matchers are
// tried in priority order and the first matching column wins.
func ResolveColumns(header []string, aliases *Aliases) *Columns {
	if aliases == nil {
		aliases = &Aliases{}
	}

	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalize(h)
	}

	c := &Columns{
		header:        normalized,
		namePatterns:  append(append([]string{}, aliases.MemberNamePatterns...), memberNamePatterns...),
		emailPatterns: append(append([]string{}, aliases.MemberEmailPatterns...), memberEmailPatterns...),
		memberName:    make(map[int]int),
		memberEmail:   make(map[int]int),
	}

	c.FullName = c.find(
		exact(aliases.FullName...),
		exact("Full Name"),
		excluding(containsAll("full name"), "member"),
	)
	c.RegistrationType = c.find(
		exact(aliases.RegistrationType...),
		exact("Are you registering as an individual or as a team?"),
		containsAll("are you registering"),
	)
	c.Email = c.find(
		exact(aliases.Email...),
		exact("Email Address (please use your college's .edu email)"),
		excluding(containsAll("email address"), "member"),
		excluding(containsAll("email"), "member"),
	)
	c.College = c.find(
		exact(aliases.College...),
		exact("College"),
		excluding(containsAll("college"), "email", "member"),
	)
	c.IndividualExperience = c.find(
		exact(aliases.IndividualExperience...),
		exact("AI Experience Level"),
		containsAll("ai experience level"),
	)
	c.IndividualTheme = c.find(
		exact(aliases.IndividualTheme...),
		exact("Which theme(s) are you most interested in? (We'll use this for team matching)"),
		containsAll("most interested in"),
	)
	c.TeamExperience = c.find(
		exact(aliases.TeamExperience...),
		exact("What is your team's collective experience with AI? (Select all that apply)"),
		containsAll("collective experience"),
	)
	c.TeamTheme = c.find(
		exact(aliases.TeamTheme...),
		exact("Which theme(s) is your team interested in?"),
		containsAll("team interested in"),
	)
	c.SeekingMembers = c.find(
		exact(aliases.SeekingMembers...),
		exact("Does your team need any additional members?"),
		containsAll("need any additional members"),
	)
	c.SlotsNeeded = c.find(
		exact(aliases.SlotsNeeded...),
		exact("How many more team members do you want to be matched with?"),
		containsAll("how many more team members"),
	)
	c.DeclaredMemberCount = c.find(
		exact(aliases.DeclaredMemberCount...),
		containsAll("how many additional team members", "not including yourself"),
		containsAll("how many additional"),
	)

	for slot := 1; slot <= defaultMemberSlots; slot++ {
		c.MemberName(slot)
		c.MemberEmail(slot)
	}
	c.maxSlot = c.highestMemberSlot()
	return c
}

// maxSlotDigits bounds the numbers taken from headers as member slot candidates.
const maxSlotDigits = 4

// highestMemberSlot returns the largest slot number that has a member name
// column. Slot numbers can only come from numbers written in the header.
func (c *Columns) highestMemberSlot() int {
	highest := 0
	for slot := 1; slot <= defaultMemberSlots; slot++ {
		if c.memberName[slot] >= 0 {
			highest = slot
		}
	}
	for _, h := range c.header {
		for i := 0; i < len(h); {
			if h[i] < '0' || h[i] > '9' {
				i++
				continue
			}
			end := i
			for end < len(h) && h[end] >= '0' && h[end] <= '9' {
				end++
			}
			if end-i <= maxSlotDigits {
				if slot, err := strconv.Atoi(h[i:end]); err == nil && slot > highest && c.MemberName(slot) >= 0 {
					highest = slot
				}
			}
			i = end
		}
	}
	return highest
}

// MaxMemberSlot returns the highest member slot with a name column, or 0.
func (c *Columns) MaxMemberSlot() int {
	return c.maxSlot
}

func (c *Columns) find(matchers ...matcher) int {
	for _, m := range matchers {
		for i, h := range c.header {
			if m(h) {
				return i
			}
		}
	}
	return -1
}

// MemberName returns the column holding the name of additional member slot,
// or -1. Results are cached per slot.
func (c *Columns) MemberName(slot int) int {
	if col, ok := c.memberName[slot]; ok {
		return col
	}
	col := c.findSlot(slot, c.namePatterns, "name", "email")
	c.memberName[slot] = col
	return col
}

// MemberEmail returns the column holding the email of additional member slot,
// or -1.
func (c *Columns) MemberEmail(slot int) int {
	if col, ok := c.memberEmail[slot]; ok {
		return col
	}
	col := c.findSlot(slot, c.emailPatterns, "email", "")
	c.memberEmail[slot] = col
	return col
}

// findSlot tries the slot patterns in order, then falls back to any header
// mentioning "member N" together with keyword. A slot number only matches
// when it is not followed by another digit, so member 1 never resolves to a
// member 10 column.
func (c *Columns) findSlot(slot int, patterns []string, keyword, exclude string) int {
	n := strconv.Itoa(slot)
	usable := func(h string) bool {
		if exclude != "" && strings.Contains(h, exclude) {
			return false
		}
		return keyword != "email" || strings.Contains(h, "email")
	}

	for _, pattern := range patterns {
		p := normalize(strings.ReplaceAll(pattern, slotToken, n))
		for i, h := range c.header {
			if usable(h) && containsBounded(h, p) {
				return i
			}
		}
	}

	fallback := "member " + n
	for i, h := range c.header {
		if usable(h) && strings.Contains(h, keyword) && containsBounded(h, fallback) {
			return i
		}
	}
	return -1
}

// containsBounded reports whether s contains sub at a position not directly
// followed by a digit.
func containsBounded(s, sub string) bool {
	for offset := 0; offset <= len(s)-len(sub); {
		idx := strings.Index(s[offset:], sub)
		if idx < 0 {
			return false
		}
		end := offset + idx + len(sub)
		if end == len(s) || s[end] < '0' || s[end] > '9' {
			return true
		}
		offset += idx + 1
	}
	return false
}

// Missing lists the well-known fields that could not be located.
func (c *Columns) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name string
		col  int
	}{
		{"full name", c.FullName},
		{"registration type", c.RegistrationType},
		{"email", c.Email},
		{"college", c.College},
		{"declared member count", c.DeclaredMemberCount},
	} {
		if f.col < 0 {
			missing = append(missing, f.name)
		}
	}
	return missing
}
