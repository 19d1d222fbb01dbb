package csvimport

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Aliases lists extra header texts for survey columns, for form revisions
// whose questions were reworded. Member patterns contain "{i}" for the slot
// number.
type Aliases struct {
	FullName             []string `yaml:"full_name"`
	RegistrationType     []string `yaml:"registration_type"`
	Email                []string `yaml:"email"`
	College              []string `yaml:"college"`
	IndividualExperience []string `yaml:"individual_experience"`
	IndividualTheme      []string `yaml:"individual_theme"`
	TeamExperience       []string `yaml:"team_experience"`
	TeamTheme            []string `yaml:"team_theme"`
	SeekingMembers       []string `yaml:"seeking_members"`
	SlotsNeeded          []string `yaml:"slots_needed"`
	DeclaredMemberCount  []string `yaml:"declared_member_count"`
	MemberNamePatterns   []string `yaml:"member_name_patterns"`
	MemberEmailPatterns  []string `yaml:"member_email_patterns"`
}

// LoadAliases reads an alias file. An empty path returns nil aliases.
func LoadAliases(path string) (*Aliases, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column aliases: %w", err)
	}

	var aliases Aliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse column aliases %s: %w", path, err)
	}
	return &aliases, nil
}
