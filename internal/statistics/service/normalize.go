package service

import "strings"

const unknownLabel = "Unknown"

// themeLabels maps a fragment of a survey theme answer to its chart label.
// The first matching fragment wins.
var themeLabels = []struct {
	fragment string
	label    string
}{
	{"AI-Powered Smart Living", "AI-Powered Smart Living"},
	{"AI-Powered Biomedical", "AI-Powered Biomedical"},
	{"Entrepreneurial AI", "Entrepreneurial AI"},
	{"Open to any", "Open to any theme"},
	{"still deciding", "Still deciding"},
}

var experienceLevels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

// collectiveExperience maps a team's "select all that apply" experience
// answers to individual levels.
var collectiveExperience = []struct {
	fragment string
	label    string
}{
	{"Using AI tools", "Beginner"},
	{"Implementing AI solutions", "Intermediate"},
	{"Building/modifying AI models", "Advanced"},
	{"No prior AI experience", "No Experience"},
}

// NormalizeTheme collapses a free-text theme answer to its chart label.
// Unrecognized answers are kept as given.
func NormalizeTheme(theme string) string {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return unknownLabel
	}
	for _, t := range themeLabels {
		if strings.Contains(theme, t.fragment) {
			return t.label
		}
	}
	return theme
}

// NormalizeExperience collapses an individual's experience answer to a level.
func NormalizeExperience(exp string) string {
	exp = strings.TrimSpace(exp)
	if exp == "" {
		return unknownLabel
	}
	for _, level := range experienceLevels {
		if strings.Contains(exp, level) {
			return level
		}
	}
	return exp
}

// TeamExperienceLevels returns every level named by a team's collective
// experience answer. Answers already using level names are accepted too.
func TeamExperienceLevels(exp string) []string {
	var levels []string
	for _, c := range collectiveExperience {
		if strings.Contains(exp, c.fragment) {
			levels = append(levels, c.label)
		}
	}
	if len(levels) > 0 {
		return levels
	}
	for _, level := range experienceLevels {
		if strings.Contains(exp, level) {
			levels = append(levels, level)
		}
	}
	if len(levels) == 0 {
		return []string{unknownLabel}
	}
	return levels
}
