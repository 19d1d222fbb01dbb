// Package service provides business logic layer for statistics module.
package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/statistics/model"
	"github.com/festy23/buildathon_roster/internal/statistics/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// GetRegistrationStatistics returns registration totals and breakdowns.
	GetRegistrationStatistics(ctx context.Context) (*model.RegistrationStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

// GetRegistrationStatistics returns registration totals and breakdowns.
func (s *service) GetRegistrationStatistics(ctx context.Context) (*model.RegistrationStatisticsResponse, error) {
	s.logger.Debugw("GetRegistrationStatistics called")

	roster, err := s.repo.GetRoster(ctx)
	if err != nil {
		s.logger.Errorw("GetRegistrationStatistics failed", "error", err)
		return nil, err
	}

	stats := Calculate(roster)

	s.logger.Infow("GetRegistrationStatistics completed",
		"total_registrants", stats.TotalRegistrants,
		"teams", stats.Teams,
	)
	return &model.RegistrationStatisticsResponse{
		Statistics: stats,
	}, nil
}

// Calculate computes statistics for roster. Team participants are counted
// under every level their team's collective experience names.
func Calculate(roster *model.Roster) model.RegistrationStatistics {
	var stats model.RegistrationStatistics
	schools := make(map[string]int)
	themes := make(map[string]int)
	experience := make(map[string]int)

	for _, p := range roster.Participants {
		stats.TotalRegistrants++
		if p.SeekingTeam {
			stats.IndividualsSeeking++
		}
		if _, ok := roster.Checkins[p.ID]; ok {
			stats.CheckedIn++
		}

		school := strings.TrimSpace(p.College)
		if school == "" {
			school = unknownLabel
		}
		schools[school]++
		themes[NormalizeTheme(p.ThemePreference)]++

		if p.OnTeam() {
			for _, level := range TeamExperienceLevels(p.ExperienceLevel) {
				experience[level]++
			}
		} else {
			experience[NormalizeExperience(p.ExperienceLevel)]++
		}
	}

	for _, t := range roster.Teams {
		stats.Teams++
		if t.SeekingMembers {
			stats.TeamsSeekingMembers++
			stats.TotalOpenSlots += t.SlotsNeeded
		} else {
			stats.CompleteTeams++
		}
	}

	stats.BySchool = sortedCounts(schools)
	stats.ByTheme = sortedCounts(themes)
	stats.ByExperience = sortedCounts(experience)
	return stats
}

// sortedCounts orders buckets by count descending, then label.
func sortedCounts(m map[string]int) []model.Count {
	counts := make([]model.Count, 0, len(m))
	for label, n := range m {
		counts = append(counts, model.Count{Label: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}
