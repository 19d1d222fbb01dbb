package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every roster error matches exactly one of them with errors.Is.
var (
	// ErrNotFound indicates a referenced participant, team or check-in does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the operation clashes with current team membership.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
)

var (
	// ErrParticipantNotFound indicates that the requested participant does not exist.
	ErrParticipantNotFound = kindError(ErrNotFound, "participant not found")
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = kindError(ErrNotFound, "team not found")
	// ErrCheckinNotFound indicates that the participant is not checked in.
	ErrCheckinNotFound = kindError(ErrNotFound, "check-in not found")
	// ErrNotTeamMember indicates that the participant is not listed in the team's members.
	ErrNotTeamMember = kindError(ErrNotFound, "participant is not a member of the team")
	// ErrLeaderRemoval indicates an attempt to remove a team's leader from its members.
	ErrLeaderRemoval = kindError(ErrConflict, "cannot remove the team leader; change the lead or delete the team")
	// ErrInvalidParticipant indicates participant input failed validation (e.g., empty name).
	ErrInvalidParticipant = kindError(ErrValidation, "invalid participant")
	// ErrInvalidTeam indicates team input failed validation (e.g., missing leader).
	ErrInvalidTeam = kindError(ErrValidation, "invalid team")
)

type kinded struct {
	msg  string
	kind error
}

func (e *kinded) Error() string { return e.msg }
func (e *kinded) Unwrap() error { return e.kind }

func kindError(kind error, msg string) error {
	return &kinded{msg: msg, kind: kind}
}

// ConflictError reports that a participant already belongs to another team.
type ConflictError struct {
	ParticipantID   string
	ParticipantName string
	TeamID          string
	TeamName        string
	// Reason overrides the default description when set.
	Reason string
}

func (e *ConflictError) Error() string {
	who := e.ParticipantName
	if who == "" {
		who = e.ParticipantID
	}
	if e.Reason != "" {
		return fmt.Sprintf("participant %s %s %s", who, e.Reason, e.TeamName)
	}
	return fmt.Sprintf("participant %s already belongs to %s; remove them from that team first", who, e.TeamName)
}

// Unwrap returns ErrConflict.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
