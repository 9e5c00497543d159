// Package errors defines the error taxonomy for draft commands and catalog
// loading. Every error here is a rejected command: callers may correct the
// input and retry, and the ledger is never left partially updated.
//
// Kinds are sentinel errors; the typed errors carry the details and unwrap
// to their kind, so callers can use either form:
//
//	if errors.Is(err, errors.ErrRosterFull) { ... }
//
//	var pe *errors.PickError
//	if errors.As(err, &pe) { ... pe.Limit ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers only need this package.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

var (
	ErrDataValidation         = New("catalog data validation failed")
	ErrUnknownPlayer          = New("unknown player")
	ErrUnknownTeam            = New("unknown team")
	ErrAlreadyDrafted         = New("player already drafted")
	ErrInvalidBid             = New("invalid bid")
	ErrInsufficientBudget     = New("insufficient budget")
	ErrRosterFull             = New("roster full")
	ErrBudgetReserveViolation = New("bid leaves too little budget to fill the roster")
	ErrInvalidRules           = New("invalid roster rules")
	ErrInvalidPosition        = New("invalid position")
	ErrMissingArgument        = New("missing required argument")
)

// PickError describes why a draft command was rejected.
type PickError struct {
	Kind   error
	TeamID string
	Player string
	Bid    int
	// Limit is the relevant ceiling for budget errors (budget remaining or
	// max legal bid) and the roster size for ErrRosterFull.
	Limit int
}

func (e *PickError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	switch {
	case e.Kind == ErrInsufficientBudget:
		fmt.Fprintf(&b, ": %s bid $%d with $%d remaining", e.TeamID, e.Bid, e.Limit)
	case e.Kind == ErrBudgetReserveViolation:
		fmt.Fprintf(&b, ": %s bid $%d, max allowed bid is $%d", e.TeamID, e.Bid, e.Limit)
	case e.Kind == ErrRosterFull:
		fmt.Fprintf(&b, ": %s already has %d players", e.TeamID, e.Limit)
	case e.Kind == ErrUnknownTeam:
		fmt.Fprintf(&b, ": %q", e.TeamID)
	case e.Kind == ErrInvalidBid:
		fmt.Fprintf(&b, ": %d", e.Bid)
	case e.Player != "":
		fmt.Fprintf(&b, ": %q", e.Player)
	}
	return b.String()
}

func (e *PickError) Unwrap() error { return e.Kind }

// Problem is one defect found in a catalog row. Row is 1-based; zero means
// the problem is not tied to a single row.
type Problem struct {
	Row    int    `json:"row,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (p Problem) String() string {
	if p.Row > 0 {
		return fmt.Sprintf("row %d: %s %s", p.Row, p.Field, p.Reason)
	}
	return fmt.Sprintf("%s %s", p.Field, p.Reason)
}

// ValidationError lists every problem found while loading a catalog.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("%s: %s", ErrDataValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrDataValidation }

var codes = []struct {
	kind error
	code string
}{
	{ErrDataValidation, "data_validation"},
	{ErrUnknownPlayer, "unknown_player"},
	{ErrUnknownTeam, "unknown_team"},
	{ErrAlreadyDrafted, "already_drafted"},
	{ErrInvalidBid, "invalid_bid"},
	{ErrInsufficientBudget, "insufficient_budget"},
	{ErrRosterFull, "roster_full"},
	{ErrBudgetReserveViolation, "budget_reserve_violation"},
	{ErrInvalidRules, "invalid_rules"},
	{ErrInvalidPosition, "invalid_position"},
	{ErrMissingArgument, "missing_argument"},
}

// Code returns a stable machine-readable code for err, or "internal" if err
// is not part of the draft taxonomy.
func Code(err error) string {
	for _, c := range codes {
		if Is(err, c.kind) {
			return c.code
		}
	}
	return "internal"
}

// IsBadInput reports whether err is a malformed request rather than a
// rule violation.
func IsBadInput(err error) bool {
	return Is(err, ErrInvalidBid) || Is(err, ErrDataValidation) ||
		Is(err, ErrInvalidPosition) || Is(err, ErrMissingArgument)
}

// IsNotFound reports whether err refers to a missing player or team.
func IsNotFound(err error) bool {
	return Is(err, ErrUnknownPlayer) || Is(err, ErrUnknownTeam)
}

// IsConflict reports whether err is a rule violation against current
// ledger state.
func IsConflict(err error) bool {
	return Is(err, ErrAlreadyDrafted) || Is(err, ErrInsufficientBudget) ||
		Is(err, ErrRosterFull) || Is(err, ErrBudgetReserveViolation)
}
