// Package rules describes league roster and budget policy and decides
// whether a bid is legal for a team.
package rules

import (
	"fmt"

	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/model"
)

type Rules struct {
	NumTeams       int                    `json:"num_teams"`
	StartingBudget int                    `json:"starting_budget"`
	RosterSize     int                    `json:"roster_size"`
	StartingSlots  map[model.Position]int `json:"starting_slots"`
	// TeamNames optionally overrides the default "Team N" ids.
	TeamNames []string `json:"team_names,omitempty"`
}

// Default is a 12-team, $200, 14-player league with one starter at each
// position plus two FLEX.
func Default() Rules {
	return Rules{
		NumTeams:       12,
		StartingBudget: 200,
		RosterSize:     14,
		StartingSlots: map[model.Position]int{
			model.QB:   1,
			model.RB:   1,
			model.WR:   1,
			model.TE:   1,
			model.FLEX: 2,
			model.K:    1,
			model.DEF:  1,
		},
	}
}

func (r Rules) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", drafterr.ErrInvalidRules, fmt.Sprintf(format, args...))
	}
	if r.NumTeams <= 0 {
		return fail("num_teams must be positive")
	}
	if r.RosterSize <= 0 {
		return fail("roster_size must be positive")
	}
	if r.StartingBudget < r.RosterSize {
		return fail("starting_budget %d cannot fill %d roster spots at $1", r.StartingBudget, r.RosterSize)
	}
	for pos, n := range r.StartingSlots {
		if n < 0 {
			return fail("starting slot %s has negative count", pos)
		}
	}
	if r.BenchSlots() < 0 {
		return fail("starting slots (%d) exceed roster_size %d", r.startingTotal(), r.RosterSize)
	}
	if len(r.TeamNames) > 0 {
		if len(r.TeamNames) != r.NumTeams {
			return fail("%d team names for %d teams", len(r.TeamNames), r.NumTeams)
		}
		seen := make(map[string]bool, len(r.TeamNames))
		for _, name := range r.TeamNames {
			if name == "" || seen[name] {
				return fail("team name %q is empty or duplicated", name)
			}
			seen[name] = true
		}
	}
	return nil
}

func (r Rules) startingTotal() int {
	total := 0
	for _, n := range r.StartingSlots {
		total += n
	}
	return total
}

// BenchSlots is the roster size minus all starting slots.
func (r Rules) BenchSlots() int {
	return r.RosterSize - r.startingTotal()
}

// TeamIDs returns the configured team ids in order.
func (r Rules) TeamIDs() []string {
	if len(r.TeamNames) > 0 {
		out := make([]string, len(r.TeamNames))
		copy(out, r.TeamNames)
		return out
	}
	ids := make([]string, r.NumTeams)
	for i := range ids {
		ids[i] = fmt.Sprintf("Team %d", i+1)
	}
	return ids
}

// MaxLegalBid is the most a team may bid while still keeping $1 for each
// roster spot left after this pick. It is 0 once the roster is full.
func (r Rules) MaxLegalBid(budgetRemaining, rosterLen int) int {
	open := r.RosterSize - rosterLen
	if open <= 0 {
		return 0
	}
	return max(budgetRemaining-(open-1), 1)
}

// CheckBid reports whether team may win a player for bid. Checks run in
// order: roster full, insufficient budget, reserve rule.
func (r Rules) CheckBid(team model.TeamSnapshot, bid int) error {
	if len(team.Roster) >= r.RosterSize {
		return &drafterr.PickError{Kind: drafterr.ErrRosterFull, TeamID: team.TeamID, Bid: bid, Limit: len(team.Roster)}
	}
	if bid > team.BudgetRemaining {
		return &drafterr.PickError{Kind: drafterr.ErrInsufficientBudget, TeamID: team.TeamID, Bid: bid, Limit: team.BudgetRemaining}
	}
	if limit := r.MaxLegalBid(team.BudgetRemaining, len(team.Roster)); bid > limit {
		return &drafterr.PickError{Kind: drafterr.ErrBudgetReserveViolation, TeamID: team.TeamID, Bid: bid, Limit: limit}
	}
	return nil
}
