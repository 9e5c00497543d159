package model

import "time"

// DraftPick is a settled auction result. Picks are only created by a
// successful draft command and never modified afterwards.
type DraftPick struct {
	Pick      int       `json:"pick"`
	TeamID    string    `json:"team_id"`
	Player    Player    `json:"player"`
	Bid       int       `json:"bid"`
	DraftedAt time.Time `json:"drafted_at"`
}

// TeamSnapshot is a read-only copy of one team's draft state.
type TeamSnapshot struct {
	TeamID          string      `json:"team_id"`
	BudgetRemaining int         `json:"budget_remaining"`
	Roster          []DraftPick `json:"roster"`
}

// Spent sums the winning bids on the roster.
func (t TeamSnapshot) Spent() int {
	total := 0
	for _, p := range t.Roster {
		total += p.Bid
	}
	return total
}
