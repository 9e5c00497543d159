// Package metrics computes ranked views over the players still available in
// a draft. Every function is pure: it reads a catalog and a ledger snapshot
// and returns new values.
package metrics

import (
	"sort"

	"auction-draft-mcp/internal/catalog"
	"auction-draft-mcp/internal/ledger"
	"auction-draft-mcp/internal/model"
)

// DefaultLimit applies when a caller passes a non-positive limit.
const DefaultLimit = 10

type RankedPlayer struct {
	Rank   int          `json:"rank"`
	Player model.Player `json:"player"`
	Score  float64      `json:"score"`
}

func normLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// rank sorts by score descending with ascending name as the tie-break and
// keeps the first limit entries (all of them when limit < 0).
func rank(scored []RankedPlayer, limit int) []RankedPlayer {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Player.Name < scored[j].Player.Name
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// Available lists undrafted players in catalog order.
func Available(cat *catalog.Catalog, snap ledger.Snapshot) []model.Player {
	return cat.Available(snap.Drafted)
}

// ValueScore is projected points per auction dollar. ok is false when the
// player has no positive auction value.
func ValueScore(p model.Player) (score float64, ok bool) {
	if p.AuctionValue <= 0 {
		return 0, false
	}
	return p.ProjectedPoints / p.AuctionValue, true
}

// TierBoard ranks available players at pos by projected points. FLEX ranks
// RB, WR and TE together.
func TierBoard(cat *catalog.Catalog, snap ledger.Snapshot, pos model.Position, limit int) []RankedPlayer {
	scored := []RankedPlayer{}
	for _, p := range Available(cat, snap) {
		if p.Position != pos && !(pos == model.FLEX && p.Position.FillsFlex()) {
			continue
		}
		scored = append(scored, RankedPlayer{Player: p, Score: p.ProjectedPoints})
	}
	return rank(scored, normLimit(limit))
}

// TopValuePicks ranks available players by ValueScore.
func TopValuePicks(cat *catalog.Catalog, snap ledger.Snapshot, limit int) []RankedPlayer {
	scored := []RankedPlayer{}
	for _, p := range Available(cat, snap) {
		v, ok := ValueScore(p)
		if !ok {
			continue
		}
		scored = append(scored, RankedPlayer{Player: p, Score: v})
	}
	return rank(scored, normLimit(limit))
}

// PointsRanks ranks every catalog player, drafted or not, by projected
// points (1 = most points, ties by name).
func PointsRanks(cat *catalog.Catalog) map[string]int {
	players := cat.Players()
	scored := make([]RankedPlayer, 0, len(players))
	for _, p := range players {
		scored = append(scored, RankedPlayer{Player: p, Score: p.ProjectedPoints})
	}
	out := make(map[string]int, len(scored))
	for _, rp := range rank(scored, -1) {
		out[rp.Player.Name] = rp.Rank
	}
	return out
}

// SleeperScore is ADP minus the player's projected-points rank across the
// whole catalog. A large positive gap means the market drafts the player
// later than the projections justify. ok is false without ADP.
func SleeperScore(p model.Player, pointsRank map[string]int) (score float64, ok bool) {
	r, ranked := pointsRank[p.Name]
	if !p.HasADP() || !ranked {
		return 0, false
	}
	return *p.AverageDraftPosition - float64(r), true
}

type SleeperResult struct {
	// InsufficientData is set when no available player has an ADP, which is
	// different from having ADP data but no undervalued players.
	InsufficientData bool           `json:"insufficient_data"`
	Players          []RankedPlayer `json:"players"`
}

// Sleepers ranks available players with a positive SleeperScore.
func Sleepers(cat *catalog.Catalog, snap ledger.Snapshot, limit int) SleeperResult {
	available := Available(cat, snap)
	hasADP := false
	for _, p := range available {
		if p.HasADP() {
			hasADP = true
			break
		}
	}
	if !hasADP {
		return SleeperResult{InsufficientData: true}
	}

	ranks := PointsRanks(cat)
	scored := []RankedPlayer{}
	for _, p := range available {
		s, ok := SleeperScore(p, ranks)
		if !ok || s <= 0 {
			continue
		}
		scored = append(scored, RankedPlayer{Player: p, Score: s})
	}
	return SleeperResult{Players: rank(scored, normLimit(limit))}
}

// SpendByPosition totals a team's winning bids per position. Positions with
// no spend are omitted. ok is false for an unknown team.
func SpendByPosition(snap ledger.Snapshot, teamID string) (map[model.Position]int, bool) {
	team, ok := snap.Team(teamID)
	if !ok {
		return nil, false
	}
	out := make(map[model.Position]int)
	for _, p := range team.Roster {
		out[p.Player.Position] += p.Bid
	}
	return out, true
}

type TeamBudget struct {
	TeamID          string `json:"team_id"`
	BudgetRemaining int    `json:"budget_remaining"`
	Spent           int    `json:"spent"`
	RosterCount     int    `json:"roster_count"`
	OpenSlots       int    `json:"open_slots"`
	MaxBid          int    `json:"max_bid"`
}

// TeamBudgets summarizes every team's money and roster room in team order.
func TeamBudgets(snap ledger.Snapshot) []TeamBudget {
	out := make([]TeamBudget, 0, len(snap.Teams))
	for _, t := range snap.Teams {
		out = append(out, TeamBudget{
			TeamID:          t.TeamID,
			BudgetRemaining: t.BudgetRemaining,
			Spent:           t.Spent(),
			RosterCount:     len(t.Roster),
			OpenSlots:       snap.Rules.RosterSize - len(t.Roster),
			MaxBid:          snap.Rules.MaxLegalBid(t.BudgetRemaining, len(t.Roster)),
		})
	}
	return out
}
