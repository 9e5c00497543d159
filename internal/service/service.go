// Package service is the single entry point a renderer or transport uses to
// run a draft: it normalizes commands, forwards them to the ledger and
// answers read-only queries.
package service

import (
	"fmt"
	"math"
	"strings"

	"auction-draft-mcp/internal/catalog"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/ledger"
	"auction-draft-mcp/internal/metrics"
	"auction-draft-mcp/internal/model"
	"auction-draft-mcp/internal/rules"
)

// DraftCommand is a settled auction result as entered by the user. Bid is a
// float so that transports decoding JSON numbers can pass it through and
// fractional bids are rejected here rather than truncated.
type DraftCommand struct {
	TeamID     string  `json:"team_id"`
	PlayerName string  `json:"player_name"`
	Bid        float64 `json:"bid"`
}

type Service struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
}

// New composes a service over a loaded catalog and a ledger owned by the
// caller.
func New(cat *catalog.Catalog, l *ledger.Ledger) *Service {
	return &Service{catalog: cat, ledger: l}
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }
func (s *Service) Ledger() *ledger.Ledger    { return s.ledger }
func (s *Service) Rules() rules.Rules        { return s.ledger.Rules() }

// NormalizeBid converts a raw bid to whole dollars. Non-positive,
// fractional and non-finite values fail with ErrInvalidBid. Whole bids past
// math.MaxInt32 are clamped to it; no budget covers them, so the ledger
// rejects them as insufficient budget.
func NormalizeBid(raw float64) (int, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, &drafterr.PickError{Kind: drafterr.ErrInvalidBid}
	}
	if raw != math.Trunc(raw) || raw <= 0 {
		return 0, &drafterr.PickError{Kind: drafterr.ErrInvalidBid, Bid: int(max(raw, math.MinInt32))}
	}
	return int(min(raw, math.MaxInt32)), nil
}

// DraftPlayer validates and records a pick. Errors from the ledger are
// returned unchanged.
func (s *Service) DraftPlayer(cmd DraftCommand) (model.DraftPick, error) {
	teamID := strings.TrimSpace(cmd.TeamID)
	name := strings.TrimSpace(cmd.PlayerName)
	bid, err := NormalizeBid(cmd.Bid)
	if err != nil {
		var pe *drafterr.PickError
		if drafterr.As(err, &pe) {
			pe.TeamID, pe.Player = teamID, name
		}
		return model.DraftPick{}, err
	}
	return s.ledger.Draft(s.catalog, teamID, name, bid)
}

// AvailablePlayers lists undrafted players in catalog order.
func (s *Service) AvailablePlayers() []model.Player {
	return metrics.Available(s.catalog, s.ledger.Snapshot())
}

func (s *Service) TeamBudgets() []metrics.TeamBudget {
	return metrics.TeamBudgets(s.ledger.Snapshot())
}

func (s *Service) TeamRoster(teamID string) (model.TeamSnapshot, error) {
	return s.ledger.Team(strings.TrimSpace(teamID))
}

// TierBoard accepts any position spelling model.ParsePosition understands.
func (s *Service) TierBoard(position string, limit int) ([]metrics.RankedPlayer, error) {
	pos, err := model.ParsePosition(position)
	if err != nil {
		return nil, fmt.Errorf("%w %q", drafterr.ErrInvalidPosition, position)
	}
	return metrics.TierBoard(s.catalog, s.ledger.Snapshot(), pos, limit), nil
}

func (s *Service) TopValuePicks(limit int) []metrics.RankedPlayer {
	return metrics.TopValuePicks(s.catalog, s.ledger.Snapshot(), limit)
}

func (s *Service) Sleepers(limit int) metrics.SleeperResult {
	return metrics.Sleepers(s.catalog, s.ledger.Snapshot(), limit)
}

func (s *Service) SpendByPosition(teamID string) (map[model.Position]int, error) {
	teamID = strings.TrimSpace(teamID)
	spend, ok := metrics.SpendByPosition(s.ledger.Snapshot(), teamID)
	if !ok {
		return nil, &drafterr.PickError{Kind: drafterr.ErrUnknownTeam, TeamID: teamID}
	}
	return spend, nil
}

// Picks is the chronological draft log.
func (s *Service) Picks() []model.DraftPick {
	return s.ledger.Picks()
}

// Reset clears every pick from the session.
func (s *Service) Reset() {
	s.ledger.Reset()
}
