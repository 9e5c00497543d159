package ledger

import (
	"fmt"
	"sort"
	"time"

	"auction-draft-mcp/internal/catalog"
	"auction-draft-mcp/internal/model"
)

// PickRecord is the persisted form of a pick: just the command that made
// it, so a restored session is rebuilt through the same rule checks.
type PickRecord struct {
	Pick      int       `json:"pick"`
	TeamID    string    `json:"team_id"`
	Player    string    `json:"player"`
	Bid       int       `json:"bid"`
	DraftedAt time.Time `json:"drafted_at"`
}

// Records converts the ledger's picks to their persisted form.
func (s Snapshot) Records() []PickRecord {
	out := make([]PickRecord, 0, len(s.Picks))
	for _, p := range s.Picks {
		out = append(out, RecordOf(p))
	}
	return out
}

func RecordOf(p model.DraftPick) PickRecord {
	return PickRecord{
		Pick:      p.Pick,
		TeamID:    p.TeamID,
		Player:    p.Player.Name,
		Bid:       p.Bid,
		DraftedAt: p.DraftedAt,
	}
}

// Replay applies records in pick order to an empty ledger. Original pick
// times are kept. The first record the current rules reject stops the
// replay and is returned wrapped with its pick number. Call Replay before
// the ledger is shared with other goroutines.
func (l *Ledger) Replay(cat *catalog.Catalog, records []PickRecord) error {
	sorted := make([]PickRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pick < sorted[j].Pick
	})

	clock := l.now
	defer func() { l.now = clock }()

	for _, rec := range sorted {
		at := rec.DraftedAt
		if at.IsZero() {
			at = clock()
		}
		l.now = func() time.Time { return at }
		if _, err := l.Draft(cat, rec.TeamID, rec.Player, rec.Bid); err != nil {
			return fmt.Errorf("replay pick %d: %w", rec.Pick, err)
		}
	}
	return nil
}
