// Package ledger records completed auction picks, team budgets and rosters
// for one draft session.
package ledger

import (
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"auction-draft-mcp/internal/catalog"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/model"
	"auction-draft-mcp/internal/rules"
)

type team struct {
	id     string
	budget int
	roster []model.DraftPick
}

// Ledger is safe for concurrent use. Draft holds the lock across the whole
// check-then-mutate sequence, so two racing picks of one player cannot both
// succeed.
type Ledger struct {
	mu      sync.Mutex
	id      string
	rules   rules.Rules
	now     func() time.Time
	teams   map[string]*team
	order   []string
	picks   []model.DraftPick
	drafted map[string]string // player name -> team id
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(l *Ledger) { l.id = id }
}

// WithClock overrides the pick timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger: every team at full budget with no picks.
func New(r rules.Rules, opts ...Option) (*Ledger, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	l := &Ledger{
		rules: r,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.id == "" {
		l.id = uuid.NewString()
	}
	l.resetLocked()
	return l, nil
}

func (l *Ledger) resetLocked() {
	ids := l.rules.TeamIDs()
	l.order = ids
	l.teams = make(map[string]*team, len(ids))
	for _, id := range ids {
		l.teams[id] = &team{id: id, budget: l.rules.StartingBudget}
	}
	l.picks = nil
	l.drafted = make(map[string]string)
}

// ID identifies the draft session.
func (l *Ledger) ID() string { return l.id }

// Rules returns the policy the ledger enforces.
func (l *Ledger) Rules() rules.Rules { return l.rules }

// Draft records playerName won by teamID for bid. On any error the ledger
// is unchanged.
func (l *Ledger) Draft(cat *catalog.Catalog, teamID, playerName string, bid int) (model.DraftPick, error) {
	player, ok := cat.Lookup(playerName)
	if !ok {
		return model.DraftPick{}, &drafterr.PickError{Kind: drafterr.ErrUnknownPlayer, TeamID: teamID, Player: strings.TrimSpace(playerName), Bid: bid}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.drafted[player.Name]; taken {
		return model.DraftPick{}, &drafterr.PickError{Kind: drafterr.ErrAlreadyDrafted, TeamID: teamID, Player: player.Name, Bid: bid}
	}
	t, ok := l.teams[teamID]
	if !ok {
		return model.DraftPick{}, &drafterr.PickError{Kind: drafterr.ErrUnknownTeam, TeamID: teamID, Player: player.Name, Bid: bid}
	}
	if bid <= 0 {
		return model.DraftPick{}, &drafterr.PickError{Kind: drafterr.ErrInvalidBid, TeamID: teamID, Player: player.Name, Bid: bid}
	}
	if err := l.rules.CheckBid(t.snapshot(), bid); err != nil {
		var pe *drafterr.PickError
		if drafterr.As(err, &pe) {
			pe.Player = player.Name
		}
		return model.DraftPick{}, err
	}

	pick := model.DraftPick{
		Pick:      len(l.picks) + 1,
		TeamID:    teamID,
		Player:    player,
		Bid:       bid,
		DraftedAt: l.now(),
	}
	t.budget -= bid
	t.roster = append(t.roster, pick)
	l.picks = append(l.picks, pick)
	l.drafted[player.Name] = teamID
	return pick, nil
}

// IsDrafted reports whether name already has a recorded pick.
func (l *Ledger) IsDrafted(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.drafted[name]
	return ok
}

// DraftedNames returns a copy of the drafted-player index.
func (l *Ledger) DraftedNames() map[string]struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draftedLocked()
}

func (l *Ledger) draftedLocked() map[string]struct{} {
	out := make(map[string]struct{}, len(l.drafted))
	for name := range l.drafted {
		out[name] = struct{}{}
	}
	return out
}

// Team returns a read-only view of one team.
func (l *Ledger) Team(teamID string) (model.TeamSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.teams[teamID]
	if !ok {
		return model.TeamSnapshot{}, &drafterr.PickError{Kind: drafterr.ErrUnknownTeam, TeamID: teamID}
	}
	return t.snapshot(), nil
}

// Teams returns every team in configured order.
func (l *Ledger) Teams() []model.TeamSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.teamsLocked()
}

func (l *Ledger) teamsLocked() []model.TeamSnapshot {
	out := make([]model.TeamSnapshot, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.teams[id].snapshot())
	}
	return out
}

// Picks returns every pick in draft order.
func (l *Ledger) Picks() []model.DraftPick {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.DraftPick, len(l.picks))
	copy(out, l.picks)
	return out
}

// Snapshot is a consistent copy of the ledger taken under one lock.
type Snapshot struct {
	ID      string
	Rules   rules.Rules
	Teams   []model.TeamSnapshot
	Picks   []model.DraftPick
	Drafted map[string]struct{}
}

// Team finds a team in the snapshot.
func (s Snapshot) Team(teamID string) (model.TeamSnapshot, bool) {
	for _, t := range s.Teams {
		if t.TeamID == teamID {
			return t, true
		}
	}
	return model.TeamSnapshot{}, false
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	picks := make([]model.DraftPick, len(l.picks))
	copy(picks, l.picks)
	r := l.rules
	r.StartingSlots = maps.Clone(r.StartingSlots)
	return Snapshot{
		ID:      l.id,
		Rules:   r,
		Teams:   l.teamsLocked(),
		Picks:   picks,
		Drafted: l.draftedLocked(),
	}
}

// Reset discards every pick and restores full budgets.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetLocked()
}

func (t *team) snapshot() model.TeamSnapshot {
	roster := make([]model.DraftPick, len(t.roster))
	copy(roster, t.roster)
	return model.TeamSnapshot{TeamID: t.id, BudgetRemaining: t.budget, Roster: roster}
}
