package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-draft-mcp/internal/catalog"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/rules"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func f(v float64) *float64 { return &v }

// testCatalog builds a catalog of n players named P01..Pnn, all RB.
func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	rows := make([]catalog.Row, n)
	for i := range rows {
		rows[i] = catalog.Row{
			Name:            fmt.Sprintf("P%02d", i+1),
			Position:        "RB",
			ProjectedPoints: f(float64(100 + i)),
			AuctionValue:    f(10),
		}
	}
	c, err := catalog.Load(rows)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return c
}

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	fixed := time.Date(2025, 8, 30, 18, 0, 0, 0, time.UTC)
	l, err := New(rules.Default(), WithID("test"), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

// checkInvariants asserts budget conservation, roster bound and the
// drafted-once rule.
func checkInvariants(t *testing.T, l *Ledger) {
	t.Helper()
	snap := l.Snapshot()
	seen := make(map[string]string)
	for _, team := range snap.Teams {
		if got := snap.Rules.StartingBudget - team.BudgetRemaining; got != team.Spent() {
			t.Errorf("%s: spent %d but budget dropped by %d", team.TeamID, team.Spent(), got)
		}
		if team.BudgetRemaining < 0 {
			t.Errorf("%s: negative budget %d", team.TeamID, team.BudgetRemaining)
		}
		if len(team.Roster) > snap.Rules.RosterSize {
			t.Errorf("%s: roster %d exceeds %d", team.TeamID, len(team.Roster), snap.Rules.RosterSize)
		}
		for _, p := range team.Roster {
			if other, dup := seen[p.Player.Name]; dup {
				t.Errorf("%s drafted by both %s and %s", p.Player.Name, other, team.TeamID)
			}
			seen[p.Player.Name] = team.TeamID
		}
	}
	if len(seen) != len(snap.Drafted) {
		t.Errorf("drafted index has %d names, rosters have %d", len(snap.Drafted), len(seen))
	}
}

// ---------------------------------------------------------------------------
// Draft
// ---------------------------------------------------------------------------

func TestDraft_Success(t *testing.T) {
	cat := testCatalog(t, 3)
	l := newLedger(t)

	pick, err := l.Draft(cat, "Team 1", "P01", 40)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if pick.Pick != 1 || pick.TeamID != "Team 1" || pick.Player.Name != "P01" || pick.Bid != 40 {
		t.Errorf("pick = %+v", pick)
	}
	team, err := l.Team("Team 1")
	if err != nil {
		t.Fatal(err)
	}
	if team.BudgetRemaining != 160 {
		t.Errorf("budget = %d, want 160", team.BudgetRemaining)
	}
	if len(team.Roster) != 1 {
		t.Errorf("roster len = %d, want 1", len(team.Roster))
	}
	if !l.IsDrafted("P01") || l.IsDrafted("P02") {
		t.Error("drafted index wrong")
	}
	checkInvariants(t, l)
}

func TestDraft_Errors(t *testing.T) {
	cat := testCatalog(t, 3)
	l := newLedger(t)
	if _, err := l.Draft(cat, "Team 2", "P02", 5); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		team   string
		player string
		bid    int
		want   error
	}{
		{"UnknownPlayer", "Team 1", "Nobody", 5, drafterr.ErrUnknownPlayer},
		{"AlreadyDrafted", "Team 1", "P02", 5, drafterr.ErrAlreadyDrafted},
		{"UnknownTeam", "Team 99", "P01", 5, drafterr.ErrUnknownTeam},
		{"ZeroBid", "Team 1", "P01", 0, drafterr.ErrInvalidBid},
		{"InsufficientBudget", "Team 1", "P01", 201, drafterr.ErrInsufficientBudget},
		{"ReserveViolation", "Team 1", "P01", 188, drafterr.ErrBudgetReserveViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := l.Snapshot()
			for attempt := 0; attempt < 2; attempt++ {
				_, err := l.Draft(cat, tt.team, tt.player, tt.bid)
				if !drafterr.Is(err, tt.want) {
					t.Fatalf("attempt %d: err = %v, want %v", attempt, err, tt.want)
				}
			}
			after := l.Snapshot()
			if len(after.Picks) != len(before.Picks) {
				t.Errorf("picks changed: %d -> %d", len(before.Picks), len(after.Picks))
			}
			for i := range after.Teams {
				if after.Teams[i].BudgetRemaining != before.Teams[i].BudgetRemaining {
					t.Errorf("%s budget changed", after.Teams[i].TeamID)
				}
			}
		})
	}
	checkInvariants(t, l)
}

func TestDraft_ReserveBoundary(t *testing.T) {
	cat := testCatalog(t, 2)
	l := newLedger(t)
	if _, err := l.Draft(cat, "Team 1", "P01", 188); !drafterr.Is(err, drafterr.ErrBudgetReserveViolation) {
		t.Fatalf("bid 188: err = %v, want reserve violation", err)
	}
	if _, err := l.Draft(cat, "Team 1", "P01", 187); err != nil {
		t.Fatalf("bid 187: %v", err)
	}
	team, _ := l.Team("Team 1")
	if team.BudgetRemaining != 13 {
		t.Errorf("budget = %d, want 13", team.BudgetRemaining)
	}
}

func TestDraft_RosterFull(t *testing.T) {
	cat := testCatalog(t, 16)
	l := newLedger(t)
	for i := 1; i <= 14; i++ {
		if _, err := l.Draft(cat, "Team 1", fmt.Sprintf("P%02d", i), 1); err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
	}
	_, err := l.Draft(cat, "Team 1", "P15", 1)
	if !drafterr.Is(err, drafterr.ErrRosterFull) {
		t.Fatalf("err = %v, want ErrRosterFull", err)
	}
	team, _ := l.Team("Team 1")
	if len(team.Roster) != 14 || team.BudgetRemaining != 186 {
		t.Errorf("roster=%d budget=%d, want 14/186", len(team.Roster), team.BudgetRemaining)
	}
	if l.IsDrafted("P15") {
		t.Error("P15 should not be drafted")
	}
	checkInvariants(t, l)
}

func TestDraft_ConcurrentSamePlayer(t *testing.T) {
	cat := testCatalog(t, 1)
	l := newLedger(t)

	var wg sync.WaitGroup
	results := make(chan error, 12)
	for _, id := range l.Rules().TeamIDs() {
		wg.Add(1)
		go func(teamID string) {
			defer wg.Done()
			_, err := l.Draft(cat, teamID, "P01", 10)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else if !drafterr.Is(err, drafterr.ErrAlreadyDrafted) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want 1", wins)
	}
	checkInvariants(t, l)
}

func TestSnapshotIsACopy(t *testing.T) {
	cat := testCatalog(t, 2)
	l := newLedger(t)
	if _, err := l.Draft(cat, "Team 1", "P01", 3); err != nil {
		t.Fatal(err)
	}
	snap := l.Snapshot()
	snap.Teams[0].Roster[0].Bid = 999
	delete(snap.Drafted, "P01")

	team, _ := l.Team("Team 1")
	if team.Roster[0].Bid != 3 {
		t.Error("snapshot mutation leaked into ledger roster")
	}
	if !l.IsDrafted("P01") {
		t.Error("snapshot mutation leaked into drafted index")
	}
}

func TestReset(t *testing.T) {
	cat := testCatalog(t, 2)
	l := newLedger(t)
	if _, err := l.Draft(cat, "Team 1", "P01", 3); err != nil {
		t.Fatal(err)
	}
	l.Reset()
	if len(l.Picks()) != 0 || l.IsDrafted("P01") {
		t.Error("Reset left picks behind")
	}
	team, _ := l.Team("Team 1")
	if team.BudgetRemaining != 200 {
		t.Errorf("budget = %d, want 200", team.BudgetRemaining)
	}
}

func TestTeamUnknown(t *testing.T) {
	l := newLedger(t)
	if _, err := l.Team("Team 13"); !drafterr.Is(err, drafterr.ErrUnknownTeam) {
		t.Errorf("err = %v, want ErrUnknownTeam", err)
	}
}

// ---------------------------------------------------------------------------
// Replay
// ---------------------------------------------------------------------------

func TestReplay_SortsByPickAndKeepsTimes(t *testing.T) {
	cat := testCatalog(t, 3)
	at := time.Date(2025, 8, 1, 20, 0, 0, 0, time.UTC)
	records := []PickRecord{
		{Pick: 2, TeamID: "Team 2", Player: "P02", Bid: 20, DraftedAt: at.Add(time.Minute)},
		{Pick: 1, TeamID: "Team 1", Player: "P01", Bid: 30, DraftedAt: at},
	}
	l := newLedger(t)
	if err := l.Replay(cat, records); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	picks := l.Picks()
	if len(picks) != 2 || picks[0].Player.Name != "P01" || picks[1].Player.Name != "P02" {
		t.Fatalf("picks = %+v", picks)
	}
	if !picks[0].DraftedAt.Equal(at) {
		t.Errorf("DraftedAt = %v, want %v", picks[0].DraftedAt, at)
	}
	got := l.Snapshot().Records()
	if got[1].Pick != 2 || got[1].TeamID != "Team 2" || got[1].Bid != 20 {
		t.Errorf("Records round trip = %+v", got)
	}
}

func TestReplay_RejectsIllegalHistory(t *testing.T) {
	cat := testCatalog(t, 2)
	records := []PickRecord{
		{Pick: 1, TeamID: "Team 1", Player: "P01", Bid: 10},
		{Pick: 2, TeamID: "Team 2", Player: "P01", Bid: 10},
	}
	l := newLedger(t)
	err := l.Replay(cat, records)
	if !drafterr.Is(err, drafterr.ErrAlreadyDrafted) {
		t.Fatalf("err = %v, want ErrAlreadyDrafted", err)
	}
}
