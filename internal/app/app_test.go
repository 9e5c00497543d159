package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"auction-draft-mcp/internal/config"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/logging"
	"auction-draft-mcp/internal/service"
)

const playersCSV = `Name,Position,Team,ProjPoints,AAV,ADP
Josh Allen,QB,BUF,380,42,20
Bijan Robinson,RB,ATL,290,58,3
Ja'Marr Chase,WR,CIN,310,60,1
Trey McBride,TE,ARI,210,22,
`

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "players.csv")
	if err := os.WriteFile(src, []byte(playersCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Catalog.Source = src
	cfg.Store.Driver = driver
	cfg.Store.Path = filepath.Join(dir, "data")
	if driver == "sqlite" {
		cfg.Store.Path = filepath.Join(dir, "data", "draft.db")
	}
	cfg.Store.SessionID = "league-2025"
	return cfg
}

func TestDraftPersistsAndRestores(t *testing.T) {
	for _, driver := range []string{"json", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, driver)

			a, err := Open(ctx, cfg, logging.Nop())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if _, err := a.Draft(ctx, service.DraftCommand{TeamID: "Team 1", PlayerName: "Josh Allen", Bid: 45}); err != nil {
				t.Fatalf("Draft: %v", err)
			}
			if _, err := a.Draft(ctx, service.DraftCommand{TeamID: "Team 2", PlayerName: "Josh Allen", Bid: 50}); !errors.Is(err, drafterr.ErrAlreadyDrafted) {
				t.Fatalf("second draft: err = %v", err)
			}
			if err := a.Close(); err != nil {
				t.Fatal(err)
			}

			b, err := Open(ctx, cfg, logging.Nop())
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer b.Close()
			team, err := b.Service.TeamRoster("Team 1")
			if err != nil {
				t.Fatal(err)
			}
			if team.BudgetRemaining != 155 || len(team.Roster) != 1 {
				t.Errorf("restored team = %+v", team)
			}
			if len(b.Service.AvailablePlayers()) != 3 {
				t.Errorf("available = %d, want 3", len(b.Service.AvailablePlayers()))
			}

			if err := b.Reset(ctx); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			if len(b.Service.Picks()) != 0 {
				t.Error("picks remain after reset")
			}
		})
	}
}

func TestOpenRejectsBadCatalog(t *testing.T) {
	cfg := testConfig(t, "memory")
	if err := os.WriteFile(cfg.Catalog.Source, []byte("Name,Position,ProjPoints,AAV\nX,LB,10,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(context.Background(), cfg, logging.Nop())
	if !errors.Is(err, drafterr.ErrDataValidation) {
		t.Fatalf("err = %v, want data validation", err)
	}
}

func TestOpenRejectsIllegalHistory(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "json")
	a, err := Open(ctx, cfg, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Draft(ctx, service.DraftCommand{TeamID: "Team 1", PlayerName: "Josh Allen", Bid: 150}); err != nil {
		t.Fatal(err)
	}
	a.Close()

	// A smaller budget makes the stored $150 pick a reserve violation.
	cfg.League.StartingBudget = 150
	if _, err := Open(ctx, cfg, logging.Nop()); !errors.Is(err, drafterr.ErrBudgetReserveViolation) {
		t.Errorf("err = %v, want reserve violation", err)
	}
}
