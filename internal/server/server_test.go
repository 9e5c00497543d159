package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"auction-draft-mcp/internal/app"
	"auction-draft-mcp/internal/config"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/logging"
)

const testKey = "s3cret"

const playersCSV = `Name,Position,Team,ProjPoints,AAV,ADP
Josh Allen,QB,BUF,380,42,20
Lamar Jackson,QB,BAL,370,38,25
Bijan Robinson,RB,ATL,290,58,3
Ja'Marr Chase,WR,CIN,310,60,1
Trey McBride,TE,ARI,210,22,
`

func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	src := filepath.Join(dir, "players.csv")
	if err := os.WriteFile(src, []byte(playersCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Catalog.Source = src
	cfg.Store.Driver = "memory"
	cfg.Server.DevMode = true

	a, err := app.Open(context.Background(), cfg, logging.Nop())
	if err != nil {
		t.Fatalf("app.Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	s, err := New(a, cfg.Server, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, a
}

func do(t *testing.T, s *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if headers == nil {
		headers = map[string]string{"X-API-Key": testKey}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNewRequiresKey(t *testing.T) {
	_, a := newTestServer(t)
	if _, err := New(a, config.ServerConfig{RequireAuth: true, MCPPath: "/mcp"}, "  "); err == nil {
		t.Error("want error without API key")
	}
	if _, err := New(a, config.ServerConfig{RequireAuth: false, MCPPath: "/mcp"}, ""); err != nil {
		t.Errorf("auth disabled: %v", err)
	}
}

func TestAuth(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", map[string]string{}, http.StatusUnauthorized},
		{"wrong", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header", map[string]string{"X-API-Key": testKey}, http.StatusOK},
		{"bearer", map[string]string{"Authorization": "Bearer " + testKey}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, s, http.MethodGet, "/health", nil, tt.headers); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestToolsListing(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/tools", nil, nil)
	var out struct {
		Tools []toolInfo `json:"tools"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Tools) != 9 {
		t.Fatalf("tools = %d, want 9", len(out.Tools))
	}
	if out.Tools[0].Name != "draft_player" {
		t.Errorf("first tool = %q", out.Tools[0].Name)
	}
}

func TestPicksAPI(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/picks", map[string]any{"team_id": "Team 1", "player_name": "Josh Allen", "bid": 45}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}

	errCases := []struct {
		name string
		body map[string]any
		want int
		code string
	}{
		{"already drafted", map[string]any{"team_id": "Team 2", "player_name": "Josh Allen", "bid": 5}, http.StatusConflict, "already_drafted"},
		{"unknown player", map[string]any{"team_id": "Team 2", "player_name": "Nobody", "bid": 5}, http.StatusNotFound, "unknown_player"},
		{"unknown team", map[string]any{"team_id": "Team 99", "player_name": "Lamar Jackson", "bid": 5}, http.StatusNotFound, "unknown_team"},
		{"fractional bid", map[string]any{"team_id": "Team 2", "player_name": "Lamar Jackson", "bid": 5.5}, http.StatusBadRequest, "invalid_bid"},
		{"reserve", map[string]any{"team_id": "Team 2", "player_name": "Lamar Jackson", "bid": 188}, http.StatusUnprocessableEntity, "budget_reserve_violation"},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/picks", tt.body, nil)
			if w.Code != tt.want || !strings.Contains(w.Body.String(), tt.code) {
				t.Errorf("got %d %s, want %d %s", w.Code, w.Body, tt.want, tt.code)
			}
		})
	}

	w = do(t, s, http.MethodGet, "/api/teams/Team%201/spend", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"QB": 45`) && !strings.Contains(w.Body.String(), `"QB":45`) {
		t.Errorf("spend: %d %s", w.Code, w.Body)
	}

	w = do(t, s, http.MethodGet, "/api/picks", nil, nil)
	var log struct {
		Picks []json.RawMessage `json:"picks"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &log)
	if len(log.Picks) != 1 {
		t.Errorf("picks = %d, want 1", len(log.Picks))
	}

	if w := do(t, s, http.MethodDelete, "/api/picks", nil, nil); w.Code != http.StatusNoContent {
		t.Errorf("reset: %d", w.Code)
	}
	w = do(t, s, http.MethodGet, "/api/players", nil, nil)
	if !strings.Contains(w.Body.String(), "Josh Allen") {
		t.Error("reset did not return Josh Allen to the pool")
	}
}

func TestBoardsAPI(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/tiers/qb?limit=1", nil, nil)
	var tiers struct {
		Players []struct {
			Player struct {
				Name string `json:"name"`
			} `json:"player"`
		} `json:"players"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tiers); err != nil {
		t.Fatal(err)
	}
	if len(tiers.Players) != 1 || tiers.Players[0].Player.Name != "Josh Allen" {
		t.Errorf("tiers = %s", w.Body)
	}

	if w := do(t, s, http.MethodGet, "/api/tiers/LB", nil, nil); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"code":"invalid_position"`) {
		t.Errorf("bad position: %d %s", w.Code, w.Body)
	}
	if w := do(t, s, http.MethodGet, "/api/teams/Team%2042", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown team: %d", w.Code)
	}

	w = do(t, s, http.MethodGet, "/api/sleepers", nil, nil)
	if !strings.Contains(w.Body.String(), `"insufficient_data":false`) {
		t.Errorf("sleepers: %s", w.Body)
	}
	w = do(t, s, http.MethodGet, "/api/budgets", nil, nil)
	if !strings.Contains(w.Body.String(), `"max_bid":187`) {
		t.Errorf("budgets: %s", w.Body)
	}
}

func TestToolBuilders(t *testing.T) {
	_, a := newTestServer(t)
	ctx := context.Background()

	b, err := buildDraftPlayer(ctx, a, DraftPlayerArgs{TeamID: "Team 3", PlayerName: "Bijan Robinson", Bid: 60})
	if err != nil {
		t.Fatalf("buildDraftPlayer: %v", err)
	}
	var out struct {
		BudgetRemaining int `json:"budget_remaining"`
		MaxBid          int `json:"max_bid"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.BudgetRemaining != 140 || out.MaxBid != 128 {
		t.Errorf("got %+v, want budget 140 max bid 128", out)
	}

	_, err = buildDraftPlayer(ctx, a, DraftPlayerArgs{TeamID: "Team 4", PlayerName: "Bijan Robinson", Bid: 1})
	if !drafterr.Is(err, drafterr.ErrAlreadyDrafted) {
		t.Errorf("err = %v", err)
	}
	if _, err := buildDraftPlayer(ctx, a, DraftPlayerArgs{Bid: 1}); !drafterr.Is(err, drafterr.ErrMissingArgument) {
		t.Errorf("missing fields: err = %v, want ErrMissingArgument", err)
	}

	if _, err := buildTierBoard(a.Service, TierArgs{Position: "FLEX"}); err != nil {
		t.Errorf("FLEX board: %v", err)
	}
	if _, err := buildTierBoard(a.Service, TierArgs{}); !drafterr.Is(err, drafterr.ErrMissingArgument) {
		t.Errorf("missing position: err = %v, want ErrMissingArgument", err)
	}
}

func TestToolArgumentErrorsCarryCodes(t *testing.T) {
	_, a := newTestServer(t)
	tests := []struct {
		name  string
		build func() ([]byte, error)
		want  string
	}{
		{"unknown position", func() ([]byte, error) {
			return buildTierBoard(a.Service, TierArgs{Position: "LB"})
		}, "error [invalid_position]:"},
		{"missing position", func() ([]byte, error) {
			return buildTierBoard(a.Service, TierArgs{})
		}, "error [missing_argument]:"},
		{"missing team", func() ([]byte, error) {
			return buildDraftPlayer(context.Background(), a, DraftPlayerArgs{PlayerName: "Josh Allen", Bid: 5})
		}, "error [missing_argument]:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := toolJSON(tt.build())
			if err != nil {
				t.Fatalf("toolJSON: %v", err)
			}
			if !res.IsError {
				t.Fatal("IsError not set")
			}
			if text := res.Content[0].(*mcp.TextContent).Text; !strings.HasPrefix(text, tt.want) {
				t.Errorf("text = %q, want prefix %q", text, tt.want)
			}
		})
	}
}

func TestToolErrorCarriesCode(t *testing.T) {
	res := toolError(&drafterr.PickError{Kind: drafterr.ErrRosterFull, TeamID: "Team 1"})
	if !res.IsError {
		t.Fatal("IsError not set")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.HasPrefix(text, "error [roster_full]:") {
		t.Errorf("text = %q", text)
	}
}
