package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"auction-draft-mcp/internal/app"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/service"
)

type DraftPlayerArgs struct {
	TeamID     string  `json:"team_id" jsonschema:"Team id, e.g. Team 3 (required)"`
	PlayerName string  `json:"player_name" jsonschema:"Player name exactly as in the catalog (required)"`
	Bid        float64 `json:"bid" jsonschema:"Winning bid in whole dollars (required)"`
}

type TeamArgs struct {
	TeamID string `json:"team_id" jsonschema:"Team id, e.g. Team 3 (required)"`
}

type LimitArgs struct {
	Limit int `json:"limit" jsonschema:"Max rows to return (default 10)"`
}

type TierArgs struct {
	Position string `json:"position" jsonschema:"QB|RB|WR|TE|K|DEF|FLEX (required)"`
	Limit    int    `json:"limit" jsonschema:"Max rows to return (default 10)"`
}

type NoArgs struct{}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

// registerTools exposes every draft operation as an MCP tool.
func registerTools(server *mcp.Server, registry *[]toolInfo, a *app.App) {
	svc := a.Service

	addTool(server, registry, &mcp.Tool{
		Name:        "draft_player",
		Description: "Record a won auction: team, player and winning bid",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DraftPlayerArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(buildDraftPlayer(ctx, a, args))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "available_players",
		Description: "Undrafted players in catalog order",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshal(map[string]any{"players": svc.AvailablePlayers()}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "team_budgets",
		Description: "Budget remaining, spend, open slots and max legal bid for every team",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshal(map[string]any{"teams": svc.TeamBudgets()}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "team_roster",
		Description: "Players drafted by one team with their bids",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		team, err := svc.TeamRoster(args.TeamID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(marshal(team))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "tier_board",
		Description: "Available players at a position ranked by projected points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TierArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(buildTierBoard(svc, args))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "value_picks",
		Description: "Available players ranked by projected points per auction dollar",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LimitArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshal(map[string]any{"players": svc.TopValuePicks(args.Limit)}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "sleepers",
		Description: "Available players whose ADP lags their projected points rank",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LimitArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshal(svc.Sleepers(args.Limit)))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "spend_by_position",
		Description: "Dollars one team has spent at each position",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		spend, err := svc.SpendByPosition(args.TeamID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(marshal(map[string]any{"team_id": args.TeamID, "spend": spend}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "draft_log",
		Description: "Every pick so far in draft order",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(marshal(map[string]any{"picks": svc.Picks()}))
	})
}

func buildDraftPlayer(ctx context.Context, a *app.App, args DraftPlayerArgs) ([]byte, error) {
	if args.TeamID == "" || args.PlayerName == "" {
		return nil, fmt.Errorf("%w: team_id and player_name", drafterr.ErrMissingArgument)
	}
	pick, err := a.Draft(ctx, service.DraftCommand{
		TeamID:     args.TeamID,
		PlayerName: args.PlayerName,
		Bid:        args.Bid,
	})
	if err != nil {
		return nil, err
	}
	team, err := a.Service.TeamRoster(pick.TeamID)
	if err != nil {
		return nil, err
	}
	return marshal(map[string]any{
		"pick":             pick,
		"budget_remaining": team.BudgetRemaining,
		"max_bid":          a.Service.Rules().MaxLegalBid(team.BudgetRemaining, len(team.Roster)),
	})
}

func buildTierBoard(svc *service.Service, args TierArgs) ([]byte, error) {
	if args.Position == "" {
		return nil, fmt.Errorf("%w: position", drafterr.ErrMissingArgument)
	}
	ranked, err := svc.TierBoard(args.Position, args.Limit)
	if err != nil {
		return nil, err
	}
	return marshal(map[string]any{"position": args.Position, "players": ranked})
}

func marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(res), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

// toolError prefixes the error code so agents can branch on it.
func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error [%s]: %v", drafterr.Code(err), err)},
		},
	}
}
