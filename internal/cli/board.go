package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"auction-draft-mcp/internal/app"
	"auction-draft-mcp/internal/render"
)

// boardView renders one read-only view of the open session.
type boardView func(a *app.App, args []string, limit int) (string, error)

func newBoardCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show draft boards and team state",
	}
	cmd.PersistentFlags().IntVarP(&limit, "limit", "n", 0, "max rows for ranked boards (default 10)")

	sub := func(use, short string, args cobra.PositionalArgs, view boardView) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := e.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()
				out, err := view(a, args, limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			},
		}
	}

	cmd.AddCommand(
		sub("available", "Undrafted players in catalog order", cobra.NoArgs,
			func(a *app.App, _ []string, _ int) (string, error) {
				return render.Players("Available players", a.Service.AvailablePlayers()), nil
			}),
		sub("tiers <position>", "Available players at a position by projected points", cobra.ExactArgs(1),
			func(a *app.App, args []string, limit int) (string, error) {
				ranked, err := a.Service.TierBoard(args[0], limit)
				if err != nil {
					return "", err
				}
				return render.Ranked("Tier board: "+args[0], "Proj", ranked), nil
			}),
		sub("values", "Best projected points per auction dollar", cobra.NoArgs,
			func(a *app.App, _ []string, limit int) (string, error) {
				return render.Ranked("Value picks", "Pts/$", a.Service.TopValuePicks(limit)), nil
			}),
		sub("sleepers", "Players drafted later than their projection suggests", cobra.NoArgs,
			func(a *app.App, _ []string, limit int) (string, error) {
				return render.Sleepers(a.Service.Sleepers(limit)), nil
			}),
		sub("budgets", "Budget and max bid for every team", cobra.NoArgs,
			func(a *app.App, _ []string, _ int) (string, error) {
				return render.Budgets(a.Service.TeamBudgets()), nil
			}),
		sub("roster <team>", "One team's drafted players", cobra.ExactArgs(1),
			func(a *app.App, args []string, _ int) (string, error) {
				team, err := a.Service.TeamRoster(args[0])
				if err != nil {
					return "", err
				}
				return render.Roster(team), nil
			}),
		sub("spend <team>", "One team's spend by position", cobra.ExactArgs(1),
			func(a *app.App, args []string, _ int) (string, error) {
				spend, err := a.Service.SpendByPosition(args[0])
				if err != nil {
					return "", err
				}
				return render.Spend(args[0], spend), nil
			}),
		sub("picks", "The draft log", cobra.NoArgs,
			func(a *app.App, _ []string, _ int) (string, error) {
				return render.Picks(a.Service.Picks()), nil
			}),
	)
	return cmd
}
