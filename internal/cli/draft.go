package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"auction-draft-mcp/internal/render"
	"auction-draft-mcp/internal/service"
)

func newDraftCmd(e *env) *cobra.Command {
	var cmdArgs service.DraftCommand
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Record a won auction",
		Example: `  auction-draft draft --team "Team 3" --player "Bijan Robinson" --bid 61`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			pick, err := a.Draft(cmd.Context(), cmdArgs)
			if err != nil {
				return err
			}
			team, err := a.Service.TeamRoster(pick.TeamID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Pick(pick))
			fmt.Fprintln(out, render.Note(fmt.Sprintf("%s has $%d left, max bid $%d",
				team.TeamID, team.BudgetRemaining,
				a.Service.Rules().MaxLegalBid(team.BudgetRemaining, len(team.Roster)))))
			return nil
		},
	}
	cmd.Flags().StringVar(&cmdArgs.TeamID, "team", "", "team id, e.g. \"Team 3\"")
	cmd.Flags().StringVar(&cmdArgs.PlayerName, "player", "", "player name as listed in the catalog")
	cmd.Flags().Float64Var(&cmdArgs.Bid, "bid", 0, "winning bid in whole dollars")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("bid")
	return cmd
}

func newResetCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every pick and delete the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes session %q; rerun with --yes", e.cfg.Store.SessionID)
			}
			a, err := e.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Note("session "+e.cfg.Store.SessionID+" reset"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}
