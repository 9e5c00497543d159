// Package render formats draft state as terminal tables for the CLI.
package render

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"auction-draft-mcp/internal/metrics"
	"auction-draft-mcp/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	noteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func titled(title string, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func adp(p model.Player) string {
	if !p.HasADP() {
		return "-"
	}
	return num(*p.AverageDraftPosition)
}

func money(v int) string { return "$" + strconv.Itoa(v) }

// Note renders a dimmed one-line message.
func Note(msg string) string { return noteStyle.Render(msg) }

// Error renders a failed command for the terminal.
func Error(err error) string { return errStyle.Render("error: ") + err.Error() }

func Players(title string, players []model.Player) string {
	if len(players) == 0 {
		return titled(title, Note("no players"))
	}
	t := newTable("Name", "Pos", "Team", "Proj", "AAV", "ADP")
	for _, p := range players {
		t.Row(p.Name, string(p.Position), p.Team, num(p.ProjectedPoints), num(p.AuctionValue), adp(p))
	}
	return titled(title, t.String())
}

// Ranked renders a ranked list with the metric named by scoreLabel.
func Ranked(title, scoreLabel string, ranked []metrics.RankedPlayer) string {
	if len(ranked) == 0 {
		return titled(title, Note("no players"))
	}
	t := newTable("#", "Name", "Pos", "Proj", "AAV", scoreLabel)
	for _, r := range ranked {
		t.Row(strconv.Itoa(r.Rank), r.Player.Name, string(r.Player.Position),
			num(r.Player.ProjectedPoints), num(r.Player.AuctionValue), fmt.Sprintf("%.2f", r.Score))
	}
	return titled(title, t.String())
}

func Sleepers(res metrics.SleeperResult) string {
	if res.InsufficientData {
		return titled("Sleepers", Note("insufficient data: no available player has an ADP"))
	}
	return Ranked("Sleepers", "ADP gap", res.Players)
}

func Budgets(budgets []metrics.TeamBudget) string {
	t := newTable("Team", "Remaining", "Spent", "Roster", "Open", "Max bid")
	for _, b := range budgets {
		t.Row(b.TeamID, money(b.BudgetRemaining), money(b.Spent),
			strconv.Itoa(b.RosterCount), strconv.Itoa(b.OpenSlots), money(b.MaxBid))
	}
	return titled("Team budgets", t.String())
}

func Roster(team model.TeamSnapshot) string {
	title := fmt.Sprintf("%s  %s left, %s spent", team.TeamID, money(team.BudgetRemaining), money(team.Spent()))
	if len(team.Roster) == 0 {
		return titled(title, Note("no players drafted"))
	}
	t := newTable("Pick", "Name", "Pos", "Bid")
	for _, p := range team.Roster {
		t.Row(strconv.Itoa(p.Pick), p.Player.Name, string(p.Player.Position), money(p.Bid))
	}
	return titled(title, t.String())
}

// Spend lists positions in catalog order, skipping zero spend.
func Spend(teamID string, spend map[model.Position]int) string {
	title := "Spend by position: " + teamID
	if len(spend) == 0 {
		return titled(title, Note("nothing spent"))
	}
	t := newTable("Pos", "Spent")
	for _, pos := range model.Positions {
		if v, ok := spend[pos]; ok {
			t.Row(string(pos), money(v))
		}
	}
	return titled(title, t.String())
}

func Picks(picks []model.DraftPick) string {
	if len(picks) == 0 {
		return titled("Draft log", Note("no picks yet"))
	}
	sorted := append([]model.DraftPick(nil), picks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pick < sorted[j].Pick })
	t := newTable("Pick", "Team", "Name", "Pos", "Bid", "Time")
	for _, p := range sorted {
		t.Row(strconv.Itoa(p.Pick), p.TeamID, p.Player.Name, string(p.Player.Position),
			money(p.Bid), p.DraftedAt.Format("15:04:05"))
	}
	return titled("Draft log", t.String())
}

// Pick confirms a single recorded pick.
func Pick(p model.DraftPick) string {
	return fmt.Sprintf("pick %d: %s drafts %s (%s) for %s",
		p.Pick, p.TeamID, p.Player.Name, p.Player.Position, money(p.Bid))
}
