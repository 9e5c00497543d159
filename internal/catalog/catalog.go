// Package catalog holds the player pool for one draft session. A Catalog is
// built once from raw rows and is read-only afterwards.
package catalog

import (
	"fmt"
	"strings"

	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/model"
)

// Row is one raw catalog record. Nil numeric fields are missing values.
type Row struct {
	Name                 string
	Position             string
	Team                 string
	ProjectedPoints      *float64
	AuctionValue         *float64
	AverageDraftPosition *float64
}

type Catalog struct {
	players []model.Player
	byName  map[string]int
}

// Load validates rows and builds a catalog. Any problem fails the whole
// load with a *errors.ValidationError listing every problem found.
func Load(rows []Row) (*Catalog, error) {
	var problems []drafterr.Problem
	add := func(row int, field, reason string) {
		problems = append(problems, drafterr.Problem{Row: row, Field: field, Reason: reason})
	}

	c := &Catalog{
		players: make([]model.Player, 0, len(rows)),
		byName:  make(map[string]int, len(rows)),
	}
	firstSeen := make(map[string]int, len(rows))

	for i, r := range rows {
		n := i + 1
		ok := true

		name := strings.TrimSpace(r.Name)
		if name == "" {
			add(n, "name", "is required")
			ok = false
		} else if prev, dup := firstSeen[name]; dup {
			add(n, "name", fmt.Sprintf("%q duplicates row %d", name, prev))
			ok = false
		} else {
			firstSeen[name] = n
		}

		var pos model.Position
		if strings.TrimSpace(r.Position) == "" {
			add(n, "position", "is required")
			ok = false
		} else if p, err := model.ParsePosition(r.Position); err != nil {
			add(n, "position", err.Error())
			ok = false
		} else if p == model.FLEX {
			add(n, "position", "FLEX is a slot, not a player position")
			ok = false
		} else {
			pos = p
		}

		switch {
		case r.ProjectedPoints == nil:
			add(n, "projected_points", "is required")
			ok = false
		case *r.ProjectedPoints < 0:
			add(n, "projected_points", "must not be negative")
			ok = false
		}

		switch {
		case r.AuctionValue == nil:
			add(n, "auction_value", "is required")
			ok = false
		case *r.AuctionValue <= 0:
			add(n, "auction_value", "must be positive")
			ok = false
		}

		if r.AverageDraftPosition != nil && *r.AverageDraftPosition <= 0 {
			add(n, "average_draft_position", "must be positive when present")
			ok = false
		}

		if !ok {
			continue
		}
		p := model.Player{
			Name:            name,
			Position:        pos,
			Team:            strings.TrimSpace(r.Team),
			ProjectedPoints: *r.ProjectedPoints,
			AuctionValue:    *r.AuctionValue,
		}
		if r.AverageDraftPosition != nil {
			adp := *r.AverageDraftPosition
			p.AverageDraftPosition = &adp
		}
		c.byName[name] = len(c.players)
		c.players = append(c.players, p)
	}

	if len(problems) > 0 {
		return nil, &drafterr.ValidationError{Problems: problems}
	}
	return c, nil
}

// Len returns the number of players in the catalog.
func (c *Catalog) Len() int { return len(c.players) }

// Players returns every player in catalog order.
func (c *Catalog) Players() []model.Player {
	out := make([]model.Player, len(c.players))
	copy(out, c.players)
	return out
}

// Lookup finds a player by exact (trimmed) name.
func (c *Catalog) Lookup(name string) (model.Player, bool) {
	i, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return model.Player{}, false
	}
	return c.players[i], true
}

// Available returns the players whose names are not in excluded, keeping
// catalog order.
func (c *Catalog) Available(excluded map[string]struct{}) []model.Player {
	out := make([]model.Player, 0, len(c.players)-min(len(excluded), len(c.players)))
	for _, p := range c.players {
		if _, gone := excluded[p.Name]; gone {
			continue
		}
		out = append(out, p)
	}
	return out
}
