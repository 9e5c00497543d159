package model

import (
	"fmt"
	"strings"
)

type Position string

const (
	QB   Position = "QB"
	RB   Position = "RB"
	WR   Position = "WR"
	TE   Position = "TE"
	K    Position = "K"
	DEF  Position = "DEF"
	FLEX Position = "FLEX" // slot category only; filled by RB/WR/TE
)

// Positions lists the concrete player positions in display order.
var Positions = []Position{QB, RB, WR, TE, K, DEF}

// ParsePosition accepts the usual spellings found in projection sheets.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return QB, nil
	case "RB":
		return RB, nil
	case "WR":
		return WR, nil
	case "TE":
		return TE, nil
	case "K", "PK":
		return K, nil
	case "DEF", "DST", "D/ST":
		return DEF, nil
	case "FLEX", "W/R/T":
		return FLEX, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// FillsFlex reports whether a player at p may occupy a FLEX slot.
func (p Position) FillsFlex() bool {
	return p == RB || p == WR || p == TE
}

type Player struct {
	Name                 string   `json:"name"`
	Position             Position `json:"position"`
	Team                 string   `json:"team,omitempty"`
	ProjectedPoints      float64  `json:"projected_points"`
	AuctionValue         float64  `json:"auction_value"`
	AverageDraftPosition *float64 `json:"average_draft_position,omitempty"`
}

// HasADP reports whether the player carries an average draft position.
func (p Player) HasADP() bool {
	return p.AverageDraftPosition != nil
}
