// Package importer turns projection sheets (CSV or XLSX) into catalog rows.
// Missing columns and non-numeric cells are reported here; catalog.Load
// validates the rest.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"auction-draft-mcp/internal/catalog"
	drafterr "auction-draft-mcp/internal/errors"
)

type field int

const (
	fieldName field = iota
	fieldPosition
	fieldTeam
	fieldProj
	fieldAAV
	fieldADP
)

var fieldNames = map[field]string{
	fieldName:     "name",
	fieldPosition: "position",
	fieldTeam:     "team",
	fieldProj:     "projected_points",
	fieldAAV:      "auction_value",
	fieldADP:      "average_draft_position",
}

// aliases are compared after normalizeHeader.
var aliases = map[string]field{
	"name":                 fieldName,
	"player":               fieldName,
	"playername":           fieldName,
	"position":             fieldPosition,
	"pos":                  fieldPosition,
	"team":                 fieldTeam,
	"nflteam":              fieldTeam,
	"projpoints":           fieldProj,
	"proj":                 fieldProj,
	"projectedpoints":      fieldProj,
	"points":               fieldProj,
	"fpts":                 fieldProj,
	"aav":                  fieldAAV,
	"auctionvalue":         fieldAAV,
	"value":                fieldAAV,
	"adp":                  fieldADP,
	"averagedraftposition": fieldADP,
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	var b strings.Builder
	for _, r := range h {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnMap maps each known field to its column index. Unknown headers are
// ignored; the first column wins when two headers alias the same field.
type columnMap map[field]int

func mapColumns(header []string) (columnMap, error) {
	m := make(columnMap)
	for i, h := range header {
		f, ok := aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := m[f]; !seen {
			m[f] = i
		}
	}
	var problems []drafterr.Problem
	for _, f := range []field{fieldName, fieldPosition, fieldProj, fieldAAV} {
		if _, ok := m[f]; !ok {
			problems = append(problems, drafterr.Problem{Field: fieldNames[f], Reason: "column is required"})
		}
	}
	if len(problems) > 0 {
		return nil, &drafterr.ValidationError{Problems: problems}
	}
	return m, nil
}

func (m columnMap) cell(record []string, f field) string {
	i, ok := m[f]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// number parses a numeric cell. Blank cells are missing values; "$" and
// thousands separators are tolerated. ok is false for a non-numeric cell.
func (m columnMap) number(record []string, f field) (v *float64, ok bool) {
	s := m.cell(record, f)
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") || s == "-" {
		return nil, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// row maps one record. n is the 1-based row number used in problems, the
// same numbering catalog.Load reports.
func (m columnMap) row(record []string, n int) (catalog.Row, []drafterr.Problem) {
	r := catalog.Row{
		Name:     m.cell(record, fieldName),
		Position: m.cell(record, fieldPosition),
		Team:     m.cell(record, fieldTeam),
	}
	var problems []drafterr.Problem
	for _, nf := range []struct {
		f   field
		dst **float64
	}{
		{fieldProj, &r.ProjectedPoints},
		{fieldAAV, &r.AuctionValue},
		{fieldADP, &r.AverageDraftPosition},
	} {
		v, ok := m.number(record, nf.f)
		if !ok {
			problems = append(problems, drafterr.Problem{
				Row:    n,
				Field:  fieldNames[nf.f],
				Reason: fmt.Sprintf("%q is not a number", m.cell(record, nf.f)),
			})
			continue
		}
		*nf.dst = v
	}
	return r, problems
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowsFrom maps a header plus data records, skipping blank lines. Every
// non-numeric cell is reported in one *errors.ValidationError.
func rowsFrom(records [][]string) ([]catalog.Row, error) {
	if len(records) == 0 {
		return nil, &drafterr.ValidationError{Problems: []drafterr.Problem{{Field: "header", Reason: "sheet is empty"}}}
	}
	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.Row, 0, len(records)-1)
	var problems []drafterr.Problem
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		r, bad := cols.row(rec, len(rows)+1)
		problems = append(problems, bad...)
		rows = append(rows, r)
	}
	if len(problems) > 0 {
		return nil, &drafterr.ValidationError{Problems: problems}
	}
	return rows, nil
}
