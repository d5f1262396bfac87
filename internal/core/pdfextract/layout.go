package pdfextract

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Glyph is one positioned piece of page text, in PDF user space
// (origin bottom-left).
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

type cell struct {
	text       string
	start, end float64
}

type row struct {
	y     float64
	cells []cell
}

const (
	defaultFontSize    = 10.0
	rowToleranceFactor = 0.4
	cellGapFactor      = 1.5
	wordGapFactor      = 0.15
	// used when the font carries no width table and glyph advances are unknown
	blindWordGapFactor = 0.75
)

// buildRows groups glyphs sharing a baseline into rows, top of page first.
func buildRows(glyphs []Glyph) []row {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows []row
	var current []Glyph
	anchor := sorted[0].Y
	for _, g := range sorted {
		if len(current) > 0 && math.Abs(g.Y-anchor) > rowToleranceFactor*sizeOf(g) {
			rows = append(rows, row{y: anchor, cells: splitCells(current)})
			current = nil
		}
		if len(current) == 0 {
			anchor = g.Y
		}
		current = append(current, g)
	}
	if len(current) > 0 {
		rows = append(rows, row{y: anchor, cells: splitCells(current)})
	}
	return rows
}

// splitCells orders a row left to right and cuts it wherever the horizontal
// gap is wider than a few characters.
func splitCells(glyphs []Glyph) []cell {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	var cells []cell
	var b strings.Builder
	cur := cell{start: glyphs[0].X}
	flush := func() {
		cur.text = logicalOrder(strings.TrimSpace(b.String()))
		if cur.text != "" {
			cells = append(cells, cur)
		}
		b.Reset()
	}

	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			size := math.Max(sizeOf(prev), sizeOf(g))
			gap := g.X - (prev.X + prev.W)
			wordGap := wordGapFactor * size
			if prev.W == 0 {
				wordGap = blindWordGapFactor * size
			}
			switch {
			case gap > cellGapFactor*size:
				flush()
				cur = cell{start: g.X}
			case gap > wordGap:
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		cur.end = g.X + g.W
	}
	flush()
	return cells
}

func sizeOf(g Glyph) float64 {
	if g.FontSize <= 0 {
		return defaultFontSize
	}
	return g.FontSize
}

// tablesFromRows turns each run of consecutive multi-cell rows into a table.
// Cells are aligned to the columns of the run's first row.
func tablesFromRows(rows []row) []Table {
	var tables []Table
	var run []row
	closeRun := func() {
		if len(run) > 0 {
			tables = append(tables, alignRun(run))
		}
		run = nil
	}

	for _, r := range rows {
		if len(r.cells) < 2 {
			closeRun()
			continue
		}
		run = append(run, r)
	}
	closeRun()
	return tables
}

func alignRun(run []row) Table {
	header := run[0].cells
	table := make(Table, 0, len(run))

	first := make([]string, len(header))
	for i, c := range header {
		first[i] = c.text
	}
	table = append(table, first)

	for _, r := range run[1:] {
		out := make([]string, len(header))
		for _, c := range r.cells {
			idx := nearestColumn(header, c)
			if out[idx] != "" {
				out[idx] += " " + c.text
			} else {
				out[idx] = c.text
			}
		}
		table = append(table, out)
	}
	return table
}

func nearestColumn(header []cell, c cell) int {
	center := (c.start + c.end) / 2
	best, bestDist := 0, math.Inf(1)
	for i, h := range header {
		// overlapping spans win outright
		if c.start <= h.end && h.start <= c.end && h.end > h.start {
			return i
		}
		dist := math.Abs(center - (h.start+h.end)/2)
		if d := math.Abs(c.start - h.start); d < dist {
			dist = d
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// textFromRows renders rows as lines, cells separated by two spaces.
// Right-to-left rows are emitted in reading order.
func textFromRows(rows []row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		parts := make([]string, len(r.cells))
		for i, c := range r.cells {
			parts[i] = c.text
		}
		if rtlDominant(strings.Join(parts, "")) {
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}

func rtlDominant(s string) bool {
	var rtl, ltr int
	for _, r := range s {
		switch {
		case unicode.In(r, unicode.Arabic, unicode.Hebrew):
			rtl++
		case unicode.IsLetter(r):
			ltr++
		}
	}
	return rtl > ltr
}

// logicalOrder converts a visually ordered right-to-left string back to
// reading order, keeping embedded numbers and Latin runs intact. Arabic
// presentation forms are folded to their base letters.
func logicalOrder(s string) string {
	if rtlDominant(s) {
		s = reverseVisual(s)
	}
	return norm.NFKC.String(s)
}

func reverseVisual(s string) string {
	var segments []string
	var ltrRun strings.Builder
	for _, r := range s {
		if isLTRRune(r) {
			ltrRun.WriteRune(r)
			continue
		}
		if ltrRun.Len() > 0 {
			segments = append(segments, ltrRun.String())
			ltrRun.Reset()
		}
		segments = append(segments, string(r))
	}
	if ltrRun.Len() > 0 {
		segments = append(segments, ltrRun.String())
	}

	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString(segments[i])
	}
	return b.String()
}

func isLTRRune(r rune) bool {
	if unicode.In(r, unicode.Arabic, unicode.Hebrew) {
		// Arabic-Indic digits read left to right
		return unicode.IsDigit(r) || r == '٫' || r == '٬'
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == ',' || r == '%'
}
