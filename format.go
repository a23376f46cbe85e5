package minext

import (
	"fmt"
	"strings"
)

const (
	// NoResult is what FormatOutput returns for empty solver output.
	NoResult = "Sin resultado"
	// NoSolution is what Summary returns when no objective value was found.
	NoSolution = "No se encontró solución válida"
)

type decoration struct {
	match  func(line string) bool
	prefix string
}

var decorations = []decoration{
	{hasPrefix(sectionPrefix), "\n"},
	{hasPrefix(LabelExtremism), "🎯 "},
	{isMoveLine, "📋 "},
	{isOpinionLine, "👥 "},
	{hasPrefix(LabelCost), "💰 "},
	{hasPrefix(LabelMoves), "🔄 "},
}

// FormatOutput tidies solver output for display. Blank lines are dropped,
// section headers get some air and result lines get a marker glyph. Line
// content and order are otherwise untouched.
func FormatOutput(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return NoResult
	}
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, d := range decorations {
			if d.match(line) {
				line = d.prefix + line
				break
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Summary renders m as a few human readable lines.
func Summary(m Metrics) string {
	if !m.HasSolution() {
		return NoSolution
	}
	s := new(strings.Builder)
	fmt.Fprintf(s, "Extremismo Total: %.3f\n", *m.TotalExtremism)
	if m.CostUsed != nil && m.CostLimit != nil {
		fmt.Fprintf(s, "Costo: %.2f / %.2f", *m.CostUsed, *m.CostLimit)
		if pct, ok := m.CostUsage(); ok {
			fmt.Fprintf(s, " (%.1f%%)", pct)
		}
		s.WriteRune('\n')
	}
	if m.MovesUsed != nil && m.MovesLimit != nil {
		fmt.Fprintf(s, "Movimientos: %d / %d", *m.MovesUsed, *m.MovesLimit)
		if pct, ok := m.MoveUsage(); ok {
			fmt.Fprintf(s, " (%.1f%%)", pct)
		}
		s.WriteRune('\n')
	}
	fmt.Fprintf(s, "Tipos de movimiento: %d", m.ActiveMoves)
	return s.String()
}
