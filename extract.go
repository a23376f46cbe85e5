package minext

import (
	"strconv"
	"strings"
)

// Labels printed by the MinExt model's output block.
const (
	LabelExtremism = "Extremismo Total:"
	LabelCost      = "Costo total:"
	LabelMoves     = "Movimientos:"
	movePrefix     = "Mover "
	moveMarker     = "personas:"
	opinionPrefix  = "Opinión "
	opinionMarker  = "personas"
	sectionPrefix  = "=== "
)

// A rule handles every output line its predicate accepts. Rules are tried in
// order and the first match consumes the line.
type rule struct {
	match  func(line string) bool
	handle func(m *Metrics, line string)
}

var extractionRules = []rule{
	{containing(LabelExtremism), takeExtremism},
	{containing(LabelCost), takeCost},
	{containing(LabelMoves), takeMoves},
	{isMoveLine, countMove},
}

// ExtractMetrics scans solver output for the known result lines. Lines that
// are missing or whose numbers do not parse leave the matching field unset;
// for single-valued fields the first parseable line wins.
func ExtractMetrics(raw string) Metrics {
	var m Metrics
	if strings.TrimSpace(raw) == "" {
		return m
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for _, r := range extractionRules {
			if r.match(line) {
				r.handle(&m, line)
				break
			}
		}
	}
	return m
}

func containing(label string) func(string) bool {
	return func(line string) bool {
		return strings.Contains(line, label)
	}
}

func hasPrefix(prefix string) func(string) bool {
	return func(line string) bool {
		return strings.HasPrefix(line, prefix)
	}
}

func isMoveLine(line string) bool {
	return strings.HasPrefix(line, movePrefix) && strings.Contains(line, moveMarker)
}

func isOpinionLine(line string) bool {
	return strings.HasPrefix(line, opinionPrefix) && strings.Contains(line, opinionMarker)
}

func takeExtremism(m *Metrics, line string) {
	if m.TotalExtremism != nil {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line[strings.LastIndex(line, ":")+1:]), 64)
	if err != nil {
		return
	}
	m.TotalExtremism = &v
}

func takeCost(m *Metrics, line string) {
	if m.CostUsed != nil {
		return
	}
	parts, ok := ratioParts(line, LabelCost)
	if !ok {
		return
	}
	used, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return
	}
	limit, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return
	}
	m.CostUsed, m.CostLimit = &used, &limit
}

func takeMoves(m *Metrics, line string) {
	if m.MovesUsed != nil {
		return
	}
	parts, ok := ratioParts(line, LabelMoves)
	if !ok {
		return
	}
	used, err := strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	limit, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	m.MovesUsed, m.MovesLimit = &used, &limit
}

func countMove(m *Metrics, _ string) {
	m.ActiveMoves++
}

// ratioParts returns the two trimmed sides of "used / limit" following the
// last occurrence of label.
func ratioParts(line, label string) ([]string, bool) {
	after := line[strings.LastIndex(line, label)+len(label):]
	parts := strings.Split(strings.TrimSpace(after), "/")
	if len(parts) < 2 {
		return nil, false
	}
	return []string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}, true
}
