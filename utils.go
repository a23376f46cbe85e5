package minext

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// formatReal prints the shortest decimal that reads back as v, keeping a
// trailing ".0" on whole numbers so the data file sees a float literal.
// NaN and infinities are printed as strconv spells them.
func formatReal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !math.IsNaN(v) && !math.IsInf(v, 0) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func joinReals(vals []float64, sep string) string {
	return strings.Join(lo.Map(vals, func(v float64, _ int) string {
		return formatReal(v)
	}), sep)
}

func joinInts(vals []int, sep string) string {
	return strings.Join(lo.Map(vals, func(v int, _ int) string {
		return strconv.Itoa(v)
	}), sep)
}

// flatten lays out a matrix row by row.
func flatten(c [][]float64) []float64 {
	return lo.Flatten(c)
}

// NaturalLess orders names the way people expect numbered files:
// "Prueba2" < "Prueba10". Text runs compare case-insensitively.
func NaturalLess(a, b string) bool {
	ca, cb := naturalChunks(a), naturalChunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if ca[i] == cb[i] {
			continue
		}
		if isDigits(ca[i]) && isDigits(cb[i]) {
			return lessNumeric(ca[i], cb[i])
		}
		la, lb := strings.ToLower(ca[i]), strings.ToLower(cb[i])
		if la != lb {
			return la < lb
		}
	}
	if len(ca) != len(cb) {
		return len(ca) < len(cb)
	}
	return a < b
}

// SortNatural sorts names in place with NaturalLess.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

func naturalChunks(s string) []string {
	var chunks []string
	start, prevDigit := 0, false
	for i, r := range s {
		digit := r >= '0' && r <= '9'
		if i > start && digit != prevDigit {
			chunks = append(chunks, s[start:i])
			start = i
		}
		prevDigit = digit
	}
	if start < len(s) {
		chunks = append(chunks, s[start:])
	}
	return chunks
}

func isDigits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
}

// lessNumeric compares digit runs of any length without overflowing.
func lessNumeric(a, b string) bool {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) < len(tb)
	}
	if ta != tb {
		return ta < tb
	}
	return len(a) < len(b)
}
