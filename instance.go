package minext

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingSection is wrapped by a MalformedInstanceError when the file ends
// before a required section.
var ErrMissingSection = errors.New("missing section")

// MalformedInstanceError describes why an instance file could not be parsed.
// Line is the 1-based physical line of the offending content, 0 when the
// section is missing altogether.
type MalformedInstanceError struct {
	Section string
	Line    int
	Content string
	Reason  string
	Err     error
}

func (e *MalformedInstanceError) Error() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "malformed instance: section %s", e.Section)
	if e.Line > 0 {
		fmt.Fprintf(s, " at line %d (%q)", e.Line, e.Content)
	}
	if e.Reason != "" {
		s.WriteString(": ")
		s.WriteString(e.Reason)
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}

func (e *MalformedInstanceError) Unwrap() error {
	return e.Err
}

type sourceLine struct {
	num  int
	text string
}

type instanceScanner struct {
	lines []sourceLine
	pos   int
}

func newInstanceScanner(text string) *instanceScanner {
	text = strings.TrimPrefix(text, "\ufeff")
	s := new(instanceScanner)
	for i, raw := range strings.Split(text, "\n") {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		s.lines = append(s.lines, sourceLine{num: i + 1, text: t})
	}
	return s
}

func (s *instanceScanner) next(section string) (sourceLine, error) {
	if s.pos >= len(s.lines) {
		return sourceLine{}, &MalformedInstanceError{
			Section: section,
			Reason:  "file ends before this section",
			Err:     ErrMissingSection,
		}
	}
	l := s.lines[s.pos]
	s.pos++
	return l, nil
}

func (s *instanceScanner) rest() []sourceLine {
	r := s.lines[s.pos:]
	s.pos = len(s.lines)
	return r
}

// ParseInstance reads the positional instance format:
//
//	n
//	m
//	p1,...,pm
//	ext1,...,extm
//	ce1,...,cem
//	c11,...,c1m      (m rows)
//	ct maxM          (or ct and maxM on two lines)
//
// Blank lines are ignored everywhere. Either the whole instance is returned or
// a *MalformedInstanceError.
func ParseInstance(text string) (*Instance, error) {
	s := newInstanceScanner(text)
	inst := new(Instance)
	steps := []func(*instanceScanner) error{
		inst.parseN,
		inst.parseM,
		inst.parseP,
		inst.parseExt,
		inst.parseCe,
		inst.parseCosts,
		inst.parseLimits,
	}
	for _, step := range steps {
		if err := step(s); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// ParseInstanceReader is ParseInstance over the full contents of r.
func ParseInstanceReader(r io.Reader) (*Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading instance")
	}
	return ParseInstance(string(data))
}

func (inst *Instance) parseN(s *instanceScanner) error {
	l, err := s.next("n")
	if err != nil {
		return err
	}
	inst.N, err = parseInt(l, "n", l.text)
	if err != nil {
		return err
	}
	if inst.N <= 0 {
		return lineError(l, "n", "population must be positive", nil)
	}
	return nil
}

func (inst *Instance) parseM(s *instanceScanner) error {
	l, err := s.next("m")
	if err != nil {
		return err
	}
	inst.M, err = parseInt(l, "m", l.text)
	if err != nil {
		return err
	}
	if inst.M <= 0 {
		return lineError(l, "m", "number of opinions must be positive", nil)
	}
	return nil
}

func (inst *Instance) parseP(s *instanceScanner) error {
	l, err := s.next("p")
	if err != nil {
		return err
	}
	fields, err := splitList(l, "p", inst.M)
	if err != nil {
		return err
	}
	inst.P = make([]int, len(fields))
	for i, f := range fields {
		v, err := parseInt(l, "p", f)
		if err != nil {
			return err
		}
		if v < 0 {
			return lineError(l, "p", fmt.Sprintf("negative population %d for opinion %d", v, i+1), nil)
		}
		inst.P[i] = v
	}
	return nil
}

func (inst *Instance) parseExt(s *instanceScanner) (err error) {
	inst.Ext, err = nextRealList(s, "ext", inst.M)
	return err
}

func (inst *Instance) parseCe(s *instanceScanner) (err error) {
	inst.Ce, err = nextRealList(s, "ce", inst.M)
	return err
}

func (inst *Instance) parseCosts(s *instanceScanner) error {
	inst.C = make([][]float64, inst.M)
	for i := range inst.C {
		row, err := nextRealList(s, fmt.Sprintf("c (row %d)", i+1), inst.M)
		if err != nil {
			return err
		}
		inst.C[i] = row
	}
	return nil
}

// parseLimits accepts "ct maxM" on one line, or ct and maxM on two lines.
// Anything after maxM is ignored.
func (inst *Instance) parseLimits(s *instanceScanner) error {
	rest := s.rest()
	var err error
	switch {
	case len(rest) == 0:
		return &MalformedInstanceError{
			Section: "ct/maxM",
			Reason:  "file ends before the budget line",
			Err:     ErrMissingSection,
		}
	case len(rest) >= 2:
		if inst.Ct, err = parseReal(rest[0], "ct", rest[0].text); err != nil {
			return err
		}
		inst.MaxM, err = parseInt(rest[1], "maxM", rest[1].text)
		return err
	}

	l := rest[0]
	fields := strings.Fields(l.text)
	if len(fields) < 2 {
		return lineError(l, "maxM", "expected \"ct maxM\" on the budget line", ErrMissingSection)
	}
	if inst.Ct, err = parseReal(l, "ct", fields[0]); err != nil {
		return err
	}
	inst.MaxM, err = parseInt(l, "maxM", fields[1])
	return err
}

func nextRealList(s *instanceScanner, section string, want int) ([]float64, error) {
	l, err := s.next(section)
	if err != nil {
		return nil, err
	}
	fields, err := splitList(l, section, want)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		if vals[i], err = parseReal(l, section, f); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func splitList(l sourceLine, section string, want int) ([]string, error) {
	fields := strings.Split(l.text, ",")
	if len(fields) != want {
		return nil, lineError(l, section, fmt.Sprintf("expected %d values, got %d", want, len(fields)), nil)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func parseInt(l sourceLine, section, tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, lineError(l, section, fmt.Sprintf("%q is not an integer", tok), nil)
	}
	return v, nil
}

func parseReal(l sourceLine, section, tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, lineError(l, section, fmt.Sprintf("%q is not a number", tok), nil)
	}
	return v, nil
}

func lineError(l sourceLine, section, reason string, err error) *MalformedInstanceError {
	return &MalformedInstanceError{
		Section: section,
		Line:    l.num,
		Content: l.text,
		Reason:  reason,
		Err:     err,
	}
}

// FormatInstance renders inst in the text format read by ParseInstance, with
// ct and maxM on a single line.
func FormatInstance(inst *Instance) string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "%d\n%d\n", inst.N, inst.M)
	s.WriteString(joinInts(inst.P, ","))
	s.WriteRune('\n')
	s.WriteString(joinReals(inst.Ext, ","))
	s.WriteRune('\n')
	s.WriteString(joinReals(inst.Ce, ","))
	s.WriteRune('\n')
	for _, row := range inst.C {
		s.WriteString(joinReals(row, ","))
		s.WriteRune('\n')
	}
	fmt.Fprintf(s, "%s %d\n", formatReal(inst.Ct), inst.MaxM)
	return s.String()
}
