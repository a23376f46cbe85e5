package minext

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MatrixConstructor is the data-language call that shapes the flat cost list.
	MatrixConstructor = "array2d"

	dznHeader = "% Archivo de datos generado automáticamente\n" +
		"% MinExt - Minimización del Extremismo\n"
)

// EncodeDzn renders inst as a MiniZinc data file. The output depends only on
// inst, so encoding the same instance twice yields identical bytes.
func EncodeDzn(inst *Instance) string {
	s := new(strings.Builder)
	s.WriteString(dznHeader)
	s.WriteRune('\n')

	s.WriteString("% Número de personas\n")
	fmt.Fprintf(s, "n = %d;\n", inst.N)
	s.WriteString("% Número de opiniones\n")
	fmt.Fprintf(s, "m = %d;\n\n", inst.M)

	s.WriteString("% Distribución inicial de personas por opinión\n")
	fmt.Fprintf(s, "p = [%s];\n\n", joinInts(inst.P, ", "))

	s.WriteString("% Valores de extremismo por opinión\n")
	fmt.Fprintf(s, "ext = [%s];\n\n", joinReals(inst.Ext, ", "))

	s.WriteString("% Costos extra por mover hacia opinión inicialmente vacía\n")
	fmt.Fprintf(s, "ce = [%s];\n\n", joinReals(inst.Ce, ", "))

	// row-major: the solver rebuilds c[i][j] from the flat list and the two ranges
	s.WriteString("% Matriz de costos de movimiento entre opiniones\n")
	fmt.Fprintf(s, "c = %s(1..m, 1..m, [%s]);\n\n", MatrixConstructor, joinReals(flatten(inst.C), ", "))

	s.WriteString("% Presupuesto total de costo\n")
	fmt.Fprintf(s, "ct = %s;\n", formatReal(inst.Ct))
	s.WriteString("% Máximo número de movimientos\n")
	fmt.Fprintf(s, "maxM = %d;\n", inst.MaxM)
	return s.String()
}

// WriteDzn writes EncodeDzn(inst) to w.
func WriteDzn(w io.Writer, inst *Instance) error {
	_, err := io.WriteString(w, EncodeDzn(inst))
	return err
}

// DecodeDzn reads back a data file in the shape EncodeDzn produces: "%"
// comments, scalar and list declarations and a single array2d matrix over
// 1..m. Anything else in the data language is rejected.
func DecodeDzn(text string) (*Instance, error) {
	decls, err := splitDeclarations(text)
	if err != nil {
		return nil, err
	}
	for _, name := range RequiredDeclarations {
		if _, ok := decls[name]; !ok {
			return nil, errors.Errorf("declaration %s not found", name)
		}
	}

	inst := new(Instance)
	if inst.N, err = strconv.Atoi(decls["n"]); err != nil {
		return nil, errors.Wrap(err, "n")
	}
	if inst.M, err = strconv.Atoi(decls["m"]); err != nil {
		return nil, errors.Wrap(err, "m")
	}
	if inst.MaxM, err = strconv.Atoi(decls["maxM"]); err != nil {
		return nil, errors.Wrap(err, "maxM")
	}
	if inst.Ct, err = strconv.ParseFloat(decls["ct"], 64); err != nil {
		return nil, errors.Wrap(err, "ct")
	}
	if inst.P, err = decodeIntList(decls["p"]); err != nil {
		return nil, errors.Wrap(err, "p")
	}
	if inst.Ext, err = decodeRealList(decls["ext"]); err != nil {
		return nil, errors.Wrap(err, "ext")
	}
	if inst.Ce, err = decodeRealList(decls["ce"]); err != nil {
		return nil, errors.Wrap(err, "ce")
	}
	if inst.C, err = decodeMatrix(decls["c"], inst.M); err != nil {
		return nil, errors.Wrap(err, "c")
	}

	for name, l := range map[string]int{"p": len(inst.P), "ext": len(inst.Ext), "ce": len(inst.Ce)} {
		if l != inst.M {
			return nil, errors.Errorf("%s has %d values, expected m = %d", name, l, inst.M)
		}
	}
	return inst, nil
}

func splitDeclarations(text string) (map[string]string, error) {
	body := new(strings.Builder)
	for _, line := range strings.Split(text, "\n") {
		code, _, _ := strings.Cut(line, "%")
		body.WriteString(code)
		body.WriteRune('\n')
	}

	decls := make(map[string]string)
	for _, stmt := range strings.Split(body.String(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		name, value, ok := strings.Cut(stmt, "=")
		if !ok {
			return nil, errors.Errorf("statement %q is not a declaration", stmt)
		}
		name = strings.TrimSpace(name)
		if _, dup := decls[name]; dup {
			return nil, errors.Errorf("%s declared twice", name)
		}
		decls[name] = strings.TrimSpace(value)
	}
	return decls, nil
}

func listItems(lit string) ([]string, error) {
	if !strings.HasPrefix(lit, "[") || !strings.HasSuffix(lit, "]") {
		return nil, errors.Errorf("%q is not a list literal", lit)
	}
	inner := strings.TrimSpace(lit[1 : len(lit)-1])
	if inner == "" {
		return nil, nil
	}
	items := strings.Split(inner, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items, nil
}

func decodeIntList(lit string) ([]int, error) {
	items, err := listItems(lit)
	if err != nil {
		return nil, err
	}
	vals := make([]int, len(items))
	for i, it := range items {
		if vals[i], err = strconv.Atoi(it); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func decodeRealList(lit string) ([]float64, error) {
	items, err := listItems(lit)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(items))
	for i, it := range items {
		if vals[i], err = strconv.ParseFloat(it, 64); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func decodeMatrix(lit string, m int) ([][]float64, error) {
	prefix := MatrixConstructor + "("
	if !strings.HasPrefix(lit, prefix) || !strings.HasSuffix(lit, ")") {
		return nil, errors.Errorf("expected %s(...), got %q", MatrixConstructor, lit)
	}
	args := lit[len(prefix) : len(lit)-1]
	open := strings.Index(args, "[")
	if open < 0 {
		return nil, errors.New("missing value list")
	}
	ranges := strings.Split(strings.TrimSuffix(strings.TrimSpace(args[:open]), ","), ",")
	if len(ranges) != 2 {
		return nil, errors.Errorf("expected 2 index ranges, got %d", len(ranges))
	}
	for _, r := range ranges {
		if err := checkRange(strings.TrimSpace(r), m); err != nil {
			return nil, err
		}
	}
	flat, err := decodeRealList(strings.TrimSpace(args[open:]))
	if err != nil {
		return nil, err
	}
	if len(flat) != m*m {
		return nil, errors.Errorf("expected %d values, got %d", m*m, len(flat))
	}
	c := make([][]float64, m)
	for i := range c {
		c[i] = flat[i*m : (i+1)*m]
	}
	return c, nil
}

func checkRange(r string, m int) error {
	first, last, ok := strings.Cut(r, "..")
	if !ok || strings.TrimSpace(first) != "1" {
		return errors.Errorf("index range %q must start at 1", r)
	}
	last = strings.TrimSpace(last)
	if last == "m" {
		return nil
	}
	if v, err := strconv.Atoi(last); err != nil || v != m {
		return errors.Errorf("index range %q does not match m = %d", r, m)
	}
	return nil
}
