package minext

import (
	"fmt"
	"strings"
)

// RequiredDeclarations lists, in file order, every parameter the MinExt model
// expects from a data file.
var RequiredDeclarations = []string{"n", "m", "p", "ext", "ce", "c", "ct", "maxM"}

// ValidateDzn is a quick presence check: each required "<name> =" and the
// array2d constructor must appear somewhere in text. Declarations that only
// occur inside comments still count as present.
func ValidateDzn(text string) (bool, []string) {
	var findings []string
	for _, name := range RequiredDeclarations {
		if !strings.Contains(text, name+" =") {
			findings = append(findings, fmt.Sprintf("missing declaration: %s", name))
		}
	}
	if !strings.Contains(text, MatrixConstructor) {
		findings = append(findings, fmt.Sprintf("missing %s constructor for cost matrix c", MatrixConstructor))
	}
	return len(findings) == 0, findings
}
