// Package chrom provides the canonical human chromosome value type.
package chrom

import (
	"fmt"
	"strconv"
	"strings"
)

// Chromosome identifies one of the 25 human chromosomes: the autosomes 1-22,
// the sex chromosomes X and Y, and the mitochondrial genome. The underlying
// rank (1-22, X=23, Y=24, M=25) defines the total order, so values compare
// directly with < and ==. The zero value is invalid and means "unset".
type Chromosome uint8

// Symbolic chromosomes.
const (
	X Chromosome = 23
	Y Chromosome = 24
	M Chromosome = 25
)

// InvalidError is returned when a raw value cannot be converted to a
// Chromosome.
type InvalidError struct {
	Value string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid chromosome %q: expected X, Y, M(T), or 1-22", e.Value)
}

// FromInt converts an autosome number to a Chromosome.
// Only 1-22 are accepted; the symbolic chromosomes have no integer form.
func FromInt(n int) (Chromosome, error) {
	if n < 1 || n > 22 {
		return 0, &InvalidError{Value: strconv.Itoa(n)}
	}
	return Chromosome(n), nil
}

// Parse converts a raw string to a Chromosome. Accepted forms are the
// case-insensitive symbols "X", "Y", "MT", "M" and numeric strings 1-22.
func Parse(s string) (Chromosome, error) {
	switch strings.ToUpper(s) {
	case "X":
		return X, nil
	case "Y":
		return Y, nil
	case "MT", "M":
		return M, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidError{Value: s}
	}
	return FromInt(n)
}

// IsValid reports whether c is one of the 25 known chromosomes.
func (c Chromosome) IsValid() bool {
	return c >= 1 && c <= 25
}

// Int returns the rank of c (1-22, X=23, Y=24, M=25).
func (c Chromosome) Int() int {
	return int(c)
}

// String returns the canonical form: "1".."22", "X", "Y", or "M".
func (c Chromosome) String() string {
	switch {
	case c >= 1 && c <= 22:
		return strconv.Itoa(int(c))
	case c == X:
		return "X"
	case c == Y:
		return "Y"
	case c == M:
		return "M"
	}
	return fmt.Sprintf("chrom(%d)", uint8(c))
}
