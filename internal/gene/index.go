// Package gene builds and queries the gene name index: an alias map from any
// known name to its official symbol, and a locus map from official symbol to
// aggregated genomic coordinates.
package gene

import (
	"fmt"
	"strings"

	"github.com/mnahinkhan/hgfind/internal/chrom"
)

// Locus is the aggregated position of a gene: its chromosome and the union
// span (min start, max end) over all table rows for the official symbol.
type Locus struct {
	Chrom chrom.Chromosome
	Start int64
	End   int64
}

// Index holds the two finished lookup structures. It is built once by a
// Builder and read-only afterwards.
type Index struct {
	// Aliases maps every known name to its official symbol.
	Aliases map[string]string

	// Loci maps official symbols to their aggregated locus.
	Loci map[string]Locus
}

// Result is the outcome of a successful lookup.
type Result struct {
	OfficialName string
	Chrom        chrom.Chromosome
	Start        int64
	End          int64
}

// NotFoundError is returned when a queried name is not a known gene.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("gene %q not recognized", e.Query)
}

// Lookup resolves a gene name to its locus. Matching is case-insensitive.
// A name is recognized only when it resolves through the alias map to an
// official symbol that has coordinates.
func (idx *Index) Lookup(name string) (*Result, error) {
	official, ok := idx.Aliases[strings.ToUpper(name)]
	if !ok {
		return nil, &NotFoundError{Query: name}
	}

	locus, ok := idx.Loci[official]
	if !ok {
		return nil, &NotFoundError{Query: name}
	}

	return &Result{
		OfficialName: official,
		Chrom:        locus.Chrom,
		Start:        locus.Start,
		End:          locus.End,
	}, nil
}

// GeneCount returns the number of official symbols with coordinates.
func (idx *Index) GeneCount() int {
	return len(idx.Loci)
}

// AliasCount returns the number of known names.
func (idx *Index) AliasCount() int {
	return len(idx.Aliases)
}
