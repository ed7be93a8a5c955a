package gene

import (
	"github.com/mnahinkhan/hgfind/internal/biomart"
	"github.com/mnahinkhan/hgfind/internal/chrom"
)

// span accumulates row coordinates for one official symbol during ingestion.
type span struct {
	chrom  chrom.Chromosome
	starts []int64
	ends   []int64
}

// Builder ingests gene facts in table order and produces an Index. Alias
// collisions are resolved greedily: when a known name reappears on a
// different chromosome it is demoted to its own official symbol instead of
// merging two distinct loci, and coordinate rows conflicting with an
// official symbol's recorded chromosome are dropped (earliest locus wins).
type Builder struct {
	aliases map[string]string
	spans   map[string]*span
	rows    int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		aliases: make(map[string]string),
		spans:   make(map[string]*span),
	}
}

// Add ingests one gene fact.
func (b *Builder) Add(f *biomart.GeneFact) {
	b.rows++

	// Initial guess: whatever the symbol field already resolves to, else
	// the symbol itself becomes official.
	official := f.Symbol
	if c, ok := b.aliases[f.Symbol]; ok {
		official = c
	}

	for _, name := range f.Names {
		c, known := b.aliases[name]
		if !known {
			b.aliases[name] = official
			continue
		}

		official = c
		sp, recorded := b.spans[official]
		if !recorded {
			// Known name whose official symbol has no coordinates yet:
			// nothing to reconcile against.
			continue
		}
		if sp.chrom != f.Chrom {
			// Same name, different chromosome: split this name off as
			// its own official symbol rather than merging loci.
			b.aliases[name] = name
			official = name
		}
	}

	sp, ok := b.spans[official]
	if !ok {
		sp = &span{chrom: f.Chrom}
		b.spans[official] = sp
	} else if sp.chrom != f.Chrom {
		// Conflicting locus for an established official symbol: the
		// earlier-seen chromosome keeps the coordinates.
		return
	}
	sp.starts = append(sp.starts, f.Start)
	sp.ends = append(sp.ends, f.End)
}

// Rows returns the number of facts ingested so far.
func (b *Builder) Rows() int {
	return b.rows
}

// Finalize collapses the accumulated per-row extents into one span per
// official symbol and returns the finished index. The builder should not be
// reused afterwards.
func (b *Builder) Finalize() *Index {
	loci := make(map[string]Locus, len(b.spans))
	for name, sp := range b.spans {
		start := sp.starts[0]
		end := sp.ends[0]
		for _, s := range sp.starts[1:] {
			if s < start {
				start = s
			}
		}
		for _, e := range sp.ends[1:] {
			if e > end {
				end = e
			}
		}
		loci[name] = Locus{Chrom: sp.chrom, Start: start, End: end}
	}

	return &Index{Aliases: b.aliases, Loci: loci}
}
