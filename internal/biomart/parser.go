// Package biomart provides parsing for BioMart gene coordinate exports.
package biomart

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mnahinkhan/hgfind/internal/chrom"
)

// Column indices of the BioMart export. Every data line has exactly these
// seven tab-separated fields.
const (
	colStart = iota
	colEnd
	colSymbol
	colSynonym
	colWikiGene
	colUniProt
	colChromosome

	numColumns
)

// GeneFact is one row of the table: a candidate locus plus the names that
// refer to it. Facts are consumed by gene.Builder and discarded.
type GeneFact struct {
	Start int64
	End   int64

	// Symbol is the raw gene-symbol field, possibly empty.
	Symbol string

	// Names holds the non-empty name fields in column order, symbol first.
	Names []string

	Chrom chrom.Chromosome
}

// ParseError reports a malformed table line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("biomart parse error at line %d: %s", e.Line, e.Message)
}

// Parser reads gene facts from a BioMart export, one row at a time.
type Parser struct {
	scanner    *bufio.Scanner
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a parser for the given file. Supports plain and gzipped
// exports; use "-" for stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open biomart file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read biomart header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek biomart file: %w", err)
	}

	var reader io.Reader = file
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		reader = p.gzipReader
	}

	if err := p.init(reader); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{}
	if err := p.init(r); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) init(r io.Reader) error {
	p.scanner = bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	p.scanner.Buffer(buf, 1024*1024)

	// Discard the header line
	if p.scanner.Scan() {
		p.lineNumber = 1
		return nil
	}
	if err := p.scanner.Err(); err != nil {
		return fmt.Errorf("read biomart header: %w", err)
	}
	return &ParseError{Line: 1, Message: "empty file: expected header line"}
}

// Close releases the underlying file handles.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// Next returns the next gene fact, or nil at end of input. Rows whose
// chromosome label is unrecognized or whose coordinates do not parse are
// skipped; rows with the wrong field count are an error.
func (p *Parser) Next() (*GeneFact, error) {
	for p.scanner.Scan() {
		p.lineNumber++
		line := p.scanner.Text()
		if line == "" {
			continue
		}

		fact, ok, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return fact, nil
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan biomart file: %w", err)
	}
	return nil, nil
}

// parseLine parses one data line. The middle return value is false when the
// row contributes no fact and should be skipped.
func (p *Parser) parseLine(line string) (*GeneFact, bool, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != numColumns {
		return nil, false, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected %d fields, got %d", numColumns, len(fields)),
		}
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	c, ok := chromFromLabel(fields[colChromosome])
	if !ok {
		return nil, false, nil
	}

	start, err := strconv.ParseInt(fields[colStart], 10, 64)
	if err != nil {
		return nil, false, nil
	}
	end, err := strconv.ParseInt(fields[colEnd], 10, 64)
	if err != nil {
		return nil, false, nil
	}

	names := make([]string, 0, 4)
	for _, col := range []int{colSymbol, colSynonym, colWikiGene, colUniProt} {
		if fields[col] != "" {
			names = append(names, fields[col])
		}
	}

	return &GeneFact{
		Start:  start,
		End:    end,
		Symbol: fields[colSymbol],
		Names:  names,
		Chrom:  c,
	}, true, nil
}

// chromFromLabel resolves the chromosome/scaffold name column. Primary
// chromosomes are taken as-is; alternate-scaffold and patch contigs (HSCHR
// naming) are mapped back to their primary chromosome. Returns false for
// labels that match no known pattern, which drops the row.
func chromFromLabel(label string) (chrom.Chromosome, bool) {
	switch label {
	case "X", "Y", "MT":
		c, err := chrom.Parse(label)
		if err != nil {
			return 0, false
		}
		return c, true
	}

	if len(label) <= 2 {
		n, err := strconv.Atoi(label)
		if err != nil {
			return 0, false
		}
		c, err := chrom.FromInt(n)
		if err != nil {
			return 0, false
		}
		return c, true
	}

	idx := strings.Index(strings.ToUpper(label), "HSCHR")
	if idx < 0 {
		return 0, false
	}

	// Take the 7-character window starting at HSCHR and drop the prefix,
	// leaving up to two characters naming the chromosome. Examples:
	// "CHR_HSCHR15_4_CTG8" -> "15", "CHR_HSCHRX_2_CTG3" -> "X_".
	window := label[idx:]
	if len(window) > 7 {
		window = window[:7]
	}
	rest := window[5:]
	if rest == "" {
		return 0, false
	}

	switch {
	case len(rest) >= 2 && rest[1] >= '0' && rest[1] <= '9':
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, false
		}
		c, err := chrom.FromInt(n)
		if err != nil {
			return 0, false
		}
		return c, true

	case rest[0] == 'X':
		return chrom.X, true

	case rest[0] == 'Y':
		return chrom.Y, true

	case rest == "MT":
		return chrom.M, true

	default:
		n, err := strconv.Atoi(rest[:1])
		if err != nil {
			return 0, false
		}
		c, err := chrom.FromInt(n)
		if err != nil {
			return 0, false
		}
		return c, true
	}
}
