package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/mnahinkhan/hgfind/internal/chrom"
	"github.com/mnahinkhan/hgfind/internal/gene"
)

// ExportIndex replaces the gene tables with the contents of the index,
// batch-writing rows through the Appender API.
func (s *Store) ExportIndex(idx *gene.Index) error {
	if _, err := s.db.Exec("DELETE FROM genes"); err != nil {
		return fmt.Errorf("clear genes: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM gene_aliases"); err != nil {
		return fmt.Errorf("clear gene_aliases: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if err := appendRows(conn, "genes", func(a *goduckdb.Appender) error {
		for name, locus := range idx.Loci {
			if err := a.AppendRow(name, locus.Chrom.String(), locus.Start, locus.End); err != nil {
				return fmt.Errorf("append gene %s: %w", name, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return appendRows(conn, "gene_aliases", func(a *goduckdb.Appender) error {
		for name, official := range idx.Aliases {
			if err := a.AppendRow(name, official); err != nil {
				return fmt.Errorf("append alias %s: %w", name, err)
			}
		}
		return nil
	})
}

// appendRows runs fn against a fresh appender for the given table and
// flushes it.
func appendRows(conn *sql.Conn, table string, fn func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// LookupGene resolves a gene name through the exported tables. Matching is
// case-insensitive, mirroring gene.Index.Lookup.
func (s *Store) LookupGene(name string) (*gene.Result, error) {
	row := s.db.QueryRow(`SELECT g.official_name, g.chrom, g.start_coord, g.end_coord
		FROM gene_aliases a
		JOIN genes g ON g.official_name = a.official_name
		WHERE upper(a.name) = upper(?)`, name)

	var (
		official   string
		chromLabel string
		start, end int64
	)
	if err := row.Scan(&official, &chromLabel, &start, &end); err != nil {
		if err == sql.ErrNoRows {
			return nil, &gene.NotFoundError{Query: name}
		}
		return nil, fmt.Errorf("query gene: %w", err)
	}

	c, err := chrom.Parse(chromLabel)
	if err != nil {
		return nil, fmt.Errorf("stored chromosome for %s: %w", official, err)
	}

	return &gene.Result{
		OfficialName: official,
		Chrom:        c,
		Start:        start,
		End:          end,
	}, nil
}

// GeneCount returns the number of exported genes.
func (s *Store) GeneCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM genes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count genes: %w", err)
	}
	return n, nil
}
