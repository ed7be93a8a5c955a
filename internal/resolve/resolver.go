// Package resolve ties ingestion, caching, and lookup together.
package resolve

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mnahinkhan/hgfind/internal/biomart"
	"github.com/mnahinkhan/hgfind/internal/gene"
	"github.com/mnahinkhan/hgfind/internal/store"
)

// Resolver answers gene name queries, building the index from the BioMart
// table on first use and serving it from the snapshot store afterwards.
type Resolver struct {
	tablePath string
	store     store.Store
	logger    *zap.Logger
	idx       *gene.Index
}

// New creates a resolver over the given table and snapshot store.
func New(tablePath string, st store.Store) *Resolver {
	return &Resolver{
		tablePath: tablePath,
		store:     st,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for ingestion progress and cache messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Find resolves a gene name to its hg38 location. The first call loads the
// snapshot, or ingests the table and writes a fresh snapshot when the stored
// one is absent, stale, or corrupt. Unknown names return *gene.NotFoundError.
func (r *Resolver) Find(name string) (*gene.Result, error) {
	if err := r.ensureIndex(); err != nil {
		return nil, err
	}
	return r.idx.Lookup(name)
}

// Index returns the loaded index, building it if necessary.
func (r *Resolver) Index() (*gene.Index, error) {
	if err := r.ensureIndex(); err != nil {
		return nil, err
	}
	return r.idx, nil
}

// Rebuild ingests the table unconditionally and replaces the snapshot.
func (r *Resolver) Rebuild() error {
	idx, err := r.ingest()
	if err != nil {
		return err
	}
	if err := r.store.Write(idx); err != nil {
		return fmt.Errorf("write index snapshot: %w", err)
	}
	r.idx = idx
	return nil
}

func (r *Resolver) ensureIndex() error {
	if r.idx != nil {
		return nil
	}

	idx, err := r.store.Load()
	if err == nil {
		r.logger.Debug("loaded index snapshot",
			zap.Int("genes", idx.GeneCount()),
			zap.Int("aliases", idx.AliasCount()))
		r.idx = idx
		return nil
	}
	r.logger.Debug("index snapshot unusable, ingesting table", zap.Error(err))

	idx, err = r.ingest()
	if err != nil {
		return err
	}

	// A failed snapshot write costs the next run a re-ingest, nothing more.
	if err := r.store.Write(idx); err != nil {
		r.logger.Warn("could not write index snapshot", zap.Error(err))
	}

	r.idx = idx
	return nil
}

// ingest streams the table through the builder and finalizes the index.
func (r *Resolver) ingest() (*gene.Index, error) {
	started := time.Now()

	parser, err := biomart.NewParser(r.tablePath)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	builder := gene.NewBuilder()
	for {
		fact, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if fact == nil {
			break
		}
		builder.Add(fact)
	}

	idx := builder.Finalize()
	r.logger.Info("ingested gene coordinate table",
		zap.String("table", r.tablePath),
		zap.Int("rows", builder.Rows()),
		zap.Int("genes", idx.GeneCount()),
		zap.Int("aliases", idx.AliasCount()),
		zap.Duration("elapsed", time.Since(started)))

	return idx, nil
}
