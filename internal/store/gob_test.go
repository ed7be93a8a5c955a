package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnahinkhan/hgfind/internal/chrom"
	"github.com/mnahinkhan/hgfind/internal/gene"
)

func testIndex() *gene.Index {
	return &gene.Index{
		Aliases: map[string]string{
			"HNRNPC": "HNRNPC",
			"HNRPC":  "HNRNPC",
			"AUF1":   "HNRNPD",
			"HNRNPD": "HNRNPD",
		},
		Loci: map[string]gene.Locus{
			"HNRNPC": {Chrom: 14, Start: 21209136, End: 21269494},
			"HNRNPD": {Chrom: 4, Start: 82352498, End: 82374503},
		},
	}
}

func testFingerprint(t *testing.T) (FileFingerprint, string) {
	t.Helper()
	dir := t.TempDir()
	table := filepath.Join(dir, "biomart-gene-coordinates.txt")
	require.NoError(t, os.WriteFile(table, []byte("header\n"), 0644))
	fp, err := StatFile(table)
	require.NoError(t, err)
	return fp, dir
}

func TestGobStoreRoundTrip(t *testing.T) {
	fp, dir := testFingerprint(t)
	s := NewGobStore(filepath.Join(dir, "cache"), fp)

	require.NoError(t, s.Write(testIndex()))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, testIndex().Aliases, loaded.Aliases)
	assert.Equal(t, testIndex().Loci, loaded.Loci)

	res, err := loaded.Lookup("auf1")
	require.NoError(t, err)
	assert.Equal(t, "HNRNPD", res.OfficialName)
	assert.Equal(t, chrom.Chromosome(4), res.Chrom)
}

func TestGobStoreLoadWithoutSnapshot(t *testing.T) {
	fp, dir := testFingerprint(t)
	s := NewGobStore(filepath.Join(dir, "cache"), fp)

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestGobStoreInvalidatesOnSourceChange(t *testing.T) {
	fp, dir := testFingerprint(t)
	cacheDir := filepath.Join(dir, "cache")
	s := NewGobStore(cacheDir, fp)
	require.NoError(t, s.Write(testIndex()))

	// A store built against a different fingerprint must refuse the
	// existing snapshot.
	changed := fp
	changed.Size += 100
	changed.ModTime = changed.ModTime.Add(time.Hour)
	s2 := NewGobStore(cacheDir, changed)

	_, err := s2.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestGobStoreCorruptSnapshot(t *testing.T) {
	fp, dir := testFingerprint(t)
	cacheDir := filepath.Join(dir, "cache")
	s := NewGobStore(cacheDir, fp)
	require.NoError(t, s.Write(testIndex()))

	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "genes.gob"), []byte("not gob data"), 0644))

	_, err := s.Load()
	require.Error(t, err)
}

func TestGobStoreClear(t *testing.T) {
	fp, dir := testFingerprint(t)
	cacheDir := filepath.Join(dir, "cache")
	s := NewGobStore(cacheDir, fp)
	require.NoError(t, s.Write(testIndex()))

	s.Clear()

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestGobStoreOverwrite(t *testing.T) {
	fp, dir := testFingerprint(t)
	s := NewGobStore(filepath.Join(dir, "cache"), fp)
	require.NoError(t, s.Write(testIndex()))

	smaller := &gene.Index{
		Aliases: map[string]string{"TP53": "TP53"},
		Loci:    map[string]gene.Locus{"TP53": {Chrom: 17, Start: 7668421, End: 7687490}},
	}
	require.NoError(t, s.Write(smaller))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.GeneCount())
	assert.Equal(t, smaller.Loci, loaded.Loci)
}

func TestMemStore(t *testing.T) {
	m := NewMemStore()

	_, err := m.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, m.Write(testIndex()))
	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, testIndex().Loci, loaded.Loci)
}
