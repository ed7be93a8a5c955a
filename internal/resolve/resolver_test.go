package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnahinkhan/hgfind/internal/gene"
	"github.com/mnahinkhan/hgfind/internal/store"
)

const testTable = `Gene start (bp)	Gene end (bp)	Gene name	Gene Synonym	WikiGene name	UniProtKB Gene Name symbol	Chromosome/scaffold name
21209136	21230000	HNRNPC	HNRPC	HNRNPC	HNRNPC	14
21220000	21269494	HNRNPC			HNRNPC	14
82352498	82360000	HNRNPD	AUF1	HNRNPD	HNRNPD	4
82355000	82374503	HNRNPD			HNRNPD	4
100	200	SCAF1				GL000194.1
500	900	PATCH1				CHR_HSCHR15_4_CTG8
`

func writeTestTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "biomart-gene-coordinates.txt")
	require.NoError(t, os.WriteFile(path, []byte(testTable), 0644))
	return path
}

func TestResolverFind(t *testing.T) {
	r := New(writeTestTable(t), store.NewMemStore())

	res, err := r.Find("HNRNPC")
	require.NoError(t, err)
	assert.Equal(t, "HNRNPC", res.OfficialName)
	assert.Equal(t, "14", res.Chrom.String())
	assert.Equal(t, int64(21209136), res.Start)
	assert.Equal(t, int64(21269494), res.End)
}

func TestResolverFindSynonym(t *testing.T) {
	r := New(writeTestTable(t), store.NewMemStore())

	res, err := r.Find("AUF1")
	require.NoError(t, err)
	assert.Equal(t, "HNRNPD", res.OfficialName)
	assert.Equal(t, "4", res.Chrom.String())
	assert.Equal(t, int64(82352498), res.Start)
	assert.Equal(t, int64(82374503), res.End)
}

func TestResolverFindCaseInsensitive(t *testing.T) {
	r := New(writeTestTable(t), store.NewMemStore())

	lower, err := r.Find("auf1")
	require.NoError(t, err)
	upper, err := r.Find("AUF1")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
}

func TestResolverFindNotFound(t *testing.T) {
	r := New(writeTestTable(t), store.NewMemStore())

	for _, q := range []string{"gsjfg", "4:45-243"} {
		_, err := r.Find(q)
		var nf *gene.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, q, nf.Query)
	}
}

func TestResolverSkippedRowsDoNotBreakOthers(t *testing.T) {
	r := New(writeTestTable(t), store.NewMemStore())

	// The unplaced-scaffold row is dropped entirely.
	_, err := r.Find("SCAF1")
	var nf *gene.NotFoundError
	require.ErrorAs(t, err, &nf)

	// The patch-contig row resolves to its primary chromosome.
	res, err := r.Find("PATCH1")
	require.NoError(t, err)
	assert.Equal(t, "15", res.Chrom.String())
}

func TestResolverWritesSnapshotAfterIngest(t *testing.T) {
	st := store.NewMemStore()
	r := New(writeTestTable(t), st)

	_, err := r.Find("HNRNPC")
	require.NoError(t, err)

	idx, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, idx.GeneCount()) // HNRNPC, HNRNPD, PATCH1
}

func TestResolverServesFromSnapshot(t *testing.T) {
	st := store.NewMemStore()
	prebuilt := &gene.Index{
		Aliases: map[string]string{"FAKE": "FAKE"},
		Loci:    map[string]gene.Locus{"FAKE": {Chrom: 1, Start: 10, End: 20}},
	}
	require.NoError(t, st.Write(prebuilt))

	// Nonexistent table path: a table read would fail, so a successful
	// lookup proves the snapshot was used.
	r := New(filepath.Join(t.TempDir(), "missing.txt"), st)

	res, err := r.Find("fake")
	require.NoError(t, err)
	assert.Equal(t, "FAKE", res.OfficialName)
}

func TestResolverRebuildsOnUnusableSnapshot(t *testing.T) {
	r := New(writeTestTable(t), &failingStore{})

	// Snapshot load and write both fail; lookups still work.
	res, err := r.Find("HNRNPC")
	require.NoError(t, err)
	assert.Equal(t, "HNRNPC", res.OfficialName)
}

func TestResolverRebuild(t *testing.T) {
	st := store.NewMemStore()
	r := New(writeTestTable(t), st)
	require.NoError(t, r.Rebuild())

	idx, err := st.Load()
	require.NoError(t, err)
	_, err = idx.Lookup("HNRNPC")
	require.NoError(t, err)
}

func TestResolverMissingTable(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "missing.txt"), store.NewMemStore())

	_, err := r.Find("HNRNPC")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "open biomart file"))
}

// failingStore rejects every load and write.
type failingStore struct{}

func (f *failingStore) Load() (*gene.Index, error) {
	return nil, errors.New("snapshot unreadable")
}

func (f *failingStore) Write(*gene.Index) error {
	return errors.New("disk full")
}
