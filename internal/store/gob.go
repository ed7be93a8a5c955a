package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mnahinkhan/hgfind/internal/gene"
)

// formatVersion is bumped whenever the snapshot layout changes; older
// snapshots are then rebuilt from the source table.
const formatVersion = 1

// FileFingerprint holds stat-based identity for a source file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// snapshot is the gob-serialized form of an index.
type snapshot struct {
	Aliases map[string]string
	Loci    map[string]gene.Locus
}

// GobStore persists the index as a gob snapshot next to a metadata file
// fingerprinting the source table:
//
//	{dir}/genes.gob       (serialized alias and locus maps)
//	{dir}/genes.gob.meta  (format version + source table fingerprint)
type GobStore struct {
	dir    string
	source FileFingerprint
}

// NewGobStore creates a store rooted at dir, validated against the given
// source table fingerprint.
func NewGobStore(dir string, source FileFingerprint) *GobStore {
	return &GobStore{dir: dir, source: source}
}

func (s *GobStore) gobPath() string {
	return filepath.Join(s.dir, "genes.gob")
}

func (s *GobStore) metaPath() string {
	return filepath.Join(s.dir, "genes.gob.meta")
}

// Load implements Store. The snapshot is only returned when its metadata
// matches the current format version and source table fingerprint.
func (s *GobStore) Load() (*gene.Index, error) {
	if !s.valid() {
		return nil, ErrNoSnapshot
	}

	f, err := os.Open(s.gobPath())
	if err != nil {
		return nil, fmt.Errorf("open index snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index snapshot: %w", err)
	}
	if snap.Aliases == nil || snap.Loci == nil {
		return nil, fmt.Errorf("index snapshot missing maps: %w", ErrNoSnapshot)
	}

	return &gene.Index{Aliases: snap.Aliases, Loci: snap.Loci}, nil
}

// Write implements Store. A failed write removes the partial snapshot so the
// next run rebuilds instead of loading garbage.
func (s *GobStore) Write(idx *gene.Index) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	f, err := os.Create(s.gobPath())
	if err != nil {
		return fmt.Errorf("create index snapshot: %w", err)
	}

	snap := snapshot{Aliases: idx.Aliases, Loci: idx.Loci}
	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		f.Close()
		os.Remove(s.gobPath())
		return fmt.Errorf("encode index snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(s.gobPath())
		return fmt.Errorf("close index snapshot: %w", err)
	}

	return s.writeMeta()
}

// Clear removes the snapshot files.
func (s *GobStore) Clear() {
	os.Remove(s.gobPath())
	os.Remove(s.metaPath())
}

// valid checks whether the on-disk snapshot matches the current format and
// source table.
func (s *GobStore) valid() bool {
	meta, err := s.readMeta()
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"format_version", strconv.Itoa(formatVersion)},
		{"table_size", strconv.FormatInt(s.source.Size, 10)},
		{"table_modtime", s.source.ModTime.UTC().Format(time.RFC3339Nano)},
	}
	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	if _, err := os.Stat(s.gobPath()); err != nil {
		return false
	}
	return true
}

func (s *GobStore) writeMeta() error {
	lines := []string{
		"format_version=" + strconv.Itoa(formatVersion),
		"table_path=" + s.source.Path,
		"table_size=" + strconv.FormatInt(s.source.Size, 10),
		"table_modtime=" + s.source.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(s.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (s *GobStore) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
