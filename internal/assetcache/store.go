package assetcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

const indexFilename = "index.json"

// Entry is one URL-to-filename mapping from the cache index.
type Entry struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Store provides thread-safe access to the cache index. Every Record merges
// one entry into the in-memory mapping and persists the full mapping to disk,
// so the index file always reflects all downloads completed so far.
type Store struct {
	dir       string
	indexPath string
	logger    *slog.Logger
	filelock  *flock.Flock
	mu        sync.RWMutex
	entries   map[string]string // URL → cache filename
}

// Open prepares a store rooted at dir and loads any existing index. The
// directory is created lazily on first persist, so opening a store has no
// filesystem side effects. A corrupt index is logged and treated as empty.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "assetcache")

	s := &Store{
		dir:       dir,
		indexPath: filepath.Join(dir, indexFilename),
		logger:    logger,
		filelock:  flock.New(filepath.Join(dir, indexFilename+".lock")),
		entries:   make(map[string]string),
	}

	if err := s.load(); err != nil {
		logger.Warn("failed to load asset cache index",
			logging.String(logging.FieldEventType, "assetcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "index will start empty"),
			logging.String(logging.FieldImpact, "previously cached assets will be downloaded again"))
	}

	return s, nil
}

// Resolve returns the cached filename for the given asset URL if present.
func (s *Store) Resolve(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filename, found := s.entries[url]
	return filename, found
}

// Record adds or updates a URL mapping and persists the index to disk.
func (s *Store) Record(url, filename string) error {
	url = strings.TrimSpace(url)
	filename = strings.TrimSpace(filename)
	if url == "" {
		return errors.New("asset URL cannot be empty")
	}
	if filename == "" {
		return errors.New("cache filename cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[url] = filename

	if err := s.persist(); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}

	s.logger.Debug("recorded asset mapping",
		logging.String(logging.FieldAssetURL, url),
		logging.String("filename", filename))

	return nil
}

// Entries returns all index entries sorted by URL.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for url, filename := range s.entries {
		entries = append(entries, Entry{URL: url, Filename: filename})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].URL < entries[j].URL
	})

	return entries
}

// Count returns the number of entries in the index.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Clear removes the cache directory with all downloaded assets and resets the
// in-memory index.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove cache directory: %w", err)
	}

	s.entries = make(map[string]string)

	s.logger.Debug("cleared asset cache", logging.String("path", s.dir))
	return nil
}

// Verify reports the URLs of index entries whose cache files are missing from
// disk, sorted for stable output.
func (s *Store) Verify() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	for url, filename := range s.entries {
		if _, err := os.Stat(filepath.Join(s.dir, filename)); err != nil {
			missing = append(missing, url)
		}
	}

	sort.Strings(missing)
	return missing
}

// Dir returns the cache directory root.
func (s *Store) Dir() string {
	return s.dir
}

// IndexPath returns the location of the index file.
func (s *Store) IndexPath() string {
	return s.indexPath
}

// Path returns the location of a cache file by name.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// load reads the index from disk into memory.
func (s *Store) load() error {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read index file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return services.Wrap(services.ErrParse, "assetcache", "load", "parse index file", err)
	}

	s.entries = make(map[string]string, len(entries))
	for url, filename := range entries {
		if strings.TrimSpace(url) == "" || strings.TrimSpace(filename) == "" {
			continue
		}
		s.entries[url] = filename
	}

	s.logger.Debug("loaded asset cache index",
		logging.Int("entry_count", len(s.entries)),
		logging.String("path", s.indexPath))

	return nil
}

// persist writes the index to disk atomically via a temp file. Callers must
// hold mu. The file lock serializes writers from concurrent processes; map
// marshaling sorts keys, so the file stays deterministic.
func (s *Store) persist() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := s.filelock.Lock(); err != nil {
		return fmt.Errorf("acquire index lock: %w", err)
	}
	defer func() { _ = s.filelock.Unlock() }()

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	tmpPath := s.indexPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.indexPath); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
