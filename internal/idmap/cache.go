package idmap

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"frizo/risk_engine/internal/logger"
)

// Cache maps internal security identifiers to global (FIGI-like)
// identifiers, loaded lazily from a flat file on first lookup.
//
// The lifecycle is unloaded -> loading -> loaded, and the loaded state
// is terminal: exactly one load attempt runs no matter how many threads
// race the first lookup, everyone observes the same immutable mapping,
// and a missing or unreadable source settles the cache as permanently
// empty rather than failing. Steady-state lookups take no lock.
type Cache struct {
	path string

	once    sync.Once
	entries map[string]string

	loads atomic.Int32 // load attempts, for observability
}

// NewCache builds an unloaded cache over the given backing file. The
// file is not touched until the first lookup.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// FilePath returns the identifier map location for a market under the
// data directory: <dataDir>/symbol-properties/<market>-figi.csv
func FilePath(dataDir, market string) string {
	return filepath.Join(dataDir, "symbol-properties", strings.ToLower(market)+"-figi.csv")
}

// Lookup resolves a security identifier to its global identifier.
// Returns ("", false) when no mapping exists; never an error. An empty
// identifier short-circuits without touching the cache or triggering
// the load.
func (c *Cache) Lookup(securityID string) (string, bool) {
	if securityID == "" {
		return "", false
	}

	c.once.Do(c.load)

	figi, ok := c.entries[securityID]
	return figi, ok
}

// Loaded reports whether the one-time load has run.
func (c *Cache) Loaded() bool {
	return c.loads.Load() > 0
}

// Len returns the number of mappings, forcing the load if needed.
func (c *Cache) Len() int {
	c.once.Do(c.load)
	return len(c.entries)
}

// load runs at most once, under the claim held by sync.Once. Any
// failure degrades to an empty mapping for the process lifetime; the
// source is never re-read.
func (c *Cache) load() {
	c.loads.Add(1)
	log := logger.Default().WithComponent("idmap")

	entries := make(map[string]string)
	defer func() { c.entries = entries }()

	f, err := os.Open(c.path)
	if err != nil {
		log.Debug("identifier map source unavailable, serving empty map", "path", c.path, "error", err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, figi, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		figi = strings.TrimSpace(figi)
		if id == "" || figi == "" {
			continue
		}
		entries[id] = figi
	}
	if err := scanner.Err(); err != nil {
		log.Warn("identifier map read failed, serving partial map", "path", c.path, "error", err)
	}

	log.Debug("identifier map loaded", "path", c.path, "entries", len(entries))
}
