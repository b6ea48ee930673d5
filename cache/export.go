package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportFormat is the JSON envelope for cache export/import. Unlike the raw
// cache file it carries a version and export metadata, which makes it the
// right shape for backups and for moving a cache between backends.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is a single exported cache entry.
type ExportEntry struct {
	Fingerprint    string    `json:"fingerprint"`
	SourceText     string    `json:"source_text"`
	TargetLang     string    `json:"target_lang"`
	TranslatedText string    `json:"translated_text"`
	CreatedAt      time.Time `json:"created_at"`
}

// EnumerableStore is a store whose entries can be listed. FileStore and
// MemoryStore qualify; RedisStore does not.
type EnumerableStore interface {
	Store
	Entries() map[string]Entry
}

// Export writes the store contents to w in the export envelope format.
func Export(store EnumerableStore, w io.Writer, metadata map[string]string) error {
	entries := store.Entries()

	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    make([]ExportEntry, 0, len(entries)),
		Metadata:   metadata,
	}

	for fp, entry := range entries {
		export.Entries = append(export.Entries, ExportEntry{
			Fingerprint:    fp,
			SourceText:     entry.SourceText,
			TargetLang:     entry.TargetLang,
			TranslatedText: entry.TranslatedText,
			CreatedAt:      entry.CreatedAt,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the store to a file.
// The path is provided by the caller and is intentionally user-controlled.
func ExportToFile(store EnumerableStore, path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return Export(store, f, metadata)
}

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Import reads cache entries from r and loads them into the store. Entries
// already present are left untouched (Put is first-write-wins).
func Import(store Store, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, e := range export.Entries {
		entry := Entry{
			Fingerprint:    e.Fingerprint,
			SourceText:     e.SourceText,
			TargetLang:     e.TargetLang,
			TranslatedText: e.TranslatedText,
			CreatedAt:      e.CreatedAt,
		}
		if err := store.Put(entry); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
// The path is provided by the caller and is intentionally user-controlled.
func ImportFromFile(store Store, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(store, f)
}
