// Package cache provides translation cache stores keyed by content
// fingerprint. Entries are immutable once written: changed source text yields
// a new fingerprint, never an update, so stores only ever grow.
package cache

import "time"

// Entry is a single cached translation.
type Entry struct {
	Fingerprint    string    `json:"-"`
	SourceText     string    `json:"source_text"`
	TargetLang     string    `json:"target_lang"`
	TranslatedText string    `json:"translated_text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the interface for translation cache backends.
//
// Put is first-write-wins: storing an entry whose fingerprint is already
// present is a no-op, preserving entry immutability.
type Store interface {
	// Get retrieves a cached entry by fingerprint.
	Get(fingerprint string) (Entry, bool)

	// Put stores a new entry. Implementations persist durably where they
	// can; a Put error means the entry may not survive the process but is
	// still readable for the rest of the run.
	Put(entry Entry) error

	// Len returns the number of entries present.
	Len() int
}
