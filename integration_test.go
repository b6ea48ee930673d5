package pulsetrans

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ai-pulse/pulsetrans/cache"
)

// TestPersistenceRoundTrip verifies that translations computed in one engine
// lifetime are served as cache hits by a fresh engine reading the same file.
func TestPersistenceRoundTrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "translations.json")

	// First lifetime: cold cache, one provider call.
	p1 := newCountingProvider()
	store1, err := cache.NewFileStore(cachePath)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	engine1 := NewEngine(store1, p1)

	first, err := engine1.Translate(context.Background(), "Hello", "uk", "News")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if p1.calls.Load() != 1 {
		t.Fatalf("provider calls = %d, want 1", p1.calls.Load())
	}

	// Second lifetime: same file, zero provider calls.
	p2 := newCountingProvider()
	store2, err := cache.NewFileStore(cachePath)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	engine2 := NewEngine(store2, p2)

	second, err := engine2.Translate(context.Background(), "Hello", "uk", "News")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !second.Cached {
		t.Error("expected cache hit in fresh lifetime")
	}
	if second.Text != first.Text {
		t.Errorf("got %q, want %q", second.Text, first.Text)
	}
	if p2.calls.Load() != 0 {
		t.Errorf("provider calls = %d, want 0", p2.calls.Load())
	}
}

// TestCorruptCacheFileIsNotFatal verifies that a malformed cache file results
// in an empty, operable cache.
func TestCorruptCacheFileIsNotFatal(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "translations.json")
	if err := os.WriteFile(cachePath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := cache.NewFileStore(cachePath)
	if err != nil {
		t.Fatalf("corrupt cache file should not be fatal: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("corrupt cache should load as empty, got %d entries", store.Len())
	}

	// The cache must be fully operable afterwards.
	engine := NewEngine(store, newCountingProvider())
	res, err := engine.Translate(context.Background(), "Hello", "uk", "")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Text == "" {
		t.Error("expected non-empty translation")
	}
	if store.Len() != 1 {
		t.Errorf("store should have recovered and stored 1 entry, got %d", store.Len())
	}
}

// TestWriteThroughSurvivesWithoutFlush verifies the write-through guarantee:
// every successful provider call is durable immediately, with no final flush.
func TestWriteThroughSurvivesWithoutFlush(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "translations.json")

	store, err := cache.NewFileStore(cachePath)
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(store, newCountingProvider())

	if _, err := engine.Translate(context.Background(), "Latest news", "uk", ""); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	// Simulate an interrupted process: re-open the file directly without
	// any explicit flush or close on the first store.
	reopened, err := cache.NewFileStore(cachePath)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Len() != 1 {
		t.Errorf("entry should be durable immediately after Translate, got %d entries", reopened.Len())
	}
}

// TestHTMLFragmentEndToEnd exercises extraction, cached translation, and
// reassembly of an HTML feed summary.
func TestHTMLFragmentEndToEnd(t *testing.T) {
	p := newCountingProvider()
	engine := NewEngine(cache.NewMemoryStore(), p)

	fragment := `<p>Hello</p><p><code>claude --version</code></p><p>Latest news</p>`

	result, err := engine.TranslateHTML(context.Background(), fragment, "uk", "News")
	if err != nil {
		t.Fatalf("TranslateHTML failed: %v", err)
	}
	if result.SegmentCount != 2 {
		t.Errorf("SegmentCount = %d, want 2 (code content excluded)", result.SegmentCount)
	}
	if !strings.Contains(result.Content, "Привіт") || !strings.Contains(result.Content, "Останні новини") {
		t.Errorf("translations missing from output: %s", result.Content)
	}
	if !strings.Contains(result.Content, "claude --version") {
		t.Errorf("code content should be untouched: %s", result.Content)
	}

	// Second fragment sharing one segment: only the new text is translated.
	before := p.calls.Load()
	result2, err := engine.TranslateHTML(context.Background(), `<p>Hello</p>`, "uk", "News")
	if err != nil {
		t.Fatalf("TranslateHTML failed: %v", err)
	}
	if result2.CachedCount != 1 {
		t.Errorf("CachedCount = %d, want 1", result2.CachedCount)
	}
	if result2.Content != `<p>Привіт</p>` {
		t.Errorf("Content = %q, want the bare fragment back", result2.Content)
	}
	if p.calls.Load() != before {
		t.Error("fully cached fragment should not call the provider")
	}
}
