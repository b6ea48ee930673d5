package cache

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src := NewMemoryStore()
	src.Put(testEntry("fp1", "Hello", "Привіт"))
	src.Put(testEntry("fp2", "World", "Світ"))

	var buf bytes.Buffer
	if err := Export(src, &buf, map[string]string{"origin": "test"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewMemoryStore()
	result, err := Import(dst, &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}
	if result.Version != "1.0" {
		t.Errorf("Version = %q, want %q", result.Version, "1.0")
	}
	if result.Metadata["origin"] != "test" {
		t.Errorf("metadata lost: %v", result.Metadata)
	}

	entry, ok := dst.Get("fp1")
	if !ok || entry.TranslatedText != "Привіт" {
		t.Errorf("imported entry mismatch: %+v", entry)
	}
}

func TestExport_Envelope(t *testing.T) {
	src := NewMemoryStore()
	src.Put(testEntry("fp1", "Hello", "Привіт"))

	var buf bytes.Buffer
	if err := Export(src, &buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var envelope ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if envelope.Version != "1.0" {
		t.Errorf("Version = %q", envelope.Version)
	}
	if envelope.ExportedAt == "" {
		t.Error("ExportedAt should be set")
	}
	if len(envelope.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(envelope.Entries))
	}
	if envelope.Entries[0].Fingerprint != "fp1" {
		t.Errorf("Fingerprint = %q", envelope.Entries[0].Fingerprint)
	}
}

func TestImport_PreservesExistingEntries(t *testing.T) {
	dst := NewMemoryStore()
	dst.Put(testEntry("fp1", "Hello", "Привіт"))

	var buf bytes.Buffer
	src := NewMemoryStore()
	src.Put(testEntry("fp1", "Hello", "IMPORTED"))
	if err := Export(src, &buf, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(dst, &buf); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	entry, _ := dst.Get("fp1")
	if entry.TranslatedText != "Привіт" {
		t.Errorf("import overwrote an existing entry: %q", entry.TranslatedText)
	}
}

func TestImport_MalformedInput(t *testing.T) {
	dst := NewMemoryStore()

	_, err := Import(dst, strings.NewReader("{bad"))
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestExportImport_Files(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.json")

	src := NewMemoryStore()
	src.Put(testEntry("fp1", "Hello", "Привіт"))

	if err := ExportToFile(src, exportPath, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := NewMemoryStore()
	result, err := ImportFromFile(dst, exportPath)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
}
