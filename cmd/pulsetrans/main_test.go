package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "pulsetrans") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_MissingLang(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--cache", cachePath, writeInput(t, "Hello")}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing --lang")
	}
	if !strings.Contains(err.Error(), "--lang is required") {
		t.Errorf("expected '--lang is required' error, got: %v", err)
	}
}

func TestRun_UnsupportedLang(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--cache", cachePath, "--lang", "xx", writeInput(t, "Hello")}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if !strings.Contains(err.Error(), "unsupported target language") {
		t.Errorf("got: %v", err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--cache", cachePath, "--lang", "uk", writeInput(t, "Hello")}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key required") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

func TestRun_OfflineTranslate(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	input := writeInput(t, "Introducing Claude 4\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"--cache", cachePath,
		"--lang", "uk",
		"--category", "News",
		"--offline",
		"--quiet",
		input,
	}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("offline run failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Представляємо") {
		t.Errorf("expected degraded glossary output, got: %s", out)
	}
}

func TestRun_OfflineJSON(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	input := writeInput(t, "Hello\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"--cache", cachePath,
		"--lang", "uk",
		"--offline",
		"--quiet",
		"--json",
		input,
	}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("offline run failed: %v", err)
	}

	var results []lineResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Quality != "degraded" {
		t.Errorf("Quality = %q, want degraded in offline mode", results[0].Quality)
	}
	if results[0].Text == "" {
		t.Error("degraded text must be non-empty")
	}
}

func TestRun_OfflineHTML(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	input := writeInput(t, "<p>Introducing Claude 4</p>")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"--cache", cachePath,
		"--lang", "uk",
		"--html",
		"--offline",
		"--quiet",
		input,
	}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("offline HTML run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Представляємо") {
		t.Errorf("expected translated fragment, got: %s", stdout.String())
	}
	if strings.Contains(stdout.String(), "<html") || strings.Contains(stdout.String(), "<body") {
		t.Errorf("output should stay a fragment, got: %s", stdout.String())
	}
}

func TestRun_Stats(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--cache", cachePath, "--stats"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Cache entries: 0") {
		t.Errorf("expected empty cache stats, got: %s", stdout.String())
	}
}

func TestRun_NoTranslatableInput(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	input := writeInput(t, "\n\n  \n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--cache", cachePath, "--lang", "uk", "--offline", input}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestRun_ExportImport(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.json")
	exportPath := filepath.Join(dir, "export.json")

	// Populate the cache with one degraded-free run (offline results are
	// not cached, so import/export is exercised on an empty cache here).
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--cache", cachePath, "--export-cache", exportPath, "--quiet"}, &stdout, &stderr); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	if err := run([]string{"--cache", cachePath, "--import-cache", exportPath, "--quiet"}, &stdout, &stderr); err != nil {
		t.Fatalf("import failed: %v", err)
	}
}
