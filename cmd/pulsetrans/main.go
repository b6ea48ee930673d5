// Command pulsetrans translates feed text using a persistent translation
// cache, so repeated runs over overlapping content only pay for new text.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ai-pulse/pulsetrans"
	"github.com/ai-pulse/pulsetrans/cache"
	"github.com/ai-pulse/pulsetrans/provider"
)

// defaultCachePath matches the well-known location feed runners share.
const defaultCachePath = "cache/translations.json"

// Build-time variables (can be overridden with ldflags)
var (
	version   = pulsetrans.Version
	commit    = pulsetrans.GitCommit
	buildDate = pulsetrans.BuildDate
)

func main() {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pulsetrans", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	targetLang := fs.String("lang", "", "Target language code (e.g., uk, es)")
	sourceLang := fs.String("source", pulsetrans.DefaultSourceLang, "Source language code")
	category := fs.String("category", "", "Content category used to bias the prompt (e.g., News)")
	cachePath := fs.String("cache", defaultCachePath, "Translation cache file path")
	redisURL := fs.String("redis", "", "Use a Redis cache instead of the file cache (URL)")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	timeout := fs.Duration("timeout", 30*time.Second, "Per-call provider timeout")
	rpm := fs.Int("rpm", 0, "Provider rate limit in requests per minute (0 to disable)")
	htmlMode := fs.Bool("html", false, "Treat input as an HTML fragment")
	offline := fs.Bool("offline", false, "No provider: serve cache hits, degrade misses")
	jsonOutput := fs.Bool("json", false, "Output results as JSON")
	showStats := fs.Bool("stats", false, "Print cache statistics and exit")
	exportPath := fs.String("export-cache", "", "Export the cache to a file and exit")
	importPath := fs.String("import-cache", "", "Import entries from an exported cache file and exit")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", pulsetrans.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer l.Sync() //nolint:errcheck
		logger = l
	}

	// Open the cache store.
	store, fileStore, err := openStore(*redisURL, *cachePath, logger)
	if err != nil {
		return err
	}

	// Cache maintenance modes
	if *showStats {
		return printStats(stdout, store, *cachePath)
	}
	if *exportPath != "" {
		if fileStore == nil {
			return fmt.Errorf("--export-cache requires the file cache")
		}
		if err := cache.ExportToFile(fileStore, *exportPath, map[string]string{"tool": pulsetrans.UserAgent()}); err != nil {
			return err
		}
		if !*quiet {
			fmt.Fprintf(stderr, "Exported %d entries to %s\n", fileStore.Len(), *exportPath)
		}
		return nil
	}
	if *importPath != "" {
		result, err := cache.ImportFromFile(store, *importPath)
		if err != nil {
			return err
		}
		if fileStore != nil {
			if err := fileStore.Flush(); err != nil {
				return err
			}
		}
		if !*quiet {
			fmt.Fprintf(stderr, "Imported %d entries (%d failed)\n", result.Imported, result.Failed)
		}
		return nil
	}

	// Validate required flags
	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}
	if !pulsetrans.IsSupported(*targetLang) {
		return fmt.Errorf("unsupported target language %q (supported: %s)",
			*targetLang, strings.Join(pulsetrans.SupportedLanguages(), ", "))
	}

	// Get input
	var input string
	var inputName string

	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
		inputName = "stdin"
	} else {
		inputPath := fs.Arg(0)
		data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		input = string(data)
		inputName = inputPath
	}

	// Build the provider chain.
	var p pulsetrans.Provider
	if !*offline {
		key := *apiKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return fmt.Errorf("OpenAI API key required (--api-key, OPENAI_API_KEY env, or --offline)")
		}

		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey: key,
			Model:  *model,
		})
		if *rpm > 0 {
			p = pulsetrans.NewRateLimitedProvider(p, pulsetrans.RateLimitConfig{RequestsPerMinute: *rpm})
		}
	}

	engine := pulsetrans.NewEngine(store, p,
		pulsetrans.WithLogger(logger),
		pulsetrans.WithSourceLang(*sourceLang),
		pulsetrans.WithTimeout(*timeout),
	)

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %s to %s...\n", inputName, *targetLang)
	}

	out := stdout
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	start := time.Now()
	ctx := context.Background()

	if *htmlMode {
		err = translateHTML(ctx, engine, input, *targetLang, *category, out, *jsonOutput)
	} else {
		err = translateLines(ctx, engine, input, *targetLang, *category, out, *jsonOutput)
	}
	if err != nil {
		return err
	}

	if !*quiet {
		stats := engine.Stats()
		fmt.Fprintf(stderr, "\nDone in %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Cache entries: %d\n", stats.Entries)
		fmt.Fprintf(stderr, "  Hits:          %d\n", stats.Hits)
		fmt.Fprintf(stderr, "  Misses:        %d\n", stats.Misses)
		fmt.Fprintf(stderr, "  Degraded:      %d\n", stats.Degraded)
	}

	return nil
}

// openStore returns the configured cache store. The second return is non-nil
// only for the file backend, which supports export and explicit flush.
func openStore(redisURL, cachePath string, logger *zap.Logger) (cache.Store, *cache.FileStore, error) {
	if redisURL != "" {
		rs, err := cache.NewRedisStore(cache.RedisConfig{URL: redisURL})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		return rs, nil, nil
	}

	fs, err := cache.NewFileStore(cachePath, cache.WithFileLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return fs, fs, nil
}

func printStats(w io.Writer, store cache.Store, path string) error {
	fmt.Fprintf(w, "Cache entries: %d\n", store.Len())
	if fi, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "Cache file:    %s (%d bytes)\n", path, fi.Size())
	}
	return nil
}

// lineResult is the JSON output shape for one translated line.
type lineResult struct {
	Source  string `json:"source"`
	Text    string `json:"text"`
	Quality string `json:"quality"`
	Cached  bool   `json:"cached"`
}

// translateLines translates each non-empty input line as one unit, keeping
// blank lines in place.
func translateLines(ctx context.Context, engine *pulsetrans.Engine, input, lang, category string, out io.Writer, jsonOut bool) error {
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")

	var texts []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			texts = append(texts, line)
		}
	}
	if len(texts) == 0 {
		return fmt.Errorf("no translatable text in input")
	}

	results, err := engine.TranslateBatch(ctx, texts, lang, category)
	if err != nil {
		return err
	}

	if jsonOut {
		output := make([]lineResult, len(results))
		for i, res := range results {
			output[i] = lineResult{
				Source:  strings.TrimSpace(texts[i]),
				Text:    res.Text,
				Quality: string(res.Quality),
				Cached:  res.Cached,
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	i := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintln(out, results[i].Text)
		i++
	}
	return nil
}

func translateHTML(ctx context.Context, engine *pulsetrans.Engine, input, lang, category string, out io.Writer, jsonOut bool) error {
	result, err := engine.TranslateHTML(ctx, input, lang, category)
	if err != nil {
		return err
	}

	if jsonOut {
		type htmlOutput struct {
			Content  string `json:"content"`
			Segments int    `json:"segments"`
			Cached   int    `json:"cached"`
			Degraded int    `json:"degraded"`
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(htmlOutput{
			Content:  result.Content,
			Segments: result.SegmentCount,
			Cached:   result.CachedCount,
			Degraded: result.DegradedCount,
		})
	}

	fmt.Fprint(out, result.Content)
	return nil
}
