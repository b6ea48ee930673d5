package pulsetrans

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ai-pulse/pulsetrans/cache"
)

// Provider is the interface for external translation backends.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// Engine deduplicates provider calls through a fingerprint-keyed cache store
// and degrades to a local substitute when the provider fails. Construct one
// Engine per process and share it; there is no package-level state.
type Engine struct {
	store      cache.Store
	provider   Provider
	fallback   Fallback
	logger     *zap.Logger
	retryCfg   RetryConfig
	timeout    time.Duration
	sourceLang string

	group    singleflight.Group
	hits     atomic.Uint64
	misses   atomic.Uint64
	degraded atomic.Uint64
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithFallback sets the degraded-translation substitute.
func WithFallback(fallback Fallback) EngineOption {
	return func(e *Engine) {
		e.fallback = fallback
	}
}

// WithRetryConfig sets the provider retry behavior.
func WithRetryConfig(cfg RetryConfig) EngineOption {
	return func(e *Engine) {
		e.retryCfg = cfg
	}
}

// WithTimeout bounds each individual provider call.
func WithTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = timeout
	}
}

// WithSourceLang sets the source language reported to the provider.
func WithSourceLang(lang string) EngineOption {
	return func(e *Engine) {
		e.sourceLang = lang
	}
}

// NewEngine creates an Engine backed by the given store and provider.
// A nil provider is allowed: every miss then takes the degraded path, which
// keeps offline and test runs working.
func NewEngine(store cache.Store, provider Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		store:      store,
		provider:   provider,
		fallback:   NewRuleFallback(),
		logger:     zap.NewNop(),
		retryCfg:   DefaultRetryConfig(),
		timeout:    30 * time.Second,
		sourceLang: DefaultSourceLang,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Translate returns the translation of text into targetLang. The category
// tag only biases the provider prompt; it is not part of the cache key.
//
// Provider failures never surface as errors: after one retry the engine
// substitutes a deterministic local translation flagged QualityDegraded.
// Input errors (empty text, unsupported language) are returned immediately.
func (e *Engine) Translate(ctx context.Context, text, targetLang, category string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, &InputError{Field: "text", Message: "must be non-empty after trimming"}
	}
	if !IsSupported(targetLang) {
		return Result{}, &InputError{Field: "targetLang", Message: "unsupported language " + targetLang}
	}

	fp := Fingerprint(trimmed, targetLang)

	if entry, ok := e.store.Get(fp); ok {
		e.hits.Add(1)
		return Result{Text: entry.TranslatedText, Quality: QualityTranslated, Cached: true}, nil
	}
	e.misses.Add(1)

	// Concurrent callers for the same fingerprint share one provider call;
	// the first caller wins and the rest receive its result.
	v, err, _ := e.group.Do(fp, func() (interface{}, error) {
		// A racing caller may have completed between our lookup and here.
		if entry, ok := e.store.Get(fp); ok {
			return Result{Text: entry.TranslatedText, Quality: QualityTranslated, Cached: true}, nil
		}

		out, err := e.callProvider(ctx, []string{trimmed}, targetLang, category)
		if err != nil {
			return e.degrade(trimmed, targetLang, category, err), nil
		}

		e.persist(fp, trimmed, targetLang, out[0])
		return Result{Text: out[0], Quality: QualityTranslated}, nil
	})
	if err != nil {
		// Unreachable: the flight function never returns an error.
		return Result{}, err
	}

	return v.(Result), nil
}

// TranslateBatch translates texts in one provider call for all cache misses,
// mirroring per-article feed processing. Results are positional. Input errors
// for any text fail the whole batch before any provider call.
func (e *Engine) TranslateBatch(ctx context.Context, texts []string, targetLang, category string) ([]Result, error) {
	if !IsSupported(targetLang) {
		return nil, &InputError{Field: "targetLang", Message: "unsupported language " + targetLang}
	}

	trimmed := make([]string, len(texts))
	for i, text := range texts {
		trimmed[i] = strings.TrimSpace(text)
		if trimmed[i] == "" {
			return nil, &InputError{Field: "texts", Message: "must be non-empty after trimming"}
		}
	}

	results := make([]Result, len(texts))
	hit := make([]bool, len(texts))

	// Check the cache and collect unique misses in input order.
	var missTexts []string
	missIndex := make(map[string]int) // fingerprint -> position in missTexts
	for i, text := range trimmed {
		fp := Fingerprint(text, targetLang)
		if entry, ok := e.store.Get(fp); ok {
			e.hits.Add(1)
			results[i] = Result{Text: entry.TranslatedText, Quality: QualityTranslated, Cached: true}
			hit[i] = true
			continue
		}
		e.misses.Add(1)
		if _, seen := missIndex[fp]; !seen {
			missIndex[fp] = len(missTexts)
			missTexts = append(missTexts, text)
		}
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	out, err := e.callProvider(ctx, missTexts, targetLang, category)
	if err != nil {
		for i, text := range trimmed {
			if hit[i] {
				continue
			}
			results[i] = e.degrade(text, targetLang, category, err)
			err = nil // log the failure once per batch
		}
		return results, nil
	}

	persisted := make(map[string]bool, len(missTexts))
	for i, text := range trimmed {
		if hit[i] {
			continue
		}
		fp := Fingerprint(text, targetLang)
		translated := out[missIndex[fp]]
		if !persisted[fp] {
			e.persist(fp, text, targetLang, translated)
			persisted[fp] = true
		}
		results[i] = Result{Text: translated, Quality: QualityTranslated}
	}

	return results, nil
}

// Stats returns a snapshot of cache activity. Entries reflects the store as
// it is now; hit/miss counters cover this Engine's lifetime.
func (e *Engine) Stats() Stats {
	return Stats{
		Entries:  e.store.Len(),
		Hits:     e.hits.Load(),
		Misses:   e.misses.Load(),
		Degraded: e.degraded.Load(),
	}
}

// SourceLang returns the configured source language.
func (e *Engine) SourceLang() string {
	return e.sourceLang
}

// callProvider invokes the provider with a bounded per-call timeout and the
// configured retry policy.
func (e *Engine) callProvider(ctx context.Context, texts []string, targetLang, category string) ([]string, error) {
	if e.provider == nil {
		return nil, &ProviderError{Message: "no provider configured"}
	}

	return WithRetry(ctx, e.retryCfg, func() ([]string, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		out, err := e.provider.Translate(callCtx, TranslateRequest{
			Texts:      texts,
			TargetLang: NormalizeLang(targetLang),
			SourceLang: e.sourceLang,
			Category:   category,
		})
		if err != nil {
			// The per-call deadline is transient as long as the
			// caller's context is still live.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, &ProviderError{Message: "translation timed out", Cause: err, Retryable: true}
			}
			return nil, err
		}
		if len(out) != len(texts) {
			return nil, &CountMismatchError{Expected: len(texts), Got: len(out)}
		}
		return out, nil
	})
}

// degrade produces the local substitute for text and records the failure.
// A cause of nil means the failure was already logged for this batch.
func (e *Engine) degrade(text, targetLang, category string, cause error) Result {
	if cause != nil {
		e.logger.Warn("provider unavailable, using degraded translation",
			zap.String("target_lang", NormalizeLang(targetLang)),
			zap.Error(cause))
	}
	e.degraded.Add(1)

	return Result{
		Text:    e.fallback.Substitute(text, targetLang, category),
		Quality: QualityDegraded,
	}
}

// persist stores a freshly computed translation. Store failures are logged
// and otherwise ignored: the in-memory entry still serves this run, and the
// text will be recomputed next run if it was never durably written.
func (e *Engine) persist(fp, text, targetLang, translated string) {
	entry := cache.Entry{
		Fingerprint:    fp,
		SourceText:     text,
		TargetLang:     NormalizeLang(targetLang),
		TranslatedText: translated,
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.store.Put(entry); err != nil {
		e.logger.Warn("failed to persist translation",
			zap.String("fingerprint", fp),
			zap.Error(err))
	}
}
