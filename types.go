package pulsetrans

// Quality indicates how a translation was produced.
type Quality string

const (
	// QualityTranslated means the text came from the external provider
	// (directly or via the cache).
	QualityTranslated Quality = "translated"
	// QualityDegraded means the provider was unavailable and the text was
	// produced by the local rule-based substitute. Degraded results are
	// never cached.
	QualityDegraded Quality = "degraded"
)

// Result is the outcome of a single translation.
type Result struct {
	Text    string  // Translated (or substituted) text, never empty for valid input
	Quality Quality // Translated or Degraded
	Cached  bool    // True when served from the cache without a provider call
}

// TranslateRequest contains the parameters for a provider translation call.
type TranslateRequest struct {
	Texts      []string // Source texts, trimmed, in order
	TargetLang string   // Target language code (e.g. "uk")
	SourceLang string   // Source language code (default "en")
	Category   string   // Optional classification tag used to bias the prompt
}

// Stats is a read-only snapshot of engine cache activity.
type Stats struct {
	Entries  int    // Entries currently present in the cache store
	Hits     uint64 // Lookups served from the cache
	Misses   uint64 // Lookups that required a provider call
	Degraded uint64 // Misses that fell back to the local substitute
}
