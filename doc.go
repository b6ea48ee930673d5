// Package pulsetrans provides a cached AI translation engine for feed content.
//
// Pulsetrans deduplicates calls to an external translation provider by keying
// every (text, target language) pair to a content fingerprint and persisting
// computed translations in a durable cache. When the provider is unavailable
// the engine degrades to a deterministic rule-based substitute instead of
// failing, so feed pipelines always complete.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ai-pulse/pulsetrans"
//	    "github.com/ai-pulse/pulsetrans/cache"
//	    "github.com/ai-pulse/pulsetrans/provider"
//	)
//
//	func main() {
//	    store, err := cache.NewFileStore("cache/translations.json")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    engine := pulsetrans.NewEngine(store, p)
//
//	    res, err := engine.Translate(context.Background(), "Introducing Claude 4", "uk", "News")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Text) // Представляємо Claude 4
//	}
package pulsetrans
