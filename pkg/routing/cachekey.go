package routing

import (
	"fmt"
	"hash/fnv"
)

// ResponseCacheKey derives the response cache key for a request. The
// language pair, the provider hint, and the text are hashed with FNV-1a
// (64-bit), so identical requests collide and any field change misses.
// The hint participates so a hinted request never serves a response that
// was produced by a different provider preference.
func ResponseCacheKey(sourceLang, targetLang, providerHint, text string) string {
	h := fnv.New64a()
	h.Write([]byte(sourceLang))
	h.Write([]byte{'|'})
	h.Write([]byte(targetLang))
	h.Write([]byte{'|'})
	h.Write([]byte(providerHint))
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return fmt.Sprintf("translation:%016x", h.Sum64())
}

// MetricsKey returns the cache key of a provider's aggregate usage record.
func MetricsKey(providerID string) string {
	return "provider:" + providerID + ":metrics"
}
