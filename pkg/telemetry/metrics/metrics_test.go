package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"polyglot-hq/hermes/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		Subsystem:              "metrics",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

// TestCollector_NewCollector tests collector creation
func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.registry != registry {
		t.Error("Collector registry not set correctly")
	}
	if collector.cardinalityLimiter == nil {
		t.Error("Expected cardinality limiter to be initialized")
	}
}

// TestCollector_NewCollector_Defaults tests that a bare config is filled in
func TestCollector_NewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}

	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Error("Expected a registry to be created when nil is passed")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Expected namespace %q, got %q", config.DefaultMetricsNamespace, cfg.Namespace)
	}
	if cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("Expected subsystem %q, got %q", config.DefaultMetricsSubsystem, cfg.Subsystem)
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		t.Error("Expected default request duration buckets to be applied")
	}
}

// TestCollector_RecordTranslation tests translation recording
func TestCollector_RecordTranslation(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	tests := []struct {
		name     string
		provider string
		strategy string
		status   string
		source   string
		target   string
		duration time.Duration
		chars    int
		cost     float64
	}{
		{
			name:     "success request",
			provider: "deepl",
			strategy: "balanced",
			status:   "success",
			source:   "en",
			target:   "es",
			duration: 180 * time.Millisecond,
			chars:    11,
			cost:     0.000275,
		},
		{
			name:     "cache hit",
			provider: "cache",
			strategy: "balanced",
			status:   "cached",
			source:   "en",
			target:   "fr",
			duration: 2 * time.Millisecond,
			chars:    11,
			cost:     0.0,
		},
		{
			name:     "error request",
			provider: "claude",
			strategy: "cost",
			status:   "error",
			source:   "de",
			target:   "en",
			duration: 500 * time.Millisecond,
			chars:    0,
			cost:     0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordTranslation(tt.provider, tt.strategy, tt.status, tt.source, tt.target, tt.duration, tt.chars, tt.cost)

			// Verify translation counter was incremented
			count := testutil.ToFloat64(collector.requestMetrics.translationsTotal.WithLabelValues(tt.provider, tt.strategy, tt.status))
			if count < 1 {
				t.Errorf("Expected translation counter >= 1, got %f", count)
			}

			// Verify language pair counter was incremented
			pairs := testutil.ToFloat64(collector.requestMetrics.languagePairsTotal.WithLabelValues(tt.source, tt.target))
			if pairs < 1 {
				t.Errorf("Expected language pair counter >= 1, got %f", pairs)
			}
		})
	}

	// Character counter only moves for requests that carried source text
	chars := testutil.ToFloat64(collector.requestMetrics.charactersTotal.WithLabelValues("deepl"))
	if chars != 11 {
		t.Errorf("Expected 11 characters for deepl, got %f", chars)
	}
	chars = testutil.ToFloat64(collector.requestMetrics.charactersTotal.WithLabelValues("claude"))
	if chars != 0 {
		t.Errorf("Expected 0 characters for claude, got %f", chars)
	}

	// Cost counter reflects the estimated spend
	cost := testutil.ToFloat64(collector.costMetrics.costTotal.WithLabelValues("deepl"))
	if cost < 0.000275 {
		t.Errorf("Expected cost >= 0.000275, got %f", cost)
	}
}

// TestCollector_LanguagePairCardinality tests that pairs past the limit fold to "other"
func TestCollector_LanguagePairCardinality(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)
	collector.cardinalityLimiter = NewCardinalityLimiter(2)

	collector.RecordTranslation("deepl", "balanced", "success", "en", "es", time.Second, 5, 0.0001)
	collector.RecordTranslation("deepl", "balanced", "success", "en", "fr", time.Second, 5, 0.0001)
	collector.RecordTranslation("deepl", "balanced", "success", "en", "de", time.Second, 5, 0.0001)
	collector.RecordTranslation("deepl", "balanced", "success", "ja", "ko", time.Second, 5, 0.0001)

	count := testutil.ToFloat64(collector.requestMetrics.languagePairsTotal.WithLabelValues("en", "es"))
	if count != 1 {
		t.Errorf("Expected en:es count=1, got %f", count)
	}
	count = testutil.ToFloat64(collector.requestMetrics.languagePairsTotal.WithLabelValues("en", "fr"))
	if count != 1 {
		t.Errorf("Expected en:fr count=1, got %f", count)
	}
	count = testutil.ToFloat64(collector.requestMetrics.languagePairsTotal.WithLabelValues("other", "other"))
	if count != 2 {
		t.Errorf("Expected other:other count=2, got %f", count)
	}
}

// TestCollector_ProviderMetrics tests provider metric recording
func TestCollector_ProviderMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// Test health update
	t.Run("update health", func(t *testing.T) {
		collector.UpdateProviderHealth("deepl", true)
		health := testutil.ToFloat64(collector.providerMetrics.health.WithLabelValues("deepl"))
		if health != 1.0 {
			t.Errorf("Expected health=1.0, got %f", health)
		}

		collector.UpdateProviderHealth("deepl", false)
		health = testutil.ToFloat64(collector.providerMetrics.health.WithLabelValues("deepl"))
		if health != 0.0 {
			t.Errorf("Expected health=0.0, got %f", health)
		}
	})

	// Test latency recording
	t.Run("record latency", func(t *testing.T) {
		collector.RecordProviderLatency("deepl", 0.35)
		// Just verify it doesn't panic
	})

	// Test error recording
	t.Run("record error", func(t *testing.T) {
		collector.RecordProviderError("deepl", "rate_limit")
		count := testutil.ToFloat64(collector.providerMetrics.errors.WithLabelValues("deepl", "rate_limit"))
		if count < 1 {
			t.Errorf("Expected error count >= 1, got %f", count)
		}
	})

	// Test load update
	t.Run("update load", func(t *testing.T) {
		collector.UpdateProviderLoad("deepl", 7)
		load := testutil.ToFloat64(collector.providerMetrics.load.WithLabelValues("deepl"))
		if load != 7 {
			t.Errorf("Expected load=7, got %f", load)
		}

		collector.UpdateProviderLoad("deepl", 0)
		load = testutil.ToFloat64(collector.providerMetrics.load.WithLabelValues("deepl"))
		if load != 0 {
			t.Errorf("Expected load=0, got %f", load)
		}
	})

	// Test request recording
	t.Run("record request", func(t *testing.T) {
		collector.RecordProviderRequest("deepl", "health_check")
		count := testutil.ToFloat64(collector.providerMetrics.requests.WithLabelValues("deepl", "health_check"))
		if count < 1 {
			t.Errorf("Expected request count >= 1, got %f", count)
		}
	})
}

// TestCollector_RoutingMetrics tests routing metric recording
func TestCollector_RoutingMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// Test selection recording
	t.Run("record selection", func(t *testing.T) {
		collector.RecordSelection("balanced", "libre", 50*time.Microsecond)
		count := testutil.ToFloat64(collector.routingMetrics.selectionsTotal.WithLabelValues("balanced", "libre"))
		if count < 1 {
			t.Errorf("Expected selection count >= 1, got %f", count)
		}
	})

	// Test fallback recording
	t.Run("record fallback", func(t *testing.T) {
		collector.RecordFallback("deepl")
		count := testutil.ToFloat64(collector.routingMetrics.fallbacksTotal.WithLabelValues("deepl"))
		if count < 1 {
			t.Errorf("Expected fallback count >= 1, got %f", count)
		}
	})

	// Test attempts recording
	t.Run("record attempts", func(t *testing.T) {
		collector.RecordAttempts("balanced", 2)
		// Just verify it doesn't panic
	})
}

// TestCollector_CacheMetrics tests cache metric recording
func TestCollector_CacheMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// Test hit recording
	t.Run("record cache hit", func(t *testing.T) {
		collector.RecordCacheHit("translation")
		count := testutil.ToFloat64(collector.cacheMetrics.hitsTotal.WithLabelValues("translation"))
		if count < 1 {
			t.Errorf("Expected hit count >= 1, got %f", count)
		}
	})

	// Test miss recording
	t.Run("record cache miss", func(t *testing.T) {
		collector.RecordCacheMiss("translation")
		count := testutil.ToFloat64(collector.cacheMetrics.missesTotal.WithLabelValues("translation"))
		if count < 1 {
			t.Errorf("Expected miss count >= 1, got %f", count)
		}
	})

	// Test size update
	t.Run("update cache size", func(t *testing.T) {
		collector.UpdateCacheSize("translation", 42)
		size := testutil.ToFloat64(collector.cacheMetrics.entries.WithLabelValues("translation"))
		if size != 42 {
			t.Errorf("Expected size=42, got %f", size)
		}
	})
}

// TestCollector_Disabled tests that metrics are not recorded when disabled
func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// These should not panic
	collector.RecordTranslation("deepl", "balanced", "success", "en", "es", time.Second, 100, 0.0025)
	collector.RecordBatch(5)
	collector.UpdateProviderHealth("deepl", true)
	collector.RecordSelection("balanced", "deepl", time.Millisecond)
	collector.RecordCacheHit("translation")

	// And nothing should be recorded
	count := testutil.ToFloat64(collector.requestMetrics.translationsTotal.WithLabelValues("deepl", "balanced", "success"))
	if count != 0 {
		t.Errorf("Expected no translations when disabled, got %f", count)
	}
}

// TestCardinalityLimiter tests cardinality limiting
func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	// First 3 should be allowed
	if !limiter.Allow("pair:en:es") {
		t.Error("Expected first pair to be allowed")
	}
	if !limiter.Allow("pair:en:fr") {
		t.Error("Expected second pair to be allowed")
	}
	if !limiter.Allow("pair:ja:en") {
		t.Error("Expected third pair to be allowed")
	}

	// Fourth should be rejected
	if limiter.Allow("pair:ko:de") {
		t.Error("Expected fourth pair to be rejected")
	}

	// Existing pairs should still be allowed
	if !limiter.Allow("pair:en:es") {
		t.Error("Expected existing pair to be allowed")
	}

	// Check count
	if limiter.Count() != 3 {
		t.Errorf("Expected count=3, got %d", limiter.Count())
	}
}

// TestRequestMetrics_RecordTranslation tests character accumulation
func TestRequestMetrics_RecordTranslation(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	rm := NewRequestMetrics(cfg, registry)

	rm.RecordTranslation("deepl", "quality", "success", 200*time.Millisecond, 24)
	rm.RecordTranslation("deepl", "quality", "success", 150*time.Millisecond, 0)

	// Zero-character requests must not move the counter
	chars := testutil.ToFloat64(rm.charactersTotal.WithLabelValues("deepl"))
	if chars != 24 {
		t.Errorf("Expected 24 characters, got %f", chars)
	}

	count := testutil.ToFloat64(rm.translationsTotal.WithLabelValues("deepl", "quality", "success"))
	if count != 2 {
		t.Errorf("Expected 2 translations, got %f", count)
	}
}

// TestRequestMetrics_RecordBatch tests batch size recording
func TestRequestMetrics_RecordBatch(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	rm := NewRequestMetrics(cfg, registry)

	rm.RecordBatch(5)
	rm.RecordBatch(0)

	// Just verify it doesn't panic
}

// TestProviderMetrics_RecordRequest tests provider request recording
func TestProviderMetrics_RecordRequest(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	pm := NewProviderMetrics(cfg, registry)

	pm.RecordRequest("deepl", "translate")
	pm.RecordRequest("deepl", "translate")
	pm.RecordRequest("deepl", "detect")

	count := testutil.ToFloat64(pm.requests.WithLabelValues("deepl", "translate"))
	if count != 2 {
		t.Errorf("Expected translate count=2, got %f", count)
	}
	count = testutil.ToFloat64(pm.requests.WithLabelValues("deepl", "detect"))
	if count != 1 {
		t.Errorf("Expected detect count=1, got %f", count)
	}
}

// TestCostMetrics_RecordRequestCost tests cost recording
func TestCostMetrics_RecordRequestCost(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	cm := NewCostMetrics(cfg, registry)

	cm.RecordRequestCost("openai", 0.0004)

	// Verify cost was recorded
	cost := testutil.ToFloat64(cm.costTotal.WithLabelValues("openai"))
	if cost < 0.0004 {
		t.Errorf("Expected cost >= 0.0004, got %f", cost)
	}

	// Free requests are skipped entirely
	cm.RecordRequestCost("libre", 0)
	cost = testutil.ToFloat64(cm.costTotal.WithLabelValues("libre"))
	if cost != 0 {
		t.Errorf("Expected zero cost for libre, got %f", cost)
	}
}

// TestCacheMetrics_RecordEviction tests eviction recording
func TestCacheMetrics_RecordEviction(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	cm := NewCacheMetrics(cfg, registry)

	cm.RecordEviction("translation")

	// Verify eviction was recorded
	count := testutil.ToFloat64(cm.evictionsTotal.WithLabelValues("translation"))
	if count < 1 {
		t.Errorf("Expected eviction count >= 1, got %f", count)
	}
}

// TestCollector_Handler tests the Prometheus scrape endpoint
func TestCollector_Handler(t *testing.T) {
	cfg := testConfig()
	collector := NewCollector(cfg, nil)

	collector.RecordTranslation("deepl", "balanced", "success", "en", "es", 180*time.Millisecond, 11, 0.000275)
	collector.UpdateProviderHealth("deepl", true)
	collector.RecordCacheHit("translation")

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	exposition := string(body)
	for _, want := range []string{
		"test_metrics_translations_total",
		"test_metrics_provider_health",
		"test_metrics_cache_hits_total",
		`provider="deepl"`,
	} {
		if !strings.Contains(exposition, want) {
			t.Errorf("Expected exposition to contain %q", want)
		}
	}
}

// TestCollector_ConcurrentRecording tests thread-safety
func TestCollector_ConcurrentRecording(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	done := make(chan bool)

	// Spawn multiple goroutines recording metrics
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				collector.RecordTranslation("deepl", "balanced", "success", "en", "es", time.Second, 10, 0.00025)
				collector.UpdateProviderHealth("deepl", true)
				collector.RecordSelection("balanced", "deepl", time.Millisecond)
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	// Verify we got all requests recorded
	count := testutil.ToFloat64(collector.requestMetrics.translationsTotal.WithLabelValues("deepl", "balanced", "success"))
	if count != 1000 {
		t.Errorf("Expected 1000 translations, got %f", count)
	}
}
