package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/config"
	"polyglot-hq/hermes/pkg/journal"
	"polyglot-hq/hermes/pkg/journal/recorder"
	"polyglot-hq/hermes/pkg/routing"
	"polyglot-hq/hermes/pkg/telemetry/logging"
	"polyglot-hq/hermes/pkg/telemetry/metrics"
	"polyglot-hq/hermes/pkg/telemetry/tracing"
)

// apiHandler serves the /v1 API routes.
type apiHandler struct {
	config   *config.Config
	router   *routing.Router
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	recorder *recorder.Recorder
}

func newAPIHandler(cfg *config.Config, router *routing.Router, opts Options) *apiHandler {
	return &apiHandler{
		config:   cfg,
		router:   router,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		recorder: opts.Recorder,
	}
}

// translateRequest is the wire form of one translation call: the
// provider-agnostic request plus an optional routing strategy.
type translateRequest struct {
	adapters.Request
	Strategy *routing.Strategy `json:"strategy,omitempty"`
}

// batchRequest is the wire form of a batch translation call. The strategy
// applies to every request in the batch.
type batchRequest struct {
	Requests []adapters.Request `json:"requests"`
	Strategy *routing.Strategy  `json:"strategy,omitempty"`
}

// batchResponse aligns responses with the request slice.
type batchResponse struct {
	Responses []*adapters.Response `json:"responses"`
}

// detectRequest is the wire form of a language detection call.
type detectRequest struct {
	Text string `json:"text"`
}

// providersResponse lists the provider fleet snapshot.
type providersResponse struct {
	Providers []routing.ProviderStatus `json:"providers"`
	Count     int                      `json:"count"`
}

// translate serves POST /v1/translate.
func (h *apiHandler) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	ctx := r.Context()
	h.stampMetadata(ctx, &req.Request)
	strat := h.resolveStrategy(req.Strategy)

	ctx, span := h.startSpan(ctx, "translate")

	start := time.Now()
	resp, err := h.router.Translate(ctx, &req.Request, strat)
	latency := time.Since(start)

	if h.recorder != nil {
		h.recorder.Record(journal.NewEntry(&req.Request, strat, resp, err, latency))
	}
	h.observeTranslation(&req.Request, strat, resp, err, latency)

	if span != nil {
		tracing.SetProviderAttributes(span, providerOf(resp), string(strat.Mode))
		tracing.SetTranslationAttributes(span, req.SourceLang, req.TargetLang, len(req.Text))
		tracing.SetDurationAttribute(span, latency.Milliseconds())
		if resp != nil {
			tracing.SetCacheAttributes(span, resp.Cached, "translation")
			tracing.SetCostAttributes(span, resp.Cost, len(req.Text))
		}
		if err != nil {
			tracing.SetErrorAttributes(span, err, journal.ErrorType(err))
		}
		span.End()
	}

	if err != nil {
		writeRoutingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// translateBatch serves POST /v1/translate/batch.
func (h *apiHandler) translateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if len(req.Requests) == 0 {
		writeError(w, r, http.StatusBadRequest, errTypeInvalidRequest, "requests cannot be empty")
		return
	}

	ctx := r.Context()
	reqs := make([]*adapters.Request, len(req.Requests))
	for i := range req.Requests {
		h.stampMetadata(ctx, &req.Requests[i])
		reqs[i] = &req.Requests[i]
	}
	strat := h.resolveStrategy(req.Strategy)

	ctx, span := h.startSpan(ctx, "translate_batch")

	start := time.Now()
	responses, err := h.router.TranslateBatch(ctx, reqs, strat)
	latency := time.Since(start)

	if h.metrics != nil {
		h.metrics.RecordBatch(len(req.Requests))
	}
	if h.recorder != nil && err == nil {
		// Per-item latency is not observable through the batch call; the
		// batch wall time is attributed to each entry.
		for i, resp := range responses {
			h.recorder.Record(journal.NewEntry(reqs[i], strat, resp, nil, latency))
		}
	}

	if span != nil {
		tracing.SetBatchAttribute(span, len(req.Requests))
		tracing.SetDurationAttribute(span, latency.Milliseconds())
		if err != nil {
			tracing.SetErrorAttributes(span, err, journal.ErrorType(err))
		}
		span.End()
	}

	if err != nil {
		writeRoutingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Responses: responses})
}

// detect serves POST /v1/detect.
func (h *apiHandler) detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if req.Text == "" {
		writeError(w, r, http.StatusBadRequest, errTypeInvalidRequest, "text cannot be empty")
		return
	}

	ctx, span := h.startSpan(r.Context(), "detect_language")

	detection, err := h.router.DetectLanguage(ctx, req.Text)

	if h.metrics != nil && err == nil {
		h.metrics.RecordDetection(detection.Language)
	}
	if span != nil {
		tracing.SetDetectionAttributes(span, detection.Language, detection.Confidence)
		if err != nil {
			tracing.SetErrorAttributes(span, err, journal.ErrorType(err))
		}
		span.End()
	}

	if err != nil {
		writeRoutingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detection)
}

// providers serves GET /v1/providers.
func (h *apiHandler) providers(w http.ResponseWriter, r *http.Request) {
	statuses := h.router.ProviderStats(r.Context())
	writeJSON(w, http.StatusOK, providersResponse{
		Providers: statuses,
		Count:     len(statuses),
	})
}

// stats serves GET /v1/stats.
func (h *apiHandler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.router.Stats())
}

// startSpan opens a span when a tracer is wired; the returned span is nil
// otherwise so callers can skip attribute work entirely.
func (h *apiHandler) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if h.tracer == nil {
		return ctx, nil
	}
	return h.tracer.Start(ctx, name)
}

// stampMetadata attaches the tenant and request id to the request so the
// journal can attribute it. Metadata never travels upstream.
func (h *apiHandler) stampMetadata(ctx context.Context, req *adapters.Request) {
	if req.Metadata == nil {
		req.Metadata = make(map[string]string, 2)
	}
	req.Metadata[journal.MetadataTenant] = h.config.Tenant
	if id := logging.GetRequestID(ctx); id != "" {
		req.Metadata["request_id"] = id
	}
}

// resolveStrategy fills in the configured default mode when the caller
// does not name one.
func (h *apiHandler) resolveStrategy(strat *routing.Strategy) *routing.Strategy {
	resolved := routing.Strategy{}
	if strat != nil {
		resolved = *strat
	}
	if resolved.Mode == "" {
		resolved.Mode = routing.StrategyMode(h.config.Router.DefaultStrategy)
	}
	if resolved.Mode == "" {
		resolved.Mode = routing.ModeBalanced
	}
	return &resolved
}

// observeTranslation feeds the metrics collector from one completed call.
func (h *apiHandler) observeTranslation(req *adapters.Request, strat *routing.Strategy, resp *adapters.Response, err error, latency time.Duration) {
	if h.metrics == nil {
		return
	}

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case resp.Cached:
		status = "cached"
	}
	cost := 0.0
	if resp != nil {
		cost = resp.Cost
	}
	h.metrics.RecordTranslation(providerOf(resp), string(strat.Mode), status,
		req.SourceLang, req.TargetLang, latency, len(req.Text), cost)
}

// providerOf returns the serving provider id, or "none" when no adapter
// was reached.
func providerOf(resp *adapters.Response) string {
	if resp == nil || resp.Provider == "" {
		return "none"
	}
	return resp.Provider
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
