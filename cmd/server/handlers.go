package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/nyrakai/nyrakai"
	"github.com/nyrakai/nyrakai/config"
)

// ---- JSON response types ------------------------------------------------

type syllableJSON struct {
	Text    string   `json:"text"`
	Onset   []string `json:"onset"`
	Glottal bool     `json:"glottal,omitempty"`
	Nucleus string   `json:"nucleus"`
	Checked bool     `json:"checked,omitempty"`
	Coda    string   `json:"coda,omitempty"`
}

type verdictJSON struct {
	Word      string         `json:"word"`
	Legal     bool           `json:"legal"`
	Violation string         `json:"violation,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Structure string         `json:"structure,omitempty"`
	Syllables []syllableJSON `json:"syllables,omitempty"`
}

type segmentResponse struct {
	Word      string         `json:"word"`
	Syllables []syllableJSON `json:"syllables"`
}

type composeRequest struct {
	Root      string   `json:"root"`
	POS       string   `json:"pos"`
	Gender    string   `json:"gender"`
	Morphemes []string `json:"morphemes"`
	Validate  bool     `json:"validate"`
}

type stepJSON struct {
	Morpheme string `json:"morpheme"`
	Action   string `json:"action"`
	Reason   string `json:"reason,omitempty"`
	Interfix string `json:"interfix,omitempty"`
	Form     string `json:"form"`
}

type composeResponse struct {
	Form    string       `json:"form"`
	POS     string       `json:"pos"`
	Gender  string       `json:"gender"`
	Steps   []stepJSON   `json:"steps"`
	Verdict *verdictJSON `json:"verdict,omitempty"`
}

type morphemeJSON struct {
	Key      string `json:"key"`
	Slot     string `json:"slot"`
	Name     string `json:"name"`
	Attach   string `json:"attach"`
	Form     string `json:"form"`
	Gender   string `json:"gender,omitempty"`
	Boundary string `json:"boundary"`
}

type morphemesResponse struct {
	Morphemes []morphemeJSON `json:"morphemes"`
}

type domainResponse struct {
	Word      string `json:"word"`
	Onset     string `json:"onset"`
	Mapped    bool   `json:"mapped"`
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Expected  string `json:"expected,omitempty"`
	Match     *bool  `json:"match,omitempty"`
	Message   string `json:"message,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// ---- helpers ------------------------------------------------------------

func toSyllablesJSON(syls []nyrakai.Syllable) []syllableJSON {
	out := make([]syllableJSON, 0, len(syls))
	for _, s := range syls {
		out = append(out, syllableJSON{
			Text:    s.String(),
			Onset:   s.Onset,
			Glottal: s.Glottal,
			Nucleus: s.Nucleus,
			Checked: s.Checked,
			Coda:    s.Coda,
		})
	}
	return out
}

func toVerdictJSON(v nyrakai.Verdict) verdictJSON {
	vj := verdictJSON{
		Word:      v.Word,
		Legal:     v.Legal,
		Violation: string(v.Violation),
		Detail:    v.Detail,
	}
	if len(v.Syllables) > 0 {
		vj.Structure = v.Structure()
		vj.Syllables = toSyllablesJSON(v.Syllables)
	}
	return vj
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode error", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ---- server -------------------------------------------------------------

type server struct {
	engine *nyrakai.Engine
	logger *slog.Logger

	normalize            bool
	validateCompositions bool

	// verdicts caches Validate results by input word.
	verdicts *lru.Cache[string, nyrakai.Verdict]

	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	cacheHits prometheus.Counter

	allowedOrigins []string
}

func newServer(e *nyrakai.Engine, cfg *config.Config, logger *slog.Logger) (*server, error) {
	cache, err := lru.New[string, nyrakai.Verdict](cfg.Server.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("verdict cache: %w", err)
	}

	s := &server{
		engine:               e,
		logger:               logger,
		normalize:            cfg.Rules.Normalize,
		validateCompositions: cfg.Rules.ValidateCompositions,
		verdicts:             cache,
		registry:             prometheus.NewRegistry(),
		allowedOrigins:       cfg.Server.AllowedOrigins,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nyrakai",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nyrakai",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nyrakai",
			Name:      "verdict_cache_hits_total",
			Help:      "Validation requests answered from the verdict cache.",
		}),
	}
	s.registry.MustRegister(s.requests, s.latency, s.cacheHits)
	return s, nil
}

// routes returns the full handler: API routes, metrics and CORS.
func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/validate", s.instrument("validate", s.handleValidate()))
	mux.Handle("/api/segment", s.instrument("segment", s.handleSegment()))
	mux.Handle("/api/compose", s.instrument("compose", s.handleCompose()))
	mux.Handle("/api/morphemes", s.instrument("morphemes", s.handleMorphemes()))
	mux.Handle("/api/domain", s.instrument("domain", s.handleDomain()))
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) instrument(endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.requests.WithLabelValues(endpoint, fmt.Sprint(rec.status)).Inc()
		s.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
		s.logger.Debug("request",
			slog.String("endpoint", endpoint),
			slog.String("query", r.URL.RawQuery),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", elapsed))
	})
}

func (s *server) validate(word string) nyrakai.Verdict {
	if s.normalize {
		word = nyrakai.Normalize(word)
	}
	if v, ok := s.verdicts.Get(word); ok {
		s.cacheHits.Inc()
		return v
	}
	v := s.engine.Validate(word)
	s.verdicts.Add(word, v)
	return v
}

// ---- handlers -----------------------------------------------------------

func (s *server) handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		writeJSON(w, http.StatusOK, toVerdictJSON(s.validate(word)))
	}
}

func (s *server) handleSegment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		if s.normalize {
			word = nyrakai.Normalize(word)
		}
		syls, err := s.engine.Segment(word)
		if err != nil {
			resp := errorResponse{Error: err.Error()}
			var se *nyrakai.SegmentationError
			if errors.As(err, &se) {
				resp.Reason = string(se.Reason)
			}
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
		writeJSON(w, http.StatusOK, segmentResponse{Word: word, Syllables: toSyllablesJSON(syls)})
	}
}

func (s *server) handleCompose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body composeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Root) == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'root' field")
			return
		}
		if body.POS == "" {
			body.POS = "noun"
		}
		pos, ok := nyrakai.ParsePartOfSpeech(body.POS)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown part of speech %q", body.POS))
			return
		}
		if body.Gender == "" && pos == nyrakai.POSNoun {
			body.Gender = string(nyrakai.GenderFlexible)
		}
		gender, ok := nyrakai.ParseGender(body.Gender)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown gender %q", body.Gender))
			return
		}

		ms := make([]nyrakai.Morpheme, 0, len(body.Morphemes))
		for _, key := range body.Morphemes {
			m, err := s.engine.Lookup(key)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			ms = append(ms, m)
		}

		root := nyrakai.Word{Form: body.Root, POS: pos, Gender: gender}
		word, steps := s.engine.ComposeSteps(root, ms...)
		resp := composeResponse{
			Form:   word.Form,
			POS:    word.POS.String(),
			Gender: string(word.Gender),
			Steps:  make([]stepJSON, 0, len(steps)),
		}
		for _, st := range steps {
			resp.Steps = append(resp.Steps, stepJSON{
				Morpheme: st.Morpheme.Key(),
				Action:   string(st.Decision.Action),
				Reason:   st.Decision.Reason,
				Interfix: st.Interfix,
				Form:     st.Form,
			})
		}
		if body.Validate || s.validateCompositions {
			vj := toVerdictJSON(s.validate(word.Form))
			resp.Verdict = &vj
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *server) handleMorphemes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		all := s.engine.Morphemes()
		out := make([]morphemeJSON, 0, len(all))
		for _, m := range all {
			out = append(out, morphemeJSON{
				Key:      m.Key(),
				Slot:     string(m.Slot),
				Name:     m.Name,
				Attach:   string(m.Attach),
				Form:     m.Form,
				Gender:   string(m.Gender),
				Boundary: string(m.Boundary),
			})
		}
		writeJSON(w, http.StatusOK, morphemesResponse{Morphemes: out})
	}
}

func (s *server) handleDomain() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		d, mapped := s.engine.DomainOf(word)
		resp := domainResponse{
			Word:      word,
			Onset:     d.Onset,
			Mapped:    mapped,
			Primary:   d.Primary,
			Secondary: d.Secondary,
		}
		if expected := r.URL.Query().Get("expected"); expected != "" {
			c := s.engine.CheckDomain(word, expected)
			resp.Expected = expected
			resp.Match = &c.Match
			resp.Message = c.String()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
