package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/setlist"
	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/aretw0/setlist/pkg/lang"
	"github.com/aretw0/setlist/pkg/observability"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/aretw0/setlist/pkg/tokencache"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes int64 = 1 << 20

// Options wires the server dependencies. Zero values fall back to defaults:
// an in-memory token cache, English only, the default Prometheus gatherer
// and no metrics.
type Options struct {
	Tokens   tokencache.Cache
	Lang     *lang.Detector
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server serves the form and token endpoints.
type Server struct {
	tokens  tokencache.Cache
	lang    *lang.Detector
	metrics *observability.Metrics
	logger  *slog.Logger
}

// FormInfo describes a form in GET /v1/forms.
type FormInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Schema      schema.Description `json:"schema"`
}

// DecodeResponse is the body of a successful decode.
type DecodeResponse struct {
	Form  string `json:"form"`
	Value any    `json:"value"`
}

// NewHandler builds the chi router. The token endpoints are not
// authenticated, so the handler belongs on a trusted network.
func NewHandler(opts Options) http.Handler {
	s := &Server{
		tokens:  opts.Tokens,
		lang:    opts.Lang,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	if s.tokens == nil {
		s.tokens = tokencache.NewMemory()
	}
	if s.lang == nil {
		s.lang, _ = lang.NewDetector(lang.DefaultCookie, "en")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(enableCORS)
	r.Use(s.detectLanguage)

	r.Get("/healthz", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/forms", s.ListForms)
		r.Post("/forms/{name}/decode", s.DecodeForm)
		r.Put("/lang", s.SetLanguage)

		r.Get("/tokens/{key}", s.GetToken)
		r.Put("/tokens/{key}", s.PutToken)
		r.Delete("/tokens/{key}", s.DeleteToken)
	})

	return r
}

// tokenRoutes serve raw access tokens and never answer cross-origin requests.
const tokenRoutes = "/v1/tokens/"

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, tokenRoutes) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) detectLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := s.lang.Detect(r)
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(lang.NewContext(r.Context(), tag)))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(setlist.Version),
	})
}

// ListForms handles GET /v1/forms.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	all := forms.All()
	out := make([]FormInfo, 0, len(all))
	for _, f := range all {
		out = append(out, FormInfo{Name: f.Name, Description: f.Description, Schema: schema.Describe(f.Schema)})
	}
	writeJSON(w, http.StatusOK, out)
}

// DecodeForm handles POST /v1/forms/{name}/decode.
func (s *Server) DecodeForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok := forms.Lookup(name)
	if !ok {
		newNotFound("form " + name).WriteJSON(w)
		return
	}

	raw, ok := readJSON(w, r)
	if !ok {
		return
	}

	value, err := f.Decode(raw)
	s.metrics.Observe(name, err)
	if err != nil {
		s.logger.Debug("decode rejected", "form", name, "error", err)
		problemFor(err).WriteJSON(w)
		return
	}
	writeJSON(w, http.StatusOK, DecodeResponse{Form: name, Value: value})
}

// SetLanguage handles PUT /v1/lang with a body of {"lang": "pt-BR"}.
func (s *Server) SetLanguage(w http.ResponseWriter, r *http.Request) {
	raw, ok := readJSON(w, r)
	if !ok {
		return
	}
	rec, _ := raw.(map[string]any)
	tag, ok := s.lang.FromCookie(rec["lang"])
	if !ok {
		newValidation([]decode.Violation{{
			Field:      "lang",
			Constraint: schema.KindOneOf,
			MessageKey: "languageUnsupported",
			Reason:     "language is not supported",
		}}).WriteJSON(w)
		return
	}
	s.lang.SetCookie(w, tag)
	w.Header().Set("Content-Language", tag.String())
	writeJSON(w, http.StatusOK, map[string]string{"lang": tag.String()})
}

// GetToken handles GET /v1/tokens/{key}.
func (s *Server) GetToken(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	tok, err := s.tokens.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, tokencache.ErrMiss) {
			newNotFound("token " + key).WriteJSON(w)
			return
		}
		s.logger.Error("token lookup failed", "key", key, "error", err)
		newInternal().WriteJSON(w)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

// PutToken handles PUT /v1/tokens/{key}.
func (s *Server) PutToken(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	raw, ok := readJSON(w, r)
	if !ok {
		return
	}

	tok, err := tokencache.DecodeToken(raw)
	s.metrics.Observe("token", err)
	if err != nil {
		problemFor(err).WriteJSON(w)
		return
	}
	if err := s.tokens.Set(r.Context(), key, tok); err != nil {
		s.logger.Error("token store failed", "key", key, "error", err)
		newInternal().WriteJSON(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteToken handles DELETE /v1/tokens/{key}.
func (s *Server) DeleteToken(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.tokens.Delete(r.Context(), key); err != nil {
		s.logger.Error("token delete failed", "key", key, "error", err)
		newInternal().WriteJSON(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readJSON reads a size-limited JSON (or JSONC) body. On failure it writes
// the problem response and reports false.
func readJSON(w http.ResponseWriter, r *http.Request) (any, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			newTooLarge(MaxBodyBytes).WriteJSON(w)
			return nil, false
		}
		newBadRequest("could not read request body").WriteJSON(w)
		return nil, false
	}

	raw, err := decode.ParseJSON(body)
	if err != nil {
		problemFor(err).WriteJSON(w)
		return nil, false
	}
	return raw, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
