package rpc

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ppiankov/satrarity/internal/metrics"
	"github.com/ppiankov/satrarity/internal/model"
	"github.com/ppiankov/satrarity/internal/pipeline"
	"github.com/ppiankov/satrarity/internal/worker"
)

// Server serves the JSON-RPC API over HTTP
type Server struct {
	pipeline *pipeline.Pipeline
	cfg      model.ServerConfig
	limiter  *worker.Limiter  // nil disables rate limiting
	metrics  *metrics.Metrics // nil disables /metrics
	logger   *zap.Logger
	methods  map[string]method
}

// Option configures a Server
type Option func(*Server)

// WithLimiter enables per-client rate limiting
func WithLimiter(l *worker.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithMetrics enables request metrics and the /metrics endpoint
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server backed by p
func NewServer(p *pipeline.Pipeline, cfg model.ServerConfig, opts ...Option) *Server {
	s := &Server{
		pipeline: p,
		cfg:      cfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil && s.limiter != nil {
		s.metrics.TrackRateLimitedClients(s.limiter.Clients)
	}
	s.methods = s.registry()
	return s
}

// Handler returns the HTTP router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "OK")
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimit(s.limiter, s.metrics))
		}
		r.Use(bodyLimit(s.cfg.MaxBodyBytes))
		r.Post("/", s.serveRPC)
	})

	return r
}

func (s *Server) serveRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, newErrorResponse(nil, NewRPCError(InvalidRequestCode, "request body too large")))
			return
		}
		writeJSON(w, http.StatusBadRequest, newErrorResponse(nil, NewRPCError(ParseErrorCode, "parse error")))
		return
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var batch []stdjson.RawMessage
		if err := json.Unmarshal(body, &batch); err != nil {
			writeJSON(w, http.StatusOK, newErrorResponse(nil, NewRPCError(ParseErrorCode, "parse error")))
			return
		}
		if len(batch) == 0 {
			writeJSON(w, http.StatusOK, newErrorResponse(nil, NewRPCError(InvalidRequestCode, "empty batch")))
			return
		}
		responses := make([]Response, len(batch))
		for i, raw := range batch {
			responses[i] = s.handle(r, raw)
		}
		writeJSON(w, http.StatusOK, responses)
		return
	}

	writeJSON(w, http.StatusOK, s.handle(r, body))
}

// handle runs one request and always produces a response
func (s *Server) handle(r *http.Request, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return newErrorResponse(nil, NewRPCError(ParseErrorCode, "parse error"))
	}
	if req.JSONRPC != version || req.Method == "" {
		return newErrorResponse(req.ID, NewRPCError(InvalidRequestCode, "invalid request"))
	}

	call, ok := s.methods[req.Method]
	if !ok {
		s.observe(req.Method, "not_found", 0)
		return newErrorResponse(req.ID, NewRPCError(MethodNotFoundCode, "method not found: "+req.Method))
	}

	start := time.Now()
	result, err := call(r.Context(), req.Params)
	if err != nil {
		s.observe(req.Method, "error", time.Since(start))
		s.logger.Debug("rpc call failed",
			zap.String("method", req.Method),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		return newErrorResponse(req.ID, NewRPCError(InvalidParamsCode, err.Error()))
	}

	s.observe(req.Method, "ok", time.Since(start))
	return newResponse(req.ID, result)
}

func (s *Server) observe(method, outcome string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	if outcome == "not_found" {
		// unbounded label values
		method = "unknown"
	}
	s.metrics.Requests.WithLabelValues(method, outcome).Inc()
	if elapsed > 0 {
		s.metrics.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
