// Package server exposes the gloss normalizer and the glossary lookup over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/analyzer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/config"
	"github.com/baditaflorin/go_ichiran_gloss/internal/core/domain"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// RequestIDHeader carries the request id in requests and responses.
const RequestIDHeader = "X-Request-ID"

// Glossary looks up the gloss of a text block.
type Glossary interface {
	Lookup(ctx context.Context, block string) (domain.Glossary, error)
}

// NormalizeRequest represents a normalization request
type NormalizeRequest struct {
	Raw string `json:"raw"`
}

// NormalizeResponse represents a normalization response
type NormalizeResponse struct {
	Gloss string   `json:"gloss"`
	Lines []string `json:"lines"`
}

// LookupRequest represents a glossary lookup request
type LookupRequest struct {
	Text string `json:"text"`
}

// LookupResponse represents a glossary lookup response
type LookupResponse struct {
	Lines          []string `json:"lines"`
	Caption        []string `json:"caption"`
	Sentences      int      `json:"sentences"`
	ProcessingTime string   `json:"processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the gloss HTTP API.
type Server struct {
	config     config.ServerConfig
	normalizer ports.Normalizer
	glossary   Glossary
	lookupTTL  time.Duration
	logger     ports.Logger
	metrics    *metrics.Metrics
	metricsH   fasthttp.RequestHandler
	http       *fasthttp.Server
}

// Deps holds the collaborators of the server. Glossary may be nil, in which
// case /lookup answers 503.
type Deps struct {
	Normalizer ports.Normalizer
	Glossary   Glossary
	Logger     ports.Logger
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	// LookupTimeout bounds one /lookup request.
	LookupTimeout time.Duration
}

// New creates a server.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewUnregistered()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.NewRegistry()
	}
	if deps.LookupTimeout <= 0 {
		deps.LookupTimeout = 60 * time.Second
	}

	s := &Server{
		config:     cfg,
		normalizer: deps.Normalizer,
		glossary:   deps.Glossary,
		lookupTTL:  deps.LookupTimeout,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		metricsH:   fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})),
	}
	s.http = &fasthttp.Server{
		Handler:               s.Handler,
		Name:                  "IchiranGloss",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		MaxRequestBodySize:    cfg.MaxRequestSize,
		Concurrency:           cfg.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}
	return s
}

// ListenAndServe serves on the configured port until Shutdown is called.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("Server listening", "address", addr)
	return s.http.ListenAndServe(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.http.Shutdown()
}

// Handler is the main fasthttp request handler
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	requestID := string(ctx.Request.Header.Peek(RequestIDHeader))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Response.Header.Set(RequestIDHeader, requestID)
	ctx.Response.Header.Set("Content-Type", "application/json")

	path := string(ctx.Path())
	switch path {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/normalize":
		s.handleNormalize(ctx)
	case "/lookup":
		s.handleLookup(ctx)
	case "/metrics":
		s.metricsH(ctx)
	default:
		path = "other"
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		s.writeJSONError(ctx, "Not found")
	}

	duration := time.Since(startTime)
	status := ctx.Response.StatusCode()
	s.metrics.HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	s.metrics.HTTPRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	s.logger.Info("Request processed",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", status,
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

// handleHealthCheck responds to health check requests
func (s *Server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().Format(time.RFC3339),
		"glossary": s.glossary != nil,
	})
}

// handleNormalize normalizes raw analyzer output sent by the client
func (s *Server) handleNormalize(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return
	}

	var req NormalizeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	gloss := s.normalizer.Normalize(req.Raw)
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, NormalizeResponse{
		Gloss: gloss,
		Lines: strings.Split(gloss, "\n"),
	})
}

// handleLookup runs the analyzer on the client text and returns the gloss
func (s *Server) handleLookup(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return
	}
	if s.glossary == nil {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		s.writeJSONError(ctx, "Analyzer not configured")
		return
	}

	var req LookupRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Text is required")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), s.lookupTTL)
	defer cancel()

	start := time.Now()
	g, err := s.glossary.Lookup(c, req.Text)
	if err != nil {
		s.logger.Error("Lookup failed", "error", err)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			ctx.SetStatusCode(fasthttp.StatusGatewayTimeout)
		case errors.Is(err, analyzer.ErrEmptyInput):
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
		default:
			ctx.SetStatusCode(fasthttp.StatusBadGateway)
		}
		s.writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, LookupResponse{
		Lines:          nonNil(g.Lines),
		Caption:        g.Caption(),
		Sentences:      len(g.Sentences),
		ProcessingTime: time.Since(start).String(),
	})
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

// writeJSONResponse writes a JSON response to the context
func (s *Server) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON response", "error", err)
		s.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (s *Server) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}
