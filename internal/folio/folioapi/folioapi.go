// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioapi serves the statement pipeline over HTTP.
package folioapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bufdev/folioctl/internal/folio/folioanalyze"
	"github.com/bufdev/folioctl/internal/folio/foliostatement"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ParsePath parses a statement without enrichment.
	ParsePath = "/v1/statements/parse"
	// AnalyzePath parses, enriches, and allocates a statement.
	AnalyzePath = "/v1/portfolio/analyze"
	// HealthPath reports liveness.
	HealthPath = "/v1/health"
	// RequestIDHeader is the response header carrying the request id.
	RequestIDHeader = "X-Request-Id"

	// DefaultMaxBodyBytes is the default limit on statement text size.
	DefaultMaxBodyBytes int64 = 8 << 20
)

// HandlerOption is an option for a new Handler.
type HandlerOption func(*handler)

// HandlerWithLogger returns a new HandlerOption that sets the logger.
func HandlerWithLogger(logger *slog.Logger) HandlerOption {
	return func(handler *handler) {
		handler.logger = logger
	}
}

// HandlerWithMaxBodyBytes returns a new HandlerOption that limits the request body size.
func HandlerWithMaxBodyBytes(maxBodyBytes int64) HandlerOption {
	return func(handler *handler) {
		handler.maxBodyBytes = maxBodyBytes
	}
}

// NewHandler returns a new http.Handler serving the analyzer.
//
// Request bodies are the raw statement text. Responses are JSON.
func NewHandler(analyzer folioanalyze.Analyzer, options ...HandlerOption) http.Handler {
	handler := &handler{
		analyzer:     analyzer,
		logger:       slog.New(slog.DiscardHandler),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, option := range options {
		option(handler)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(handler.logRequest)
	router.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST(ParsePath, handler.parse)
	router.POST(AnalyzePath, handler.analyze)
	return router
}

// *** PRIVATE ***

type handler struct {
	analyzer     folioanalyze.Analyzer
	logger       *slog.Logger
	maxBodyBytes int64
}

func (h *handler) parse(c *gin.Context) {
	text, ok := h.readText(c)
	if !ok {
		return
	}
	portfolio, err := h.analyzer.Parse(text)
	if err != nil {
		h.returnError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func (h *handler) analyze(c *gin.Context) {
	text, ok := h.readText(c)
	if !ok {
		return
	}
	portfolio, err := h.analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		h.returnError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func (h *handler) readText(c *gin.Context) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			returnErrorJSON(c, http.StatusRequestEntityTooLarge, err)
			return "", false
		}
		returnErrorJSON(c, http.StatusBadRequest, err)
		return "", false
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		returnErrorJSON(c, http.StatusBadRequest, errors.New("empty statement"))
		return "", false
	}
	return text, true
}

func (h *handler) returnError(c *gin.Context, err error) {
	if errors.Is(err, foliostatement.ErrNoPositionsFound) {
		returnErrorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}
	h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	returnErrorJSON(c, http.StatusInternalServerError, err)
}

func (h *handler) logRequest(c *gin.Context) {
	requestID := uuid.NewString()
	c.Header(RequestIDHeader, requestID)
	start := time.Now()
	c.Next()
	h.logger.Info(
		"request",
		"request_id", requestID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func returnErrorJSON(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
