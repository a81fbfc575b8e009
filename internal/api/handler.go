package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/content-synth/internal/agent/generator"
	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/export"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/session"
	"github.com/content-synth/pkg/logger"
)

// Handler serves the generation API
type Handler struct {
	agent *generator.Agent
	store *session.Store
	log   *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(agent *generator.Agent, store *session.Store, log *logger.Logger) *Handler {
	return &Handler{
		agent: agent,
		store: store,
		log:   log.WithComponent("api"),
	}
}

// NewRouter builds a gin engine with every route registered
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.RequestLogger())
	h.Register(router)
	return router
}

// Register mounts the API routes
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/personas", h.ListPersonas)
	r.GET("/platforms", h.ListPlatforms)

	s := r.Group("/sessions")
	s.POST("", h.CreateSession)
	s.DELETE("/:id", h.EndSession)
	s.POST("/:id/generate", h.Generate)
	s.GET("/:id/current", h.Current)
	s.GET("/:id/history", h.History)
	s.GET("/:id/history.csv", h.HistoryCSV)
}

// RequestLogger logs every request through zerolog
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// GenerateRequest is the body of POST /sessions/:id/generate
type GenerateRequest struct {
	models.CampaignInput
	Seed      *uint64 `json:"seed,omitempty"`
	WithImage bool    `json:"with_image,omitempty"`
	Strict    bool    `json:"strict,omitempty"`
}

// Health reports liveness and the number of open sessions
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.store.Len(),
	})
}

// ListPersonas returns the personas, the campaign mapping and the default persona
func (h *Handler) ListPersonas(c *gin.Context) {
	cat := h.agent.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"personas": cat.Personas(),
		"rules":    cat.Rules(),
		"default":  cat.DefaultPersona(),
	})
}

// ListPlatforms returns every platform profile
func (h *Handler) ListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": h.agent.Catalog().Platforms()})
}

// CreateSession opens a new session
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.store.Create()
	h.log.Info().Str("session_id", s.ID()).Msg("Session created")
	c.JSON(http.StatusCreated, gin.H{
		"id":         s.ID(),
		"created_at": s.CreatedAt(),
	})
}

// EndSession discards a session and its in-memory history
func (h *Handler) EndSession(c *gin.Context) {
	if err := h.store.End(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Generate runs one generation and appends it to the session
func (h *Handler) Generate(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.agent.Generate(c.Request.Context(), sess, req.CampaignInput, generator.GenerateOptions{
		Seed:      req.Seed,
		WithImage: req.WithImage,
		Strict:    req.Strict,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":    result,
		"post_text": result.PostText(),
		"chars":     result.CharCountLabel(),
	})
}

// Current returns the latest result of the session
func (h *Handler) Current(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	current := sess.Current()
	if current == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no generations yet"})
		return
	}
	c.JSON(http.StatusOK, current)
}

// history serves live sessions only; ended sessions are gone even when their rows were saved
func (h *Handler) history(c *gin.Context) ([]*models.GenerationResult, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return sess.History(), true
}

// History returns the session's results in generation order
func (h *Handler) History(c *gin.Context) {
	results, ok := h.history(c)
	if !ok {
		return
	}
	if results == nil {
		results = []*models.GenerationResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// HistoryCSV downloads the session's results as CSV
func (h *Handler) HistoryCSV(c *gin.Context) {
	results, ok := h.history(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, results); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// fail maps domain errors to HTTP statuses
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrEmptyInput), errors.Is(err, catalog.ErrNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrExternalService):
		status = http.StatusBadGateway
	case errors.Is(err, models.ErrConfigurationMissing):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}
