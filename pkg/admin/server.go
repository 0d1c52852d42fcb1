// Package admin serves a small local web interface over the project's
// conversation store: status, search, browsing, and reset. It binds to
// loopback only and carries no authentication, matching the single-user,
// single-machine scope of the tool.
package admin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory"
	"github.com/offcontext/offcontext/pkg/memory/embeddings"
	"github.com/offcontext/offcontext/pkg/memory/search"
)

// Server wires the admin HTTP handlers to a project's store.
type Server struct {
	project *config.Project
	cfg     config.Config
	store   memory.Store
	engine  *search.Engine
	log     *logging.Logger
}

// New creates a Server over an opened store.
func New(project *config.Project, cfg config.Config, store memory.Store, log *logging.Logger) *Server {
	return &Server{
		project: project,
		cfg:     cfg,
		store:   store,
		engine:  search.New(),
		log:     log,
	}
}

// Routes registers all admin endpoints on e.
func (s *Server) Routes(e *echo.Echo) {
	e.GET("/", s.GetIndex)
	e.GET("/api/status", s.GetStatus)
	e.GET("/api/search", s.GetSearch)
	e.GET("/api/conversations", s.GetConversations)
	e.POST("/api/reset", s.PostReset)
}

// Start runs the server on addr until it fails or the process exits.
func (s *Server) Start(addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	s.Routes(e)
	return e.Start(addr)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>offcontext admin</title></head>
<body>
<h1>offcontext admin</h1>
<ul>
<li><a href="/api/status">/api/status</a></li>
<li><a href="/api/search?q=example">/api/search?q=...</a></li>
<li><a href="/api/conversations">/api/conversations</a></li>
</ul>
</body>
</html>`

// GetIndex serves a minimal landing page linking the JSON endpoints.
// GET /
func (s *Server) GetIndex(c echo.Context) error {
	return c.HTML(http.StatusOK, indexPage)
}

// GetStatus returns store and configuration health.
// GET /api/status
func (s *Server) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := s.store.Count(ctx)
	if err != nil {
		s.log.Errorf("admin: count conversations: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read store"})
	}

	gen := embeddings.NewGenerator(s.cfg.Embeddings)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"project_root":         s.project.Root,
		"conversation_count":   count,
		"collection":           s.cfg.Database.Collection,
		"auto_inject":          s.cfg.Hooks.AutoInject,
		"hooks_enabled":        s.cfg.Hooks.Enabled,
		"embeddings_available": gen.Available(),
		"embeddings_provider":  gen.Provider(),
	})
}

// GetSearch runs a ranked query over the store.
// GET /api/search?q=...&limit=N
func (s *Server) GetSearch(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 10
	}

	convs, err := s.store.All(ctx)
	if err != nil {
		s.log.Errorf("admin: load conversations: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read store"})
	}

	results := s.engine.Rank(convs, query, limit)
	items := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		items = append(items, map[string]interface{}{
			"id":        r.Conversation.ID,
			"score":     r.Score,
			"timestamp": r.Conversation.Timestamp,
			"snippet":   r.Snippet,
			"tags":      r.Conversation.Metadata.Tags,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": items,
		"total":   len(convs),
	})
}

// GetConversations returns the full ordered record set.
// GET /api/conversations
func (s *Server) GetConversations(c echo.Context) error {
	ctx := c.Request().Context()

	convs, err := s.store.All(ctx)
	if err != nil {
		s.log.Errorf("admin: load conversations: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read store"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversations": convs,
		"count":         len(convs),
	})
}

// PostReset clears the store.
// POST /api/reset
func (s *Server) PostReset(c echo.Context) error {
	ctx := c.Request().Context()

	if err := s.store.Clear(ctx); err != nil {
		s.log.Errorf("admin: clear store: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear store"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}
