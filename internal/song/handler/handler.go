package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/addissongs/song-service/internal/identity"
	"github.com/addissongs/song-service/internal/song"
	"github.com/addissongs/song-service/internal/song/service"
	"github.com/addissongs/song-service/internal/storage"
	"github.com/addissongs/song-service/pkg/logger"
	"github.com/addissongs/song-service/pkg/metrics"
	"github.com/addissongs/song-service/pkg/middleware"
)

// maxCoverBytes bounds cover art uploads.
const maxCoverBytes = 5 << 20

// Handler maps the songs HTTP surface onto the catalog service. Routes do
// argument extraction and status translation only.
type Handler struct {
	svc    *service.Service
	covers storage.CoverStore
}

func NewHandler(svc *service.Service, covers storage.CoverStore) *Handler {
	return &Handler{svc: svc, covers: covers}
}

// Register mounts the songs routes. Mutations require a verified caller;
// create accepts anonymous callers and records the sentinel owner.
func (h *Handler) Register(r *gin.Engine, ver middleware.Verifier) {
	songs := r.Group("/songs")
	songs.GET("", h.List)
	songs.GET("/:id", h.Get)
	songs.POST("", middleware.OptionalAuthMiddleware(ver), h.Create)
	songs.PUT("/:id", middleware.AuthMiddleware(ver), h.Update)
	songs.DELETE("/:id", middleware.AuthMiddleware(ver), h.Delete)

	if h.covers != nil {
		songs.GET("/:id/cover", h.GetCover)
		songs.PUT("/:id/cover", middleware.AuthMiddleware(ver), h.PutCover)
	}

	admin := r.Group("/admin", middleware.AuthMiddleware(ver), middleware.RequireRoles(identity.RoleAdmin))
	admin.GET("/stats", h.Stats)
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

func (h *Handler) List(c *gin.Context) {
	q := song.ListQuery{
		Page:   intQuery(c, "page"),
		Limit:  intQuery(c, "limit"),
		Search: c.Query("search"),
	}
	page, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	metrics.SongOperations.WithLabelValues("list", "ok").Inc()
	c.JSON(http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	metrics.SongOperations.WithLabelValues("get", "ok").Inc()
	c.JSON(http.StatusOK, s)
}

func (h *Handler) Create(c *gin.Context) {
	var in song.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		metrics.SongOperations.WithLabelValues("create", "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	s, err := h.svc.Create(c.Request.Context(), in, middleware.CallerIdentity(c))
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	metrics.SongOperations.WithLabelValues("create", "ok").Inc()
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) Update(c *gin.Context) {
	var in song.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		metrics.SongOperations.WithLabelValues("update", "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	s, err := h.svc.Update(c.Request.Context(), c.Param("id"), in, middleware.CallerIdentity(c))
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	metrics.SongOperations.WithLabelValues("update", "ok").Inc()
	c.JSON(http.StatusOK, s)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.CallerIdentity(c)); err != nil {
		h.fail(c, "delete", err)
		return
	}
	metrics.SongOperations.WithLabelValues("delete", "ok").Inc()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "stats", err)
		return
	}
	metrics.SongOperations.WithLabelValues("stats", "ok").Inc()
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) PutCover(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Authorize(c.Request.Context(), id, middleware.CallerIdentity(c)); err != nil {
		h.fail(c, "cover_put", err)
		return
	}
	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxCoverBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		metrics.SongOperations.WithLabelValues("cover_put", "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cover too large"})
		return
	}
	if err := h.covers.Put(c.Request.Context(), coverKey(id), bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		h.fail(c, "cover_put", err)
		return
	}
	metrics.SongOperations.WithLabelValues("cover_put", "ok").Inc()
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetCover(c *gin.Context) {
	id := c.Param("id")
	// confirm the song exists so missing songs and missing covers both 404
	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		h.fail(c, "cover_get", err)
		return
	}
	obj, contentType, err := h.covers.Get(c.Request.Context(), coverKey(id))
	if err != nil {
		metrics.SongOperations.WithLabelValues("cover_get", "error").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Cover not found"})
		return
	}
	defer obj.Close()
	metrics.SongOperations.WithLabelValues("cover_get", "ok").Inc()
	c.DataFromReader(http.StatusOK, -1, contentType, obj, nil)
}

func coverKey(id string) string { return "covers/" + id }

// fail translates service errors to status codes. Internal details are
// logged, never returned.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	metrics.SongOperations.WithLabelValues(op, "error").Inc()
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and artist are required"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: You can only modify your own songs"})
	default:
		logger.Errorf("%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
