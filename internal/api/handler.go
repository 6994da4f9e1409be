package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler handles API requests
type Handler struct {
	ingestService *service.IngestService
	chatService   *service.ChatService
	statsService  *service.StatsService
}

// NewHandler creates a new API handler
func NewHandler(
	ingestService *service.IngestService,
	chatService *service.ChatService,
	statsService *service.StatsService,
) *Handler {
	return &Handler{
		ingestService: ingestService,
		chatService:   chatService,
		statsService:  statsService,
	}
}

// RegisterRoutes registers API routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/segments", h.ListSegments)

	documents := r.Group("/documents")
	{
		documents.POST("", h.UploadDocument)
		documents.GET("", h.ListDocuments)
		documents.GET("/:id", h.GetDocument)
		documents.DELETE("/:id", h.DeleteDocument)
	}

	chat := r.Group("/chat")
	{
		chat.POST("", h.Chat)
		chat.GET("/:session_id", h.ChatHistory)
	}

	r.GET("/stats", h.GetStats)
}

func (h *Handler) ListSegments(c *gin.Context) {
	segments, err := h.ingestService.Segments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch segments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"segments": segments})
}

// UploadDocument accepts a multipart form with a title plus either a file
// or pasted content
func (h *Handler) UploadDocument(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	in := service.UploadInput{
		Title:   title,
		Content: content,
	}

	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}

		in.Filename = file.Filename
		in.FileType = file.Header.Get("Content-Type")
		in.FileSize = file.Size
		in.Data = data
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	var segmentID *int64
	if raw := c.Query("segment"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segment id"})
			return
		}
		segmentID = &id
	}

	documents, err := h.ingestService.List(c.Request.Context(), segmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

func (h *Handler) GetDocument(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	document, err := h.ingestService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	if err := h.ingestService.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ChatHistory(c *gin.Context) {
	messages, err := h.chatService.History(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// writeError maps domain errors to HTTP responses
func (h *Handler) writeError(c *gin.Context, err error) {
	var unsupported *domain.UnsupportedFormatError
	switch {
	case errors.As(err, &unsupported):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           unsupported.Error(),
			"file_name":       unsupported.FileName,
			"file_type":       unsupported.FileType,
			"supported_types": strings.Join(unsupported.SupportedTypes, ", "),
		})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
