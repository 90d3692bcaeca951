package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rbinhq/rbin/config"
	"github.com/rbinhq/rbin/models"
	"github.com/rbinhq/rbin/services"
)

// pasteField is the form field carrying the paste body, as in
// echo "text" | curl -F 'rbin=<-' http://host:port/
const pasteField = "rbin"

// PasteHandler handles paste submission and retrieval.
type PasteHandler struct {
	service *services.PasteService
	config  *config.Config
}

// NewPasteHandler creates a new paste handler.
func NewPasteHandler(service *services.PasteService, cfg *config.Config) *PasteHandler {
	return &PasteHandler{
		service: service,
		config:  cfg,
	}
}

// Submit handles paste submission via POST /.
func (h *PasteHandler) Submit(c *gin.Context) {
	if length := c.Request.ContentLength; length > 0 && length > h.config.MaxBodySize {
		c.String(http.StatusRequestEntityTooLarge,
			"Paste too large: %d bytes exceeds limit of %d bytes", length, h.config.MaxBodySize)
		return
	}

	content, ok := c.GetPostForm(pasteField)
	if !ok {
		log.Warn().Msg("submission without 'rbin' field")
		c.String(http.StatusBadRequest, "Missing 'rbin' form field")
		return
	}

	id, err := h.service.CreatePaste(c.Request.Context(), []byte(content))
	switch {
	case errors.Is(err, models.ErrEmptyContent):
		log.Warn().Msg("submission with empty 'rbin' field")
		c.String(http.StatusBadRequest, "Paste content cannot be empty")
	case err != nil:
		log.Error().Err(err).Msg("failed to save paste")
		c.String(http.StatusInternalServerError, "Failed to save paste")
	default:
		url := fmt.Sprintf("%s/%s", h.baseURL(c), id)
		log.Info().Str("id", id).Str("url", url).Msg("paste created")
		c.String(http.StatusOK, url)
	}
}

// Retrieve handles paste retrieval via GET /:id.
func (h *PasteHandler) Retrieve(c *gin.Context) {
	id := c.Param("id")

	content, err := h.service.GetPaste(c.Request.Context(), id)
	switch {
	case errors.Is(err, models.ErrInvalidID):
		log.Warn().Str("id", id).Msg("invalid paste id format")
		c.String(http.StatusBadRequest, "Invalid paste ID format.")
	case errors.Is(err, models.ErrNotFound):
		c.String(http.StatusNotFound, "Paste '%s' not found.", id)
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("failed to read paste")
		c.String(http.StatusInternalServerError, "Error retrieving paste.")
	default:
		c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
	}
}

// baseURL returns the base for paste links. A configured external URL wins;
// otherwise it is derived from the Host header and forwarded proto.
func (h *PasteHandler) baseURL(c *gin.Context) string {
	if h.config.URL != "" {
		return strings.TrimSuffix(h.config.URL, "/")
	}

	scheme := "http"
	if c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	host := c.Request.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s://%s", scheme, host)
}
