package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rbinhq/rbin/config"
)

const usageText = `rbin - Simple Command-Line Pastebin
===================================

Usage:
------
Pipe text using curl (or similar tools) with the form field name 'rbin':

  echo "Your text here" | curl -F 'rbin=<-' http://<host>:<port>/

Or paste from a file:

  cat your_file.txt | curl -F 'rbin=<-' http://<host>:<port>/

rbin will respond with a URL like http://<host>:<port>/<id>

Configuration (Environment Variables):
--------------------------------------
RBIN_HOST               : Listen IP address (Default: %s)
RBIN_PORT               : Listen port (Default: %d)
RBIN_PASTE_DIR          : Directory for storing pastes (Default: "%s")
RBIN_ID_LENGTH          : Length of generated paste ids (Default: %d)
RBIN_MAX_BODY_SIZE      : Maximum upload size in bytes (Default: %d)
RBIN_STORAGE            : Storage backend: filesystem, s3, mongodb or dynamodb (Default: %s)
RBIN_LOG_LEVEL          : Log level for the service (Default: %s)
RBIN_REQUEST_LOG_LEVEL  : Log level for HTTP request logging (Default: %s)

Place these in a .env file or set them in your environment.
`

// UsageHandler serves the plain-text usage page.
type UsageHandler struct {
	config *config.Config
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(cfg *config.Config) *UsageHandler {
	return &UsageHandler{config: cfg}
}

// Usage handles GET /. It never touches the paste core.
func (h *UsageHandler) Usage(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, usageText,
		h.config.Host, h.config.Port, h.config.PasteDir, h.config.IDLength,
		h.config.MaxBodySize, h.config.Storage, h.config.LogLevel, h.config.RequestLogLevel)
}
