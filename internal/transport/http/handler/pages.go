package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"carrental/internal/transport/http/response"
)

type PageHandler struct {
	webDir string
}

func NewPageHandler(webDir string) *PageHandler {
	return &PageHandler{webDir: webDir}
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	c.File(filepath.Join(h.webDir, "dashboard.html"))
}

// Fallback serves a file from the web directory when one exists and
// index.html otherwise. Unknown API paths get a JSON 404.
func (h *PageHandler) Fallback(c *gin.Context) {
	p := c.Request.URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		response.Error(c, http.StatusNotFound, response.MsgNotFound)
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		response.Error(c, http.StatusNotFound, response.MsgNotFound)
		return
	}

	if file, ok := h.lookup(p); ok {
		c.File(file)
		return
	}
	c.File(filepath.Join(h.webDir, "index.html"))
}

func (h *PageHandler) lookup(urlPath string) (string, bool) {
	cleaned := path.Clean("/" + urlPath)
	if cleaned == "/" {
		return "", false
	}
	file := filepath.Join(h.webDir, filepath.FromSlash(cleaned))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}
