package handler

import (
	"bytes"
	"io/fs"
	"net/http"
	"time"

	"ascendant/internal/static"
)

// PageHandler serves the page document and its companion assets unmodified
type PageHandler struct {
	assets fs.FS
	files  http.Handler
}

// NewPageHandler serves from assets (the embedded copy or a directory)
func NewPageHandler(assets fs.FS) *PageHandler {
	return &PageHandler{
		assets: assets,
		files:  http.FileServer(http.FS(assets)),
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := static.Page(h.assets)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	http.ServeContent(w, r, static.PageName, time.Time{}, bytes.NewReader(page))
}

// Assets handles every other GET path
func (h *PageHandler) Assets(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
