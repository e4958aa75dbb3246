package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built single-page front-end. Requests that do
// not match a file on disk fall back to index.html so client-side
// routing keeps working after a page reload.
type SPAHandler struct {
	staticDir string
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{staticDir: staticDir}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticDir, filepath.Clean("/"+strings.TrimPrefix(r.URL.Path, "/")))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		index := filepath.Join(h.staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.Error(w, "Frontend not built", http.StatusNotFound)
			return
		}
		http.ServeFile(w, r, index)
		return
	}

	http.ServeFile(w, r, path)
}
