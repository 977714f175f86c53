package server

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Static serves files from fsys under prefix ("/static/app.js" reads
// "app.js"). Only GET and HEAD are served.
func (s *Server) Static(prefix string, fsys fs.FS) {
	prefix = "/" + strings.Trim(prefix, "/")
	h := &staticHandler{fsys: fsys}
	s.router.Method(http.MethodGet, prefix+"/*", h)
	s.router.Method(http.MethodHead, prefix+"/*", h)
}

type staticHandler struct {
	fsys fs.FS
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := staticName(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := h.fsys.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if isFingerprinted(name) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	}
	http.ServeContent(w, r, name, info.ModTime(), rs)
}

// staticName validates a request path relative to the static root.
// Dot segments, backslashes, NUL bytes and absolute paths are rejected
// rather than cleaned.
func staticName(rel string) (string, bool) {
	if rel == "" || strings.HasPrefix(rel, "/") || strings.ContainsAny(rel, "\\\x00") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}
	name := path.Clean(rel)
	if !fs.ValidPath(name) || name == "." {
		return "", false
	}
	return name, true
}

// isFingerprinted reports whether the base name carries a content hash,
// as in "app.a1b2c3d4.js".
func isFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
