package app

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// tryStatic serves a static asset when the request path falls under the
// configured static prefix and the file exists. It reports whether the
// request was handled.
func (a *App) tryStatic(w http.ResponseWriter, r *http.Request) bool {
	rel, ok := a.staticRelPath(r.URL.Path)
	if !ok {
		return false
	}

	info, err := fs.Stat(a.cfg.StaticFS, rel)
	if err != nil || info.IsDir() {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return true
	}

	a.applyCacheHeaders(w, rel)
	http.ServeFileFS(w, r, a.cfg.StaticFS, rel)
	return true
}

// staticRelPath maps a URL path to a sanitized path inside StaticFS.
// Traversal and absolute-path tricks are rejected so static serving
// cannot escape the configured filesystem.
func (a *App) staticRelPath(urlPath string) (string, bool) {
	prefix := a.cfg.StaticPrefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, prefix)
	if rel == "" {
		return "", false
	}

	// NUL can arrive via %00; backslashes and a leading slash indicate
	// platform or absolute-path tricks.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") || strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning so traversal attempts are not
	// silently rewritten into different requests.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}
	return clean, true
}

// applyCacheHeaders sets Cache-Control for static assets. Fingerprinted
// files are immutable; everything else gets a short revalidated cache.
// Debug mode disables caching entirely.
func (a *App) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	if a.cfg.Debug {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		return
	}
	if isFingerprinted(filePath) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
}

// isFingerprinted reports whether a file name carries a content hash,
// e.g. "app.a1b2c3d4.css".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
