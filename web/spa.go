package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

const (
	indexFile   = "index.html"
	adminPrefix = "/admin"
	apiPrefix   = "/api/"

	placeholderPage = `<!doctype html><html><head><meta charset="utf-8"><title>Not built</title></head>` +
		`<body><p>The frontend bundle has not been built yet.</p></body></html>`
)

// SPA serves a single-page application bundle. Unknown paths get index.html
// so client-side routing works on reload.
type SPA struct {
	files  fs.FS
	server http.Handler
	built  bool
}

// NewSPA serves the bundle rooted at files.
func NewSPA(files fs.FS) *SPA {
	_, err := fs.Stat(files, indexFile)
	return &SPA{
		files:  files,
		server: http.FileServerFS(files),
		built:  err == nil,
	}
}

// Built reports whether the bundle has an index.html.
func (s *SPA) Built() bool {
	return s.built
}

func (s *SPA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.built {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(placeholderPage))
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != indexFile {
		if info, err := fs.Stat(s.files, name); err == nil && !info.IsDir() {
			// hashed asset names never change content
			if strings.HasPrefix(name, "assets/") {
				w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			}
			s.server.ServeHTTP(w, r)
			return
		}
	}

	index, err := fs.ReadFile(s.files, indexFile)
	if err != nil {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, indexFile, time.Time{}, bytes.NewReader(index))
}

func subFS(files fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return files
	}
	return sub
}

// Register serves the admin bundle under /admin and the public bundle for
// every other path the API does not handle.
func Register(router *gin.Engine, log logger.Logger) {
	public := NewSPA(subFS(PublicDist, "public/dist"))
	admin := NewSPA(subFS(AdminDist, "admin/dist"))

	if !public.Built() {
		log.Warn("Public site bundle not found, serving placeholder")
	}
	if !admin.Built() {
		log.Warn("Admin dashboard bundle not found, serving placeholder")
	}

	router.NoRoute(Fallback(public, admin))
}

// Fallback routes unmatched requests to the right bundle. API paths and
// non-GET methods keep their 404.
func Fallback(public, admin http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		method := c.Request.Method

		if strings.HasPrefix(p, apiPrefix) || (method != http.MethodGet && method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if p == adminPrefix || strings.HasPrefix(p, adminPrefix+"/") {
			req := c.Request.Clone(c.Request.Context())
			req.URL.Path = strings.TrimPrefix(p, adminPrefix)
			if req.URL.Path == "" {
				req.URL.Path = "/"
			}
			admin.ServeHTTP(c.Writer, req)
			return
		}

		public.ServeHTTP(c.Writer, c.Request)
	}
}
