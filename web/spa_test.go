package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Hayal27/sininning-pro-sub000/web"
)

func bundle(title string) fstest.MapFS {
	return fstest.MapFS{
		"index.html":       {Data: []byte("<html>" + title + "</html>")},
		"assets/app-1a.js": {Data: []byte("console.log('" + title + "')")},
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.NoRoute(web.Fallback(web.NewSPA(bundle("public")), web.NewSPA(bundle("admin"))))
	return router
}

func get(router http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, http.NoBody))
	return w
}

func TestFallback(t *testing.T) {
	t.Parallel()
	router := newRouter()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "public deep link", method: http.MethodGet, target: "/products/weatherguard", wantStatus: http.StatusOK, wantBody: "<html>public</html>"},
		{name: "public asset", method: http.MethodGet, target: "/assets/app-1a.js", wantStatus: http.StatusOK, wantBody: "console.log('public')"},
		{name: "admin root", method: http.MethodGet, target: "/admin", wantStatus: http.StatusOK, wantBody: "<html>admin</html>"},
		{name: "admin deep link", method: http.MethodGet, target: "/admin/contacts/42", wantStatus: http.StatusOK, wantBody: "<html>admin</html>"},
		{name: "admin asset", method: http.MethodGet, target: "/admin/assets/app-1a.js", wantStatus: http.StatusOK, wantBody: "console.log('admin')"},
		{name: "unknown api path", method: http.MethodGet, target: "/api/v1/nope", wantStatus: http.StatusNotFound},
		{name: "non-get", method: http.MethodPost, target: "/products", wantStatus: http.StatusNotFound},
		{name: "api route untouched", method: http.MethodGet, target: "/api/v1/ping", wantStatus: http.StatusOK, wantBody: "pong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := get(router, tt.method, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestSPA_AssetCaching(t *testing.T) {
	t.Parallel()
	spa := web.NewSPA(bundle("public"))

	w := get(spa, http.MethodGet, "/assets/app-1a.js")
	assert.Contains(t, w.Header().Get("Cache-Control"), "immutable")

	w = get(spa, http.MethodGet, "/about")
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
}

func TestSPA_NotBuilt(t *testing.T) {
	t.Parallel()
	spa := web.NewSPA(fstest.MapFS{".gitkeep": {}})

	assert.False(t, spa.Built())
	w := get(spa, http.MethodGet, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "has not been built")
}
