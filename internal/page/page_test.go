package page

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageDoc struct {
	Component string                 `json:"component"`
	Props     map[string]interface{} `json:"props"`
	URL       string                 `json:"url"`
	Version   string                 `json:"version"`
}

func newRenderer(t *testing.T, shared SharedProps) *Renderer {
	t.Helper()
	r, err := NewRenderer("3", false, shared)
	require.NoError(t, err)
	return r
}

func newRouter(r *Renderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/employees", func(c *gin.Context) {
		r.Render(c, "Employees/Index", gin.H{"employees": []string{"Ada"}, "branches": []string{"Dhaka"}})
	})
	router.GET("/missing", func(c *gin.Context) {
		r.RenderStatus(c, http.StatusNotFound, "Error", gin.H{"status": 404})
	})
	router.POST("/employees", func(c *gin.Context) {
		r.Redirect(c, "/employees", Flash{Success: "Employee created."})
	})
	router.PUT("/employees/1", func(c *gin.Context) {
		r.Back(c, map[string]string{"email": "the email has already been taken"}, "")
	})
	return router
}

func shared(c *gin.Context) map[string]interface{} {
	return map[string]interface{}{"auth": gin.H{"user": "admin"}}
}

func TestRenderPageRequestAnswersJSON(t *testing.T) {
	router := newRouter(newRenderer(t, shared))

	req := httptest.NewRequest(http.MethodGet, "/employees?page=2", nil)
	req.Header.Set(HeaderPage, "true")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(HeaderPage))

	var page pageDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "Employees/Index", page.Component)
	assert.Equal(t, "/employees?page=2", page.URL)
	assert.Equal(t, "3", page.Version)
	assert.Contains(t, page.Props, "auth")
	assert.Contains(t, page.Props, "employees")
	assert.Equal(t, map[string]interface{}{}, page.Props["errors"])
}

func TestRenderFirstVisitAnswersShell(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	body := rec.Body.String()
	assert.Contains(t, body, `id="app"`)
	assert.Contains(t, body, "data-page=")
	assert.Contains(t, body, "Employees/Index")
	assert.Contains(t, body, "/build/app.js?v=3")
}

func TestRenderStaleVersionForcesReload(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set(HeaderPage, "true")
	req.Header.Set(HeaderVersion, "2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/employees", rec.Header().Get(HeaderLocation))
}

func TestFlashSurvivesOneRedirect(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/employees", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set(HeaderPage, "true")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var page pageDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, map[string]interface{}{"success": "Employee created.", "error": ""}, page.Props["flash"])

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestBackCarriesFieldErrors(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	req := httptest.NewRequest(http.MethodPut, "/employees/1", nil)
	req.Header.Set("Referer", "/employees/1/edit")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/employees/1/edit", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set(HeaderPage, "true")
	req.AddCookie(rec.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var page pageDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, map[string]interface{}{"email": "the email has already been taken"}, page.Props["errors"])
}

func TestPartialReloadAnswersRequestedProps(t *testing.T) {
	router := newRouter(newRenderer(t, shared))

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set(HeaderPage, "true")
	req.Header.Set(HeaderVersion, "3")
	req.Header.Set(HeaderPartialComponent, "Employees/Index")
	req.Header.Set(HeaderPartialData, "employees")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page pageDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Contains(t, page.Props, "employees")
	assert.NotContains(t, page.Props, "branches")
	assert.NotContains(t, page.Props, "auth")
}

func TestPartialReloadForOtherComponentAnswersEverything(t *testing.T) {
	router := newRouter(newRenderer(t, shared))

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set(HeaderPage, "true")
	req.Header.Set(HeaderPartialComponent, "Branches/Index")
	req.Header.Set(HeaderPartialData, "employees")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var page pageDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Contains(t, page.Props, "employees")
	assert.Contains(t, page.Props, "branches")
	assert.Contains(t, page.Props, "auth")
}

func TestPartialReloadKeepsFlashForNextVisit(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", nil))
	flash := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set(HeaderPage, "true")
	req.Header.Set(HeaderPartialComponent, "Employees/Index")
	req.Header.Set(HeaderPartialData, "employees")
	req.AddCookie(flash)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
}

func TestRenderStatusKeepsStatus(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(HeaderPage, "true")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var page pageDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "Error", page.Component)
}

func TestBackIgnoresForeignReferer(t *testing.T) {
	router := newRouter(newRenderer(t, nil))

	cases := map[string]string{
		"":                                    "/",
		"https://evil.example/phish":          "/",
		"//evil.example/phish":                "/",
		"javascript:alert(1)":                 "/",
		"http://example.com/employees/1/edit": "/employees/1/edit",
		"/employees/1/edit?tab=job":           "/employees/1/edit?tab=job",
	}
	for referer, want := range cases {
		req := httptest.NewRequest(http.MethodPut, "/employees/1", nil)
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, referer)
		assert.Equal(t, want, rec.Header().Get("Location"), referer)
	}
}
