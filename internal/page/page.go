// Package page answers requests of the server-driven client: either a JSON
// page object or the HTML shell that boots the client with one. Rendering,
// partial reloads and location visits go through gonertia; the flash cookie
// and the asset version check stay here.
package page

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/romsar/gonertia"
)

const (
	HeaderPage             = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderLocation         = "X-Inertia-Location"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
	HeaderPartialData      = "X-Inertia-Partial-Data"

	flashCookie = "hrm_flash"
	flashMaxAge = 60
)

// Flash is the one-shot message carried across a redirect.
type Flash struct {
	Success string            `json:"success,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SharedProps returns the props every page receives, such as the signed in user.
type SharedProps func(c *gin.Context) map[string]interface{}

type Renderer struct {
	inertia *gonertia.Inertia
	version string
	secure  bool
	shared  SharedProps
}

const rootTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>HRM</title>
<link rel="stylesheet" href="/build/app.css?v=%[1]s">
<script type="module" src="/build/app.js?v=%[1]s" defer></script>
{{ .inertiaHead }}
</head>
<body>
{{ .inertia }}
</body>
</html>
`

// NewRenderer builds a renderer. version changes force clients to reload.
func NewRenderer(version string, secure bool, shared SharedProps) (*Renderer, error) {
	inertia, err := gonertia.New(fmt.Sprintf(rootTemplate, url.QueryEscape(version)), gonertia.WithVersion(version))
	if err != nil {
		return nil, fmt.Errorf("page: build renderer: %w", err)
	}
	return &Renderer{inertia: inertia, version: version, secure: secure, shared: shared}, nil
}

// Render answers with component and props merged over the shared props.
func (r *Renderer) Render(c *gin.Context, component string, props gin.H) {
	r.RenderStatus(c, http.StatusOK, component, props)
}

// RenderStatus is Render with a status other than 200, used for error pages.
func (r *Renderer) RenderStatus(c *gin.Context, status int, component string, props gin.H) {
	if IsPageRequest(c) && c.Request.Method == http.MethodGet && c.GetHeader(HeaderVersion) != "" && c.GetHeader(HeaderVersion) != r.version {
		r.inertia.Location(c.Writer, c.Request, c.Request.URL.RequestURI())
		c.Abort()
		return
	}

	c.Header("Vary", HeaderPage)
	c.Status(status)
	if err := r.inertia.Render(fixedStatus{c.Writer}, c.Request, component, r.props(c, component, props)); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
	}
}

// fixedStatus keeps the status set on the gin writer before rendering.
type fixedStatus struct {
	gin.ResponseWriter
}

func (fixedStatus) WriteHeader(int) {}

func (r *Renderer) props(c *gin.Context, component string, props gin.H) gonertia.Props {
	merged := gonertia.Props{}
	if r.shared != nil {
		for k, v := range r.shared(c) {
			merged[k] = v
		}
	}

	// A partial reload leaves the flash for the next full render unless it
	// asks for it.
	if only, partial := partialKeys(c, component); !partial || only["flash"] || only["errors"] {
		flash := r.takeFlash(c)
		errs := flash.Errors
		if errs == nil {
			errs = map[string]string{}
		}
		merged["flash"] = gin.H{"success": flash.Success, "error": flash.Error}
		merged["errors"] = errs
	}

	for k, v := range props {
		merged[k] = v
	}
	return merged
}

func partialKeys(c *gin.Context, component string) (map[string]bool, bool) {
	data := c.GetHeader(HeaderPartialData)
	if data == "" || c.GetHeader(HeaderPartialComponent) != component {
		return nil, false
	}
	keys := map[string]bool{}
	for _, key := range strings.Split(data, ",") {
		keys[strings.TrimSpace(key)] = true
	}
	return keys, true
}

// Redirect sends the client to path, carrying flash to the next render.
// Non-GET requests get 303 so the client follows up with a GET.
func (r *Renderer) Redirect(c *gin.Context, path string, flash Flash) {
	r.setFlash(c, flash)
	status := http.StatusFound
	if c.Request.Method != http.MethodGet {
		status = http.StatusSeeOther
	}
	r.inertia.Redirect(c.Writer, c.Request, path, status)
	c.Abort()
}

// Back redirects to the referring page with field errors and an optional
// message. Referers from another host fall back to the home page.
func (r *Renderer) Back(c *gin.Context, errs map[string]string, message string) {
	r.Redirect(c, sameOrigin(c.Request, c.GetHeader("Referer")), Flash{Error: message, Errors: errs})
}

func sameOrigin(req *http.Request, referer string) string {
	target, err := url.Parse(referer)
	if referer == "" || err != nil {
		return "/"
	}
	if target.Scheme == "" && target.Host == "" {
		if !strings.HasPrefix(target.Path, "/") || strings.HasPrefix(referer, "//") || strings.HasPrefix(referer, "/\\") {
			return "/"
		}
		return target.RequestURI()
	}
	if (target.Scheme != "http" && target.Scheme != "https") || !strings.EqualFold(target.Host, req.Host) {
		return "/"
	}
	return target.RequestURI()
}

// Location makes the client do a full page visit, used for downloads and
// pages outside the client.
func (r *Renderer) Location(c *gin.Context, target string) {
	r.inertia.Location(c.Writer, c.Request, target, http.StatusSeeOther)
	c.Abort()
}

// IsPageRequest reports whether the request comes from the client router
// rather than a full browser visit.
func IsPageRequest(c *gin.Context) bool {
	return c.GetHeader(HeaderPage) == "true"
}

func (r *Renderer) setFlash(c *gin.Context, flash Flash) {
	if flash.Success == "" && flash.Error == "" && len(flash.Errors) == 0 {
		return
	}
	raw, err := json.Marshal(flash)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", r.secure, true)
}

// takeFlash reads and clears the flash cookie.
func (r *Renderer) takeFlash(c *gin.Context) Flash {
	var flash Flash
	if v, ok := c.Get(flashCookie); ok {
		flash, _ = v.(Flash)
		return flash
	}
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return flash
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", r.secure, true)
	if decoded, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
		_ = json.Unmarshal(decoded, &flash)
	}
	c.Set(flashCookie, flash)
	return flash
}
