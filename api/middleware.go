package api

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"github.com/calventeramirez/baseDatos/session"
	"github.com/calventeramirez/baseDatos/web"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

// loadSession restores the browser session, issuing a new cookie when the
// request has none or an unusable one.
func (h *Handlers) loadSession(c *gin.Context) {
	sid, err := c.Cookie(session.CookieName)
	if err != nil || len(sid) != 2*session.SessionIDLength {
		sid = session.NewID()
		h.setSessionCookie(c, sid)
	}
	sess := h.Sessions.Restore(sid)
	if sess.CSRFToken == "" {
		token, err := h.Sessions.CSRFToken(sid)
		if err != nil {
			requestLog(c).WithError(err).Warn("create csrf token")
		}
		sess.CSRFToken = token
	}
	c.Set(ctxSession, sess)
	c.Set(ctxCSRF, sess.CSRFToken)
	c.Next()
}

func (h *Handlers) setSessionCookie(c *gin.Context, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sid, cookieMaxAge, "/", "", h.SecureCookies, true)
}

// setupGuard sends every page to /registro while the backend has no
// administrator, and away from it once one exists. When the state can not
// be read the request continues unguarded.
func (h *Handlers) setupGuard(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/static/") || path == "/favicon.ico" {
		c.Next()
		return
	}
	state, err := h.Auth.SetupState(c.Request.Context())
	if err != nil {
		requestLog(c).WithError(err).Warn("setup state unavailable")
		c.Next()
		return
	}
	onSetup := path == "/registro"
	switch {
	case state.NeedsSetup && !onSetup:
		c.Redirect(http.StatusFound, "/registro")
		c.Abort()
		return
	case !state.NeedsSetup && onSetup:
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// requireAuth sends anonymous visitors to the login page.
func requireAuth(c *gin.Context) {
	if currentSession(c).IsAuthenticated() {
		c.Next()
		return
	}
	next := c.Request.URL.Path
	if c.Request.Method == http.MethodGet {
		next = c.Request.URL.RequestURI()
	}
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(next))
	c.Abort()
}

// requireCSRF checks the form field or X-CSRF-Token header on state changes.
func (h *Handlers) requireCSRF(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		c.Next()
		return
	}
	expected := c.GetString(ctxCSRF)
	token := c.GetHeader("X-CSRF-Token")
	if token == "" {
		token = c.PostForm("csrf_token")
	}
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		requestLog(c).Warn("invalid csrf token on ", c.Request.URL.Path)
		render(c, http.StatusForbidden, web.ErrorPage(h.chrome(c, "Forbidden", ""), "Your form expired. Reload the page and try again."))
		c.Abort()
		return
	}
	c.Next()
}
