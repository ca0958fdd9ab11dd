package api

import (
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/calventeramirez/baseDatos/apiexternal"
	"github.com/calventeramirez/baseDatos/session"
	"github.com/calventeramirez/baseDatos/web"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type setupForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Confirm  string `form:"confirm_password" binding:"required"`
}

func (h *Handlers) loginPage(c *gin.Context) {
	if currentSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, web.Login(h.chrome(c, "Log in", ""), web.LoginView{Next: c.Query("next")}))
}

func (h *Handlers) loginPost(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, web.Login(h.chrome(c, "Log in", ""), web.LoginView{
			Username: form.Username,
			Next:     form.Next,
			Error:    "Username and password are required",
		}))
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		requestLog(c).WithError(err).Info("login failed for ", form.Username)
		msg := apiexternal.Message(err, "Login failed")
		if errors.Is(err, apiexternal.ErrUnauthorized) {
			msg = "Invalid username or password"
		}
		render(c, statusFor(err), web.Login(h.chrome(c, "Log in", ""), web.LoginView{
			Username: form.Username,
			Next:     form.Next,
			Error:    msg,
		}))
		return
	}

	if !h.startSession(c, res) {
		return
	}
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

// startSession stores the login under a fresh session id and retires the
// anonymous one.
func (h *Handlers) startSession(c *gin.Context, res apiexternal.LoginResult) bool {
	old := currentSession(c)
	sid := session.NewID()
	if err := h.Sessions.Login(sid, res.AccessToken, res.Usuario); err != nil {
		requestLog(c).WithError(err).Error("store session")
		render(c, http.StatusInternalServerError, web.ErrorPage(h.chrome(c, "Error", ""), "Could not start the session."))
		return false
	}
	if _, err := h.Sessions.CSRFToken(sid); err != nil {
		requestLog(c).WithError(err).Warn("create csrf token")
	}
	if err := h.Sessions.Destroy(old.ID); err != nil {
		requestLog(c).WithError(err).Warn("drop anonymous session")
	}
	h.forgetViews(old)
	h.setSessionCookie(c, sid)
	requestLog(c).Info("logged in ", res.Usuario.Username)
	return true
}

func (h *Handlers) logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.Sessions.Logout(sess.ID); err != nil {
		requestLog(c).WithError(err).Warn("logout")
	}
	h.forgetViews(sess)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handlers) forgetViews(sess session.Session) {
	for _, s := range h.Registry.All() {
		h.Views.Forget(viewKey(sess, s))
	}
}

func (h *Handlers) setupPage(c *gin.Context) {
	render(c, http.StatusOK, web.Setup(h.chrome(c, "Initial setup", ""), web.SetupView{}))
}

func (h *Handlers) setupPost(c *gin.Context) {
	var form setupForm
	fail := func(status int, msg string) {
		render(c, status, web.Setup(h.chrome(c, "Initial setup", ""), web.SetupView{Username: form.Username, Error: msg}))
	}
	if err := c.ShouldBind(&form); err != nil {
		fail(http.StatusBadRequest, "All fields are required")
		return
	}
	if form.Password != form.Confirm {
		fail(http.StatusBadRequest, "Passwords do not match")
		return
	}
	if utf8.RuneCountInString(form.Password) < MinPasswordLength {
		fail(http.StatusBadRequest, "The password must be at least 4 characters long")
		return
	}

	res, err := h.Auth.FirstSetup(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		requestLog(c).WithError(err).Warn("first setup")
		fail(statusFor(err), apiexternal.Message(err, "Could not create the administrator"))
		return
	}
	if !h.startSession(c, res) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// dropSession forgets a token the backend no longer accepts.
func (h *Handlers) dropSession(c *gin.Context, sess session.Session) {
	if err := h.Sessions.Logout(sess.ID); err != nil {
		requestLog(c).WithError(err).Warn("drop rejected session")
	}
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
}
