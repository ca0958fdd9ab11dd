package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/calventeramirez/baseDatos/apiexternal"
	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/calventeramirez/baseDatos/paging"
	"github.com/calventeramirez/baseDatos/session"
	"github.com/calventeramirez/baseDatos/syncops"
	"github.com/calventeramirez/baseDatos/web"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var notices = map[string]string{
	"created": "%s created successfully",
	"updated": "%s updated successfully",
	"deleted": "%s deleted successfully",
}

func (h *Handlers) addEntityRoutes(rg *gin.RouterGroup, s *catalog.Schema) {
	rg.GET("", h.list(s))
	rg.GET("/:id", h.detail(s))

	rg.GET("/crear", requireAuth, h.createPage(s))
	rg.POST("/crear", requireAuth, h.requireCSRF, h.createPost(s))
	rg.GET("/editar/:id", requireAuth, h.editPage(s))
	rg.POST("/editar/:id", requireAuth, h.requireCSRF, h.editPost(s))
	rg.GET("/eliminar/:id", requireAuth, h.deletePage(s))
	rg.POST("/eliminar/:id", requireAuth, h.requireCSRF, h.deletePost(s))
}

func viewKey(sess session.Session, s *catalog.Schema) string {
	return syncops.Key(sess.ID, s.Key)
}

func listHref(s *catalog.Schema, search string, page int, notice string) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if notice != "" {
		q.Set("notice", notice)
	}
	if len(q) == 0 {
		return s.Route
	}
	return s.Route + "?" + q.Encode()
}

func noticeText(s *catalog.Schema, notice string) string {
	format, ok := notices[notice]
	if !ok {
		return ""
	}
	return fmt.Sprintf(format, strings.ToUpper(s.Singular[:1])+s.Singular[1:])
}

// list keeps the requested page while the query is the one the page was
// rendered with; a new query starts from page 1.
func (h *Handlers) list(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		search := strings.TrimSpace(c.Query("search"))
		shown, ok := c.GetQuery(web.ShownParam)
		if !ok {
			shown = search
		}
		st := paging.State{Query: strings.TrimSpace(shown), Page: page}
		st.SetQuery(search)
		h.renderList(c, s, st.Query, st.Page, noticeText(s, c.Query("notice")), "")
	}
}

// renderList fetches one page and renders it. A failure message replaces
// the records with an error banner.
func (h *Handlers) renderList(c *gin.Context, s *catalog.Schema, search string, page int, notice, failure string) {
	sess := currentSession(c)
	client := h.Clients[s.Key]
	query := apiexternal.ListQuery{Search: search, Page: page, Limit: h.PageSize}

	res, err := syncops.Fetch(h.Views, viewKey(sess, s), func() (apiexternal.Page, error) {
		return client.List(c.Request.Context(), query)
	})

	view := web.ListView{Schema: s, Query: search, Notice: notice, Error: failure, CanEdit: sess.IsAuthenticated()}
	status := http.StatusOK
	if err != nil {
		requestLog(c).WithError(err).Warn("list ", s.Key)
		view.Error = apiexternal.Message(err, "Could not load "+strings.ToLower(s.Title))
		status = statusFor(err)
	} else {
		view.Result = res.Result()
	}
	render(c, status, web.List(h.chrome(c, s.Title, s.Key), view))
}

// fetchRecord loads the :id record or renders the not-found page.
func (h *Handlers) fetchRecord(c *gin.Context, s *catalog.Schema) (catalog.Record, bool) {
	rec, err := h.Clients[s.Key].Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		msg := ""
		if !errors.Is(err, apiexternal.ErrNotFound) {
			requestLog(c).WithError(err).Warn("get ", s.Key, " ", c.Param("id"))
			msg = apiexternal.Message(err, "")
		}
		render(c, statusFor(err), web.NotFound(h.chrome(c, "Not found", s.Key), s, msg))
		return nil, false
	}
	return rec, true
}

func (h *Handlers) detail(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := h.fetchRecord(c, s)
		if !ok {
			return
		}
		render(c, http.StatusOK, web.Detail(h.chrome(c, s.RecordTitle(rec), s.Key), web.DetailView{
			Schema:  s,
			Record:  rec,
			CanEdit: currentSession(c).IsAuthenticated(),
		}))
	}
}

func (h *Handlers) renderForm(c *gin.Context, status int, s *catalog.Schema, form catalog.Form, id, failure string) {
	title := "New " + s.Singular
	if id != "" {
		title = "Edit " + s.Singular
	}
	render(c, status, web.EntityForm(h.chrome(c, title, s.Key), web.FormView{
		Schema:   s,
		Form:     form,
		Taxonomy: h.Taxonomy,
		ID:       id,
		Error:    failure,
	}))
}

func submission(c *gin.Context) (url.Values, map[string][]*multipart.FileHeader) {
	if mf, err := c.MultipartForm(); err == nil {
		return mf.Value, mf.File
	}
	_ = c.Request.ParseForm()
	return c.Request.PostForm, nil
}

func (h *Handlers) createPage(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderForm(c, http.StatusOK, s, s.FormFromRecord(catalog.Record{}), "", "")
	}
}

func (h *Handlers) createPost(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.save(c, s, "")
	}
}

func (h *Handlers) editPage(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := h.fetchRecord(c, s)
		if !ok {
			return
		}
		h.renderForm(c, http.StatusOK, s, s.FormFromRecord(rec), catalog.RecordID(rec), "")
	}
}

func (h *Handlers) editPost(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.save(c, s, c.Param("id"))
	}
}

// save validates the submitted form and creates (id == "") or updates the
// record. Failures re-render the form with the submitted values.
func (h *Handlers) save(c *gin.Context, s *catalog.Schema, id string) {
	sess := currentSession(c)
	values, files := submission(c)
	form, rec, err := s.Submit(values, files, h.Taxonomy, h.now(), id)
	if err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, s, form, id, err.Error())
		return
	}

	client := h.Clients[s.Key]
	notice := "created"
	if id == "" {
		err = client.Create(c.Request.Context(), sess.Token, rec)
	} else {
		notice = "updated"
		err = client.Update(c.Request.Context(), sess.Token, rec)
	}
	if err != nil {
		requestLog(c).WithError(err).Warn("save ", s.Key, " by ", sess.Describe())
		if errors.Is(err, apiexternal.ErrUnauthorized) {
			h.dropSession(c, sess)
			return
		}
		h.renderForm(c, statusFor(err), s, form, id, apiexternal.Message(err, "Could not save the "+s.Singular))
		return
	}
	h.Views.Bump(viewKey(sess, s))
	c.Redirect(http.StatusFound, listHref(s, "", 0, notice))
}

func (h *Handlers) deletePage(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := h.fetchRecord(c, s)
		if !ok {
			return
		}
		render(c, http.StatusOK, web.DeleteConfirm(h.chrome(c, "Delete "+s.Singular, s.Key), s, rec))
	}
}

// deletePost only reaches the backend when the confirmation was accepted.
// An unconfirmed post is sent to the confirmation page.
func (h *Handlers) deletePost(s *catalog.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.TrimSpace(c.PostForm("search"))
		page, _ := strconv.Atoi(c.PostForm("page"))
		if c.PostForm("confirm") != "yes" {
			c.Redirect(http.StatusFound, s.Route+"/eliminar/"+url.PathEscape(c.Param("id")))
			return
		}

		sess := currentSession(c)
		err := h.Clients[s.Key].Delete(c.Request.Context(), sess.Token, c.Param("id"))
		if err != nil {
			requestLog(c).WithError(err).Warn("delete ", s.Key, " ", c.Param("id"))
			if errors.Is(err, apiexternal.ErrUnauthorized) {
				h.dropSession(c, sess)
				return
			}
			h.renderList(c, s, search, page, "", apiexternal.Message(err, "Could not delete the "+s.Singular))
			return
		}
		h.Views.Bump(viewKey(sess, s))
		c.Redirect(http.StatusFound, listHref(s, search, page, "deleted"))
	}
}
