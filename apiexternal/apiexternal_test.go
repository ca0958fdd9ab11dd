package apiexternal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	b, err := NewBackend(srv.URL+"/", NewLimitedClient(2*time.Second, 1, 100))
	require.NoError(t, err)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewBackendRejectsMissingBase(t *testing.T) {
	_, err := NewBackend("", NewLimitedClient(0, 1, 1))
	assert.Error(t, err)
	_, err = NewBackend("localhost", NewLimitedClient(0, 1, 1))
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	b, err := NewBackend("http://api.local/v1/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://api.local/v1/libros/", b.URL(nil, "libros", ""))
	assert.Equal(t, "http://api.local/v1/libros/a%2Fb", b.URL(nil, "libros", "a/b"))
}

func TestListPaginatedShape(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/libros/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "rayuela", r.URL.Query().Get("search"))
		writeJSON(w, 200, map[string]interface{}{
			"results": []map[string]interface{}{{"id": "11", "titulo": "Rayuela"}},
			"total":   11, "page": 2, "limit": 10, "total_pages": 2,
		})
	})
	page, err := NewEntityClient(b, catalog.Books).List(context.Background(), ListQuery{Search: " rayuela ", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Rayuela", page.Results[0]["titulo"])

	res := page.Result()
	assert.Equal(t, 11, res.From())
	assert.Equal(t, 11, res.To())
}

func TestListClampsPastLastPage(t *testing.T) {
	var pages []string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("page")
		pages = append(pages, p)
		n, _ := strconv.Atoi(p)
		writeJSON(w, 200, map[string]interface{}{"results": []interface{}{}, "total": 15, "page": n, "limit": 10, "total_pages": 2})
	})
	page, err := NewEntityClient(b, catalog.Books).List(context.Background(), ListQuery{Page: 9})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "2"}, pages)
	assert.Equal(t, 2, page.Page)
}

func TestListPlainArrayFallsBackToLocalPaging(t *testing.T) {
	items := make([]map[string]interface{}, 0, 23)
	for i := 1; i <= 23; i++ {
		items = append(items, map[string]interface{}{"id": strconv.Itoa(i), "titulo": "Obra " + strconv.Itoa(i), "autor": "Goya"})
	}
	items = append(items, map[string]interface{}{"id": "x", "titulo": "Guernica", "autor": "Picasso"})
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, items)
	})
	client := NewEntityClient(b, catalog.Artworks)

	page, err := client.List(context.Background(), ListQuery{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 24, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Results, 4)

	page, err = client.List(context.Background(), ListQuery{Search: "PICASSO", Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "Guernica", page.Results[0]["titulo"])
}

func TestGetNotFound(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Libro no encontrado"})
	})
	_, err := NewEntityClient(b, catalog.Books).Get(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Libro no encontrado", Message(err, "fallback"))

	_, err = NewEntityClient(b, catalog.Books).Get(context.Background(), " ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutationsSendBearerAndBody(t *testing.T) {
	type call struct {
		method, path, auth string
		body               map[string]interface{}
	}
	var calls []call
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &c.body))
		}
		calls = append(calls, c)
		writeJSON(w, 200, map[string]string{"ok": "1"})
	})
	client := NewEntityClient(b, catalog.CDROMs)
	ctx := context.Background()

	require.NoError(t, client.Create(ctx, "tok", catalog.Record{"id": "ignored", "titulo": "Encarta"}))
	require.NoError(t, client.Update(ctx, "tok", catalog.Record{"id": "c1", "titulo": "Encarta 98"}))
	require.NoError(t, client.Delete(ctx, "tok", "c1"))
	assert.Error(t, client.Update(ctx, "tok", catalog.Record{"titulo": "no id"}))

	require.Len(t, calls, 3)
	assert.Equal(t, "POST", calls[0].method)
	assert.Equal(t, "/cdrom/", calls[0].path)
	assert.Equal(t, "", calls[0].body["id"])
	assert.Equal(t, "Bearer tok", calls[0].auth)

	assert.Equal(t, "PUT", calls[1].method)
	assert.Equal(t, "/cdrom/", calls[1].path)
	assert.Equal(t, "c1", calls[1].body["id"])

	assert.Equal(t, "DELETE", calls[2].method)
	assert.Equal(t, "/cdrom/c1", calls[2].path)
}

func TestErrorTaxonomy(t *testing.T) {
	status := 500
	body := ""
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	client := NewEntityClient(b, catalog.Videos)
	ctx := context.Background()

	err := client.Create(ctx, "", catalog.Record{})
	assert.Equal(t, "Error creating", Message(err, "Error creating"))

	status, body = 422, `{"detail":[{"msg":"field required"},{"msg":"bad year"}]}`
	err = client.Create(ctx, "", catalog.Record{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "field required. bad year", Message(err, "x"))

	status, body = 401, `{"detail":"Token inválido"}`
	err = client.Delete(ctx, "", "1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Token inválido", Message(err, "x"))

	status, body = 500, `<html>oops</html>`
	err = client.Delete(ctx, "", "1")
	assert.Equal(t, "x", Message(err, "x"))
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	b, err := NewBackend(srv.URL, NewLimitedClient(time.Second, 1, 10))
	require.NoError(t, err)

	_, err = NewEntityClient(b, catalog.Books).List(context.Background(), ListQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, ConnectionMessage, Message(err, "x"))
}

func TestCancelledRequest(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := NewEntityClient(b, catalog.Books).List(ctx, ListQuery{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrConnection)
}

func TestAuthClient(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			if r.PostForm.Get("password") != "secret" {
				writeJSON(w, 401, map[string]string{"detail": "Credenciales incorrectas"})
				return
			}
			writeJSON(w, 200, map[string]interface{}{"access_token": "abc", "usuario": map[string]interface{}{"id": 1, "username": r.PostForm.Get("username")}})
		case "/estado/":
			writeJSON(w, 200, map[string]bool{"necesita_setup": true})
		case "/primerSetup/":
			var req setupRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "", req.ID)
			writeJSON(w, 200, map[string]interface{}{"access_token": "first", "usuario": map[string]string{"id": "u1", "username": req.Username}})
		default:
			w.WriteHeader(404)
		}
	})
	auth := NewAuthClient(b)
	ctx := context.Background()

	res, err := auth.Login(ctx, "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.AccessToken)
	assert.Equal(t, "1", res.Usuario.ID)
	assert.Equal(t, "ana", res.Usuario.Username)

	_, err = auth.Login(ctx, "ana", "wrong")
	assert.Equal(t, "Credenciales incorrectas", Message(err, "x"))

	state, err := auth.SetupState(ctx)
	require.NoError(t, err)
	assert.True(t, state.NeedsSetup)

	res, err = auth.FirstSetup(ctx, "admin", "1234")
	require.NoError(t, err)
	assert.Equal(t, "first", res.AccessToken)
	assert.Equal(t, "admin", res.Usuario.Username)
}
