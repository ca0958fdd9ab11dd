package web

import (
	"strings"
	"testing"

	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/calventeramirez/baseDatos/paging"
	"github.com/calventeramirez/baseDatos/session"
	"github.com/stretchr/testify/assert"
)

type tax map[string][]string

func (t tax) Options(name string) []string { return t[name] }

func (t tax) Subcategories(category string) []string { return t["sub:"+category] }

func chrome(authenticated bool) Chrome {
	ch := Chrome{CSRF: "tok123", Entities: catalog.DefaultRegistry().All()}
	if authenticated {
		ch.Session = session.Session{ID: "sid", Token: "jwt", User: &session.User{ID: "1", Username: "ana"}}
	}
	return ch
}

func TestPageShell(t *testing.T) {
	out := String(Home(chrome(false)))
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	for _, s := range catalog.DefaultRegistry().All() {
		assert.Contains(t, out, `href="`+s.Route+`"`)
	}
	assert.Contains(t, out, `href="/login"`)
	assert.NotContains(t, out, "Log out")
	assert.Contains(t, out, `id="nav-toggle"`)
}

func TestNavbarAuthenticated(t *testing.T) {
	ch := chrome(true)
	ch.Active = "musica"
	out := String(Home(ch))
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, `action="/logout"`)
	assert.Contains(t, out, `name="csrf_token" value="tok123"`)
	assert.Contains(t, out, `class="nav-link active" href="/musica"`)
}

func TestListCards(t *testing.T) {
	items := []catalog.Record{
		{"id": "7", "titulo": "Rayuela", "autor": "Cortázar", "yearPub": float64(1963)},
		{"id": "8", "titulo": "Ficciones", "autor": "Borges", "fotoPortada": "data:image/png;base64,AAA"},
	}
	v := ListView{
		Schema:  catalog.Books,
		Result:  paging.Result[catalog.Record]{Items: items, Page: 1, TotalPages: 3, Total: 25, PageSize: 10},
		CanEdit: true,
	}
	out := String(List(chrome(true), v))
	assert.Contains(t, out, "Rayuela")
	assert.Contains(t, out, "Showing 1-2 of 25")
	assert.Contains(t, out, `href="/libros/7"`)
	assert.Contains(t, out, `href="/libros/editar/7"`)
	assert.Contains(t, out, `action="/libros/eliminar/7"`)
	assert.Contains(t, out, `data-confirm=`)
	assert.Contains(t, out, `src="data:image/png;base64,AAA"`)
	assert.Contains(t, out, "1963")
	assert.Contains(t, out, `href="/libros?page=2"`)
	assert.Contains(t, out, `href="/libros/crear"`)
}

func TestListReadOnly(t *testing.T) {
	v := ListView{
		Schema: catalog.Books,
		Result: paging.Result[catalog.Record]{Items: []catalog.Record{{"id": "1", "titulo": "A"}}, Page: 1, TotalPages: 1, Total: 1},
	}
	out := String(List(chrome(false), v))
	assert.NotContains(t, out, "/libros/editar/1")
	assert.NotContains(t, out, "/libros/crear")
	assert.NotContains(t, out, `class="pager"`)
}

func TestListEmptyStates(t *testing.T) {
	out := String(List(chrome(false), ListView{Schema: catalog.Videos}))
	assert.Contains(t, out, "No videos registered yet.")

	out = String(List(chrome(false), ListView{Schema: catalog.Videos, Query: "zzz"}))
	assert.Contains(t, out, "No videos match")
	assert.Contains(t, out, `value="zzz"`)
	assert.Contains(t, out, "autofocus")
	assert.Contains(t, out, `class="search-clear"`)
}

func TestListError(t *testing.T) {
	out := String(List(chrome(false), ListView{Schema: catalog.Books, Error: "Could not connect"}))
	assert.Contains(t, out, "Could not connect")
	assert.NotContains(t, out, "registered yet")
}

func TestPager(t *testing.T) {
	out := String(pager("/arte", paging.State{Query: "oil", Page: 5}, 10))
	assert.Contains(t, out, `href="/arte?page=4&amp;search=oil"`)
	assert.Contains(t, out, "…")
	assert.Contains(t, out, `class="page current"`)
	assert.Contains(t, out, `href="/arte?page=10&amp;search=oil"`)

	first := String(pager("/arte", paging.State{Page: 1}, 3))
	assert.Contains(t, first, `<span class="page disabled">‹ Previous</span>`)
	assert.NotContains(t, first, "…")

	assert.Contains(t, first, `href="/arte?page=2"`)

	last := String(pager("/arte", paging.State{Page: 3}, 3))
	assert.Contains(t, last, `<span class="page disabled">Next ›</span>`)

	assert.Nil(t, pager("/arte", paging.State{Page: 1}, 1))
}

func TestPageHref(t *testing.T) {
	assert.Equal(t, "/cds", pageHref("/cds", "", 1))
	assert.Equal(t, "/cds?page=3", pageHref("/cds", "", 3))
	assert.Equal(t, "/cds?search=a+b", pageHref("/cds", "a b", 1))
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "Yes", displayValue(catalog.Artworks, "certificado", true))
	assert.Equal(t, "No", displayValue(catalog.Artworks, "certificado", false))
	assert.Equal(t, "12.5 cm", displayValue(catalog.Artworks, "altura", 12.5))
	assert.Equal(t, "", displayValue(catalog.Artworks, "peso", nil))
	assert.Equal(t, "90 min", displayValue(catalog.Videos, "duracion", float64(90)))
	assert.Equal(t, "Borges", displayValue(catalog.Books, "autor", "Borges"))
}

func TestDetailOmitsEmptyOptional(t *testing.T) {
	rec := catalog.Record{"id": "3", "titulo": "Kind of Blue", "artista": "Miles Davis", "album": "", "anoGrab": float64(1959), "fotoPortada": "data:image/png;base64,AAA"}
	out := String(Detail(chrome(true), DetailView{Schema: catalog.Music, Record: rec, CanEdit: true}))
	assert.Contains(t, out, "<h1>Kind of Blue</h1>")
	assert.Contains(t, out, "Miles Davis")
	assert.Contains(t, out, "1959")
	assert.NotContains(t, out, "<dt>Album</dt>")
	assert.Contains(t, out, `data-modal-src="data:image/png;base64,AAA"`)
	assert.Contains(t, out, `id="image-modal"`)
	assert.Contains(t, out, `href="/musica/editar/3"`)

	ro := String(Detail(chrome(false), DetailView{Schema: catalog.Music, Record: rec}))
	assert.NotContains(t, ro, "/musica/editar/3")
}

func TestFormCreate(t *testing.T) {
	taxonomy := tax{"categorias": {"Ficción"}, "sub:Ficción": {"Novela"}, "idiomas": {"Español"}}
	out := String(EntityForm(chrome(true), FormView{Schema: catalog.Books, Form: catalog.Form{}, Taxonomy: taxonomy}))
	assert.Contains(t, out, `action="/libros/crear"`)
	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, "Title *")
	assert.Contains(t, out, `<option value="Español">Español</option>`)
	assert.Contains(t, out, `data-depends-on="categoria"`)
	assert.Contains(t, out, `inputmode="numeric"`)
	assert.Contains(t, out, `accept="image/*"`)
	// no options configured for encyclopedias
	assert.Contains(t, out, `<input type="text" id="enciclopedia" name="enciclopedia"`)
}

func TestFormEditPreservesValues(t *testing.T) {
	taxonomy := tax{"categorias": {"Ficción"}, "sub:Ficción": {"Novela", "Cuento"}}
	form := catalog.Form{"titulo": "Rayuela", "categoria": "Ficción", "subcategoria": "Cuento", "fotoPortada": "data:image/png;base64,AAA"}
	out := String(EntityForm(chrome(true), FormView{Schema: catalog.Books, Form: form, Taxonomy: taxonomy, ID: "7", Error: "The number of pages must be greater than 0"}))
	assert.Contains(t, out, `action="/libros/editar/7"`)
	assert.Contains(t, out, `value="Rayuela"`)
	assert.Contains(t, out, `<option value="Cuento" selected>Cuento</option>`)
	assert.Contains(t, out, "The number of pages must be greater than 0")
	assert.Contains(t, out, `name="fotoPortada_remove"`)
	assert.Contains(t, out, `type="hidden" name="fotoPortada" value="data:image/png;base64,AAA"`)
}

func TestFormEditKeepsUnlistedSelectValues(t *testing.T) {
	taxonomy := tax{"categorias": {"Ficción"}, "sub:Ficción": {"Novela"}, "enciclopedias": {"Espasa", "Larousse"}, "idiomas": {"Español"}}
	form := catalog.Form{"titulo": "Rayuela", "categoria": "Ficción", "subcategoria": "Ensayo", "enciclopedia": "Britannica", "idioma": "Catalán"}
	out := String(EntityForm(chrome(true), FormView{Schema: catalog.Books, Form: form, Taxonomy: taxonomy, ID: "7"}))
	assert.Contains(t, out, `<option value="Britannica" selected>Britannica</option>`)
	assert.Contains(t, out, `<option value="Catalán" selected>Catalán</option>`)
	assert.Contains(t, out, `<option value="Ensayo" selected>Ensayo</option>`)
	assert.Contains(t, out, `<option value="Espasa">Espasa</option>`)
	assert.Contains(t, out, `type="hidden" name="subcategoria_stored" value="Ensayo"`)
	assert.Contains(t, out, `type="hidden" name="categoria_stored" value="Ficción"`)

	create := String(EntityForm(chrome(true), FormView{Schema: catalog.Books, Form: catalog.Form{}, Taxonomy: taxonomy}))
	assert.NotContains(t, create, "_stored")
}

func TestFormConditionalFields(t *testing.T) {
	form := catalog.Form{"tipo": catalog.ArtSculpture}
	out := String(EntityForm(chrome(true), FormView{Schema: catalog.Artworks, Form: form, Taxonomy: tax{}}))
	assert.Contains(t, out, `data-show-field="tipo" data-show-value="Painting" hidden`)
	assert.Contains(t, out, `data-show-field="tipo" data-show-value="Sculpture">`)
	assert.Contains(t, out, `type="checkbox" id="certificado"`)
}

func TestDeleteConfirm(t *testing.T) {
	out := String(DeleteConfirm(chrome(true), catalog.Magazines, catalog.Record{"id": "9", "titulo": "National Geographic"}))
	assert.Contains(t, out, "National Geographic")
	assert.Contains(t, out, `action="/revistas/eliminar/9"`)
	assert.Contains(t, out, `name="confirm" value="yes"`)
}

func TestAuthPages(t *testing.T) {
	out := String(Login(chrome(false), LoginView{Username: "ana", Error: "Invalid credentials", Next: "/arte"}))
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, `value="ana"`)
	assert.Contains(t, out, "Invalid credentials")
	assert.Contains(t, out, `name="next" value="/arte"`)

	setup := String(Setup(chrome(false), SetupView{}))
	assert.Contains(t, setup, `action="/registro"`)
	assert.Contains(t, setup, `name="confirm_password"`)
}

func TestNotFound(t *testing.T) {
	out := String(NotFound(chrome(false), catalog.CDROMs, ""))
	assert.Contains(t, out, "CD-ROM not found")
	assert.Contains(t, out, `href="/cds"`)

	out = String(NotFound(chrome(false), nil, ""))
	assert.Contains(t, out, "Page not found")
}
