package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/calventeramirez/baseDatos/paging"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

const pagerWindow = 5

// ShownParam carries the query a list page was rendered with, so a changed
// search can start again from the first page.
const ShownParam = "shown"

// ListView is the data of one list page.
type ListView struct {
	Schema  *catalog.Schema
	Result  paging.Result[catalog.Record]
	Query   string
	Error   string
	Notice  string
	CanEdit bool
}

// List renders the searchable card grid of an entity.
func List(ch Chrome, v ListView) gomponents.Node {
	s := v.Schema
	header := html.Div(html.Class("list-header"),
		html.H1(gomponents.Text(s.Icon+" "+s.Title)),
		gomponents.If(v.CanEdit,
			html.A(html.Class("btn btn-primary"), html.Href(s.Route+"/crear"), gomponents.Text("+ Add "+s.Singular)),
		),
	)
	return Page(ch,
		header,
		searchBox(s, v.Query, v.Result.Page),
		alert("error", v.Error),
		alert("success", v.Notice),
		listBody(ch, v),
	)
}

func searchBox(s *catalog.Schema, query string, page int) gomponents.Node {
	labels := make([]string, 0, len(s.SearchFields))
	for _, f := range s.SearchFields {
		labels = append(labels, strings.ToLower(s.Label(f)))
	}
	return html.Form(html.Class("search"), html.Method("get"), html.Action(s.Route),
		html.Input(html.Type("search"), html.Name("search"), html.Value(query),
			html.Placeholder("Search by "+strings.Join(labels, ", ")+"..."),
			gomponents.Attr("autocomplete", "off"),
			html.Data("debounce", strconv.FormatInt(paging.SearchDebounce.Milliseconds(), 10)),
			gomponents.If(query != "", gomponents.Attr("autofocus")),
		),
		html.Input(html.Type("hidden"), html.Name(ShownParam), html.Value(query)),
		gomponents.If(page > 1, html.Input(html.Type("hidden"), html.Name("page"), html.Value(strconv.Itoa(page)))),
		gomponents.If(query != "",
			html.A(html.Class("search-clear"), html.Href(s.Route), html.Aria("label", "Clear search"), gomponents.Text("✕")),
		),
	)
}

func listBody(ch Chrome, v ListView) gomponents.Node {
	if v.Error != "" && len(v.Result.Items) == 0 {
		return nil
	}
	if v.Result.Total == 0 {
		msg := "No " + strings.ToLower(v.Schema.Title) + " registered yet."
		if strings.TrimSpace(v.Query) != "" {
			msg = "No " + strings.ToLower(v.Schema.Title) + " match \"" + v.Query + "\"."
		}
		return html.Div(html.Class("empty"), html.P(gomponents.Text(msg)))
	}
	cards := make([]gomponents.Node, 0, len(v.Result.Items))
	for _, rec := range v.Result.Items {
		cards = append(cards, card(ch, v, rec))
	}
	return gomponents.Group{
		html.P(html.Class("counter"),
			gomponents.Textf("Showing %d-%d of %d", v.Result.From(), v.Result.To(), v.Result.Total),
		),
		html.Div(html.Class("cards"), gomponents.Group(cards)),
		pager(v.Schema.Route, paging.State{Query: v.Query, Page: v.Result.Page}, v.Result.TotalPages),
	}
}

func card(ch Chrome, v ListView, rec catalog.Record) gomponents.Node {
	s := v.Schema
	id := catalog.RecordID(rec)
	title := s.RecordTitle(rec)

	var thumb gomponents.Node
	if img := s.Thumbnail(rec); img != "" {
		thumb = html.Img(html.Class("thumb"), html.Src(img), html.Alt(title), gomponents.Attr("loading", "lazy"))
	} else {
		thumb = html.Div(html.Class("thumb placeholder"), gomponents.Text(s.Icon))
	}

	summary := make([]gomponents.Node, 0, len(s.SummaryFields))
	for _, name := range s.SummaryFields {
		val := displayValue(s, name, rec[name])
		if val == "" {
			continue
		}
		summary = append(summary, html.P(html.Class("summary"),
			html.Strong(gomponents.Text(s.Label(name)+": ")), gomponents.Text(val),
		))
	}

	actions := []gomponents.Node{
		html.A(html.Class("btn btn-primary"), html.Href(s.Route+"/"+url.PathEscape(id)), gomponents.Text("More info")),
	}
	if v.CanEdit {
		actions = append(actions,
			html.A(html.Class("btn"), html.Href(s.Route+"/editar/"+url.PathEscape(id)), gomponents.Text("Edit")),
			html.Form(html.Class("inline"), html.Method("post"), html.Action(s.Route+"/eliminar/"+url.PathEscape(id)),
				html.Data("confirm", "Delete \""+title+"\"? This cannot be undone."),
				csrfField(ch.CSRF),
				html.Input(html.Type("hidden"), html.Name("search"), html.Value(v.Query)),
				html.Input(html.Type("hidden"), html.Name("page"), html.Value(strconv.Itoa(v.Result.Page))),
				html.Button(html.Type("submit"), html.Class("btn btn-danger"), gomponents.Text("Delete")),
			),
		)
	}

	return html.Div(html.Class("card"),
		thumb,
		html.Div(html.Class("card-body"),
			html.H3(gomponents.Text(title)),
			gomponents.Group(summary),
			html.Div(html.Class("card-actions"), gomponents.Group(actions)),
		),
	)
}

func pageHref(route, query string, page int) string {
	q := url.Values{}
	if query != "" {
		q.Set("search", query)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return route
	}
	return route + "?" + q.Encode()
}

// pager renders previous/next controls around a window of page numbers,
// with the first and last pages and ellipses when the window leaves them out.
func pager(route string, st paging.State, total int) gomponents.Node {
	if total <= 1 {
		return nil
	}
	current := st.Page
	link := func(to paging.State, label string, enabled bool) gomponents.Node {
		if !enabled {
			return html.Span(html.Class("page disabled"), gomponents.Text(label))
		}
		class := "page"
		if to.Page == current && label == strconv.Itoa(to.Page) {
			class += " current"
		}
		return html.A(html.Class(class), html.Href(pageHref(route, to.Query, to.Page)), gomponents.Text(label))
	}
	at := func(page int) paging.State {
		to := st
		to.Goto(page, total)
		return to
	}

	prev := st
	prev.Prev()
	nodes := []gomponents.Node{link(prev, "‹ Previous", prev.Page != current)}
	window := paging.Window(current, total, pagerWindow)
	if window[0] > 1 {
		nodes = append(nodes, link(at(1), "1", true))
		if window[0] > 2 {
			nodes = append(nodes, html.Span(html.Class("page gap"), gomponents.Text("…")))
		}
	}
	for _, p := range window {
		nodes = append(nodes, link(at(p), strconv.Itoa(p), true))
	}
	if last := window[len(window)-1]; last < total {
		if last < total-1 {
			nodes = append(nodes, html.Span(html.Class("page gap"), gomponents.Text("…")))
		}
		nodes = append(nodes, link(at(total), strconv.Itoa(total), true))
	}
	next := st
	next.Next(total)
	nodes = append(nodes, link(next, "Next ›", next.Page != current))

	return html.Nav(html.Class("pager"), html.Aria("label", fmt.Sprintf("Page %d of %d", current, total)),
		gomponents.Group(nodes),
	)
}
