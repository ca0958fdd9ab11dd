// Package web renders the HTML pages with gomponents.
package web

import (
	"strings"

	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/calventeramirez/baseDatos/session"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

const AppName = "Mediateca"

// Chrome is the per-request data every page needs.
type Chrome struct {
	Title    string
	Session  session.Session
	CSRF     string
	Active   string
	Path     string
	Entities []*catalog.Schema
}

// String renders node to a string.
func String(node gomponents.Node) string {
	var buf strings.Builder
	_ = node.Render(&buf)
	return buf.String()
}

// Page wraps content in the document and navigation shell.
func Page(ch Chrome, content ...gomponents.Node) gomponents.Node {
	title := AppName
	if ch.Title != "" {
		title = ch.Title + " - " + AppName
	}
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(gomponents.Text(title)),
				html.StyleEl(gomponents.Raw(styles)),
			),
			html.Body(
				navbar(ch),
				html.Main(html.Class("content"),
					gomponents.Group(content),
				),
				html.Script(gomponents.Raw(scripts)),
			),
		),
	)
}

func navbar(ch Chrome) gomponents.Node {
	links := make([]gomponents.Node, 0, len(ch.Entities))
	for _, s := range ch.Entities {
		class := "nav-link"
		if s.Key == ch.Active {
			class += " active"
		}
		links = append(links, html.Li(
			html.A(html.Class(class), html.Href(s.Route), gomponents.Text(s.Icon+" "+s.Title)),
		))
	}

	return html.Nav(html.Class("navbar"),
		html.A(html.Class("brand"), html.Href("/"), gomponents.Text(AppName)),
		html.Button(html.Type("button"), html.ID("nav-toggle"), html.Class("nav-toggle"),
			html.Aria("label", "Toggle menu"), html.Aria("expanded", "false"),
			gomponents.Text("☰"),
		),
		html.Div(html.ID("nav-menu"), html.Class("nav-menu"),
			html.Ul(html.Class("nav-links"), gomponents.Group(links)),
			sessionBox(ch),
		),
	)
}

func sessionBox(ch Chrome) gomponents.Node {
	if !ch.Session.IsAuthenticated() {
		return html.Div(html.Class("nav-session"),
			html.A(html.Class("btn btn-light"), html.Href("/login"), gomponents.Text("Log in")),
		)
	}
	return html.Div(html.Class("nav-session"),
		html.Span(html.Class("nav-user"), gomponents.Text("👤 "+ch.Session.User.Username)),
		html.Form(html.Method("post"), html.Action("/logout"), html.Class("inline"),
			csrfField(ch.CSRF),
			html.Button(html.Type("submit"), html.Class("btn btn-light"), gomponents.Text("Log out")),
		),
	)
}

func csrfField(token string) gomponents.Node {
	return html.Input(html.Type("hidden"), html.Name("csrf_token"), html.Value(token))
}

func alert(kind, message string) gomponents.Node {
	if message == "" {
		return nil
	}
	return html.Div(html.Class("alert alert-"+kind), html.Role("alert"), gomponents.Text(message))
}

// Home lists the entities as tiles.
func Home(ch Chrome) gomponents.Node {
	tiles := make([]gomponents.Node, 0, len(ch.Entities))
	for _, s := range ch.Entities {
		tiles = append(tiles, html.A(html.Class("tile"), html.Href(s.Route),
			html.H3(gomponents.Text(s.Icon+" "+s.Title)),
			html.P(gomponents.Text(s.Description)),
		))
	}
	return Page(ch,
		html.Section(html.Class("hero"),
			html.H1(gomponents.Text("Welcome to the digital library")),
			html.P(gomponents.Text("Explore and manage your collection of books, music, films, magazines and art.")),
		),
		html.Div(html.Class("tiles"), gomponents.Group(tiles)),
	)
}

// NotFound is the page for a missing record or route.
func NotFound(ch Chrome, s *catalog.Schema, message string) gomponents.Node {
	back := html.A(html.Class("btn"), html.Href("/"), gomponents.Text("← Back to home"))
	heading := "Page not found"
	if s != nil {
		back = html.A(html.Class("btn"), html.Href(s.Route), gomponents.Text("← Back to "+strings.ToLower(s.Title)))
		heading = strings.ToUpper(s.Singular[:1]) + s.Singular[1:] + " not found"
	}
	if message == "" {
		message = "The record you are looking for does not exist or could not be loaded."
	}
	return Page(ch,
		html.Div(html.Class("notfound"),
			html.H1(gomponents.Text(heading)),
			html.P(gomponents.Text(message)),
			back,
		),
	)
}

// ErrorPage shows a failure that has no better place to go.
func ErrorPage(ch Chrome, message string) gomponents.Node {
	return Page(ch,
		html.Div(html.Class("notfound"),
			html.H1(gomponents.Text("Something went wrong")),
			alert("error", message),
			html.A(html.Class("btn"), html.Href("/"), gomponents.Text("← Back to home")),
		),
	)
}
