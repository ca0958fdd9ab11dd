package web

import (
	"net/url"

	"github.com/calventeramirez/baseDatos/catalog"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// displayValue formats a record value for reading; "" means omit.
func displayValue(s *catalog.Schema, name string, v any) string {
	f, ok := s.Field(name)
	if ok && f.Kind == catalog.Checkbox {
		if b, isBool := v.(bool); isBool {
			if b {
				return "Yes"
			}
			return "No"
		}
	}
	val := catalog.ValueString(v)
	if val == "" {
		return ""
	}
	if ok && f.Unit != "" {
		return val + " " + f.Unit
	}
	return val
}

// DetailView is the data of one detail page.
type DetailView struct {
	Schema  *catalog.Schema
	Record  catalog.Record
	CanEdit bool
}

// Detail renders every present field of a record. Empty optional fields are
// left out; images open in a modal.
func Detail(ch Chrome, v DetailView) gomponents.Node {
	s := v.Schema
	id := catalog.RecordID(v.Record)
	title := s.RecordTitle(v.Record)

	var images []gomponents.Node
	for _, name := range s.ImageFields {
		src := catalog.ValueString(v.Record[name])
		if src == "" {
			continue
		}
		images = append(images, html.Figure(html.Class("detail-image"),
			html.Img(html.Src(src), html.Alt(s.Label(name)), html.Class("zoomable"), html.Data("modal-src", src)),
			html.FigCaption(gomponents.Text(s.Label(name))),
		))
	}

	var rows []gomponents.Node
	for _, f := range s.Fields {
		if f.Virtual || f.Kind == catalog.Image || f.Name == s.TitleField {
			continue
		}
		val := displayValue(s, f.Name, v.Record[f.Name])
		if val == "" {
			continue
		}
		valueNode := html.Dd(gomponents.Text(val))
		if f.Kind == catalog.TextArea {
			valueNode = html.Dd(html.Class("long"), gomponents.Text(val))
		}
		rows = append(rows, html.Div(html.Class("detail-row"),
			html.Dt(gomponents.Text(f.Label)),
			valueNode,
		))
	}

	var actions gomponents.Node
	if v.CanEdit {
		actions = html.Div(html.Class("detail-actions"),
			html.A(html.Class("btn btn-primary"), html.Href(s.Route+"/editar/"+url.PathEscape(id)), gomponents.Text("Edit")),
			html.A(html.Class("btn btn-danger"), html.Href(s.Route+"/eliminar/"+url.PathEscape(id)), gomponents.Text("Delete")),
		)
	}

	return Page(ch,
		html.A(html.Class("back"), html.Href(s.Route), gomponents.Text("← Back to "+s.Title)),
		html.Article(html.Class("detail"),
			html.H1(gomponents.Text(title)),
			gomponents.If(len(images) > 0, html.Div(html.Class("detail-images"), gomponents.Group(images))),
			html.Dl(html.Class("detail-fields"), gomponents.Group(rows)),
			actions,
		),
		imageModal(),
	)
}

// imageModal is filled by script when a zoomable image is clicked. A click on
// the backdrop or the close button hides it; clicks on the image do not.
func imageModal() gomponents.Node {
	return html.Div(html.ID("image-modal"), html.Class("modal"), html.Aria("hidden", "true"),
		html.Button(html.Type("button"), html.Class("modal-close"), html.Aria("label", "Close"), gomponents.Text("✕")),
		html.Img(html.ID("image-modal-img"), html.Alt("")),
	)
}
