package web

import (
	"encoding/json"
	"net/url"
	"slices"

	"github.com/calventeramirez/baseDatos/catalog"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// FormView is the data of a create or edit page.
type FormView struct {
	Schema   *catalog.Schema
	Form     catalog.Form
	Taxonomy catalog.Taxonomy
	ID       string
	Error    string
}

func (v FormView) editing() bool {
	return v.ID != ""
}

// EntityForm renders the create/edit form of an entity.
func EntityForm(ch Chrome, v FormView) gomponents.Node {
	s := v.Schema
	heading := "New " + s.Singular
	action := s.Route + "/crear"
	submit := "Create " + s.Singular
	if v.editing() {
		heading = "Edit " + s.Singular
		action = s.Route + "/editar/" + url.PathEscape(v.ID)
		submit = "Save changes"
	}

	fields := make([]gomponents.Node, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, formField(v, f))
	}

	return Page(ch,
		html.A(html.Class("back"), html.Href(s.Route), gomponents.Text("← Back to "+s.Title)),
		html.H1(gomponents.Text(heading)),
		alert("error", v.Error),
		html.Form(html.Class("entity-form"), html.Method("post"), html.Action(action),
			gomponents.Attr("enctype", "multipart/form-data"),
			csrfField(ch.CSRF),
			html.Div(html.Class("form-grid"), gomponents.Group(fields)),
			html.Div(html.Class("form-actions"),
				html.A(html.Class("btn"), html.Href(s.Route), gomponents.Text("Cancel")),
				html.Button(html.Type("submit"), html.Class("btn btn-primary"), gomponents.Text(submit)),
			),
		),
		imageModal(),
	)
}

func formField(v FormView, f catalog.Field) gomponents.Node {
	label := f.Label
	if f.Unit != "" {
		label += " (" + f.Unit + ")"
	}
	if f.Required {
		label += " *"
	}
	wrapperClass := "form-field"
	if f.Kind == catalog.TextArea || f.Kind == catalog.Image {
		wrapperClass += " wide"
	}

	attrs := []gomponents.Node{html.Class(wrapperClass)}
	if f.When != nil {
		attrs = append(attrs,
			html.Data("show-field", f.When.Field),
			html.Data("show-value", f.When.Value),
		)
		if !f.Visible(v.Form) {
			attrs = append(attrs, gomponents.Attr("hidden"))
		}
	}

	if f.Kind == catalog.Checkbox {
		return html.Div(append(attrs,
			html.Label(html.Class("checkbox"),
				html.Input(html.Type("checkbox"), html.ID(f.Name), html.Name(f.Name), html.Value("true"),
					gomponents.If(v.Form[f.Name] == "true", html.Checked()),
				),
				gomponents.Text(" "+label),
			),
		)...)
	}

	return html.Div(append(attrs,
		html.Label(html.For(f.Name), gomponents.Text(label)),
		control(v, f),
	)...)
}

func control(v FormView, f catalog.Field) gomponents.Node {
	value := v.Form[f.Name]
	required := gomponents.If(f.Required, html.Required())
	switch f.Kind {
	case catalog.TextArea:
		return html.Textarea(html.ID(f.Name), html.Name(f.Name), html.Rows("4"), required, gomponents.Text(value))
	case catalog.Integer:
		return html.Input(html.Type("text"), html.ID(f.Name), html.Name(f.Name), html.Value(value), required,
			gomponents.Attr("inputmode", "numeric"), html.Data("numeric", "int"))
	case catalog.Decimal:
		return html.Input(html.Type("text"), html.ID(f.Name), html.Name(f.Name), html.Value(value), required,
			gomponents.Attr("inputmode", "decimal"), html.Data("numeric", "decimal"))
	case catalog.Select:
		return selectControl(v, f)
	case catalog.Image:
		return imageControl(v, f)
	}
	return html.Input(html.Type("text"), html.ID(f.Name), html.Name(f.Name), html.Value(value), required,
		gomponents.If(f.Placeholder != "", html.Placeholder(f.Placeholder)))
}

// selectControl renders a select, or a text input when no options are known.
// Dependent selects carry their option map so the script can refill them.
// A current value that is not configured stays selectable.
func selectControl(v FormView, f catalog.Field) gomponents.Node {
	value := v.Form[f.Name]
	choices := f.Choices(v.Form, v.Taxonomy)
	if len(choices) == 0 && f.DependsOn == "" {
		return gomponents.Group{
			html.Input(html.Type("text"), html.ID(f.Name), html.Name(f.Name), html.Value(value),
				gomponents.If(f.Required, html.Required())),
			storedValue(v, f),
		}
	}
	if value != "" && !slices.Contains(choices, value) {
		choices = append(choices[:len(choices):len(choices)], value)
	}

	opts := []gomponents.Node{html.Option(html.Value(""), gomponents.Text("Select..."))}
	for _, c := range choices {
		opts = append(opts, html.Option(html.Value(c), gomponents.If(c == value, html.Selected()), gomponents.Text(c)))
	}

	attrs := []gomponents.Node{html.ID(f.Name), html.Name(f.Name), gomponents.If(f.Required, html.Required())}
	if f.DependsOn != "" && f.OptionMap != nil {
		raw, _ := json.Marshal(f.OptionMap(v.Taxonomy))
		attrs = append(attrs,
			html.Data("depends-on", f.DependsOn),
			html.Data("options", string(raw)),
			gomponents.If(len(choices) == 0, html.Disabled()),
		)
	}
	return gomponents.Group{html.Select(append(attrs, opts...)...), storedValue(v, f)}
}

// storedValue echoes the loaded value of a select on edit forms.
func storedValue(v FormView, f catalog.Field) gomponents.Node {
	if v.ID == "" {
		return nil
	}
	return html.Input(html.Type("hidden"), html.Name(f.Name+catalog.StoredSuffix), html.Value(v.Form[f.Name]))
}

func imageControl(v FormView, f catalog.Field) gomponents.Node {
	current := v.Form[f.Name]
	var preview gomponents.Node
	if current != "" {
		preview = html.Div(html.Class("image-current"),
			html.Img(html.Src(current), html.Alt(f.Label), html.Class("preview zoomable"), html.Data("modal-src", current)),
			html.Label(html.Class("checkbox"),
				html.Input(html.Type("checkbox"), html.Name(f.Name+"_remove"), html.Value("1")),
				gomponents.Text(" Remove image"),
			),
		)
	}
	return html.Div(html.Class("image-field"),
		html.Input(html.Type("hidden"), html.Name(f.Name), html.Value(current)),
		preview,
		html.Input(html.Type("file"), html.ID(f.Name), html.Name(f.Name), gomponents.Attr("accept", "image/*"),
			html.Data("max-bytes", "5242880")),
		html.Small(gomponents.Text("Images only, up to 5MB.")),
	)
}

// DeleteConfirm asks before a record is deleted.
func DeleteConfirm(ch Chrome, s *catalog.Schema, rec catalog.Record) gomponents.Node {
	id := catalog.RecordID(rec)
	return Page(ch,
		html.Div(html.Class("confirm"),
			html.H1(gomponents.Text("Delete "+s.Singular+"?")),
			html.P(gomponents.Text("\""+s.RecordTitle(rec)+"\" will be removed permanently.")),
			html.Form(html.Method("post"), html.Action(s.Route+"/eliminar/"+url.PathEscape(id)),
				csrfField(ch.CSRF),
				html.Input(html.Type("hidden"), html.Name("confirm"), html.Value("yes")),
				html.A(html.Class("btn"), html.Href(s.Route), gomponents.Text("Cancel")),
				html.Button(html.Type("submit"), html.Class("btn btn-danger"), gomponents.Text("Delete")),
			),
		),
	)
}
