package web

import (
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// LoginView is the data of the login page.
type LoginView struct {
	Username string
	Next     string
	Error    string
	Notice   string
}

// Login renders the sign-in form.
func Login(ch Chrome, v LoginView) gomponents.Node {
	return Page(ch,
		html.Div(html.Class("auth-card"),
			html.H1(gomponents.Text("Log in")),
			alert("error", v.Error),
			alert("success", v.Notice),
			html.Form(html.Method("post"), html.Action("/login"),
				csrfField(ch.CSRF),
				gomponents.If(v.Next != "", html.Input(html.Type("hidden"), html.Name("next"), html.Value(v.Next))),
				authInput("username", "Username", "text", v.Username, "username"),
				authInput("password", "Password", "password", "", "current-password"),
				html.Button(html.Type("submit"), html.Class("btn btn-primary block"), gomponents.Text("Log in")),
			),
		),
	)
}

// SetupView is the data of the first-run registration page.
type SetupView struct {
	Username string
	Error    string
}

// Setup renders the form that creates the first administrator.
func Setup(ch Chrome, v SetupView) gomponents.Node {
	return Page(ch,
		html.Div(html.Class("auth-card"),
			html.H1(gomponents.Text("Initial setup")),
			html.P(gomponents.Text("No administrator exists yet. Create one to start using "+AppName+".")),
			alert("error", v.Error),
			html.Form(html.Method("post"), html.Action("/registro"),
				csrfField(ch.CSRF),
				authInput("username", "Username", "text", v.Username, "username"),
				authInput("password", "Password", "password", "", "new-password"),
				authInput("confirm_password", "Confirm password", "password", "", "new-password"),
				html.Button(html.Type("submit"), html.Class("btn btn-primary block"), gomponents.Text("Create administrator")),
			),
		),
	)
}

func authInput(name, label, typ, value, autocomplete string) gomponents.Node {
	return html.Div(html.Class("form-field"),
		html.Label(html.For(name), gomponents.Text(label)),
		html.Input(html.Type(typ), html.ID(name), html.Name(name), html.Value(value), html.Required(),
			gomponents.Attr("autocomplete", autocomplete)),
	)
}
