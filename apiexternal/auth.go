package apiexternal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/calventeramirez/baseDatos/session"
	"github.com/pkg/errors"
)

// LoginResult is returned by /login and /primerSetup/.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	Usuario     session.User `json:"usuario"`
}

// SetupState is the answer of /estado/.
type SetupState struct {
	NeedsSetup bool `json:"necesita_setup"`
}

type setupRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthClient covers login and one-time setup.
type AuthClient struct {
	backend *Backend
}

func NewAuthClient(backend *Backend) *AuthClient {
	return &AuthClient{backend: backend}
}

// Login posts form-encoded credentials.
func (a *AuthClient) Login(ctx context.Context, username, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var res LoginResult
	if err := a.backend.doForm(ctx, a.backend.URL(nil, "login"), form, &res); err != nil {
		return LoginResult{}, errors.Wrap(err, "login")
	}
	if res.AccessToken == "" {
		return LoginResult{}, errors.Wrap(ErrInvalidResponse, "login without token")
	}
	return res, nil
}

// SetupState reports whether the backend still needs its first administrator.
func (a *AuthClient) SetupState(ctx context.Context) (SetupState, error) {
	var state SetupState
	if err := a.backend.doJSON(ctx, http.MethodGet, a.backend.URL(nil, "estado", ""), "", nil, &state); err != nil {
		return SetupState{}, errors.Wrap(err, "setup state")
	}
	return state, nil
}

// FirstSetup creates the administrator account and logs it in.
func (a *AuthClient) FirstSetup(ctx context.Context, username, password string) (LoginResult, error) {
	var res LoginResult
	body := setupRequest{ID: "", Username: username, Password: password}
	if err := a.backend.doJSON(ctx, http.MethodPost, a.backend.URL(nil, "primerSetup", ""), "", body, &res); err != nil {
		return LoginResult{}, errors.Wrap(err, "first setup")
	}
	if res.AccessToken == "" {
		return LoginResult{}, errors.Wrap(ErrInvalidResponse, "setup without token")
	}
	return res, nil
}
