package apiexternal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Backend is the catalog REST service. All requests share one base URL.
type Backend struct {
	base   *url.URL
	Client *RLHTTPClient
}

// NewBackend validates base and returns a client for it.
func NewBackend(base string, client *RLHTTPClient) (*Backend, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, errors.New("backend base url is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parse backend base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("backend base url %q is not absolute", base)
	}
	return &Backend{base: u, Client: client}, nil
}

// BaseURL returns a copy of the base URL.
func (b *Backend) BaseURL() *url.URL {
	u := *b.base
	return &u
}

// URL joins the path segments onto the base. A trailing "" keeps a final slash.
func (b *Backend) URL(query url.Values, segments ...string) string {
	u := b.BaseURL()
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	rawPath := strings.TrimRight(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawPath = rawPath
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (b *Backend) newRequest(ctx context.Context, method, target, token string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (b *Backend) doJSON(ctx context.Context, method, target, token string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req, err := b.newRequest(ctx, method, target, token, body, contentType)
	if err != nil {
		return err
	}
	return b.Client.DoJson(req, out)
}

func (b *Backend) doForm(ctx context.Context, target string, form url.Values, out interface{}) error {
	req, err := b.newRequest(ctx, http.MethodPost, target, "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	return b.Client.DoJson(req, out)
}
