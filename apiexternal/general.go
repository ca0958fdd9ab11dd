package apiexternal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/RussellLuo/slidingwindow"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const maxErrorBody = 64 * 1024

//RLHTTPClient Rate Limited HTTP Client
type RLHTTPClient struct {
	client        *http.Client
	Ratelimiter   *rate.Limiter
	LimiterWindow *slidingwindow.Limiter
}

// wait blocks until both limiters allow the call or the request is abandoned.
func (c *RLHTTPClient) wait(ctx context.Context) error {
	if c.Ratelimiter != nil {
		if err := c.Ratelimiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.LimiterWindow == nil || c.LimiterWindow.Allow() {
		return nil
	}
	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
		if c.LimiterWindow.Allow() {
			return nil
		}
	}
	return ErrBusy
}

//DoJson dispatches the HTTP request and decodes a JSON response into jsonobj.
//jsonobj may be nil when the body is not needed.
func (c *RLHTTPClient) DoJson(req *http.Request, jsonobj interface{}) error {
	ctx := req.Context()
	if err := c.wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(ErrConnection, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Detail: parseDetail(body)}
	}
	if jsonobj == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(jsonobj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(ErrInvalidResponse, err.Error())
	}
	return nil
}

//NewClient return http client with a ratelimiter
func NewClient(timeout time.Duration, rl *rate.Limiter, rl2 *slidingwindow.Limiter) *RLHTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &RLHTTPClient{
		client: &http.Client{Timeout: timeout,
			Transport: &http.Transport{MaxIdleConns: 20, MaxConnsPerHost: 10, DisableCompression: false, IdleConnTimeout: 20 * time.Second}},
		Ratelimiter:   rl,
		LimiterWindow: rl2,
	}
	return c
}

// NewLimitedClient builds a client allowing calls requests per seconds window.
func NewLimitedClient(timeout time.Duration, seconds int, calls int) *RLHTTPClient {
	if seconds == 0 {
		seconds = 1
	}
	if calls == 0 {
		calls = 1
	}
	rl := rate.NewLimiter(rate.Every(time.Duration(seconds)*time.Second/time.Duration(calls)), calls)
	limiter, _ := slidingwindow.NewLimiter(time.Duration(seconds)*time.Second, int64(calls), func() (slidingwindow.Window, slidingwindow.StopFunc) { return slidingwindow.NewLocalWindow() })
	return NewClient(timeout, rl, limiter)
}
