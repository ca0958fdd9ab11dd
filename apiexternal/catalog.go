package apiexternal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/calventeramirez/baseDatos/paging"
	"github.com/pkg/errors"
)

// ListQuery selects one page of an entity list.
type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

// Page is the paginated list shape returned by the backend.
type Page struct {
	Results    []catalog.Record `json:"results"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// Result converts the page to the shape the views render.
func (p Page) Result() paging.Result[catalog.Record] {
	return paging.Result[catalog.Record]{
		Items:      p.Results,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		PageSize:   p.Limit,
	}
}

// EntityClient performs CRUD for one entity path segment.
type EntityClient struct {
	backend *Backend
	schema  *catalog.Schema
}

func NewEntityClient(backend *Backend, schema *catalog.Schema) *EntityClient {
	return &EntityClient{backend: backend, schema: schema}
}

func (c *EntityClient) Schema() *catalog.Schema {
	return c.schema
}

// List requests GET /{entity}/?page=&limit=&search=. Backends that answer
// with a plain array are filtered and paginated locally over the entity's
// search fields. A page past the end is clamped to the last page.
func (c *EntityClient) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Limit <= 0 {
		q.Limit = paging.DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	page, err := c.fetchPage(ctx, q)
	if err != nil {
		return Page{}, err
	}
	if page.TotalPages > 0 && q.Page > page.TotalPages {
		q.Page = page.TotalPages
		return c.fetchPage(ctx, q)
	}
	return page, nil
}

func (c *EntityClient) fetchPage(ctx context.Context, q ListQuery) (Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		query.Set("search", s)
	}
	var raw json.RawMessage
	if err := c.backend.doJSON(ctx, http.MethodGet, c.backend.URL(query, c.schema.Segment, ""), "", nil, &raw); err != nil {
		return Page{}, errors.Wrapf(err, "list %s", c.schema.Segment)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var all []catalog.Record
		if err := json.Unmarshal(raw, &all); err != nil {
			return Page{}, errors.Wrap(ErrInvalidResponse, err.Error())
		}
		res := paging.Paginate(all, q.Search, q.Limit, q.Page, c.schema.SearchFields)
		return Page{Results: res.Items, Total: res.Total, Page: res.Page, Limit: res.PageSize, TotalPages: res.TotalPages}, nil
	}
	var page Page
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &page); err != nil {
			return Page{}, errors.Wrap(ErrInvalidResponse, err.Error())
		}
	}
	if page.Limit <= 0 {
		page.Limit = q.Limit
	}
	if page.TotalPages == 0 {
		page.TotalPages = paging.TotalPages(page.Total, page.Limit)
	}
	page.Page = paging.Clamp(page.Page, page.TotalPages)
	return page, nil
}

// Get fetches one record. A missing record yields ErrNotFound.
func (c *EntityClient) Get(ctx context.Context, id string) (catalog.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	var rec catalog.Record
	if err := c.backend.doJSON(ctx, http.MethodGet, c.backend.URL(nil, c.schema.Segment, id), "", nil, &rec); err != nil {
		return nil, errors.Wrapf(err, "get %s %s", c.schema.Segment, id)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Create posts a new record; the backend assigns the id.
func (c *EntityClient) Create(ctx context.Context, token string, rec catalog.Record) error {
	rec["id"] = ""
	err := c.backend.doJSON(ctx, http.MethodPost, c.backend.URL(nil, c.schema.Segment, ""), token, rec, nil)
	return errors.Wrapf(err, "create %s", c.schema.Segment)
}

// Update replaces a record. The backend expects the id inside the body.
func (c *EntityClient) Update(ctx context.Context, token string, rec catalog.Record) error {
	if catalog.RecordID(rec) == "" {
		return errors.New("update without id")
	}
	err := c.backend.doJSON(ctx, http.MethodPut, c.backend.URL(nil, c.schema.Segment, ""), token, rec, nil)
	return errors.Wrapf(err, "update %s", c.schema.Segment)
}

// Delete removes a record by id.
func (c *EntityClient) Delete(ctx context.Context, token, id string) error {
	err := c.backend.doJSON(ctx, http.MethodDelete, c.backend.URL(nil, c.schema.Segment, id), token, nil, nil)
	return errors.Wrapf(err, "delete %s %s", c.schema.Segment, id)
}
