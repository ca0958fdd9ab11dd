// Package catalog describes the six media entities and turns submitted
// forms into backend records.
package catalog

import (
	"strings"
	"time"
)

// Record is a backend record as decoded from JSON.
type Record = map[string]any

// Kind selects how a field is parsed and rendered.
type Kind int

const (
	Text Kind = iota
	TextArea
	Select
	Integer
	Decimal
	Image
	Checkbox
)

// Taxonomy supplies option lists for select fields.
type Taxonomy interface {
	Options(name string) []string
	Subcategories(category string) []string
}

// Field is one attribute of an entity.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Placeholder string
	Unit        string

	Options     []string
	OptionsFrom string

	// DependsOn names the parent select; OptionMap maps parent values to choices.
	DependsOn string
	OptionMap func(Taxonomy) map[string][]string

	// Virtual fields drive the form only and are never sent.
	Virtual bool

	// When limits the field to forms where another field has a given value.
	When *Condition
}

// Condition is satisfied when Field holds Value.
type Condition struct {
	Field string
	Value string
}

// Visible reports whether the field applies to the current form values.
func (f Field) Visible(form Form) bool {
	return f.When == nil || form[f.When.Field] == f.When.Value
}

// Choices returns the select options for the field with the current form values.
func (f Field) Choices(form Form, tax Taxonomy) []string {
	if f.DependsOn != "" && f.OptionMap != nil {
		return f.OptionMap(tax)[form[f.DependsOn]]
	}
	out := append([]string(nil), f.Options...)
	if f.OptionsFrom != "" && tax != nil {
		for _, opt := range tax.Options(f.OptionsFrom) {
			if !contains(out, opt) {
				out = append(out, opt)
			}
		}
	}
	return out
}

// Schema parametrises list, detail and form views for one entity.
type Schema struct {
	Key         string
	Segment     string
	Route       string
	Title       string
	Singular    string
	Icon        string
	Description string

	TitleField    string
	Fields        []Field
	SearchFields  []string
	SummaryFields []string
	ImageFields   []string

	// Normalize derives virtual form values from a stored record.
	Normalize func(Form)

	// Rules returns human readable failures for a form whose required fields are set.
	Rules func(form Form, now time.Time) []string

	// Finalize adjusts the payload before it is sent.
	Finalize func(form Form, rec Record)
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns the label of name, or name itself.
func (s *Schema) Label(name string) string {
	if f, ok := s.Field(name); ok {
		return f.Label
	}
	return name
}

// RecordTitle is the display title of rec.
func (s *Schema) RecordTitle(rec Record) string {
	if title := ValueString(rec[s.TitleField]); title != "" {
		return title
	}
	return "Untitled"
}

// Thumbnail returns the first non-empty image of rec.
func (s *Schema) Thumbnail(rec Record) string {
	for _, name := range s.ImageFields {
		if img := ValueString(rec[name]); img != "" {
			return img
		}
	}
	return ""
}

// RecordID returns the record id as a string.
func RecordID(rec Record) string {
	return ValueString(rec["id"])
}

// Registry holds the schemas in navigation order.
type Registry struct {
	order  []*Schema
	byKey  map[string]*Schema
	byPath map[string]*Schema
}

func NewRegistry(schemas ...*Schema) *Registry {
	r := &Registry{byKey: make(map[string]*Schema), byPath: make(map[string]*Schema)}
	for _, s := range schemas {
		r.order = append(r.order, s)
		r.byKey[s.Key] = s
		r.byPath[strings.TrimPrefix(s.Route, "/")] = s
	}
	return r
}

func (r *Registry) All() []*Schema {
	return r.order
}

func (r *Registry) ByKey(key string) (*Schema, bool) {
	s, ok := r.byKey[key]
	return s, ok
}

// ByRoute finds the schema whose route is /name.
func (r *Registry) ByRoute(name string) (*Schema, bool) {
	s, ok := r.byPath[strings.Trim(name, "/")]
	return s, ok
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

