package catalog

import (
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RequiredMessage is shown when any required field is blank.
const RequiredMessage = "All fields marked with * are required"

// StoredSuffix names the hidden input that carries a select value as it
// was loaded on an edit form.
const StoredSuffix = "_stored"

// Form holds the string values of an entity form.
type Form map[string]string

// ValidationErrors collects every violated rule of one submission.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, ". ")
}

// ValueString renders a decoded JSON value for forms and views.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}

// FormFromRecord prefills an edit form from a stored record.
func (s *Schema) FormFromRecord(rec Record) Form {
	form := make(Form, len(s.Fields))
	for _, f := range s.Fields {
		if f.Virtual {
			continue
		}
		form[f.Name] = ValueString(rec[f.Name])
	}
	if s.Normalize != nil {
		s.Normalize(form)
	}
	return form
}

// Prepare reads submitted values into a Form. Integer fields keep digits
// only and decimal fields keep digits and one separator. Uploaded images
// are embedded as data URLs; image failures are returned as messages.
func (s *Schema) Prepare(values url.Values, files map[string][]*multipart.FileHeader, tax Taxonomy) (Form, ValidationErrors) {
	form := make(Form, len(s.Fields))
	var errs ValidationErrors
	for _, f := range s.Fields {
		raw := strings.TrimSpace(values.Get(f.Name))
		switch f.Kind {
		case Integer:
			form[f.Name] = DigitsOnly(raw)
		case Decimal:
			form[f.Name] = DecimalOnly(raw)
		case Checkbox:
			if raw != "" && raw != "false" {
				form[f.Name] = "true"
			} else {
				form[f.Name] = ""
			}
		case Image:
			img, err := s.readImage(f, values, files)
			if err != nil {
				errs = append(errs, f.Label+": "+err.Error())
			}
			form[f.Name] = img
		default:
			form[f.Name] = raw
		}
	}
	s.clearDependents(form, values, tax)
	return form, errs
}

func (s *Schema) readImage(f Field, values url.Values, files map[string][]*multipart.FileHeader) (string, error) {
	if headers := files[f.Name]; len(headers) > 0 && headers[0].Size > 0 {
		return EncodeUpload(headers[0])
	}
	if values.Get(f.Name+"_remove") != "" {
		return "", nil
	}
	return KeepImage(values.Get(f.Name)), nil
}

// clearDependents empties dependent selects whose value is not offered for
// the parent. A loaded value is kept while neither select was changed.
func (s *Schema) clearDependents(form Form, values url.Values, tax Taxonomy) {
	for _, f := range s.Fields {
		if f.DependsOn == "" || form[f.Name] == "" {
			continue
		}
		if !contains(f.Choices(form, tax), form[f.Name]) && !unchanged(values, form, f) {
			form[f.Name] = ""
		}
	}
}

func unchanged(values url.Values, form Form, f Field) bool {
	stored, ok := values[f.Name+StoredSuffix]
	if !ok || len(stored) == 0 || strings.TrimSpace(stored[0]) != form[f.Name] {
		return false
	}
	parent, ok := values[f.DependsOn+StoredSuffix]
	return ok && len(parent) > 0 && strings.TrimSpace(parent[0]) == form[f.DependsOn]
}

// Validate checks required fields first; when they are all present the
// entity rules run and every failure is reported together.
func (s *Schema) Validate(form Form, now time.Time) error {
	for _, f := range s.Fields {
		if f.Required && strings.TrimSpace(form[f.Name]) == "" {
			return ValidationErrors{RequiredMessage}
		}
	}
	if s.Rules == nil {
		return nil
	}
	if errs := ValidationErrors(s.Rules(form, now)); len(errs) > 0 {
		return errs
	}
	return nil
}

// Payload converts a validated form into the JSON body for the backend.
// Empty optional numbers are sent as null.
func (s *Schema) Payload(form Form, id string) Record {
	rec := Record{"id": id}
	for _, f := range s.Fields {
		if f.Virtual {
			continue
		}
		val := form[f.Name]
		switch f.Kind {
		case Integer:
			if n, err := strconv.Atoi(val); err == nil {
				rec[f.Name] = n
			} else {
				rec[f.Name] = nil
			}
		case Decimal:
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				rec[f.Name] = n
			} else {
				rec[f.Name] = nil
			}
		case Checkbox:
			rec[f.Name] = val == "true"
		default:
			rec[f.Name] = val
		}
	}
	if s.Finalize != nil {
		s.Finalize(form, rec)
	}
	return rec
}

// Submit runs Prepare, Validate and Payload. Image failures and validation
// failures are reported together. The returned form is always usable to
// re-render the page.
func (s *Schema) Submit(values url.Values, files map[string][]*multipart.FileHeader, tax Taxonomy, now time.Time, id string) (Form, Record, error) {
	form, errs := s.Prepare(values, files, tax)
	if err := s.Validate(form, now); err != nil {
		verrs, ok := err.(ValidationErrors)
		if !ok {
			return form, nil, err
		}
		errs = append(errs, verrs...)
	}
	if len(errs) > 0 {
		return form, nil, errs
	}
	return form, s.Payload(form, id), nil
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecimalOnly keeps digits and the first decimal separator (',' becomes '.').
func DecimalOnly(s string) string {
	var b strings.Builder
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == '.' || r == ',') && !dot:
			dot = true
			b.WriteRune('.')
		}
	}
	return b.String()
}
