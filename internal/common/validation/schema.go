// internal/common/validation/schema.go
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrEmptyDocument  = errors.New("EMPTY_DOCUMENT")
	ErrInvalidJSON    = errors.New("INVALID_JSON")
	ErrSchemaMismatch = errors.New("SCHEMA_MISMATCH")
)

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Compile parses a JSON schema document.
func Compile(name, schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schemas; it panics on a bad schema.
func MustCompile(name, schemaJSON string) *Schema {
	s, err := Compile(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name given at compile time.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a JSON document against the schema.
func (s *Schema) Validate(doc string) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    re.Type(),
		})
	}
	return out, nil
}

// Normalizer rewrites a decoded JSON object in place before validation.
type Normalizer func(doc map[string]interface{})

// DecodeStrict strips markdown fences from a model reply, validates it against
// the schema and only then decodes it into out. out is left untouched on error.
// Normalizers run in order on top-level objects before validation.
func DecodeStrict(raw string, s *Schema, out interface{}, normalizers ...Normalizer) error {
	doc := StripFences(raw)
	if doc == "" {
		return ErrEmptyDocument
	}
	if !json.Valid([]byte(doc)) {
		return fmt.Errorf("%w: %s", ErrInvalidJSON, truncate(doc, 80))
	}
	if len(normalizers) > 0 {
		doc = normalize(doc, normalizers)
	}

	res, err := s.Validate(doc)
	if err != nil {
		return err
	}
	if !res.Valid {
		msgs := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			msgs[i] = e.Field + ": " + e.Message
		}
		return fmt.Errorf("%w: %s: %s", ErrSchemaMismatch, s.name, strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

func normalize(doc string, normalizers []Normalizer) string {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &obj); err != nil {
		// not an object; the schema reports it
		return doc
	}
	for _, n := range normalizers {
		n(obj)
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return doc
	}
	return string(data)
}

// LowercaseField trims and lowercases a top-level string field. Values listed
// in blanks become null.
func LowercaseField(field string, blanks ...string) Normalizer {
	return func(doc map[string]interface{}) {
		v, ok := doc[field].(string)
		if !ok {
			return
		}
		v = strings.ToLower(strings.TrimSpace(v))
		for _, b := range blanks {
			if v == b {
				doc[field] = nil
				return
			}
		}
		doc[field] = v
	}
}

// StripFences removes a surrounding ``` or ```json fence and whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string ("json")
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
