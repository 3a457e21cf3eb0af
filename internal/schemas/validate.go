// Package schemas validates upstream JSON documents against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed upstream/*.schema.json
var upstreamFS embed.FS

// Document names one of the upstream document shapes.
type Document string

// Upstream document shapes.
const (
	EntryList  Document = "entry_list"
	Entry      Document = "entry"
	Region     Document = "region"
	Encounters Document = "encounters"
)

// Documents lists every known shape.
var Documents = []Document{EntryList, Entry, Region, Encounters}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Document Document
	Errors   []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Document != "" {
		sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Document))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validator holds the compiled upstream schemas.
type Validator struct {
	schemas map[Document]*gojsonschema.Schema
}

// NewValidator compiles every embedded upstream schema.
func NewValidator() (*Validator, error) {
	v := &Validator{schemas: make(map[Document]*gojsonschema.Schema, len(Documents))}
	for _, doc := range Documents {
		path := fmt.Sprintf("upstream/%s.schema.json", doc)
		content, err := upstreamFS.ReadFile(path)
		if err != nil {
			return nil, &SchemaLoadError{Path: path, Message: "schema not embedded", Cause: err}
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
		if err != nil {
			return nil, &SchemaLoadError{Path: path, Message: "failed to compile schema", Cause: err}
		}
		v.schemas[doc] = schema
	}
	return v, nil
}

// Validate checks body against the schema for doc.
func (v *Validator) Validate(doc Document, body string) error {
	schema, ok := v.schemas[doc]
	if !ok {
		return &SchemaLoadError{Path: string(doc), Message: "unknown document"}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return &SchemaLoadError{
			Path:    string(doc),
			Message: "document could not be loaded",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}
	verr := toValidationError(result)
	verr.Document = doc
	return verr
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) *ValidationError {
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
