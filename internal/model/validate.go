package model

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/missionctl/internal/utils"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every violation found in one payload.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// PayloadKind names a response shape in the embedded schema.
type PayloadKind string

const (
	PayloadTask        PayloadKind = "task"
	PayloadTaskList    PayloadKind = "taskList"
	PayloadProject     PayloadKind = "project"
	PayloadProjectList PayloadKind = "projectList"
)

const schemaURL = "https://missionctl.local/payloads.schema.json"

//go:embed schema/payloads.schema.json
var payloadSchema []byte

var (
	schemaOnce    sync.Once
	schemaErr     error
	compiledKinds map[PayloadKind]*jsonschema.Schema
)

func compileSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(payloadSchema)); err != nil {
		schemaErr = fmt.Errorf("load payload schema: %w", err)
		return
	}

	compiledKinds = make(map[PayloadKind]*jsonschema.Schema)
	for _, kind := range []PayloadKind{PayloadTask, PayloadTaskList, PayloadProject, PayloadProjectList} {
		schema, err := compiler.Compile(schemaURL + "#/$defs/" + string(kind))
		if err != nil {
			schemaErr = fmt.Errorf("compile %s schema: %w", kind, err)
			return
		}
		compiledKinds[kind] = schema
	}
}

// ValidatePayload checks a raw response body against the schema for kind.
// Malformed JSON is reported as a single ValidationError at the root; schema
// violations are returned as ValidationErrors.
func ValidatePayload(kind PayloadKind, body []byte) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	schema, ok := compiledKinds[kind]
	if !ok {
		return fmt.Errorf("unknown payload kind %q", kind)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		var errs ValidationErrors
		collectSchemaErrors(&errs, ve)
		if len(errs) == 0 {
			return &ValidationError{Err: fmt.Errorf("%s", ve.Message)}
		}
		return errs
	}
	return nil
}

func collectSchemaErrors(errs *ValidationErrors, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}
