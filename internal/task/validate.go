package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist/internal/utils"
)

//go:embed tasks.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "https://tasklist.local/tasks.schema.json"

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
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

// ValidationOptions controls blob validation.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema with a file on disk.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
	Tasks      int  // number of entries in the blob
}

// ValidateBlob validates a stored task blob. Schema validation runs first;
// when the schema cannot be compiled, only the minimal checks run.
func ValidateBlob(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("parse blob: %w", err)})
		return result
	}

	schema, err := compileSchema(opts.SchemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
	} else {
		result.UsedSchema = true
		if err := schema.Validate(doc); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
		}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		// The schema already reported the shape problem.
		if !result.UsedSchema {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("decode tasks: %w", err)})
		}
		return result
	}
	result.Tasks = len(tasks)
	validateMinimal(tasks, result, !result.UsedSchema)

	return result
}

// validateMinimal applies checks that do not need a schema. Field checks run
// only when full is set, so schema errors are not reported twice.
func validateMinimal(tasks []Task, result *ValidationResult, full bool) {
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if full {
			if t.ID == "" {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")})
			}
			if err := DraftOf(t).Validate(); err != nil {
				result.Valid = false
				var ve *ValidationError
				if errors.As(err, &ve) {
					result.Errors = append(result.Errors, &ValidationError{Path: path + "." + ve.Path, Err: ve.Err})
				} else {
					result.Errors = append(result.Errors, err)
				}
			}
		}
		if t.ID == "" {
			continue
		}
		if first, ok := seen[t.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %q (first seen at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Errorf("load embedded schema: %w", err)
		}
		return compiler.Compile(embeddedSchemaURL)
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return compiler.Compile(absPath)
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
