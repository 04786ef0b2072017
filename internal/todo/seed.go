package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/civil"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/focusflow/internal/urgency"
	"github.com/nibzard/focusflow/internal/utils"
)

const seedSchemaURL = "focusflow-seed.schema.json"

const seedSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "focusflow-seed.schema.json",
  "title": "FocusFlow seed file",
  "type": "object",
  "required": ["schema_version", "tasks"],
  "additionalProperties": false,
  "properties": {
    "schema_version": {"const": 1},
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "additionalProperties": false,
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "due_date": {"type": "string", "format": "date"},
          "due_in_days": {"type": "integer"},
          "priority": {"enum": ["low", "medium", "high"]},
          "completed": {"type": "boolean"}
        },
        "not": {"required": ["due_date", "due_in_days"]}
      }
    }
  }
}
`

// SeedSchema returns the JSON Schema for seed files.
func SeedSchema() string {
	return seedSchema
}

// SeedFile is the on-disk seed format.
type SeedFile struct {
	SchemaVersion int        `json:"schema_version"`
	Tasks         []SeedTask `json:"tasks"`
}

// SeedTask is one seeded task. DueInDays is relative to the load day.
type SeedTask struct {
	Title     string   `json:"title"`
	DueDate   string   `json:"due_date,omitempty"`
	DueInDays *int     `json:"due_in_days,omitempty"`
	Priority  Priority `json:"priority,omitempty"`
	Completed bool     `json:"completed,omitempty"`
}

// LoadSeed reads, schema-checks and converts a seed file. Relative due dates
// resolve against today.
func LoadSeed(path string, today civil.Date) ([]SeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data, today)
}

// ParseSeed is LoadSeed for in-memory data.
func ParseSeed(data []byte, today civil.Date) ([]SeedEntry, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := validateSeedSchema(doc); err != nil {
		return nil, err
	}

	var f SeedFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	entries := make([]SeedEntry, 0, len(f.Tasks))
	for i, st := range f.Tasks {
		entry := SeedEntry{
			Draft:     Draft{Title: st.Title, Priority: st.Priority},
			Completed: st.Completed,
		}
		switch {
		case st.DueInDays != nil:
			due := today.AddDays(*st.DueInDays)
			entry.Due = &due
		case st.DueDate != "":
			due, err := urgency.ParseDate(st.DueDate)
			if err != nil {
				return nil, &ValidationError{Path: fmt.Sprintf("tasks[%d].due_date", i), Err: err}
			}
			entry.Due = due
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func validateSeedSchema(doc interface{}) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(seedSchemaURL, strings.NewReader(seedSchema)); err != nil {
		return fmt.Errorf("load seed schema: %w", err)
	}
	schema, err := compiler.Compile(seedSchemaURL)
	if err != nil {
		return fmt.Errorf("compile seed schema: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: utils.FieldPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}
