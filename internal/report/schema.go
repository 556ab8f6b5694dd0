package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed questions.schema.json
var schemaJSON []byte

const schemaURL = "questions.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load dataset schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile dataset schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// CheckSchema validates raw dataset JSON against the bundled schema. It
// catches shape problems (wrong field names, bad enums) before Validate
// looks at content.
func CheckSchema(raw []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode dataset for schema check: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("dataset does not match schema: %w", err)
	}
	return nil
}

// Schema returns the bundled JSON Schema document.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}
