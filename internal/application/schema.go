package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// dataSchema pins the persisted layout of Data: an object of task objects,
// each holding page objects.
const dataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "additionalProperties": { "type": "object" }
  }
}`

const dataSchemaURL = "https://apply-wizard.local/schemas/application-data.schema.json"

var (
	compiledOnce sync.Once
	compiled     *jsonschema.Schema
	compileErr   error
)

func dataValidator() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(dataSchemaURL, strings.NewReader(dataSchema)); err != nil {
			compileErr = fmt.Errorf("loading data schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(dataSchemaURL)
	})
	return compiled, compileErr
}

// DecodeData validates raw persisted JSON against the task → page → body
// layout and decodes it. A null or empty payload decodes to empty Data.
func DecodeData(raw []byte) (Data, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Data{}, nil
	}

	schema, err := dataValidator()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing application data: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("application data has an invalid shape: %w", err)
	}

	var data Data
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("decoding application data: %w", err)
	}
	if data == nil {
		data = Data{}
	}
	return data, nil
}

// EncodeData renders Data in its persisted layout.
func EncodeData(d Data) ([]byte, error) {
	if d == nil {
		d = Data{}
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding application data: %w", err)
	}
	return raw, nil
}
