package validate

import (
	"embed"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fleetdata/vparams/errors"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

// SchemaValidator checks raw documents against the two declarative shape
// descriptions (JSON Schema draft-07). Violations are collected in one pass;
// validation never stops at the first non-conforming element.
type SchemaValidator struct {
	parameters *gojsonschema.Schema
	protocols  *gojsonschema.Schema
}

// NewSchemaValidator compiles the schemas embedded in the binary.
func NewSchemaValidator() (*SchemaValidator, error) {
	paramsData, err := embeddedSchemas.ReadFile("schemas/parameters_schema.json")
	if err != nil {
		return nil, errors.Wrap(err, "read embedded parameters schema")
	}
	protosData, err := embeddedSchemas.ReadFile("schemas/protocols_schema.json")
	if err != nil {
		return nil, errors.Wrap(err, "read embedded protocols schema")
	}
	return newSchemaValidator(paramsData, protosData)
}

// NewSchemaValidatorFromFiles compiles schemas from explicit file paths,
// overriding the embedded ones. Empty paths fall back to the embedded schema.
func NewSchemaValidatorFromFiles(paramsPath, protosPath string) (*SchemaValidator, error) {
	paramsData, err := readSchemaFile(paramsPath, "schemas/parameters_schema.json")
	if err != nil {
		return nil, err
	}
	protosData, err := readSchemaFile(protosPath, "schemas/protocols_schema.json")
	if err != nil {
		return nil, err
	}
	return newSchemaValidator(paramsData, protosData)
}

func readSchemaFile(path, embeddedName string) ([]byte, error) {
	if path == "" {
		data, err := embeddedSchemas.ReadFile(embeddedName)
		if err != nil {
			return nil, errors.Wrapf(err, "read embedded schema %s", embeddedName)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read schema file %s", path)
	}
	return data, nil
}

func newSchemaValidator(paramsData, protosData []byte) (*SchemaValidator, error) {
	paramsSchema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(paramsData))
	if err != nil {
		return nil, errors.Wrap(err, "compile parameters schema")
	}
	protosSchema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(protosData))
	if err != nil {
		return nil, errors.Wrap(err, "compile protocols schema")
	}
	return &SchemaValidator{parameters: paramsSchema, protocols: protosSchema}, nil
}

// ValidateParameterDocument checks a raw parameter document. Returns validity
// and one message per violation, each naming the element path and rule.
func (v *SchemaValidator) ValidateParameterDocument(raw interface{}) (bool, []string) {
	return v.validate(v.parameters, raw, "parameters")
}

// ValidateProtocolDocument checks a raw protocol document.
func (v *SchemaValidator) ValidateProtocolDocument(raw interface{}) (bool, []string) {
	return v.validate(v.protocols, raw, "protocols")
}

// ValidateParameterCandidate checks an in-memory candidate batch before it is
// appended to the parameter document. Same shape description, same semantics.
func (v *SchemaValidator) ValidateParameterCandidate(candidate interface{}) (bool, []string) {
	return v.validate(v.parameters, candidate, "parameter candidate")
}

// ValidateProtocolCandidate checks an in-memory candidate batch before it is
// appended to the protocol document.
func (v *SchemaValidator) ValidateProtocolCandidate(candidate interface{}) (bool, []string) {
	return v.validate(v.protocols, candidate, "protocol candidate")
}

func (v *SchemaValidator) validate(schema *gojsonschema.Schema, doc interface{}, docName string) (bool, []string) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return false, []string{fmt.Sprintf("%s schema validation failed: %v", docName, err)}
	}

	if result.Valid() {
		return true, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		errs = append(errs, fmt.Sprintf("%s validation error at '%s': %s",
			docName, resultErr.Field(), resultErr.Description()))
	}
	return false, errs
}
