package catalog

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleetdata/vparams/errors"
)

// LoadRawDocument reads a YAML document into a generic mapping for the
// schema-validation stage, which needs the untyped structure to report
// violations by path.
func LoadRawDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrDocumentMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(errors.ErrDocumentParse, "%s: %v", path, err)
	}
	return raw, nil
}

// ParseParameterDocument decodes parameter catalog YAML into typed records.
// Type mismatches surface as ErrDocumentParse; missing fields decode to zero
// values and are caught by the schema stage.
func ParseParameterDocument(data []byte) (*ParameterDocument, error) {
	var doc ParameterDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrDocumentParse, "parameter document: %v", err)
	}
	return &doc, nil
}

// ParseProtocolDocument decodes protocol catalog YAML into typed records.
func ParseProtocolDocument(data []byte) (*ProtocolDocument, error) {
	var doc ProtocolDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrDocumentParse, "protocol document: %v", err)
	}
	return &doc, nil
}

// LoadParameterDocument reads and decodes the parameter catalog at path.
func LoadParameterDocument(path string) (*ParameterDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrDocumentMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return ParseParameterDocument(data)
}

// LoadProtocolDocument reads and decodes the protocol catalog at path.
func LoadProtocolDocument(path string) (*ProtocolDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrDocumentMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return ParseProtocolDocument(data)
}

// Marshal renders the document back to YAML, preserving list order.
func (d *ParameterDocument) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "marshal parameter document")
	}
	return out, nil
}

// Marshal renders the document back to YAML, preserving list order.
func (d *ProtocolDocument) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "marshal protocol document")
	}
	return out, nil
}

// RawFromParameterDocument converts a typed document back into the generic
// mapping form the schema validator consumes. Used when validating in-memory
// merge results that never existed on disk.
func RawFromParameterDocument(doc *ParameterDocument) (map[string]interface{}, error) {
	return rawRoundTrip(doc)
}

// RawFromProtocolDocument converts a typed document back into generic mapping form.
func RawFromProtocolDocument(doc *ProtocolDocument) (map[string]interface{}, error) {
	return rawRoundTrip(doc)
}

func rawRoundTrip(doc interface{}) (map[string]interface{}, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "remarshal document")
	}
	return raw, nil
}
