package store

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes failure records.
type Codec interface {
	Encode(rec Record) ([]byte, error)
	Decode(data []byte) (Record, error)
}

// JSONCodec encodes records as JSON.
type JSONCodec struct {
	Pretty bool
}

func (c JSONCodec) Encode(rec Record) ([]byte, error) {
	if c.Pretty {
		return json.MarshalIndent(rec, "", "  ")
	}
	return json.Marshal(rec)
}

func (JSONCodec) Decode(data []byte) (Record, error) {
	var rec Record
	err := json.Unmarshal(data, &rec)
	return rec, err
}

// YAMLCodec encodes records as YAML documents.
type YAMLCodec struct{}

func (YAMLCodec) Encode(rec Record) ([]byte, error) {
	return yaml.Marshal(rec)
}

func (YAMLCodec) Decode(data []byte) (Record, error) {
	var rec Record
	err := yaml.Unmarshal(data, &rec)
	return rec, err
}
