package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"boxmux/internal/boxerr"
	"boxmux/internal/model"
)

// Load reads and builds the Application from the YAML document at path.
// Parse errors and validation errors are both tagged boxerr.KindConfig /
// boxerr.KindSchema respectively, per Section 4.N's error-kind taxonomy.
func Load(path string) (*model.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, boxerr.New(boxerr.KindIO, path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses and builds an Application from raw YAML bytes, for
// callers that already have the document in memory (tests, embedded
// defaults, the socket `add-panel`/`replace-panel` decoders reusing the
// same box-level unmarshal path).
func LoadBytes(data []byte, source string) (*model.Application, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Section 4.E: "validate against the embedded schema (shape...)"

	var raw rawApplication
	if err := dec.Decode(&raw); err != nil {
		return nil, boxerr.New(boxerr.KindConfig, source, err)
	}

	agg := boxerr.NewAggregator()
	app, err := build(&raw, agg)
	if err != nil {
		return nil, boxerr.New(boxerr.KindSchema, source, err)
	}
	if agg.HasErrors() {
		return nil, boxerr.New(boxerr.KindSchema, source, agg.Err())
	}
	return app, nil
}

// ParseMuxBox decodes a single MuxBox document, the shape used by the
// socket server's `add-panel`/`replace-panel` commands (Section 4.K),
// which carry a `panel` object rather than a full Application.
func ParseMuxBox(data []byte) (*model.MuxBox, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw rawMuxBox
	if err := dec.Decode(&raw); err != nil {
		return nil, boxerr.New(boxerr.KindConfig, "panel", err)
	}
	agg := boxerr.NewAggregator()
	b := buildBox(&raw, "", agg)
	if agg.HasErrors() {
		return nil, boxerr.New(boxerr.KindSchema, "panel", agg.Err())
	}
	return b, nil
}
