// Package bank loads question banks: the built-in Modbus banks shipped with
// the binary and user banks written as YAML or JSON documents.
package bank

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/protoquiz/internal/quiz"
)

//go:embed data/*.yaml data/bank.schema.json
var dataFS embed.FS

// SupportedFormat is the major format version this build reads.
const SupportedFormat = "v1"

var (
	// ErrUnknownBank is returned when a bank id is not registered.
	ErrUnknownBank = errors.New("unknown question bank")

	// ErrUnsupportedFormat is returned for documents whose format version
	// this build cannot read.
	ErrUnsupportedFormat = errors.New("unsupported bank format")

	// ErrDuplicateBank is returned when two banks share an id.
	ErrDuplicateBank = errors.New("duplicate question bank")
)

type document struct {
	Format      string        `json:"format"`
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Topic       string        `json:"topic"`
	Description string        `json:"description"`
	Questions   []questionDoc `json:"questions"`
}

type questionDoc struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

func (d document) toBank() quiz.Bank {
	b := quiz.Bank{
		ID:          d.ID,
		Title:       d.Title,
		Topic:       d.Topic,
		Description: d.Description,
		Questions:   make([]quiz.Question, len(d.Questions)),
	}
	if b.Topic == "" {
		b.Topic = d.Title
	}
	for i, q := range d.Questions {
		b.Questions[i] = quiz.Question{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.Correct,
			Explanation:  q.Explanation,
		}
	}
	return b
}

// Parse decodes a bank document. name is only used to pick the decoder
// (".json" is read as JSON, anything else as YAML) and to label errors.
func Parse(data []byte, name string) (quiz.Bank, error) {
	var raw any
	if strings.EqualFold(filepath.Ext(name), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return quiz.Bank{}, fmt.Errorf("%s: decode json: %w", name, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return quiz.Bank{}, fmt.Errorf("%s: decode yaml: %w", name, err)
		}
	}

	// Round-trip through encoding/json so the validator sees plain JSON
	// values whatever decoder produced them.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: normalize: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: normalize: %w", name, err)
	}

	if err := checkFormat(doc); err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: %w", name, err)
	}

	schema, err := documentSchema()
	if err != nil {
		return quiz.Bank{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: %w: %v", name, quiz.ErrInvalidBank, err)
	}

	var d document
	if err := json.Unmarshal(normalized, &d); err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: decode document: %w", name, err)
	}
	b := d.toBank()
	if err := b.Validate(); err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

// checkFormat reads the format field before schema validation so that a
// document from a newer major version reports ErrUnsupportedFormat rather
// than a list of unknown fields.
func checkFormat(doc any) error {
	m, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: document is not an object", quiz.ErrInvalidBank)
	}
	format, _ := m["format"].(string)
	if format == "" {
		return fmt.Errorf("%w: missing format", quiz.ErrInvalidBank)
	}
	if !semver.IsValid(format) {
		return fmt.Errorf("%w: format %q is not a semantic version", ErrUnsupportedFormat, format)
	}
	if semver.Major(format) != SupportedFormat {
		return fmt.Errorf("%w: %s (this build reads %s.x)", ErrUnsupportedFormat, format, SupportedFormat)
	}
	return nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := dataFS.ReadFile("data/bank.schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("read bank schema: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://bank.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
	})
	return schemaCompiled, schemaErr
}
