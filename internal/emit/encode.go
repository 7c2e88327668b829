package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/vk/substationc/internal/entity"
	"gopkg.in/yaml.v3"
)

var prototypes = []entity.Entity{
	&entity.Bus{},
	&entity.Bay{},
	&entity.Breaker{},
	&entity.Disconnector{},
	&entity.Transformer{},
	&entity.Line{},
	&entity.Coupler{},
}

// Format selects the serialisation of an emitted document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML}
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want json or yaml)", s)
}

// Extension returns the file extension, with the dot, for documents in f.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode document as JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode document as YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// Schema returns the JSON Schema describing a Document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(&Document{})
	s.Title = "substationc document"
	return s
}

// JSONSchemaExtend narrows the attributes of a record to the attribute sets
// of the known entity kinds.
func (EntityRecord) JSONSchemaExtend(s *jsonschema.Schema) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}

	if kind, ok := s.Properties.Get("kind"); ok {
		for _, p := range prototypes {
			kind.Enum = append(kind.Enum, string(p.Kind()))
		}
	}
	attrs, ok := s.Properties.Get("attributes")
	if !ok {
		return
	}
	for _, p := range prototypes {
		sub := r.Reflect(p)
		sub.Version = ""
		sub.Title = string(p.Kind())
		attrs.OneOf = append(attrs.OneOf, sub)
	}
}
