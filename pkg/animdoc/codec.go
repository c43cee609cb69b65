package animdoc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/btkconv/pkg/encoding"
)

// Format is a text serialization of a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "jsonc":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension written for the format.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// MarshalYAML writes keyframes inline, e.g. [0, 1, 0, 0].
func (k Keyframe) MarshalYAML() (any, error) {
	var node yaml.Node
	if err := node.Encode([]float32(k)); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return &node, nil
}

// Decode reads a document. A leading byte order mark is ignored and JSON
// may contain comments and trailing commas.
func Decode(r io.Reader, f Format) (*Document, error) {
	data, err := io.ReadAll(encoding.NewBOMReader(r))
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var doc Document
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return &doc, nil
}

// Encode writes doc with the given indent width.
func Encode(w io.Writer, doc *Document, f Format, indent int) error {
	if indent <= 0 {
		indent = 4
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
		if err != nil {
			return fmt.Errorf("encoding JSON document: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(indent)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML document: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// ReadFile reads a document, choosing the format from the extension.
func ReadFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer file.Close()
	return Decode(file, f)
}

// WriteFile writes doc in format f.
func WriteFile(path string, doc *Document, f Format, indent int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	if err := Encode(file, doc, f, indent); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
