package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/waterfall/pkg/errors"
)

// Format identifies a model file encoding.
type Format string

// Supported model file formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the encoding from a file extension.
// Unknown extensions fall back to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// Decode reads a model in the given format from r and validates it.
func Decode(r io.Reader, f Format) (*Model, error) {
	var m Model
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&m)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&m)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&m)
	case FormatXLSX:
		var x *Model
		if x, err = decodeXLSX(r); err == nil {
			m = *x
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown model format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode %s", f)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, m *Model, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(m); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	case FormatXLSX:
		return encodeXLSX(w, m)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown model format %q", f)
	}
}

// ReadFile reads and validates a model file, choosing the decoder by extension.
func ReadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteFile writes m to path, choosing the encoder by extension.
func WriteFile(m *Model, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m, FormatFromPath(path)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
