// Package mapdata reads and writes world maps stored as YAML or JSON files.
package mapdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/citynav/internal/domain"
)

// ErrUnsupportedFormat is returned for map files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported map file format")

// Format identifies a map file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var mapValidate = validator.New(validator.WithRequiredStructEnabled())

// FormatOf infers the encoding from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the map stored at path. A map without a name is
// named after the file.
func Load(path string) (domain.WorldMap, error) {
	format, err := FormatOf(path)
	if err != nil {
		return domain.WorldMap{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.WorldMap{}, fmt.Errorf("read map file: %w", err)
	}

	m, err := Decode(raw, format)
	if err != nil {
		return domain.WorldMap{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Decode parses and validates raw map bytes.
func Decode(raw []byte, format Format) (domain.WorldMap, error) {
	var m domain.WorldMap
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return domain.WorldMap{}, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return domain.WorldMap{}, err
		}
	default:
		return domain.WorldMap{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := Validate(m); err != nil {
		return domain.WorldMap{}, err
	}
	return m, nil
}

// Encode renders m in the requested format.
func Encode(m domain.WorldMap, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes m to path, replacing the file atomically.
func Save(path string, m domain.WorldMap) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := Validate(m); err != nil {
		return err
	}
	out, err := Encode(m, format)
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp map file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write map file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close map file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace map file: %w", err)
	}
	return nil
}

// Validate checks the structural rules of a map: non-negative identifiers
// and named nodes. Graph integrity (dangling neighbors, duplicates) is left
// to the graph builder, which logs and skips such faults.
func Validate(m domain.WorldMap) error {
	err := mapValidate.Struct(m)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate map: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid map: %s", strings.Join(msgs, "; "))
}
