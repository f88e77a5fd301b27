package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
)

// Format is a dataset file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
			"unsupported dataset file %q (must be .toml, .json, .yaml, .yml or .xlsx)", path)
	}
}

// Load reads and validates a dataset file. An empty path returns [Builtin].
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Builtin(), nil
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	var d *Dataset
	if format == FormatXLSX {
		d, err = LoadXLSX(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		d, err = Decode(data, format)
	}
	if err != nil {
		return nil, err
	}

	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return d, nil
}

// Decode parses a dataset document. It does not validate it.
func Decode(data []byte, format Format) (*Dataset, error) {
	var d Dataset
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &d)
	case FormatJSON:
		err = json.Unmarshal(data, &d)
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	case FormatXLSX:
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "xlsx datasets must be loaded from a file")
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown dataset format: %s", format)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s dataset", format)
	}
	return &d, nil
}

// Encode writes the dataset in a text format.
func Encode(w io.Writer, d *Dataset, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "cannot encode dataset as %s", format)
	}
}
