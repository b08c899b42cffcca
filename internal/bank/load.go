package bank

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuxquiz/internal/model"
)

// fileEntry is the on-disk shape of a question: text is shown, actual is typed.
type fileEntry struct {
	Text   string `toml:"text" yaml:"text"`
	Actual string `toml:"actual" yaml:"actual"`
}

type fileBank struct {
	Questions []fileEntry `toml:"questions" yaml:"questions"`
}

// Load reads a TOML or YAML bank, picking the decoder by file extension.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	b, err := Parse(data, formatFor(path))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	return b, nil
}

// Format names a bank file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	}
}

// IsBankFile reports whether a file name has a supported bank extension.
func IsBankFile(name string) bool {
	switch formatFor(name) {
	case FormatTOML, FormatYAML:
		return true
	default:
		return false
	}
}

// Parse decodes bank contents in the given format.
func Parse(data []byte, format Format) (*Bank, error) {
	var fb fileBank
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&fb); err != nil {
			return nil, fmt.Errorf("failed to decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fb); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported bank format %q (use .toml, .yaml or .yml)", format)
	}
	questions := make([]model.Question, 0, len(fb.Questions))
	for _, e := range fb.Questions {
		questions = append(questions, model.Question{Prompt: e.Text, Answer: e.Actual})
	}
	return New(questions)
}

// WriteTOML encodes questions in the TOML bank format.
func WriteTOML(w io.Writer, questions []model.Question) error {
	fb := fileBank{Questions: make([]fileEntry, 0, len(questions))}
	for _, q := range questions {
		fb.Questions = append(fb.Questions, fileEntry{Text: q.Prompt, Actual: q.Answer})
	}
	return toml.NewEncoder(w).Encode(fb)
}
