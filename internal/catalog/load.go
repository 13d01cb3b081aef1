package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region file-format
// File is the YAML document shape for a question catalog.
type File struct {
	Questions []QuestionSpec `yaml:"questions"`
}

// #endregion file-format

// #region load
// Parse compiles a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("parse catalog: no questions")
	}

	b := NewBuilder()
	for _, q := range f.Questions {
		b.Add(q)
	}
	return b.Build()
}

// Load reads and compiles a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// #endregion load
