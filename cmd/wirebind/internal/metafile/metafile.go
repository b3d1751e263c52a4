// Package metafile loads endpoint metadata files in JSON or YAML form.
package metafile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/wirebind/wirebind/meta"
)

// Load reads a metadata file and decodes it. The format is picked by file
// extension: .yaml and .yml files are converted to JSON first, everything
// else is treated as JSON.
func Load(path string) (*meta.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	md, err := meta.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	slog.Debug("loaded metadata", "path", path, "decls", len(md.Decls), "endpoints", len(md.Endpoints))
	return md, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
