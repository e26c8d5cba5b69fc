package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/sandevgo/lingbot/pkg/log"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Load reads a catalog from path, or falls back to the embedded default
// corpus when path is empty.
func Load(ctx context.Context, path string) (*Catalog, error) {
	data := defaultCatalog
	source := "embedded"

	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		source = path
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	log.FromCtx(ctx).Info().
		Str("source", source).
		Int("intents", len(c.Intents)).
		Int("entity_types", len(c.Entities)).
		Msg("loaded intent catalog")
	return &c, nil
}
