package chat

import (
	"strings"

	"github.com/sandevgo/lingbot/internal/core"
)

// RenderTemplate substitutes every {{entityType}} placeholder with the
// resolved value of the first entity of that type in the list. Placeholders
// whose type is absent from the list stay literal in the output; the caller
// sees exactly what the catalog author wrote.
func RenderTemplate(template string, entities []core.EntityMatch) string {
	if len(entities) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	seen := make(map[string]struct{}, len(entities))
	out := template
	for _, e := range entities {
		if e.Type == "" {
			continue
		}
		// First occurrence of a type wins.
		if _, dup := seen[e.Type]; dup {
			continue
		}
		seen[e.Type] = struct{}{}
		out = strings.ReplaceAll(out, "{{"+e.Type+"}}", e.Resolved())
	}
	return out
}
