package catalog

import "fmt"

// Intent is one named category of user purpose: the utterances that train or
// match it and the answer templates it replies with. Answer templates may
// contain {{entityType}} placeholders.
type Intent struct {
	Documents []string `yaml:"documents"`
	Answers   []string `yaml:"answers"`
}

// Catalog is the full conversational corpus: intents with their answers,
// entity dictionaries (type -> canonical value -> synonyms) and the fallback
// pool used when no confident classification exists.
type Catalog struct {
	Language  string                         `yaml:"language"`
	Fallbacks []string                       `yaml:"fallbacks"`
	Intents   map[string]Intent              `yaml:"intents"`
	Entities  map[string]map[string][]string `yaml:"entities"`
}

func (c *Catalog) Validate() error {
	if len(c.Fallbacks) == 0 {
		return fmt.Errorf("catalog has no fallback answers")
	}
	if len(c.Intents) == 0 {
		return fmt.Errorf("catalog has no intents")
	}
	for name, intent := range c.Intents {
		if len(intent.Answers) == 0 {
			return fmt.Errorf("intent %q has no answers", name)
		}
	}
	for entityType, options := range c.Entities {
		if len(options) == 0 {
			return fmt.Errorf("entity type %q has no options", entityType)
		}
		for canonical, synonyms := range options {
			if canonical == "" {
				return fmt.Errorf("entity type %q has an empty canonical value", entityType)
			}
			if len(synonyms) == 0 {
				return fmt.Errorf("entity %q/%q has no synonyms", entityType, canonical)
			}
		}
	}
	return nil
}

// Answers returns the answer templates for an intent, or nil when the intent
// is unknown to the catalog.
func (c *Catalog) AnswersFor(intent string) []string {
	def, ok := c.Intents[intent]
	if !ok {
		return nil
	}
	return def.Answers
}
