package nlu

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandevgo/lingbot/internal/catalog"
	"github.com/sandevgo/lingbot/internal/core"
)

// KeywordEngine is a dictionary-driven classifier over the intent catalog.
// It extracts entities by synonym lookup, substitutes them with %type%
// placeholders and scores the result against each intent's documents using
// rune-bigram similarity. It needs no training and no tokenizer, which makes
// it a usable default for short Chinese utterances; a statistical engine can
// be swapped in behind the same Classifier interface.
type KeywordEngine struct {
	intents map[string]intentDocs
	dict    []dictEntry
}

type intentDocs struct {
	name string
	docs []string
}

type dictEntry struct {
	entityType string
	canonical  string
	synonym    string
}

func NewKeywordEngine(cat *catalog.Catalog) *KeywordEngine {
	e := &KeywordEngine{
		intents: make(map[string]intentDocs, len(cat.Intents)),
	}

	for name, intent := range cat.Intents {
		docs := make([]string, 0, len(intent.Documents))
		for _, d := range intent.Documents {
			docs = append(docs, normalize(d))
		}
		e.intents[name] = intentDocs{name: name, docs: docs}
	}

	for entityType, options := range cat.Entities {
		for canonical, synonyms := range options {
			for _, syn := range synonyms {
				e.dict = append(e.dict, dictEntry{
					entityType: entityType,
					canonical:  canonical,
					synonym:    syn,
				})
			}
		}
	}
	// Longest synonym first, so 筆記型電腦 wins over 電腦.
	sort.SliceStable(e.dict, func(i, j int) bool {
		return len(e.dict[i].synonym) > len(e.dict[j].synonym)
	})

	return e
}

func (e *KeywordEngine) Classify(ctx context.Context, utterance string, contextHint map[string]string) (core.Classification, error) {
	entities, template := e.extractEntities(utterance)

	normUtterance := normalize(utterance)
	normTemplate := normalize(template)

	best := core.Classification{Intent: "None", Score: 0, Entities: entities}
	for name, intent := range e.intents {
		for _, doc := range intent.docs {
			score := similarity(normTemplate, doc)
			if s := similarity(normUtterance, doc); s > score {
				score = s
			}
			if score > best.Score {
				best.Intent = name
				best.Score = score
			}
		}
	}

	return best, nil
}

// extractEntities scans the utterance against the synonym dictionary and
// returns the matches in order of appearance, plus the utterance with each
// matched span replaced by its %type% placeholder.
func (e *KeywordEngine) extractEntities(utterance string) ([]core.EntityMatch, string) {
	lower, toOrig := foldWithOffsets(utterance)

	type span struct {
		start, end int // byte offsets into utterance
		match      core.EntityMatch
		entityType string
	}
	var spans []span

	// Search and claim in folded space; map back for the source spans.
	claimed := make([]bool, len(lower))
	for _, entry := range e.dict {
		needle := strings.ToLower(entry.synonym)
		offset := 0
		for {
			idx := strings.Index(lower[offset:], needle)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(needle)
			offset = end

			if rangeClaimed(claimed, start, end) {
				continue
			}
			for i := start; i < end; i++ {
				claimed[i] = true
			}
			origStart, origEnd := toOrig[start], toOrig[end]
			spans = append(spans, span{
				start:      origStart,
				end:        origEnd,
				entityType: entry.entityType,
				match: core.EntityMatch{
					Type:       entry.entityType,
					Option:     entry.canonical,
					SourceText: utterance[origStart:origEnd],
				},
			})
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	entities := make([]core.EntityMatch, 0, len(spans))
	var sb strings.Builder
	prev := 0
	for _, s := range spans {
		entities = append(entities, s.match)
		sb.WriteString(utterance[prev:s.start])
		sb.WriteString("%" + s.entityType + "%")
		prev = s.end
	}
	sb.WriteString(utterance[prev:])

	if len(entities) == 0 {
		return nil, utterance
	}
	return entities, sb.String()
}

// foldWithOffsets lowercases s rune by rune and records, for every byte
// position in the folded string plus the end position, the byte position of
// the corresponding rune in s. Lowercasing can change a rune's encoded width
// (İ shrinks, Ⱥ grows), so folded offsets must never index s directly.
func foldWithOffsets(s string) (string, []int) {
	var sb strings.Builder
	sb.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		lr := unicode.ToLower(r)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			offsets = append(offsets, i)
		}
		sb.WriteRune(lr)
	}
	offsets = append(offsets, len(s))
	return sb.String(), offsets
}

func rangeClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

// normalize lowercases and strips whitespace and punctuation so that
// 「你好！」 and 「你好」 compare equal.
func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// similarity is the Dice coefficient over rune bigrams, with an exact-match
// and containment shortcut for inputs shorter than one bigram.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		if strings.Contains(a, b) || strings.Contains(b, a) {
			shorter, longer := len([]rune(a)), len([]rune(b))
			if shorter > longer {
				shorter, longer = longer, shorter
			}
			return float64(shorter) / float64(longer)
		}
		return 0
	}

	counts := make(map[string]int, len(aBigrams))
	for _, g := range aBigrams {
		counts[g]++
	}
	overlap := 0
	for _, g := range bBigrams {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}

	return 2 * float64(overlap) / float64(len(aBigrams)+len(bBigrams))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}
