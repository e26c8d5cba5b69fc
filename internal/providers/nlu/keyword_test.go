package nlu

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/sandevgo/lingbot/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Language:  "zh",
		Fallbacks: []string{"請繼續輸入您的問題，我在聆聽..."},
		Intents: map[string]catalog.Intent{
			"greetings": {
				Documents: []string{"你好", "嗨", "早安"},
				Answers:   []string{"你好！有什麼我可以幫助你的嗎？"},
			},
			"product_info": {
				Documents: []string{"我想了解%product%", "告訴我關於%product%的資訊", "%product%有什麼特點"},
				Answers:   []string{"關於{{product}}，我們有多種型號可供選擇。您有特定需求嗎？"},
			},
			"people_info": {
				Documents: []string{"誰是%people%", "我想了解%people%"},
				Answers:   []string{"{{people}}是Gay"},
			},
		},
		Entities: map[string]map[string][]string{
			"product": {
				"手機": {"手機", "智能手機", "電話", "iPhone"},
				"電腦": {"電腦", "筆電", "筆記型電腦"},
			},
			"people": {
				"張三": {"張三", "張先生"},
			},
		},
	}
}

func TestKeywordEngine_Classify(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())
	ctx := context.Background()

	tests := []struct {
		name       string
		utterance  string
		wantIntent string
		minScore   float64
	}{
		{name: "exact greeting", utterance: "你好", wantIntent: "greetings", minScore: 1.0},
		{name: "greeting with punctuation", utterance: "你好！", wantIntent: "greetings", minScore: 1.0},
		{name: "product inquiry", utterance: "我想了解手機", wantIntent: "product_info", minScore: 1.0},
		{name: "people inquiry", utterance: "誰是張先生", wantIntent: "people_info", minScore: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Classify(ctx, tt.utterance, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", got.Intent, tt.wantIntent)
			}
			if got.Score < tt.minScore {
				t.Errorf("score = %v, want >= %v", got.Score, tt.minScore)
			}
		})
	}
}

func TestKeywordEngine_NoMatch(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())

	got, err := engine.Classify(context.Background(), "嗯嗯嗯", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Intent != "None" {
		t.Errorf("intent = %q, want None", got.Intent)
	}
	if got.Score != 0 {
		t.Errorf("score = %v, want 0", got.Score)
	}
}

func TestKeywordEngine_EntityExtraction(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())

	got, err := engine.Classify(context.Background(), "我想了解手機", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got.Entities))
	}
	e := got.Entities[0]
	if e.Type != "product" || e.Option != "手機" || e.SourceText != "手機" {
		t.Errorf("unexpected entity: %+v", e)
	}
}

func TestKeywordEngine_SynonymResolvesToCanonical(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())

	got, err := engine.Classify(context.Background(), "我想了解筆電", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got.Entities))
	}
	if got.Entities[0].Option != "電腦" {
		t.Errorf("expected canonical 電腦, got %q", got.Entities[0].Option)
	}
	if got.Entities[0].SourceText != "筆電" {
		t.Errorf("expected source 筆電, got %q", got.Entities[0].SourceText)
	}
}

func TestKeywordEngine_LongestSynonymWins(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())

	got, err := engine.Classify(context.Background(), "告訴我關於筆記型電腦的資訊", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d: %+v", len(got.Entities), got.Entities)
	}
	if got.Entities[0].SourceText != "筆記型電腦" {
		t.Errorf("expected full span 筆記型電腦, got %q", got.Entities[0].SourceText)
	}
	if got.Intent != "product_info" {
		t.Errorf("intent = %q, want product_info", got.Intent)
	}
}

func TestKeywordEngine_CaseInsensitiveLatinSynonym(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())

	got, err := engine.Classify(context.Background(), "我想了解iPhone", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got.Entities))
	}
	if got.Entities[0].Option != "手機" {
		t.Errorf("expected canonical 手機, got %q", got.Entities[0].Option)
	}
	if got.Entities[0].SourceText != "iPhone" {
		t.Errorf("expected original casing iPhone, got %q", got.Entities[0].SourceText)
	}
}

func TestKeywordEngine_WidthChangingRunes(t *testing.T) {
	engine := NewKeywordEngine(testCatalog())

	// İ (U+0130) lowercases to a narrower encoding and Ⱥ (U+023A) to a
	// wider one, so byte offsets in the folded text drift from the
	// original's. The extracted span must still be the exact original
	// substring.
	for _, utterance := range []string{"İ我想了解iPhone", "Ⱥ我想了解iPhone"} {
		got, err := engine.Classify(context.Background(), utterance, nil)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", utterance, err)
		}
		if len(got.Entities) != 1 {
			t.Fatalf("%q: expected 1 entity, got %d: %+v", utterance, len(got.Entities), got.Entities)
		}
		e := got.Entities[0]
		if !utf8.ValidString(e.SourceText) {
			t.Errorf("%q: source text %q is not valid UTF-8", utterance, e.SourceText)
		}
		if e.SourceText != "iPhone" {
			t.Errorf("%q: source text = %q, want iPhone", utterance, e.SourceText)
		}
		if e.Option != "手機" {
			t.Errorf("%q: canonical = %q, want 手機", utterance, e.Option)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"你好", "你好", 1},
		{"", "你好", 0},
		{"你好", "", 0},
		{"嗯", "你", 0},
	}
	for _, tt := range tests {
		if got := similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	// Partial overlap lands strictly between 0 and 1.
	if got := similarity("今天天氣如何", "今天天氣怎樣"); got <= 0 || got >= 1 {
		t.Errorf("expected partial similarity in (0,1), got %v", got)
	}
}
