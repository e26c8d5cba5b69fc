package chat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/lingbot/internal/core"
)

// Self-introduction patterns, checked in order before the classifier ever
// runs. A textual match is a hard override: the utterance never reaches the
// engine.
var introPatterns = []*regexp.Regexp{
	regexp.MustCompile(`我是\s*(.+)$`),
	regexp.MustCompile(`我叫\s*(.+)$`),
	regexp.MustCompile(`我的名字是\s*(.+)$`),
	regexp.MustCompile(`你可以叫我\s*(.+)$`),
	regexp.MustCompile(`我姓\s*(.+)$`),
}

var introGreetings = []string{
	"您好，%s。我是您的智能助手，有什麼我可以幫您的嗎？",
	"很高興認識您，%s！我能為您提供什麼幫助呢？",
	"%s，您好！我是您的AI助手，請問有什麼需要協助的嗎？",
	"歡迎，%s！今天有什麼我能為您效勞的嗎？",
	"嗨，%s！很高興為您服務，請問有什麼問題嗎？",
}

// Introduction is the synthetic outcome of a matched self-introduction:
// always full confidence, with the extracted name carried as a people entity.
type Introduction struct {
	Name   string
	Answer string
	Result core.Classification
}

// IntroExtractor recognizes self-introduction utterances ahead of the
// classifier and greets the user by the extracted name.
type IntroExtractor struct {
	picker Picker
}

func NewIntroExtractor(picker Picker) *IntroExtractor {
	return &IntroExtractor{picker: picker}
}

// Match tries the introduction patterns in order. The second return is false
// when no pattern matches, which is the normal case and not an error.
func (e *IntroExtractor) Match(message string) (Introduction, bool) {
	for _, pattern := range introPatterns {
		m := pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}

		greeting := introGreetings[e.picker.Pick(len(introGreetings))]
		return Introduction{
			Name:   name,
			Answer: fmt.Sprintf(greeting, name),
			Result: core.Classification{
				Intent: core.IntroductionIntent,
				Score:  1,
				Entities: []core.EntityMatch{
					{Type: "people", SourceText: name},
				},
			},
		}, true
	}
	return Introduction{}, false
}
