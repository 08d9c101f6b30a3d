package texttospeech

import (
	"regexp"
	"strings"
	"unicode"
)

// Synthesis input arrives as independent fragments of a model token stream.
// Normalization is applied per fragment, never across fragment boundaries: a
// sentence split across two fragments may be normalized inconsistently. That
// is the accepted trade for zero buffering and zero added latency.

// NormalizeFragment prepares one fragment of streamed text for speech
// synthesis. Transforms, in order:
//
//  1. ASCII "?" and "!" become their full-width forms.
//  2. A trailing run of leftover Latin-script text glued after Japanese
//     content is stripped (see trailingLatinRules). Skipped entirely for
//     fragments without Japanese content.
//  3. A line break is inserted after each terminal sentence mark that is
//     immediately followed by a non-whitespace character.
//  4. Runs of three or more line breaks collapse to two.
func NormalizeFragment(fragment string) string {
	fragment = asciiPunctuation.Replace(fragment)
	fragment = stripTrailingLatinRun(fragment)
	fragment = breakAfterSentenceEnd(fragment)
	return collapseBlankLines(fragment)
}

// NormalizeChunks lifts NormalizeFragment over a fragment sequence. The
// output has the same length and order as the input; iteration stops as soon
// as the consumer stops taking fragments.
func NormalizeChunks(fragments func(func(string) bool)) func(func(string) bool) {
	return func(yield func(string) bool) {
		for fragment := range fragments {
			if !yield(NormalizeFragment(fragment)) {
				return
			}
		}
	}
}

var asciiPunctuation = strings.NewReplacer("?", "？", "!", "！")

// japaneseScript gates the trailing-run stripping: fragments without any
// Japanese content are left alone so purely-Latin output is never corrupted.
var japaneseScript = regexp.MustCompile(`[\p{Hiragana}\p{Katakana}\p{Han}ー]`)

// trailingLatinRule strips one shape of leftover Latin-script text from the
// end of a fragment. Rules are independent so each one's precedence can be
// tested on its own.
type trailingLatinRule struct {
	name    string
	pattern *regexp.Regexp
	// replacement keeps the capture the rule preserves, if any.
	replacement string
}

const latinRun = `[A-Za-z0-9'’,.!?！？\- ]`

// Tried in order, first match wins.
var trailingLatinRules = []trailingLatinRule{
	{
		// 5+ Latin characters after a terminal sentence mark, optionally
		// whitespace-separated; the mark stays.
		name:        "after sentence end",
		pattern:     regexp.MustCompile(`([。！？])\s*[A-Za-z]` + latinRun + `{4,}$`),
		replacement: "$1",
	},
	{
		// 7+ Latin characters split off by whitespace; run and whitespace go.
		name:        "whitespace separated",
		pattern:     regexp.MustCompile(`\s+[A-Za-z]` + latinRun + `{6,}$`),
		replacement: "",
	},
	{
		// 5+ Latin characters glued straight onto a Japanese character; the
		// Japanese character stays.
		name:        "glued",
		pattern:     regexp.MustCompile(`([\p{Hiragana}\p{Katakana}\p{Han}ー])[A-Za-z]` + latinRun + `{4,}$`),
		replacement: "$1",
	},
}

func stripTrailingLatinRun(fragment string) string {
	if !japaneseScript.MatchString(fragment) {
		return fragment
	}

	for _, rule := range trailingLatinRules {
		if rule.pattern.MatchString(fragment) {
			return rule.pattern.ReplaceAllString(fragment, rule.replacement)
		}
	}

	return fragment
}

func isSentenceEnd(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func breakAfterSentenceEnd(fragment string) string {
	runes := []rune(fragment)

	var builder strings.Builder
	builder.Grow(len(fragment))
	for i, r := range runes {
		builder.WriteRune(r)
		if isSentenceEnd(r) && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			builder.WriteRune('\n')
		}
	}

	return builder.String()
}

var blankLineRun = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(fragment string) string {
	return blankLineRun.ReplaceAllString(fragment, "\n\n")
}

// StripMarkupFragment removes markup asterisks from a fragment.
//
// Deprecated: (since v0.2.0) use NormalizeFragment instead, which also
// handles punctuation conversion and trailing foreign-language cleanup.
func StripMarkupFragment(fragment string) string {
	return strings.ReplaceAll(fragment, "*", "")
}
