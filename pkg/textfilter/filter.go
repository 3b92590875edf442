// Package textfilter cleans generated NPC replies before they reach the
// player: model artifacts are stripped and profanity is softened.
package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps profanity to workplace-friendly alternatives
var replacements = map[string]string{
	"fuck":         "fudge",
	"fucking":      "freaking",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"dick":         "jerk",
	"prick":        "jerk",
	"douchebag":    "jerk",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"bullshit":     "baloney",
	"dumbass":      "dummy",
}

var (
	// speakerPrefix matches a leading "Name:" a model sometimes adds to its own line
	speakerPrefix = regexp.MustCompile(`^\s*\*{0,2}([A-Z][\w.' -]{0,30})\*{0,2}:\s+`)
	whitespaceRun = regexp.MustCompile(`[ \t]+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// ProfanityFilter replaces profanity with softer words, keeping the
// original capitalization.
type ProfanityFilter struct {
	pattern *regexp.Regexp
}

// NewProfanityFilter compiles the word list into a single pattern.
func NewProfanityFilter() *ProfanityFilter {
	words := make([]string, 0, len(replacements))
	for w := range replacements {
		words = append(words, regexp.QuoteMeta(w))
	}
	// longest first so "asshole" wins over "ass"
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	return &ProfanityFilter{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`),
	}
}

func (pf *ProfanityFilter) FilterText(text string) string {
	return pf.pattern.ReplaceAllStringFunc(text, func(match string) string {
		return preserveCase(match, replacements[strings.ToLower(match)])
	})
}

func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	return pf.pattern.MatchString(text)
}

func preserveCase(original, replacement string) string {
	switch {
	case original == "":
		return replacement
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return replacement
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// mixed case: copy the pattern rune by rune
	orig := []rune(original)
	out := []rune(replacement)
	for i := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(out[i])
		}
	}
	return string(out)
}

// CleanReply normalizes a generated reply: it drops a leading speaker
// label, unwraps a reply quoted as a whole, collapses runs of spaces and
// trims the result.
func CleanReply(reply string) string {
	s := strings.TrimSpace(reply)
	s = speakerPrefix.ReplaceAllString(s, "")

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') && !strings.Contains(s[1:len(s)-1], `"`) {
			s = s[1 : len(s)-1]
		}
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Sanitizer applies CleanReply and the profanity filter.
type Sanitizer struct {
	profanity *ProfanityFilter
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{profanity: NewProfanityFilter()}
}

func (s *Sanitizer) Sanitize(reply string) string {
	clean := CleanReply(reply)
	if !s.profanity.ContainsProfanity(clean) {
		return clean
	}
	return s.profanity.FilterText(clean)
}
