package interview

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"medical-interview-agent/internal/lang"
)

// CleanQuestion rewrites a compound question so it asks exactly one thing:
// everything past the first clause is dropped and the question mark
// restored. Detection is language-specific (a conjunction opening a second
// clause, a second wh-clause spliced on with a comma, or more than one
// question mark). The second return reports whether a correction happened
// so the caller can log it; sanitizing never fails.
func CleanQuestion(text, language string) (string, bool) {
	pack := lang.Get(language)
	text = strings.TrimSpace(text)
	if text == "" {
		return text, false
	}

	original := text

	// More than one question mark: keep the first question only.
	if strings.Count(text, "?") > 1 {
		text = text[:strings.Index(text, "?")+1]
	}

	// A conjunction starting a second clause before the question mark.
	if loc := compoundRe(pack).FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[:loc[0]]) + "?"
	}

	// A second wh-clause spliced on with a comma. A second wh-word alone is
	// not enough: subordinate clauses ("where does it hurt when you
	// breathe?") are a single question.
	if idx := secondWhClause(text, pack); idx >= 0 {
		text = strings.TrimRight(strings.TrimSpace(text[:idx]), ",;") + "?"
	}

	return text, text != original
}

func secondWhClause(text string, pack lang.Pack) int {
	locs := whRe(pack).FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return -1
	}
	// The separator may sit between the clauses or be consumed as the
	// second match's leading character.
	if !strings.ContainsAny(text[locs[0][1]:locs[1][1]], ",;") {
		return -1
	}
	return locs[1][0]
}

var (
	reMu          sync.Mutex
	compoundCache = map[string]*regexp.Regexp{}
	whCache       = map[string]*regexp.Regexp{}
)

// \b is ASCII-only in RE2, so the patterns use explicit whitespace to stay
// correct for Cyrillic packs.
func compoundRe(p lang.Pack) *regexp.Regexp {
	reMu.Lock()
	defer reMu.Unlock()
	if re, ok := compoundCache[p.Code]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?i)[\s,]+(?:%s)\s+(?:%s)\s`,
		alternation(p.Conjunctions), alternation(p.SecondClauseWords)))
	compoundCache[p.Code] = re
	return re
}

func whRe(p lang.Pack) *regexp.Regexp {
	reMu.Lock()
	defer reMu.Unlock()
	if re, ok := whCache[p.Code]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`(?i)(?:^|[\s,])(?:%s)\s`,
		alternation(p.WHWords)))
	whCache[p.Code] = re
	return re
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
