// Package sanitizer strips bilingual (Russian/English) annotations from
// Markdown documents, leaving English-only text. It runs a single
// line-oriented pass driven by a two-state automaton plus an ordered table
// of rewrite rules, then collapses runs of blank lines.
package sanitizer

import (
	"regexp"
	"strings"
)

// state is the automaton state while scanning lines.
type state int

const (
	// stateEmit: lines pass through the rewrite rules and are emitted.
	stateEmit state = iota
	// stateSkip: lines are discarded until a resume marker appears.
	stateSkip
)

// skipTriggers are substrings that mark a line as the start of a
// Russian-language block. The line itself is discarded and the automaton
// enters stateSkip.
var skipTriggers = []string{
	"RU:",
	"Назначение:",
	"Паттерн",
	"Конкретные",
	"Абстрактная Фабрика",
	"объектов",
}

// resumePrefixes end a skip block when a trimmed line starts with one of
// them. Blank lines and code-fence lines also resume (see isResume).
var resumePrefixes = []string{
	"EN:",
	"class ",
	"def ",
	"from ",
	"import ",
	"#include",
	"*/",
}

// rewriteRule is one entry of the per-line transformation table. Rules are
// applied in order; each replaces its matches with the empty string.
type rewriteRule struct {
	name string
	re   *regexp.Regexp
}

var rewriteRules = []rewriteRule{
	// Drop the EN: marker, keep the rest of the line.
	{"en-marker", regexp.MustCompile(`\s*EN:\s*`)},
	// Drop an RU: marker and everything after it.
	{"ru-tail", regexp.MustCompile(`\s*RU:\s*.*`)},
	// Drop any run of Cyrillic characters and everything after it.
	{"cyrillic-tail", regexp.MustCompile(`\p{Cyrillic}+.*`)},
	// Fixed Russian words and phrases, case-insensitive, tail included.
	{"phrase-purpose", regexp.MustCompile(`(?i)Назначение:.*`)},
	{"phrase-pattern", regexp.MustCompile(`(?i)Паттерн.*`)},
	{"phrase-own-class", regexp.MustCompile(`(?i)собственный класс.*`)},
	{"phrase-execution", regexp.MustCompile(`(?i)исполнения программы.*`)},
	{"phrase-concrete", regexp.MustCompile(`(?i)Конкретные.*`)},
	{"phrase-abstract", regexp.MustCompile(`(?i)Абстрактная.*`)},
	{"phrase-objects", regexp.MustCompile(`(?i)объектов.*`)},
	{"phrase-interface", regexp.MustCompile(`(?i)интерфейс.*`)},
	{"phrase-algorithms", regexp.MustCompile(`(?i)алгоритмов.*`)},
	// Comment markers left with no content collapse to an empty line.
	{"bare-star", regexp.MustCompile(`^\s*\*\s*$`)},
	{"bare-slashes", regexp.MustCompile(`^\s*//\s*$`)},
	{"bare-hash", regexp.MustCompile(`^\s*#\s*$`)},
}

// hasSkipTrigger reports whether line starts a Russian-language block.
func hasSkipTrigger(line string) bool {
	for _, t := range skipTriggers {
		if strings.Contains(line, t) {
			return true
		}
	}
	return false
}

// isResume reports whether line ends a skip block. Structural markers
// (declarations, comment terminators), blank lines, code fences, and the
// EN: prefix all resume normal processing.
func isResume(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.Contains(line, "```") {
		return true
	}
	for _, p := range resumePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// rewrite applies the rule table to one line.
func rewrite(line string) string {
	for _, r := range rewriteRules {
		line = r.re.ReplaceAllString(line, "")
	}
	return line
}

// Clean returns content with Russian-language lines and translation markers
// removed. Cleaning is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	st := stateEmit

	for _, line := range lines {
		// Trigger check comes first: a Russian line re-arms skipping even
		// while already inside a skip block.
		if hasSkipTrigger(line) {
			st = stateSkip
			continue
		}
		if st == stateSkip {
			if !isResume(line) {
				continue
			}
			st = stateEmit
		}

		cleaned := rewrite(line)

		// Drop lines that stripping emptied out; lines that were blank to
		// begin with are preserved.
		if strings.TrimSpace(cleaned) == "" && strings.TrimSpace(line) != "" {
			continue
		}
		out = append(out, cleaned)
	}

	return strings.Join(collapseBlankRuns(out), "\n")
}

// collapseBlankRuns reduces every run of 2+ consecutive blank lines to a
// single empty line. A lone blank line is kept verbatim.
func collapseBlankRuns(lines []string) []string {
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks == 1 {
				out = append(out, line)
			} else if blanks == 2 {
				// Second blank in a run: normalise the kept one to empty
				// and swallow the rest.
				out[len(out)-1] = ""
			}
			continue
		}
		blanks = 0
		out = append(out, line)
	}
	return out
}
