package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// \s does not cover U+00A0, which congress.gov cells use as a hard spacer.
var whitespace = regexp.MustCompile(`[\s\x{00A0}]+`)

// CleanText collapses the whitespace runs and stray non-printables that
// goquery text extraction picks up from congress.gov markup. Whitespace of
// any shape separates words; a newline between two words must survive as a
// space, not vanish.
func CleanText(s string) string {
	var out strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			out.WriteRune(c)
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(out.String(), " "))
}

// StripToLetters lowercases a name and drops everything outside [a-z].
// "Dwight Evans (1954 -)" and "dwightevans " normalize identically.
func StripToLetters(s string) string {
	var out strings.Builder
	for _, c := range strings.ToLower(s) {
		if c >= 'a' && c <= 'z' {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// MatchName reports whether query matches candidate under the fuzzy rule
// used for representative lookup: both sides are stripped to lowercase
// letters and the query must appear as a subsequence of the candidate, in
// order. "Evans" matches "Dwight Evans" and tolerates dropped letters, but
// never reordered ones.
func MatchName(candidate, query string) bool {
	return isSubsequence(StripToLetters(query), StripToLetters(candidate))
}

func isSubsequence(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	i := 0
	for j := 0; j < len(haystack); j++ {
		if haystack[j] == needle[i] {
			i++
			if i == len(needle) {
				return true
			}
		}
	}
	return false
}
