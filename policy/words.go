package policy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// CustomPoolThreshold is the pool size at which custom words may replace the dictionary.
	CustomPoolThreshold = 10
	MaxTextLength       = 100
	MaxNameLength       = 16
	MaxCustomWordLength = 32
)

// NormalizeGuess folds case, surrounding space and diacritics so that
// "Éclair " matches "eclair".
func NormalizeGuess(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return strings.Join(strings.Fields(result), " ")
}

type GuessMatch int

const (
	GuessMiss GuessMatch = iota
	GuessNear
	GuessExact
)

// MatchGuess compares a guess to the secret word. Near means one edit away and
// is only reported for words longer than three letters.
func MatchGuess(guess, word string) GuessMatch {
	g, w := NormalizeGuess(guess), NormalizeGuess(word)
	if g == "" {
		return GuessMiss
	}
	if g == w {
		return GuessExact
	}
	if utf8.RuneCountInString(w) > 3 && editDistanceAtMostOne([]rune(g), []rune(w)) {
		return GuessNear
	}
	return GuessMiss
}

func editDistanceAtMostOne(a, b []rune) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > 1 {
		return false
	}
	i, j, edits := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		if len(a) == len(b) {
			i++
		}
		j++
	}
	return edits+(len(b)-j)+(len(a)-i) <= 1
}

// TruncateText cuts chat text to MaxTextLength characters.
func TruncateText(s string) string {
	return truncateRunes(s, MaxTextLength)
}

// SanitizeName trims and truncates a display name; an empty result means the
// name is unusable.
func SanitizeName(s string) string {
	return truncateRunes(strings.TrimSpace(s), MaxNameLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ParseCustomWords splits the comma separated list sent with a start request,
// dropping blanks, overlong entries and duplicates.
func ParseCustomWords(list string) []string {
	seen := map[string]struct{}{}
	words := []string{}
	for _, w := range strings.Split(list, ",") {
		w = strings.Join(strings.Fields(w), " ")
		if w == "" || utf8.RuneCountInString(w) > MaxCustomWordLength {
			continue
		}
		key := NormalizeGuess(w)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, w)
	}
	return words
}

// UseCustomOnly reports whether candidates must come from the custom pool alone.
func UseCustomOnly(customOnlySetting int, poolSize int) bool {
	return customOnlySetting == 1 && poolSize >= CustomPoolThreshold
}

// WordLengths is the mask of a word: the rune length of each space separated part.
func WordLengths(word string) []int {
	parts := strings.Fields(word)
	lengths := make([]int, 0, len(parts))
	for _, p := range parts {
		lengths = append(lengths, utf8.RuneCountInString(p))
	}
	return lengths
}
