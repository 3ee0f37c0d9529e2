package match

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultSimilarity is the minimum score for a name to count as a near miss.
const DefaultSimilarity = 0.8

// holderSuffixes are stripped before holder names are compared, longest first.
var holderSuffixes = []string{"assembler", "converter", "convertor", "mapper"}

// NameCandidate is a declared name scored against a wanted name.
type NameCandidate struct {
	Name  string
	Score float64 // 1.0 means the normalized names are equal
}

// NormalizeHolderName folds case, drops separators and strips one
// conventional holder suffix, so "UserDtoMapper" and "user_dto_assembler"
// both become "userdto".
func NormalizeHolderName(name string) string {
	var b strings.Builder

	b.Grow(len(name))

	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	folded := b.String()

	for _, suffix := range holderSuffixes {
		if len(folded) > len(suffix) && strings.HasSuffix(folded, suffix) {
			return strings.TrimSuffix(folded, suffix)
		}
	}

	return folded
}

// Levenshtein returns the edit distance between a and b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			above := row[i]

			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			row[i] = min(row[i]+1, row[i-1]+1, diag+cost)
			diag = above
		}
	}

	return row[len(ra)]
}

// Similarity scores two holder names between 0 and 1 after normalization.
func Similarity(a, b string) float64 {
	na, nb := NormalizeHolderName(a), NormalizeHolderName(b)

	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(na, nb))/float64(longest)
}

// SimilarNames returns the names that resemble want without being equal to
// it, best first. Ties are ordered by name.
func SimilarNames(want string, names []string, threshold float64) []NameCandidate {
	var out []NameCandidate

	for _, name := range names {
		if name == want {
			continue
		}

		if score := Similarity(want, name); score >= threshold {
			out = append(out, NameCandidate{Name: name, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}
