package sportmonks

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
)

const similarityThreshold = 0.7

// fold lowercases and strips diacritics so "Ødegaard" matches "odegaard".
func fold(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return replaceUnsplittable(out)
}

// Letters with no combining decomposition.
var unsplittable = strings.NewReplacer("ø", "o", "æ", "ae", "ß", "ss", "ł", "l", "đ", "d", "ı", "i")

func replaceUnsplittable(s string) string {
	return unsplittable.Replace(s)
}

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if f := fold(n); f != "" {
			set[f] = struct{}{}
		}
	}
	return set
}

func (p searchPlayer) names() map[string]struct{} {
	return nameSet(p.CommonName, p.FirstName, p.LastName, p.Name, p.DisplayName)
}

// matchPlayer picks the first candidate sharing any folded name with player.
// Failing that, it takes the closest full name by Levenshtein similarity
// above the threshold.
func matchPlayer(player players.Player, candidates []searchPlayer) (searchPlayer, bool) {
	ours := nameSet(player.WebName, player.FirstName, player.SecondName, player.FullName())
	for _, c := range candidates {
		for n := range c.names() {
			if _, ok := ours[n]; ok {
				return c, true
			}
		}
	}

	target := fold(player.FullName())
	best, bestScore := -1, similarityThreshold
	for i, c := range candidates {
		name := fold(c.Name)
		if name == "" || target == "" {
			continue
		}
		distance := fuzzy.LevenshteinDistance(target, name)
		maxLen := float64(max(len(target), len(name)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestScore {
			best, bestScore = i, similarity
		}
	}
	if best < 0 {
		return searchPlayer{}, false
	}
	return candidates[best], true
}
