package spotify

import (
	"regexp"
	"strings"
	"unicode"
)

// minConfidence is the lowest blended similarity accepted as a match.
const minConfidence = 0.6

var (
	bracketed  = regexp.MustCompile(`[\(\[][^\)\]]*[\)\]]`)
	versionTag = regexp.MustCompile(`(?i)\s+-\s+(remaster(ed)?|radio edit|single version|live|mono|stereo)\b.*$`)
	featuring  = regexp.MustCompile(`(?i)\s+(feat\.?|ft\.?|featuring)\s+.*$`)
)

// normalize lowercases s and strips bracketed suffixes, version tags,
// featured artists and punctuation so "Strobe (Radio Edit)" matches "strobe".
func normalize(s string) string {
	s = bracketed.ReplaceAllString(s, " ")
	s = versionTag.ReplaceAllString(s, "")
	s = featuring.ReplaceAllString(s, "")
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_', r == '&':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// similarity returns 1 for equal normalized strings, falling to 0 as the
// edit distance approaches the longer length.
func similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == "" && b == "" {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// matchScore weighs the title over the artist. The best scoring credited
// artist counts, so collaborations still match on their primary name.
func matchScore(st spotifyTrack, title, artist string) float64 {
	best := 0.0
	for _, a := range st.Artists {
		if s := similarity(a.Name, artist); s > best {
			best = s
		}
	}
	return 0.6*similarity(st.Name, title) + 0.4*best
}

// bestMatch picks the highest scoring candidate above minConfidence.
func bestMatch(candidates []spotifyTrack, title, artist string) (spotifyTrack, bool) {
	var (
		found bool
		pick  spotifyTrack
		top   float64
	)
	for _, c := range candidates {
		score := matchScore(c, title, artist)
		if score >= minConfidence && score > top {
			pick, top, found = c, score, true
		}
	}
	return pick, found
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
