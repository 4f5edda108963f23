package mixing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// KeyTable maps a Camelot code to the codes that blend with it.
// A code missing from the table has no known compatible keys.
type KeyTable map[string][]string

// Compatible reports whether b is listed as compatible with a.
func (t KeyTable) Compatible(a, b string) bool {
	for _, k := range t[a] {
		if k == b {
			return true
		}
	}
	return false
}

// PartialCamelotTable is the default lookup used by the quick mix. Only a few
// codes are populated, so most pairs fall through to the "keys differ" tier.
// Scores produced with it are pinned by tests; switch to FullCamelotWheel to
// score every code on the wheel.
var PartialCamelotTable = KeyTable{
	// Each entry lists its own code so an identical listed key is compatible.
	"1A":  {"1A", "12A", "2A", "1B"},
	"1B":  {"1B", "12B", "2B", "1A"},
	"8A":  {"8A", "7A", "9A", "8B"},
	"8B":  {"8B", "7B", "9B", "8A"},
	"12A": {"12A", "11A", "1A", "12B"},
	"12B": {"12B", "11B", "1B", "12A"},
}

// FullCamelotWheel builds the complete 24 code table: the same code, the
// neighbours on either side with the same letter, and the relative letter.
func FullCamelotWheel() KeyTable {
	table := make(KeyTable, 24)
	for n := 1; n <= 12; n++ {
		prev := n - 1
		if prev < 1 {
			prev = 12
		}
		next := n + 1
		if next > 12 {
			next = 1
		}
		for _, letter := range []byte{'A', 'B'} {
			other := byte('B')
			if letter == 'B' {
				other = 'A'
			}
			code := fmt.Sprintf("%d%c", n, letter)
			table[code] = []string{
				code,
				fmt.Sprintf("%d%c", prev, letter),
				fmt.Sprintf("%d%c", next, letter),
				fmt.Sprintf("%d%c", n, other),
			}
		}
	}
	return table
}

var camelotCode = regexp.MustCompile(`^(\d{1,2})([AaBb])$`)

var noteClasses = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3, "E": 4, "F": 5,
	"F#": 6, "GB": 6, "G": 7, "G#": 8, "AB": 8, "A": 9, "A#": 10, "BB": 10, "B": 11,
}

// CamelotFromPitchClass converts a pitch class (0 = C … 11 = B) and mode
// (0 minor, 1 major) into a Camelot code. Out of range input yields "".
func CamelotFromPitchClass(pitchClass, mode int) string {
	if pitchClass < 0 || pitchClass > 11 {
		return ""
	}
	switch mode {
	case 0:
		return fmt.Sprintf("%dA", wheelNumber(pitchClass*7+5))
	case 1:
		return fmt.Sprintf("%dB", wheelNumber(pitchClass*7+8))
	default:
		return ""
	}
}

func wheelNumber(v int) int {
	n := v % 12
	if n == 0 {
		return 12
	}
	return n
}

// NormalizeKey canonicalises a key label. Camelot codes are upper-cased
// ("8a" -> "8A") and note names are converted ("Am" -> "8A", "F# major" -> "2B").
// Anything unrecognised is returned trimmed but otherwise unchanged.
func NormalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := camelotCode.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 12 {
			return fmt.Sprintf("%d%s", n, strings.ToUpper(m[2]))
		}
		return s
	}

	if code, ok := noteNameToCamelot(s); ok {
		return code
	}
	return s
}

func noteNameToCamelot(s string) (string, bool) {
	s = strings.ReplaceAll(s, "♯", "#")
	s = strings.ReplaceAll(s, "♭", "b")

	note := strings.ToUpper(s[:1])
	rest := s[1:]
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		note += strings.ToUpper(rest[:1])
		rest = rest[1:]
	}
	pc, ok := noteClasses[note]
	if !ok {
		return "", false
	}

	switch strings.ToLower(strings.TrimSpace(rest)) {
	case "", "maj", "major":
		return CamelotFromPitchClass(pc, 1), true
	case "m", "min", "minor":
		return CamelotFromPitchClass(pc, 0), true
	}
	return "", false
}
