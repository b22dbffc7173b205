package lexicon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var pitches = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Camelot wheel numbers indexed by pitch class.
var (
	minorCamelot = [12]int{5, 12, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10}
	majorCamelot = [12]int{8, 3, 10, 5, 12, 7, 2, 9, 4, 11, 6, 1}
)

var (
	musicalKeyRegex = regexp.MustCompile(`(?i)^([a-g])\s*([#♯b♭]?)\s*(m|min|minor|maj|major)?$`)
	camelotKeyRegex = regexp.MustCompile(`(?i)^(1[0-2]|[1-9])\s*([ab])$`)
)

// Key is a pitch class (0 = C) and a mode.
type Key struct {
	Pitch int  `json:"pitch"`
	Major bool `json:"major"`
}

func (k Key) String() string {
	if k.Major {
		return pitches[k.Pitch]
	}
	return pitches[k.Pitch] + "m"
}

// Camelot returns the harmonic-mixing notation, e.g. "8A" for A minor.
func (k Key) Camelot() string {
	if k.Major {
		return fmt.Sprintf("%dB", majorCamelot[k.Pitch])
	}
	return fmt.Sprintf("%dA", minorCamelot[k.Pitch])
}

// ParseKey reads either a musical key ("F#m", "Bb major", "C") or a Camelot
// key ("8A", "12b").
func ParseKey(s string) (Key, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, false
	}

	if m := musicalKeyRegex.FindStringSubmatch(s); m != nil {
		pitch := indexOfPitch(strings.ToUpper(m[1]))
		switch m[2] {
		case "#", "♯":
			pitch++
		case "b", "B", "♭":
			pitch--
		}
		pitch = (pitch + 12) % 12

		mode := strings.ToLower(m[3])
		major := !(mode == "m" || mode == "min" || mode == "minor")
		return Key{Pitch: pitch, Major: major}, true
	}

	if m := camelotKeyRegex.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		major := strings.EqualFold(m[2], "b")
		table := minorCamelot
		if major {
			table = majorCamelot
		}
		for pitch, v := range table {
			if v == n {
				return Key{Pitch: pitch, Major: major}, true
			}
		}
	}

	return Key{}, false
}

func indexOfPitch(note string) int {
	for i, p := range pitches {
		if p == note {
			return i
		}
	}
	return 0
}
