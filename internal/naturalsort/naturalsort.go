// Package naturalsort derives ordering keys from display names.
//
// A key is lowercase, has every run of digits zero-padded to eight places,
// and moves the part of the name people actually sort by to the front:
// leading articles go to the end for things ("The Long Blondes" becomes
// "long blondes, the") and surnames come first for people ("David Foster
// Wallace" becomes "wallace, david foster").
package naturalsort

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tells the generator whether a name belongs to a person.
type Kind int

const (
	// Thing is any non-person entity: titles, bands, venues.
	Thing Kind = iota
	// Person is an individual's name.
	Person
)

func (k Kind) String() string {
	if k == Person {
		return "person"
	}
	return "thing"
}

// ParseKind maps "person" to Person and everything else to Thing.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), "person") {
		return Person
	}
	return Thing
}

// MaxKeyLength is the stored width of a sort key column.
const MaxKeyLength = 255

// Sortable is implemented by records that store a derived sort key.
type Sortable interface {
	SortSource() string
	SortKind() Kind
}

// Key computes the sort key for a record from its current source field.
func Key(s Sortable) string {
	return Naturalize(s.SortSource(), s.SortKind())
}

// Naturalize returns the sort key for name.
func Naturalize(name string, kind Kind) string {
	name = strings.TrimSpace(name)
	if kind == Person {
		return padNumbers(lower(naturalizePerson(name)))
	}
	return padNumbers(naturalizeThing(lower(name)))
}

// Articles moved to the end of a thing's name. The list is fixed and applied
// regardless of the language of the name.
var articles = map[string]bool{
	"a": true, "an": true, "the": true,
	"un": true, "une": true, "le": true, "la": true, "les": true, "l'": true, "l’": true,
	"ein": true, "eine": true, "der": true, "die": true, "das": true,
	"una": true, "el": true, "los": true, "las": true,
}

// naturalizeThing expects an already lowercased name.
func naturalizeThing(name string) string {
	parts := strings.Split(name, " ")
	if len(parts) < 2 || !articles[parts[0]] {
		return name
	}
	// "The The", "La La Land".
	if parts[0] == parts[1] {
		return name
	}
	return strings.Join(parts[1:], " ") + ", " + parts[0]
}

var suffixes = []string{"Jr", "Jr.", "Sr", "Sr.", "I", "II", "III", "IV", "V"}

// Particles only count when capitalised: "John Le Carre" sorts under
// "le carre" but "Daphne du Maurier" sorts under "maurier".
var particles = map[string]bool{
	"Le": true, "La": true,
	"Von": true, "Van": true,
	"Du": true, "De": true,
}

func isSuffix(s string) bool {
	for _, suffix := range suffixes {
		if strings.EqualFold(s, suffix) {
			return true
		}
	}
	return false
}

// naturalizePerson works on the original case because particles are
// case-sensitive.
func naturalizePerson(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, " ")

	suffix := ""
	if last := parts[len(parts)-1]; isSuffix(last) {
		suffix = last
		parts = parts[:len(parts)-1]
	}

	if n := len(parts); n >= 2 && particles[parts[n-2]] {
		merged := parts[n-2] + " " + parts[n-1]
		parts = append(parts[:n-2:n-2], merged)
	}

	sortName := strings.Join(parts, " ")
	if len(parts) > 1 {
		sortName = parts[len(parts)-1] + ", " + strings.Join(parts[:len(parts)-1], " ")
	}

	if suffix != "" {
		sortName += " " + suffix
	}
	return sortName
}

var digitRun = regexp.MustCompile(`\p{Nd}+`)

// padNumbers formats each decimal digit run, in any script, as %08d in
// ASCII. Runs are padded textually so values beyond int64 keep every digit.
func padNumbers(s string) string {
	return digitRun.ReplaceAllStringFunc(s, func(run string) string {
		run = strings.TrimLeft(asciiDigits(run), "0")
		if len(run) >= 8 {
			return run
		}
		return strings.Repeat("0", 8-len(run)) + run
	})
}

// asciiDigits rewrites decimal digits of any script as 0-9. Unicode keeps
// each script's digits in contiguous runs starting at zero.
func asciiDigits(run string) string {
	var b strings.Builder
	b.Grow(len(run))
	for _, r := range run {
		if r <= '9' {
			b.WriteRune(r)
			continue
		}
		zero := r
		for unicode.Is(unicode.Nd, zero-1) {
			zero--
		}
		b.WriteByte(byte('0' + (r-zero)%10))
	}
	return b.String()
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Truncate cuts a key to MaxKeyLength runes for storage.
func Truncate(key string) string {
	if len(key) <= MaxKeyLength {
		return key
	}
	runes := []rune(key)
	if len(runes) <= MaxKeyLength {
		return key
	}
	return string(runes[:MaxKeyLength])
}
