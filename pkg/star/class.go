package star

import (
	"strings"
	"unicode"
)

// Class is a Morgan–Keenan spectral class letter.
type Class int

// Spectral classes from hottest to coolest.
const (
	ClassUnknown Class = iota
	ClassO
	ClassB
	ClassA
	ClassF
	ClassG
	ClassK
	ClassM
)

var classNames = [...]string{
	ClassUnknown: "?",
	ClassO:       "O",
	ClassB:       "B",
	ClassA:       "A",
	ClassF:       "F",
	ClassG:       "G",
	ClassK:       "K",
	ClassM:       "M",
}

// String returns the class letter, or "?" for ClassUnknown.
func (c Class) String() string {
	if c < ClassUnknown || int(c) >= len(classNames) {
		return classNames[ClassUnknown]
	}
	return classNames[c]
}

// ParseClass extracts the spectral class from a full spectral type such as
// "G3V" or " m4.5Ve". Only the leading letter matters; empty strings and
// letters outside OBAFGKM yield ClassUnknown.
func ParseClass(spectral string) Class {
	s := strings.TrimSpace(spectral)
	if s == "" {
		return ClassUnknown
	}
	switch unicode.ToUpper([]rune(s)[0]) {
	case 'O':
		return ClassO
	case 'B':
		return ClassB
	case 'A':
		return ClassA
	case 'F':
		return ClassF
	case 'G':
		return ClassG
	case 'K':
		return ClassK
	case 'M':
		return ClassM
	}
	return ClassUnknown
}
