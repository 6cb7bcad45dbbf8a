package patterns

import "strings"

const (
	imgPrefix     = "IMG_"
	maxIDLetters  = 10
	passSeparator = '_'
)

// IMG grammar:
//
//	stem   = "IMG_" digits letters      (prefix compared case-insensitively)
//	digits = 1*DIGIT                    (ASCII 0-9, no upper bound)
//	letters = 0*10 ALPHA                (ASCII a-z / A-Z)
//
// The whole stem must be consumed; the identifier is digits+letters.

// IsIMG reports whether stem matches the IMG grammar.
func IsIMG(stem string) bool {
	_, ok := IMGID(stem)
	return ok
}

// IMGID returns the identifier of an IMG stem with its original case.
func IMGID(stem string) (string, bool) {
	if len(stem) < len(imgPrefix) || !strings.EqualFold(stem[:len(imgPrefix)], imgPrefix) {
		return "", false
	}
	id := stem[len(imgPrefix):]

	i := 0
	for i < len(id) && isDigit(id[i]) {
		i++
	}
	if i == 0 {
		return "", false
	}
	letters := 0
	for i < len(id) && isLetter(id[i]) {
		i++
		letters++
	}
	if letters > maxIDLetters || i != len(id) {
		return "", false
	}
	return id, true
}

// PASS grammar, matched against an extensionless stem:
//
//	stem   = date "_" time "_" id "_" camera
//	date   = 4DIGIT "-" 2DIGIT "-" 2DIGIT
//	time   = 2DIGIT "-" 2DIGIT "-" 2DIGIT
//	id     = 1*(any byte except "_")
//	camera = 1*(ALPHA / DIGIT)
//
// Date and time digits are not range checked.

// IsPass reports whether stem is already in the canonical output shape.
func IsPass(stem string) bool {
	parts := strings.Split(stem, string(passSeparator))
	if len(parts) != 4 {
		return false
	}
	return matchDigitGroups(parts[0], 4, 2, 2) &&
		matchDigitGroups(parts[1], 2, 2, 2) &&
		parts[2] != "" &&
		isAlnum(parts[3])
}

// SplitCanonical splits a canonical stem into date, time, id and camera.
// ok is false unless the stem has exactly four underscore separated parts.
func SplitCanonical(stem string) (parts [4]string, ok bool) {
	fields := strings.Split(stem, string(passSeparator))
	if len(fields) != 4 {
		return parts, false
	}
	copy(parts[:], fields)
	return parts, true
}

// matchDigitGroups checks s against hyphen separated groups of exact digit
// counts, e.g. 4,2,2 for YYYY-MM-DD.
func matchDigitGroups(s string, widths ...int) bool {
	groups := strings.Split(s, "-")
	if len(groups) != len(widths) {
		return false
	}
	for i, g := range groups {
		if len(g) != widths[i] {
			return false
		}
		for j := 0; j < len(g); j++ {
			if !isDigit(g[j]) {
				return false
			}
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
