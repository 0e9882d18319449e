package company

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidName marks company names that can never become an Organization.
// The caller skips the job; the run continues.
var ErrInvalidName = errors.New("invalid company name")

// spreadsheetErrors are formula artifacts that leak out of upstream exports.
var spreadsheetErrors = []string{"#ref!", "#n/a", "#name?", "#value!", "#div/0!", "#null!", "#num!"}

// placeholderNames are test/junk tokens that show up as company names.
var placeholderNames = map[string]struct{}{
	"test":         {},
	"testing":      {},
	"test company": {},
	"tbd":          {},
	"n/a":          {},
	"na":           {},
	"none":         {},
	"null":         {},
	"undefined":    {},
	"unknown":      {},
	"confidential": {},
	"xxx":          {},
	"asdf":         {},
	"abc":          {},
	"-":            {},
	".":            {},
}

// genericBusinessWords rejected when they are the entire name.
var genericBusinessWords = map[string]struct{}{
	"inc":          {},
	"llc":          {},
	"llp":          {},
	"ltd":          {},
	"limited":      {},
	"corp":         {},
	"corporation":  {},
	"company":      {},
	"technologies": {},
	"solutions":    {},
	"services":     {},
	"group":        {},
	"startup":      {},
	"agency":       {},
	"consulting":   {},
}

// Validate rejects names that cannot identify a real employer: spreadsheet
// formula errors, placeholder tokens, lone generic business words, control
// characters, and degenerate lengths.
func Validate(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) < 2 {
		return fmt.Errorf("%w: too short (%q)", ErrInvalidName, name)
	}
	if len(name) > 200 {
		return fmt.Errorf("%w: too long (%d chars)", ErrInvalidName, len(name))
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control characters (%q)", ErrInvalidName, name)
		}
	}

	lower := strings.ToLower(name)
	for _, se := range spreadsheetErrors {
		if strings.Contains(lower, se) {
			return fmt.Errorf("%w: spreadsheet artifact (%q)", ErrInvalidName, name)
		}
	}
	if _, ok := placeholderNames[lower]; ok {
		return fmt.Errorf("%w: placeholder (%q)", ErrInvalidName, name)
	}
	if _, ok := genericBusinessWords[lower]; ok {
		return fmt.Errorf("%w: generic business word (%q)", ErrInvalidName, name)
	}

	// Names with no letters at all ("12345", "###") are junk.
	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: no letters (%q)", ErrInvalidName, name)
	}

	return nil
}
