// Package detector guesses the language of a text among a fixed set of
// catalog codes.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minMatchLength is the rune count below which Matches does not judge:
// short strings give unreliable guesses.
const minMatchLength = 20

// Detector is expensive to build; reuse it.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector limited to the given ISO 639-1 codes. Codes lingua
// does not know are skipped; with fewer than two usable codes every
// language lingua supports is considered.
func New(codes []string) *Detector {
	var langs []lingua.Language
	for _, lang := range lingua.AllLanguages() {
		iso := lang.IsoCode639_1().String()
		for _, code := range codes {
			if strings.EqualFold(iso, code) {
				langs = append(langs, lang)
				break
			}
		}
	}

	builder := lingua.NewLanguageDetectorBuilder()
	var detector lingua.LanguageDetector
	if len(langs) < 2 {
		detector = builder.FromAllLanguages().Build()
	} else {
		detector = builder.FromLanguages(langs...).Build()
	}
	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectCode returns the lower-case ISO 639-1 code of text.
func (d *Detector) DetectCode(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Matches reports whether text appears to be written in code. Short or
// ambiguous texts pass; a confident mismatch returns an error naming both.
func (d *Detector) Matches(text, code string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("text is empty")
	}
	if code == "" || len([]rune(text)) < minMatchLength {
		return true, nil
	}

	detected, ok := d.DetectCode(text)
	if !ok {
		return true, nil
	}
	if !strings.EqualFold(detected, code) {
		return false, fmt.Errorf("expected %s but detected %s", code, detected)
	}
	return true, nil
}
