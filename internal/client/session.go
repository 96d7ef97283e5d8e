package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/tlumach/internal"
	"github.com/valpere/tlumach/internal/catalog"
)

// AutoDetect as a source code asks the session to guess the language.
const AutoDetect = "auto"

var (
	ErrNoText        = errors.New("please enter text to translate")
	ErrSameLanguage  = errors.New("source and target languages cannot be the same")
	ErrNoTranslation = errors.New("no translation received")
	ErrNothingToCopy = errors.New("nothing to copy")
	ErrNothingToSay  = errors.New("nothing to speak")
	ErrUndetected    = errors.New("could not detect the source language")
	// ErrUnsupported means the host lacks the capability (clipboard, speech).
	ErrUnsupported = errors.New("not supported on this system")
)

// Translator is satisfied by *Client.
type Translator interface {
	Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResult, error)
}

// Detector guesses an ISO 639-1 code for text.
type Detector interface {
	DetectCode(text string) (string, bool)
}

// Clipboard and Speaker are optional host capabilities. Available is asked
// at use time, never cached.
type Clipboard interface {
	Available() bool
	WriteText(text string) error
}

type Speaker interface {
	Available() bool
	Speak(ctx context.Context, text, langCode string) error
}

// Session is the state behind the translation form.
type Session struct {
	Source         string
	Target         string
	SourceText     string
	TranslatedText string

	translator Translator
	catalog    *catalog.Catalog
	detector   Detector
	clipboard  Clipboard
	speaker    Speaker
}

type SessionOption func(*Session)

func WithCatalog(c *catalog.Catalog) SessionOption {
	return func(s *Session) { s.catalog = c }
}

func WithDetector(d Detector) SessionOption {
	return func(s *Session) { s.detector = d }
}

func WithClipboard(c Clipboard) SessionOption {
	return func(s *Session) { s.clipboard = c }
}

func WithSpeaker(sp Speaker) SessionOption {
	return func(s *Session) { s.speaker = sp }
}

// NewSession starts with English to Urdu, like the original form.
func NewSession(t Translator, opts ...SessionOption) *Session {
	s := &Session{
		Source:     "en",
		Target:     "ur",
		translator: t,
		catalog:    catalog.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate sends SourceText through the relay. On any failure
// TranslatedText stays empty and SourceText is untouched.
func (s *Session) Translate(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.SourceText) == "" {
		return "", ErrNoText
	}

	source := s.Source
	if strings.EqualFold(source, AutoDetect) {
		detected, err := s.detect()
		if err != nil {
			return "", err
		}
		source = detected
	}

	srcLang, ok := s.catalog.Lookup(source)
	if !ok {
		return "", fmt.Errorf("unsupported source language %q", source)
	}
	tgtLang, ok := s.catalog.Lookup(s.Target)
	if !ok {
		return "", fmt.Errorf("unsupported target language %q", s.Target)
	}
	if srcLang.Code == tgtLang.Code {
		return "", ErrSameLanguage
	}

	s.TranslatedText = ""
	res, err := s.translator.Translate(ctx, internal.TranslationRequest{
		Text:           s.SourceText,
		SourceLanguage: srcLang.Name,
		TargetLanguage: tgtLang.Name,
	})
	if err != nil {
		return "", err
	}
	if res == nil || res.TranslatedText == "" {
		return "", ErrNoTranslation
	}

	s.Source = srcLang.Code
	s.TranslatedText = res.TranslatedText
	return s.TranslatedText, nil
}

func (s *Session) detect() (string, error) {
	if s.detector == nil {
		return "", fmt.Errorf("%w: language detection", ErrUnsupported)
	}
	code, ok := s.detector.DetectCode(s.SourceText)
	if !ok {
		return "", ErrUndetected
	}
	return code, nil
}

// Swap exchanges the languages and the two texts.
func (s *Session) Swap() {
	s.Source, s.Target = s.Target, s.Source
	s.SourceText, s.TranslatedText = s.TranslatedText, s.SourceText
}

func (s *Session) Clear() {
	s.SourceText = ""
	s.TranslatedText = ""
}

// Copy puts the current translation on the clipboard.
func (s *Session) Copy() error {
	if s.TranslatedText == "" {
		return ErrNothingToCopy
	}
	if s.clipboard == nil || !s.clipboard.Available() {
		return fmt.Errorf("%w: clipboard", ErrUnsupported)
	}
	return s.clipboard.WriteText(s.TranslatedText)
}

// Speak reads the current translation aloud in the target language.
func (s *Session) Speak(ctx context.Context) error {
	if s.TranslatedText == "" {
		return ErrNothingToSay
	}
	if s.speaker == nil || !s.speaker.Available() {
		return fmt.Errorf("%w: speech", ErrUnsupported)
	}
	return s.speaker.Speak(ctx, s.TranslatedText, s.Target)
}
