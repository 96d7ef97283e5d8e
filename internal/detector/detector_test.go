package detector

import (
	"testing"
)

var catalogCodes = []string{"en", "ur", "hi", "ar", "fr", "es", "de", "tr", "ru", "zh", "ja", "ko"}

func TestDetector_DetectCode(t *testing.T) {
	d := New(catalogCodes)

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:   "whitespace",
			text:   "   \n",
			wantOK: false,
		},
		{
			name:     "english text",
			text:     "Hello, this is a test in English.",
			wantCode: "en",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Hallo, das ist ein Test auf Deutsch.",
			wantCode: "de",
			wantOK:   true,
		},
		{
			name:     "french text",
			text:     "Bonjour, ceci est un test en français.",
			wantCode: "fr",
			wantOK:   true,
		},
		{
			name:     "russian text",
			text:     "Привет, это тест на русском языке.",
			wantCode: "ru",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectCode(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("DetectCode(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if code != tt.wantCode {
				t.Errorf("DetectCode(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_Matches(t *testing.T) {
	d := New(catalogCodes)

	if _, err := d.Matches("  ", "en"); err == nil {
		t.Error("expected error for empty text")
	}

	ok, err := d.Matches("Hola", "de")
	if err != nil || !ok {
		t.Errorf("short text should pass, got ok=%v err=%v", ok, err)
	}

	ok, err = d.Matches("Das Wetter ist heute wirklich sehr schön.", "de")
	if err != nil || !ok {
		t.Errorf("expected German to match, got ok=%v err=%v", ok, err)
	}

	ok, err = d.Matches("Das Wetter ist heute wirklich sehr schön.", "fr")
	if err == nil || ok {
		t.Errorf("expected mismatch for fr, got ok=%v err=%v", ok, err)
	}

	ok, err = d.Matches("Das Wetter ist heute wirklich sehr schön.", "")
	if err != nil || !ok {
		t.Errorf("empty code should pass, got ok=%v err=%v", ok, err)
	}
}

func TestNew_FallsBackToAllLanguages(t *testing.T) {
	d := New([]string{"xx"})

	code, ok := d.DetectCode("Привіт, це тест українською мовою.")
	if !ok || code != "uk" {
		t.Errorf("expected uk from the full language set, got %q (ok=%v)", code, ok)
	}
}
