// Package catalog is the static list of languages the client offers. The
// relay itself never consults it; it only sees display names.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var defaultYAML []byte

type Language struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

type Catalog struct {
	languages []Language
	byCode    map[string]Language
}

// Default is the built-in catalog.
var Default = MustParse(defaultYAML)

// Parse reads a catalog document. Codes must be valid BCP 47 tags and unique
// after normalization; names must be non-empty.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Languages []Language `yaml:"languages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(doc.Languages) == 0 {
		return nil, fmt.Errorf("catalog has no languages")
	}

	c := &Catalog{byCode: make(map[string]Language, len(doc.Languages))}
	for _, l := range doc.Languages {
		code, err := Normalize(l.Code)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return nil, fmt.Errorf("language %q has no name", code)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate language code %q", code)
		}
		l = Language{Code: code, Name: name}
		c.languages = append(c.languages, l)
		c.byCode[code] = l
	}
	return c, nil
}

func MustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize reduces a language tag to its lower-case base code:
// "EN", "en-US" and "en_GB" all become "en".
func Normalize(code string) (string, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// All returns the languages in menu order.
func (c *Catalog) All() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

func (c *Catalog) Lookup(code string) (Language, bool) {
	norm, err := Normalize(code)
	if err != nil {
		return Language{}, false
	}
	l, ok := c.byCode[norm]
	return l, ok
}

// Name resolves a code to the display name sent to the relay.
func (c *Catalog) Name(code string) (string, error) {
	l, ok := c.Lookup(code)
	if !ok {
		return "", fmt.Errorf("unsupported language %q", code)
	}
	return l.Name, nil
}

// Code finds the code for a display name, case-insensitively.
func (c *Catalog) Code(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, l := range c.languages {
		if strings.EqualFold(l.Name, name) {
			return l.Code, true
		}
	}
	return "", false
}

func (c *Catalog) Codes() []string {
	codes := make([]string, len(c.languages))
	for i, l := range c.languages {
		codes[i] = l.Code
	}
	return codes
}
