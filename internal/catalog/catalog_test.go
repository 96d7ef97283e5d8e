package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	all := Default.All()
	require.Len(t, all, 12)
	assert.Equal(t, Language{Code: "en", Name: "English"}, all[0])
	assert.Equal(t, Language{Code: "ur", Name: "Urdu"}, all[1])
	assert.Equal(t, "ko", all[len(all)-1].Code)
}

func TestName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"EN", "English"},
		{"en-US", "English"},
		{"zh_Hant", "Chinese"},
		{" ur ", "Urdu"},
	}
	for _, tt := range tests {
		got, err := Default.Name(tt.code)
		require.NoError(t, err, tt.code)
		assert.Equal(t, tt.want, got, tt.code)
	}

	_, err := Default.Name("sw")
	assert.Error(t, err)
	_, err = Default.Name("")
	assert.Error(t, err)
	_, err = Default.Name("not a tag!")
	assert.Error(t, err)
}

func TestCode(t *testing.T) {
	code, ok := Default.Code("japanese")
	assert.True(t, ok)
	assert.Equal(t, "ja", code)

	_, ok = Default.Code("Klingon")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	all := Default.All()
	all[0].Name = "Changed"
	name, _ := Default.Name("en")
	assert.Equal(t, "English", name)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "languages: [",
		"empty":        "languages: []",
		"bad code":     "languages:\n  - code: '!!'\n    name: X\n",
		"missing name": "languages:\n  - code: en\n    name: ''\n",
		"duplicate":    "languages:\n  - code: en\n    name: English\n  - code: EN-gb\n    name: British\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestCodes(t *testing.T) {
	assert.Equal(t, []string{"en", "ur", "hi", "ar", "fr", "es", "de", "tr", "ru", "zh", "ja", "ko"}, Default.Codes())
}
