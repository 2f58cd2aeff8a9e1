package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalize tests regional variant folding and fallback behavior
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare code", "en", "en"},
		{"region stripped", "en-US", "en"},
		{"case insensitive", "EN-us", "en"},
		{"french regional", "fr-CA", "fr"},
		{"override kept verbatim", "zh-CN", "zh-CN"},
		{"override case folded", "ZH-cn", "zh-CN"},
		{"bare chinese", "zh", "zh"},
		{"whitespace trimmed", "  es  ", "es"},
		{"unknown falls back", "xx", "en"},
		{"unknown with region falls back", "xx-YY", "en"},
		{"empty falls back", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

// TestNormalize_VariantsConverge tests that all casings of a regional variant
// normalize to the same code, so they share one cache entry
func TestNormalize_VariantsConverge(t *testing.T) {
	assert.Equal(t, Normalize("en-US"), Normalize("EN-us"))
	assert.Equal(t, "en", Normalize("en-GB"))
}

// TestSupportedLanguages tests the canonical list
func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()

	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "fr")
	assert.Contains(t, langs, "rw")
	assert.NotContains(t, langs, "en-US")
}
