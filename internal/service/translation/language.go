package translation

import "strings"

// supportedLanguages is the static set of canonical codes the provider
// accepts, fixed at build time.
var supportedLanguages = []string{
	"en", "fr", "es", "rw", "de", "it", "pt", "ru", "ar", "zh", "ja",
}

var supportedSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(supportedLanguages))
	for _, code := range supportedLanguages {
		set[code] = struct{}{}
	}
	return set
}()

// normalizeOverrides lists tags kept verbatim instead of being stripped to
// their base code, for languages where the provider distinguishes
// script/region variants.
var normalizeOverrides = map[string]string{
	"zh-cn": "zh-CN",
}

// Normalize canonicalizes a language tag for cache keys and provider calls:
// case-insensitive, region subtags stripped to the base ISO 639-1 code
// (en-US becomes en) unless an override applies, unknown tags fall back to
// English. Deterministic: equal inputs always map to equal outputs.
func Normalize(languageTag string) string {
	tag := strings.ToLower(strings.TrimSpace(languageTag))

	if canonical, ok := normalizeOverrides[tag]; ok {
		return canonical
	}

	base, _, _ := strings.Cut(tag, "-")
	if _, ok := supportedSet[base]; ok {
		return base
	}
	return "en"
}

// SupportedLanguages returns the canonical language codes
func SupportedLanguages() []string {
	codes := make([]string, len(supportedLanguages))
	copy(codes, supportedLanguages)
	return codes
}
