package speech

// Service serves the static speech configuration lookup tables used by
// clients to set up browser speech recognition and synthesis
type Service struct{}

// NewService creates a new speech service
func NewService() *Service {
	return &Service{}
}

// STTConfig is the recommended speech-to-text recognizer configuration
type STTConfig struct {
	Continuous      bool `json:"continuous"`
	InterimResults  bool `json:"interim_results"`
	MaxAlternatives int  `json:"max_alternatives"`
}

// TTSConfig is the recommended text-to-speech synthesis configuration
type TTSConfig struct {
	Pitch  float64 `json:"pitch"`
	Rate   float64 `json:"rate"`
	Volume float64 `json:"volume"`
}

// Config bundles both recognizer and synthesis settings
type Config struct {
	STT STTConfig `json:"stt"`
	TTS TTSConfig `json:"tts"`
}

// speechLanguages are the BCP-47 tags clients may run recognition in. Wider
// than the translation set on purpose: recognition tags carry region, the
// normalizer folds them down before translation.
var speechLanguages = []string{
	"en-US", "en-GB", "fr-FR", "es-ES", "rw-RW", "de-DE",
	"it-IT", "pt-BR", "ar-SA", "zh-CN", "ja-JP",
}

var voicesByLanguage = map[string][]string{
	"en-US": {"Google US English", "Microsoft David", "Microsoft Zira", "Alex"},
	"en-GB": {"Google UK English Female", "Google UK English Male"},
	"fr-FR": {"Google français", "Thomas", "Amelie"},
	"es-ES": {"Google español", "Monica", "Jorge"},
	"rw-RW": {"Default"},
	"de-DE": {"Google Deutsch", "Anna", "Stefan"},
	"it-IT": {"Google italiano", "Alice", "Luca"},
	"pt-BR": {"Google português do Brasil", "Luciana"},
	"ar-SA": {"Google العربية", "Maged"},
	"zh-CN": {"Google 普通话（中国大陆）", "Ting-Ting"},
	"ja-JP": {"Google 日本語", "Kyoko"},
}

// SupportedLanguages returns the recognition language tags
func (s *Service) SupportedLanguages() []string {
	languages := make([]string, len(speechLanguages))
	copy(languages, speechLanguages)
	return languages
}

// GetConfig returns the recommended recognizer and synthesis settings
func (s *Service) GetConfig() Config {
	return Config{
		STT: STTConfig{
			Continuous:      true,
			InterimResults:  true,
			MaxAlternatives: 1,
		},
		TTS: TTSConfig{
			Pitch:  1,
			Rate:   1,
			Volume: 1,
		},
	}
}

// VoicesByLanguage returns the known synthesis voices for a language tag
func (s *Service) VoicesByLanguage(language string) []string {
	if voices, ok := voicesByLanguage[language]; ok {
		return voices
	}
	return []string{"Default"}
}

// ValidateLanguage reports whether language is a supported recognition tag
func (s *Service) ValidateLanguage(language string) bool {
	_, ok := voicesByLanguage[language]
	return ok
}
