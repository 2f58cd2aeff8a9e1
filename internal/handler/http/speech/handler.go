package speech

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicebridge-backend/internal/service/speech"
	"voicebridge-backend/pkg/response"
)

// Handler serves the static speech configuration tables
type Handler struct {
	speechService *speech.Service
}

// NewHandler creates a new speech handler
func NewHandler(speechService *speech.Service) *Handler {
	return &Handler{
		speechService: speechService,
	}
}

// GetSupportedLanguages returns the recognition language tags
// GET /v1/speech/languages
func (h *Handler) GetSupportedLanguages(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"languages": h.speechService.SupportedLanguages(),
	})
}

// GetConfig returns the recommended recognizer and synthesis settings
// GET /v1/speech/config
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, http.StatusOK, h.speechService.GetConfig())
}

// GetVoices returns the synthesis voices for a language
// GET /v1/speech/voices?language=en-US
func (h *Handler) GetVoices(c *gin.Context) {
	language := c.Query("language")
	if language == "" {
		response.ValidationError(c, "language query parameter is required")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"language": language,
		"voices":   h.speechService.VoicesByLanguage(language),
	})
}
