package translation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicebridge-backend/internal/service/translation"
	"voicebridge-backend/pkg/response"
)

// Handler handles translation HTTP requests
type Handler struct {
	translationService *translation.Service
}

// NewHandler creates a new translation handler
func NewHandler(translationService *translation.Service) *Handler {
	return &Handler{
		translationService: translationService,
	}
}

// TranslateRequest represents a translation request
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang" binding:"required,min=2,max=10"`
	TargetLang string `json:"target_lang" binding:"required,min=2,max=10"`
}

// TranslateResponse represents a translation result
type TranslateResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

// Translate translates a single text
// POST /v1/translation/translate
func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	translated, err := h.translationService.Translate(c.Request.Context(), req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, TranslateResponse{
		OriginalText:   req.Text,
		TranslatedText: translated,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
	})
}

// GetSupportedLanguages returns the canonical translation language codes
// GET /v1/translation/languages
func (h *Handler) GetSupportedLanguages(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"languages": h.translationService.GetSupportedLanguages(),
	})
}
