package call

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voicebridge-backend/internal/service/call"
	"voicebridge-backend/internal/service/translation"
	"voicebridge-backend/pkg/pagination"
	"voicebridge-backend/pkg/response"
)

// Handler handles call session HTTP requests
type Handler struct {
	callService        *call.Service
	translationService *translation.Service
}

// NewHandler creates a new call handler
func NewHandler(callService *call.Service, translationService *translation.Service) *Handler {
	return &Handler{
		callService:        callService,
		translationService: translationService,
	}
}

// InitiateCallRequest represents call initiation request
type InitiateCallRequest struct {
	CalleeID       string `json:"callee_id" binding:"required,uuid"`
	CallerLanguage string `json:"caller_language" binding:"omitempty,min=2,max=10"`
}

// EndCallRequest represents call end request
type EndCallRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=100"`
}

// UtteranceRequest represents one spoken utterance to translate and log
type UtteranceRequest struct {
	Text string `json:"text" binding:"required"`
}

// InitiateCall starts a new call session
// POST /v1/calls/initiate
func (h *Handler) InitiateCall(c *gin.Context) {
	var req InitiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	callerID, ok := currentUserID(c)
	if !ok {
		return
	}

	calleeID, err := uuid.Parse(req.CalleeID)
	if err != nil {
		response.ValidationError(c, "Invalid callee ID")
		return
	}

	session, err := h.callService.InitiateCall(c.Request.Context(), callerID, calleeID, req.CallerLanguage)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, session)
}

// EndCall terminates an active call
// PATCH /v1/calls/:id/end
func (h *Handler) EndCall(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Body is optional; reason defaults to empty
	var req EndCallRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err.Error())
			return
		}
	}

	session, err := h.callService.EndCall(c.Request.Context(), callID, userID, req.Reason)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// GetCallHistory returns the user's paginated call history
// GET /v1/calls/history?page&limit
func (h *Handler) GetCallHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, limit, err := pageParams(c)
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	history, err := h.callService.GetCallHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, history)
}

// GetActiveCall returns the user's active call, if any
// GET /v1/calls/active
func (h *Handler) GetActiveCall(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, err := h.callService.GetActiveCall(c.Request.Context(), userID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if session == nil {
		response.Success(c, http.StatusOK, gin.H{
			"message": "No active call",
			"call":    nil,
		})
		return
	}

	response.Success(c, http.StatusOK, session)
}

// GetCallByID returns one call to its participants
// GET /v1/calls/:id
func (h *Handler) GetCallByID(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, err := h.callService.GetCallByID(c.Request.Context(), callID, userID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// GetCallLogs returns a call's translated utterances ascending by timestamp
// GET /v1/calls/:id/logs
func (h *Handler) GetCallLogs(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.callService.ListLogs(c.Request.Context(), callID, userID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, entries)
}

// PostUtterance translates one utterance spoken by the current user and
// appends it to the call log. Source and target languages come from the
// session: the speaker's configured language translates to the other
// participant's.
// POST /v1/calls/:id/utterances
func (h *Handler) PostUtterance(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	speakerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UtteranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	session, err := h.callService.GetCallByID(c.Request.Context(), callID, speakerID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	sourceLang := session.CallerLanguage
	targetLang := session.CalleeLanguage
	if speakerID == session.CalleeID {
		sourceLang, targetLang = targetLang, sourceLang
	}

	translated, err := h.translationService.Translate(c.Request.Context(), req.Text, sourceLang, targetLang)
	if err != nil {
		response.AppError(c, err)
		return
	}

	entry, err := h.callService.AppendLog(c.Request.Context(), callID, speakerID,
		req.Text, translated, sourceLang, targetLang)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, entry)
}

// currentUserID extracts the authenticated user id set by the auth middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "Not authenticated")
		return uuid.Nil, false
	}

	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		response.InternalError(c, "Invalid user ID")
		return uuid.Nil, false
	}

	return userID, true
}

// callIDParam parses the :id path parameter
func callIDParam(c *gin.Context) (uuid.UUID, bool) {
	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "Invalid call ID")
		return uuid.Nil, false
	}
	return callID, true
}

// pageParams parses pagination query parameters
func pageParams(c *gin.Context) (int, int, error) {
	params, err := pagination.ParseParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		return 0, 0, err
	}
	return params.Page, params.Limit, nil
}
