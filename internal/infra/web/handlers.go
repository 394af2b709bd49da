package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/infra/logging"
	"github.com/JUDEBARNABAS/atim/internal/usecase"
)

// DefaultSystemInstruction conditions the model when the client sends none.
const DefaultSystemInstruction = "You are a helpful AI assistant."

type chatRequest struct {
	Message           string `json:"message"`
	SourceLanguage    string `json:"source_language"`
	TargetLanguage    string `json:"target_language"`
	SystemInstruction string `json:"system_instruction"`
}

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

func (s *Server) chatWithAIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID := s.sessionID(r)
		if sessionID == "" {
			respondError(w, http.StatusBadRequest, "Session ID missing. Please refresh the page.")
			return
		}
		ctx = logging.WithSessID(ctx, sessionID)

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Message == "" {
			respondError(w, http.StatusBadRequest, "No message received for chat")
			return
		}
		if req.SystemInstruction == "" {
			req.SystemInstruction = DefaultSystemInstruction
		}

		result, err := s.converseUC.Converse(ctx, usecase.ConverseInput{
			Message:     req.Message,
			SourceLang:  req.SourceLanguage,
			TargetLang:  req.TargetLanguage,
			Instruction: req.SystemInstruction,
			SessionID:   sessionID,
		})
		if err != nil {
			s.log.Error().Err(err).Str("session_id", sessionID).Msg("converse failed")
			code, msg := converseErrorResponse(err)
			respondError(w, code, msg)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"reply": result.Reply})
	}
}

func (s *Server) translateSimpleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Text == "" || req.SourceLanguage == "" || req.TargetLanguage == "" {
			respondError(w, http.StatusBadRequest, "Missing parameters for translation")
			return
		}

		translated, err := s.translateUC.Translate(ctx, req.Text, req.SourceLanguage, req.TargetLanguage)
		if err != nil {
			s.log.Error().Err(err).Msg("translation failed")
			respondError(w, translateErrorStatus(err), err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"translated_text": translated})
	}
}

// converseErrorResponse maps orchestrator failures to a status code and a
// human-readable summary. Full detail stays in the server log.
func converseErrorResponse(err error) (int, string) {
	var unsupported *domain.UnsupportedLanguageError
	if errors.As(err, &unsupported) {
		return http.StatusBadRequest, unsupported.Error()
	}
	if errors.Is(err, domain.ErrEmptyMessage) || errors.Is(err, domain.ErrSessionMissing) {
		return http.StatusBadRequest, err.Error()
	}

	var stage *domain.StageError
	if errors.As(err, &stage) {
		switch stage.Stage {
		case domain.StageTranslateIn:
			return http.StatusInternalServerError, "Error translating your message: " + stage.Err.Error()
		case domain.StageChat:
			if errors.Is(err, domain.ErrNotConfigured) {
				return http.StatusInternalServerError, "AI is not configured. Cannot chat."
			}
			return http.StatusInternalServerError, "Sorry, an unexpected error occurred with the AI."
		}
	}
	return http.StatusInternalServerError, "Internal error"
}

func translateErrorStatus(err error) int {
	var unsupported *domain.UnsupportedLanguageError
	switch {
	case errors.As(err, &unsupported), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTranslationTimeout):
		return http.StatusServiceUnavailable
	default:
		var unavailable *domain.ServiceUnavailableError
		if errors.As(err, &unavailable) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
