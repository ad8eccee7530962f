package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tarot-service/pkg/deck"
	"tarot-service/pkg/i18n"
	"tarot-service/pkg/logging"
	"tarot-service/pkg/middleware"
	"tarot-service/pkg/service"
	"tarot-service/pkg/storage"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	links    *service.LinkService
	sessions *service.SessionService
	logger   *logging.Logger
}

func NewHandler(links *service.LinkService, sessions *service.SessionService, logger *logging.Logger) *Handler {
	return &Handler{links: links, sessions: sessions, logger: logger}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, lang i18n.Language) {
	writeJSON(w, status, errorResponse{Error: code, Message: i18n.Message(lang, code)})
}

// language picks the response language from the lang query parameter,
// falling back to the Accept-Language header.
func language(r *http.Request) i18n.Language {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return i18n.Normalize(lang)
	}
	return i18n.Normalize(r.Header.Get("Accept-Language"))
}

// writeServiceError maps the service error taxonomy onto HTTP statuses
// and localized message codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, lang i18n.Language) {
	switch {
	case errors.Is(err, service.ErrLinkInvalid):
		writeError(w, http.StatusUnauthorized, "invalid_link", lang)
	case errors.Is(err, service.ErrTypeMismatch):
		writeError(w, http.StatusUnprocessableEntity, "type_mismatch", lang)
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", lang)
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_request", lang)
	case errors.Is(err, storage.ErrEmailTaken):
		writeError(w, http.StatusConflict, "already_registered", lang)
	case errors.Is(err, service.ErrQuestionRequired):
		writeError(w, http.StatusBadRequest, "question_required", lang)
	case errors.Is(err, service.ErrInvalidUserInfo), errors.Is(err, service.ErrBirthDateInFuture):
		writeError(w, http.StatusBadRequest, "invalid_user_info", lang)
	case errors.Is(err, service.ErrUnknownReadingType),
		errors.Is(err, service.ErrWrongCardCount),
		errors.Is(err, service.ErrDuplicateCard),
		errors.Is(err, service.ErrUnknownCard):
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
	case errors.Is(err, service.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "generation_failed", lang)
	default:
		writeError(w, http.StatusInternalServerError, "invalid_request", lang)
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) IssueLink(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	var req service.IssueLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
		return
	}

	resp, err := h.links.Issue(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

type validateRequest struct {
	Token       string `json:"token"`
	ReadingType string `json:"reading_type,omitempty"`
}

func (h *Handler) ValidateLink(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "enter_reference", lang)
		return
	}

	// With a reading type the full type-match policy applies; without one
	// this is a bare admission check.
	if req.ReadingType != "" {
		result, err := h.links.ValidateForType(r.Context(), req.Token, req.ReadingType)
		if err != nil {
			h.writeServiceError(w, err, lang)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.links.Validate(r.Context(), req.Token)
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}
	if !result.Valid {
		writeError(w, http.StatusUnauthorized, "invalid_link", lang)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ReadingTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, deck.ReadingTypes)
}

func (h *Handler) Deck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, deck.Deck)
}

type startSessionRequest struct {
	Token       string `json:"token"`
	ReadingType string `json:"reading_type"`
	Lang        string `json:"lang,omitempty"`
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
		return
	}
	if req.Lang != "" {
		lang = i18n.Normalize(req.Lang)
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "enter_reference", lang)
		return
	}

	session, err := h.sessions.Start(r.Context(), req.Token, req.ReadingType, string(lang))
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	session, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) SubmitUserInfo(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
		return
	}

	session, err := h.sessions.SubmitUserInfo(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *Handler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
		return
	}

	session, err := h.sessions.SubmitQuestion(r.Context(), chi.URLParam(r, "id"), req.Question)
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

type selectCardsRequest struct {
	CardIDs []string `json:"card_ids"`
}

func (h *Handler) SelectCards(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	var req selectCardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", lang)
		return
	}

	session, err := h.sessions.SelectCards(r.Context(), chi.URLParam(r, "id"), req.CardIDs)
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

type generateResponse struct {
	SessionID string                 `json:"session_id"`
	State     string                 `json:"state"`
	Reading   string                 `json:"reading"`
	Cards     []storage.SelectedCard `json:"cards"`
	Warnings  []warning              `json:"warnings,omitempty"`
}

type warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) GenerateReading(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	result, err := h.sessions.Generate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, lang)
		return
	}

	if result.Session.Locale != "" {
		lang = i18n.Language(result.Session.Locale)
	}

	resp := generateResponse{
		SessionID: result.Session.ID,
		State:     result.Session.State,
		Reading:   result.Reading,
		Cards:     result.Session.Cards,
	}
	for _, code := range result.Warnings {
		msgCode := code
		if code == "link_already_consumed" {
			msgCode = "invalid_link"
		}
		resp.Warnings = append(resp.Warnings, warning{Code: code, Message: i18n.Message(lang, msgCode)})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Enter handles URL-based session entry: a shared link of the form
// /start?link=TOKEN (or the legacy r parameter). On success the client is
// redirected to a clean URL carrying only the session ID, so the token
// disappears from the address bar.
func (h *Handler) Enter(w http.ResponseWriter, r *http.Request) {
	lang := language(r)

	token := r.URL.Query().Get("link")
	if token == "" {
		token = r.URL.Query().Get("r")
	}
	if token == "" {
		http.Redirect(w, r, "/?error=enter_reference", http.StatusFound)
		return
	}

	result, err := h.links.Validate(r.Context(), token)
	if err != nil || !result.Valid {
		http.Redirect(w, r, "/?error=invalid_link", http.StatusFound)
		return
	}

	session, err := h.sessions.Start(r.Context(), token, result.ReadingType, string(lang))
	if err != nil {
		http.Redirect(w, r, "/?error=invalid_link", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/?session="+session.ID, http.StatusFound)
}

func SetupRoutes(r *chi.Mux, handler *Handler, logger *logging.Logger) {
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", handler.HealthCheck)
	r.Get("/start", handler.Enter)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/links", handler.IssueLink)
		r.Post("/links/validate", handler.ValidateLink)
		r.Get("/reading-types", handler.ReadingTypes)
		r.Get("/deck", handler.Deck)
		r.Post("/sessions", handler.StartSession)
		r.Get("/sessions/{id}", handler.GetSession)
		r.Post("/sessions/{id}/user", handler.SubmitUserInfo)
		r.Post("/sessions/{id}/question", handler.SubmitQuestion)
		r.Post("/sessions/{id}/cards", handler.SelectCards)
		r.Post("/sessions/{id}/reading", handler.GenerateReading)
	})
}
