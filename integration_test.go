package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tarot-service/pkg/cache"
	"tarot-service/pkg/deck"
	httpHandlers "tarot-service/pkg/http"
	"tarot-service/pkg/logging"
	"tarot-service/pkg/service"
	"tarot-service/pkg/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing

type mockLinkStorage struct {
	mu      sync.Mutex
	byToken map[string]*storage.Link
	byID    map[uuid.UUID]*storage.Link
}

func newMockLinkStorage() *mockLinkStorage {
	return &mockLinkStorage{
		byToken: make(map[string]*storage.Link),
		byID:    make(map[uuid.UUID]*storage.Link),
	}
}

func (m *mockLinkStorage) Create(ctx context.Context, link *storage.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byToken[link.Token]; exists {
		return storage.ErrTokenCollision
	}
	copied := *link
	m.byToken[link.Token] = &copied
	m.byID[link.ID] = &copied
	return nil
}

func (m *mockLinkStorage) GetByToken(ctx context.Context, token string) (*storage.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

func (m *mockLinkStorage) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.byID[id]
	if !ok || link.IsUsed {
		return false, nil
	}
	link.IsUsed = true
	link.UsedAt = &usedAt
	return true, nil
}

type mockConsultationStorage struct {
	mu            sync.Mutex
	emails        map[string]bool
	consultations []*storage.Consultation
}

func newMockConsultationStorage() *mockConsultationStorage {
	return &mockConsultationStorage{emails: make(map[string]bool)}
}

func (m *mockConsultationStorage) CreateUser(ctx context.Context, user *storage.ConsultationUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emails[user.Email] {
		return storage.ErrEmailTaken
	}
	m.emails[user.Email] = true
	return nil
}

func (m *mockConsultationStorage) SaveConsultation(ctx context.Context, consultation *storage.Consultation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *consultation
	m.consultations = append(m.consultations, &copied)
	return nil
}

type mockGenerator struct {
	err error
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "A reading woven from the drawn cards.", nil
}

type testApp struct {
	router       *chi.Mux
	linkStore    *mockLinkStorage
	consultStore *mockConsultationStorage
	generator    *mockGenerator
	links        *service.LinkService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := logging.NewLogger(logging.LevelError)
	linkStore := newMockLinkStorage()
	consultStore := newMockConsultationStorage()
	generator := &mockGenerator{}

	links := service.NewLinkService(linkStore, nil, logger, "http://localhost:8080")
	consultations := service.NewConsultationService(consultStore, logger)
	sessions := service.NewSessionService(
		links,
		consultations,
		generator,
		cache.NewMemorySessionStore(),
		deck.NewDealer(rand.New(rand.NewSource(3))),
		logger,
		time.Hour,
	)

	handler := httpHandlers.NewHandler(links, sessions, logger)
	router := chi.NewRouter()
	httpHandlers.SetupRoutes(router, handler, logger)

	return &testApp{
		router:       router,
		linkStore:    linkStore,
		consultStore: consultStore,
		generator:    generator,
		links:        links,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (a *testApp) issueLink(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	rec := a.do(t, "POST", "/v1/links", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[map[string]any](t, rec)
	return resp["link"].(map[string]any)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadingTypesEndpoint(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "GET", "/v1/reading-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	types := decode[[]deck.ReadingTypeConfig](t, rec)
	assert.Len(t, types, 12)
}

func TestDeckEndpoint(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, "GET", "/v1/deck", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cards := decode[[]deck.Card](t, rec)
	assert.Len(t, cards, deck.DeckSize)
}

func TestFullReadingFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	link := app.issueLink(t, map[string]any{"reading_type": "3-card"})
	token := link["link_token"].(string)

	// Validate with type match.
	rec := app.do(t, "POST", "/v1/links/validate", map[string]any{"token": token, "reading_type": "3-card"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Start session.
	rec = app.do(t, "POST", "/v1/sessions", map[string]any{"token": token, "reading_type": "3-card"})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[map[string]any](t, rec)
	sessionID := session["id"].(string)
	assert.Equal(t, "awaiting-question", session["state"])

	// Question.
	rec = app.do(t, "POST", "/v1/sessions/"+sessionID+"/question", map[string]any{"question": "What lies ahead?"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Cards.
	rec = app.do(t, "POST", "/v1/sessions/"+sessionID+"/cards", map[string]any{"card_ids": []string{"rw_00", "rw_01", "rw_02"}})
	require.Equal(t, http.StatusOK, rec.Code)

	// Generate.
	rec = app.do(t, "POST", "/v1/sessions/"+sessionID+"/reading", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[map[string]any](t, rec)
	assert.Equal(t, "A reading woven from the drawn cards.", result["reading"])
	assert.Equal(t, "done", result["state"])

	// Token is now burned.
	rec = app.do(t, "POST", "/v1/links/validate", map[string]any{"token": token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/v1/sessions", map[string]any{"token": "bogus", "reading_type": "daily"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "invalid_link", resp["error"])
}

func TestTypeMismatchDistinctFromInvalid(t *testing.T) {
	app := newTestApp(t)
	link := app.issueLink(t, map[string]any{"reading_type": "daily"})
	token := link["link_token"].(string)

	rec := app.do(t, "POST", "/v1/links/validate", map[string]any{"token": token, "reading_type": "celtic-cross"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "type_mismatch", resp["error"])
}

func TestLocalizedErrorMessage(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "POST", "/v1/sessions?lang=tr", map[string]any{"token": "bogus", "reading_type": "daily"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "Geçersiz referans numarası veya zaten kullanılmış.", resp["message"])
}

func TestConsultationFlowWithDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	link := app.issueLink(t, map[string]any{"reading_type": "daily", "user_type": "consultation", "is_master": true})
	token := link["link_token"].(string)

	startSession := func() string {
		rec := app.do(t, "POST", "/v1/sessions", map[string]any{"token": token, "reading_type": "daily"})
		require.Equal(t, http.StatusCreated, rec.Code)
		session := decode[map[string]any](t, rec)
		assert.Equal(t, "awaiting-user-info", session["state"])
		return session["id"].(string)
	}

	user := map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"birth_date": "1990-12-10",
	}

	first := startSession()
	rec := app.do(t, "POST", "/v1/sessions/"+first+"/user", user)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same email on a second session surfaces the distinct error.
	second := startSession()
	rec = app.do(t, "POST", "/v1/sessions/"+second+"/user", user)
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "already_registered", resp["error"])
}

func TestGenerationFailureSurfacedInline(t *testing.T) {
	app := newTestApp(t)
	link := app.issueLink(t, map[string]any{"reading_type": "daily"})
	token := link["link_token"].(string)

	rec := app.do(t, "POST", "/v1/sessions", map[string]any{"token": token, "reading_type": "daily"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode[map[string]any](t, rec)["id"].(string)

	rec = app.do(t, "POST", "/v1/sessions/"+sessionID+"/question", map[string]any{"question": "What today?"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, "POST", "/v1/sessions/"+sessionID+"/cards", map[string]any{"card_ids": []string{"rw_00"}})
	require.Equal(t, http.StatusOK, rec.Code)

	app.generator.err = errors.New("provider down")
	rec = app.do(t, "POST", "/v1/sessions/"+sessionID+"/reading", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// The selection survives; the session is still retryable.
	rec = app.do(t, "GET", "/v1/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[map[string]any](t, rec)
	assert.Equal(t, "ready", session["state"])
}

func TestEntryRedirectStripsToken(t *testing.T) {
	app := newTestApp(t)
	link := app.issueLink(t, map[string]any{"reading_type": "daily"})
	token := link["link_token"].(string)

	rec := app.do(t, "GET", "/start?link="+token, nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	assert.NotContains(t, location, token)
	assert.Contains(t, location, "/?session=")
}

func TestEntryLegacyParam(t *testing.T) {
	app := newTestApp(t)
	link := app.issueLink(t, map[string]any{"reading_type": "daily"})
	token := link["link_token"].(string)

	rec := app.do(t, "GET", fmt.Sprintf("/start?r=%s", token), nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/?session=")
}

func TestEntryInvalidTokenRedirectsToError(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, "GET", "/start?link=bogus", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=invalid_link", rec.Header().Get("Location"))
}
