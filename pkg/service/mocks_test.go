package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"tarot-service/pkg/storage"

	"github.com/google/uuid"
)

// mockLinkStorage mimics the store's semantics, including the conditional
// update on mark-used.
type mockLinkStorage struct {
	mu           sync.Mutex
	byToken      map[string]*storage.Link
	byID         map[uuid.UUID]*storage.Link
	failMarkUsed bool
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
	if m.failMarkUsed {
		return false, errors.New("persistence failure")
	}
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
	users         []*storage.ConsultationUser
	consultations []*storage.Consultation
	failSave      bool
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
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *mockConsultationStorage) SaveConsultation(ctx context.Context, consultation *storage.Consultation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("persistence failure")
	}
	copied := *consultation
	m.consultations = append(m.consultations, &copied)
	return nil
}

type mockGenerator struct {
	mu         sync.Mutex
	text       string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}
