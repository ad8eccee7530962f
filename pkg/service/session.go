package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tarot-service/pkg/cache"
	"tarot-service/pkg/deck"
	"tarot-service/pkg/i18n"
	"tarot-service/pkg/logging"
	"tarot-service/pkg/reading"
	"tarot-service/pkg/storage"

	"github.com/google/uuid"
)

// Session states. A session only ever moves forward along the transition
// table below; anything else is ErrInvalidTransition.
const (
	StateAwaitingUserInfo = "awaiting-user-info"
	StateAwaitingQuestion = "awaiting-question"
	StateAwaitingCards    = "awaiting-cards"
	StateReady            = "ready"
	StateDone             = "done"
)

var transitions = map[string]string{
	StateAwaitingUserInfo: StateAwaitingQuestion,
	StateAwaitingQuestion: StateAwaitingCards,
	StateAwaitingCards:    StateReady,
	StateReady:            StateDone,
}

type SessionService struct {
	links         *LinkService
	consultations *ConsultationService
	generator     reading.Generator
	sessions      cache.SessionStoreInterface
	dealer        *deck.Dealer
	logger        *logging.Logger
	ttl           time.Duration

	// dealer's rand source is not safe for concurrent use
	dealerMu sync.Mutex
}

func NewSessionService(
	links *LinkService,
	consultations *ConsultationService,
	generator reading.Generator,
	sessions cache.SessionStoreInterface,
	dealer *deck.Dealer,
	logger *logging.Logger,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		links:         links,
		consultations: consultations,
		generator:     generator,
		sessions:      sessions,
		dealer:        dealer,
		logger:        logger,
		ttl:           ttl,
	}
}

// GenerateResult carries the reading plus any non-fatal warnings (lost
// consume race, failed consultation save). The reading is never discarded
// because of a warning.
type GenerateResult struct {
	Session  *cache.Session `json:"session"`
	Reading  string         `json:"reading"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Start admits a new session for a presented token. The initial state
// depends on the link's user type: consultation links must pass identity
// intake before the question step.
func (s *SessionService) Start(ctx context.Context, token, readingType, locale string) (*cache.Session, error) {
	result, err := s.links.ValidateForType(ctx, token, readingType)
	if err != nil {
		return nil, err
	}

	state := StateAwaitingQuestion
	if result.UserType == storage.UserTypeConsultation {
		state = StateAwaitingUserInfo
	}

	session := &cache.Session{
		ID:            uuid.New().String(),
		State:         state,
		Token:         token,
		LinkID:        result.LinkID,
		IsMaster:      result.IsMaster,
		ReadingType:   readingType,
		UserType:      result.UserType,
		ReferenceCode: result.ReferenceCode,
		Locale:        string(i18n.Normalize(locale)),
		CreatedAt:     time.Now(),
	}

	if err := s.sessions.Set(ctx, session, s.ttl); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.logger.LogSessionTransition(ctx, session.ID, "", state)
	return session, nil
}

// SubmitUserInfo completes consultation intake. Only valid as the first
// step of a consultation session.
func (s *SessionService) SubmitUserInfo(ctx context.Context, sessionID string, req *RegisterRequest) (*cache.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != StateAwaitingUserInfo {
		return nil, ErrInvalidTransition
	}

	user, err := s.consultations.Register(ctx, req, session.ReferenceCode)
	if err != nil {
		return nil, err
	}

	session.UserID = &user.ID
	return s.advance(ctx, session)
}

// SubmitQuestion records the seeker's free-text question.
func (s *SessionService) SubmitQuestion(ctx context.Context, sessionID, question string) (*cache.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != StateAwaitingQuestion {
		return nil, ErrInvalidTransition
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	session.Question = question
	return s.advance(ctx, session)
}

// SelectCards records the ordered picks. The count must match the reading
// type exactly, no card may appear twice, and each card is assigned its
// orientation here, once.
func (s *SessionService) SelectCards(ctx context.Context, sessionID string, cardIDs []string) (*cache.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != StateAwaitingCards {
		return nil, ErrInvalidTransition
	}

	cfg, ok := deck.ConfigFor(deck.ReadingType(session.ReadingType))
	if !ok {
		return nil, ErrUnknownReadingType
	}
	if len(cardIDs) != cfg.CardCount {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrWrongCardCount, len(cardIDs), cfg.CardCount)
	}

	seen := make(map[string]bool, len(cardIDs))
	selected := make([]storage.SelectedCard, 0, len(cardIDs))
	for i, id := range cardIDs {
		if _, ok := deck.CardByID(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCard, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, id)
		}
		seen[id] = true

		s.dealerMu.Lock()
		orientation := s.dealer.DrawOrientation()
		s.dealerMu.Unlock()

		selected = append(selected, storage.SelectedCard{
			CardID:      id,
			Position:    i + 1,
			Orientation: orientation,
		})
	}

	session.Cards = selected
	return s.advance(ctx, session)
}

// Generate is the point of no return: it produces the reading, then
// consumes the link, then (for consultation sessions) persists the
// consultation record. Consume and save failures after a successful
// generation are surfaced as warnings, never by discarding the reading.
func (s *SessionService) Generate(ctx context.Context, sessionID string) (*GenerateResult, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != StateReady {
		return nil, ErrInvalidTransition
	}

	cfg, ok := deck.ConfigFor(deck.ReadingType(session.ReadingType))
	if !ok {
		return nil, ErrUnknownReadingType
	}

	prompt := reading.BuildPrompt(reading.PromptInput{
		Question:    session.Question,
		ReadingType: cfg,
		Cards:       session.Cards,
		Language:    i18n.Language(session.Locale),
	})

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.LogGeneration(ctx, session.ReadingType, len(session.Cards), false)
		// Session stays ready: the card selection is kept and the user
		// may retry explicitly.
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}
	s.logger.LogGeneration(ctx, session.ReadingType, len(session.Cards), true)

	var warnings []string

	consumed, err := s.links.Consume(ctx, session.LinkID, session.IsMaster)
	if err != nil || !consumed {
		// Best-effort bookkeeping: another tab may have consumed the link
		// first. The generated reading is still returned.
		s.logger.Warn(ctx, "link consume lost", "session_id", session.ID, "link_id", session.LinkID.String())
		warnings = append(warnings, "link_already_consumed")
	}

	session.Reading = text

	if session.UserType == storage.UserTypeConsultation && session.UserID != nil {
		consultation := &storage.Consultation{
			UserID:        *session.UserID,
			ReferenceCode: session.ReferenceCode,
			ReadingType:   session.ReadingType,
			Question:      session.Question,
			Cards:         session.Cards,
			Reading:       text,
		}
		if err := s.consultations.Save(ctx, consultation); err != nil {
			s.logger.Error(ctx, "consultation save failed", "session_id", session.ID, "error", err.Error())
			warnings = append(warnings, "save_failed")
		}
	}

	session, err = s.advance(ctx, session)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Session:  session,
		Reading:  text,
		Warnings: warnings,
	}, nil
}

// Get returns the current session record.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*cache.Session, error) {
	return s.load(ctx, sessionID)
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*cache.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) advance(ctx context.Context, session *cache.Session) (*cache.Session, error) {
	next, ok := transitions[session.State]
	if !ok {
		return nil, ErrInvalidTransition
	}

	from := session.State
	session.State = next
	if err := s.sessions.Set(ctx, session, s.ttl); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.logger.LogSessionTransition(ctx, session.ID, from, next)
	return session, nil
}
