package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tarot-service/pkg/cache"
	"tarot-service/pkg/deck"
	"tarot-service/pkg/logging"
	"tarot-service/pkg/security"
	"tarot-service/pkg/storage"

	"github.com/google/uuid"
)

// masterLinkCacheTTL bounds how long a validated master link may be served
// from cache. Single-use links are never cached (see Validate).
const masterLinkCacheTTL = 1 * time.Hour

type LinkService struct {
	storage storage.LinkStorage
	cache   cache.LinkCacheInterface
	logger  *logging.Logger
	baseURL string
}

func NewLinkService(linkStorage storage.LinkStorage, linkCache cache.LinkCacheInterface, logger *logging.Logger, baseURL string) *LinkService {
	return &LinkService{
		storage: linkStorage,
		cache:   linkCache,
		logger:  logger,
		baseURL: baseURL,
	}
}

type IssueLinkRequest struct {
	ReadingType string     `json:"reading_type"`
	IsMaster    bool       `json:"is_master"`
	UserType    string     `json:"user_type,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type IssueLinkResponse struct {
	Link     *storage.Link `json:"link"`
	ShareURL string        `json:"share_url"`
}

// ValidationResult is the admission decision for a presented token.
type ValidationResult struct {
	Valid         bool      `json:"valid"`
	ReadingType   string    `json:"reading_type,omitempty"`
	LinkID        uuid.UUID `json:"link_id,omitempty"`
	IsMaster      bool      `json:"is_master,omitempty"`
	UserType      string    `json:"user_type,omitempty"`
	ReferenceCode string    `json:"reference_code,omitempty"`
}

// Issue mints a new access link. A token collision on insert is retried a
// couple of times; with 256-bit tokens more than one retry never happens
// in practice.
func (s *LinkService) Issue(ctx context.Context, req *IssueLinkRequest) (*IssueLinkResponse, error) {
	if !deck.ValidType(req.ReadingType) {
		return nil, ErrUnknownReadingType
	}

	userType := req.UserType
	switch userType {
	case "":
		userType = storage.UserTypeNormal
	case storage.UserTypeNormal, storage.UserTypeConsultation:
	default:
		return nil, fmt.Errorf("unknown user type %q", req.UserType)
	}

	var link *storage.Link
	for attempt := 0; attempt < 3; attempt++ {
		token, err := security.GenerateToken()
		if err != nil {
			return nil, err
		}

		link = &storage.Link{
			ID:          uuid.New(),
			Token:       token,
			ReadingType: req.ReadingType,
			IsMaster:    req.IsMaster,
			UserType:    userType,
			CreatedAt:   time.Now(),
			ExpiresAt:   req.ExpiresAt,
		}

		err = s.storage.Create(ctx, link)
		if err == nil {
			break
		}
		if errors.Is(err, storage.ErrTokenCollision) {
			link = nil
			continue
		}
		return nil, err
	}
	if link == nil {
		return nil, storage.ErrTokenCollision
	}

	s.logger.LogLinkOperation(ctx, "issue", link.Token, true)

	return &IssueLinkResponse{
		Link:     link,
		ShareURL: s.baseURL + "/?link=" + link.Token,
	}, nil
}

// Validate decides admission for a presented token. The decision never
// mutates state; consumption is a separate step so an abandoned session
// does not burn a single-use token.
func (s *LinkService) Validate(ctx context.Context, token string) (*ValidationResult, error) {
	if token == "" {
		return &ValidationResult{Valid: false}, nil
	}

	link, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		s.logger.LogLinkOperation(ctx, "validate", token, false)
		return &ValidationResult{Valid: false}, nil
	}

	// An expired link is treated exactly like a nonexistent one.
	if link.ExpiresAt != nil && !time.Now().Before(*link.ExpiresAt) {
		s.logger.LogLinkOperation(ctx, "validate", token, false)
		return &ValidationResult{Valid: false}, nil
	}

	if !link.IsMaster && link.IsUsed {
		s.logger.LogLinkOperation(ctx, "validate", token, false)
		return &ValidationResult{Valid: false}, nil
	}

	userType := link.UserType
	if userType == "" {
		userType = storage.UserTypeNormal
	}

	s.logger.LogLinkOperation(ctx, "validate", token, true)
	return &ValidationResult{
		Valid:         true,
		ReadingType:   link.ReadingType,
		LinkID:        link.ID,
		IsMaster:      link.IsMaster,
		UserType:      userType,
		ReferenceCode: token,
	}, nil
}

// lookup reads the link record, serving reusable master links from cache.
// Single-use links always hit the store so is_used is observed fresh.
func (s *LinkService) lookup(ctx context.Context, token string) (*storage.Link, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, token)
		if err == nil && cached != nil && cached.IsMaster {
			return cached, nil
		}
	}

	link, err := s.storage.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if link != nil && link.IsMaster && s.cache != nil {
		ttl := masterLinkCacheTTL
		if link.ExpiresAt != nil {
			if remaining := time.Until(*link.ExpiresAt); remaining > 0 && remaining < ttl {
				ttl = remaining
			}
		}
		s.cache.Set(ctx, link, ttl)
	}

	return link, nil
}

// ValidateForType additionally enforces the type-match policy: a master
// link unlocks any reading type, a single-use link must match exactly.
func (s *LinkService) ValidateForType(ctx context.Context, token, readingType string) (*ValidationResult, error) {
	if !deck.ValidType(readingType) {
		return nil, ErrUnknownReadingType
	}

	result, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, ErrLinkInvalid
	}
	if !result.IsMaster && result.ReadingType != readingType {
		return nil, ErrTypeMismatch
	}
	return result, nil
}

// Consume transitions a single-use link to used. Master links are never
// marked used; consuming one is a no-op success. For single-use links the
// store performs a conditional update, so of two concurrent consumers
// exactly one sees true.
func (s *LinkService) Consume(ctx context.Context, linkID uuid.UUID, isMaster bool) (bool, error) {
	if isMaster {
		return true, nil
	}

	ok, err := s.storage.MarkUsed(ctx, linkID, time.Now())
	if err != nil {
		s.logger.Error(ctx, "mark link used failed", "link_id", linkID.String(), "error", err.Error())
		return false, err
	}

	s.logger.Info(ctx, "link consumed", "link_id", linkID.String(), "success", ok)
	return ok, nil
}
