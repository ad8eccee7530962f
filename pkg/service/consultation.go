package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tarot-service/pkg/logging"
	"tarot-service/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ConsultationService struct {
	storage  storage.ConsultationStorage
	validate *validator.Validate
	logger   *logging.Logger
}

func NewConsultationService(consultationStorage storage.ConsultationStorage, logger *logging.Logger) *ConsultationService {
	return &ConsultationService{
		storage:  consultationStorage,
		validate: validator.New(),
		logger:   logger,
	}
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	BirthDate string `json:"birth_date" validate:"required"`
}

// Register creates the consultation user record. All fields are required;
// a duplicate email surfaces as storage.ErrEmailTaken so the caller can
// show the distinct "already registered" message.
func (s *ConsultationService) Register(ctx context.Context, req *RegisterRequest, referenceCode string) (*storage.ConsultationUser, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.BirthDate = strings.TrimSpace(req.BirthDate)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUserInfo, err)
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%w: birth date must be YYYY-MM-DD", ErrInvalidUserInfo)
	}
	if birthDate.After(time.Now()) {
		return nil, ErrBirthDateInFuture
	}

	user := &storage.ConsultationUser{
		ID:            uuid.New(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		BirthDate:     birthDate,
		ReferenceCode: referenceCode,
		CreatedAt:     time.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create consultation user: %w", err)
	}

	s.logger.Info(ctx, "consultation user registered", "user_id", user.ID.String())
	return user, nil
}

// Save persists the finished consultation record. Called once, after a
// reading has been generated; the record is never mutated afterwards.
func (s *ConsultationService) Save(ctx context.Context, consultation *storage.Consultation) error {
	if consultation.ID == uuid.Nil {
		consultation.ID = uuid.New()
	}
	if consultation.CreatedAt.IsZero() {
		consultation.CreatedAt = time.Now()
	}

	if err := s.storage.SaveConsultation(ctx, consultation); err != nil {
		return fmt.Errorf("save consultation: %w", err)
	}

	s.logger.Info(ctx, "consultation saved",
		"consultation_id", consultation.ID.String(),
		"reading_type", consultation.ReadingType,
	)
	return nil
}
