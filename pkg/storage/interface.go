package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LinkStorage interface {
	Create(ctx context.Context, link *Link) error
	GetByToken(ctx context.Context, token string) (*Link, error)
	// MarkUsed flips is_used false->true for the given link. It must be a
	// conditional update guarded on is_used = false; the second of two
	// concurrent callers observes false.
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)
}

type ConsultationStorage interface {
	CreateUser(ctx context.Context, user *ConsultationUser) error
	SaveConsultation(ctx context.Context, consultation *Consultation) error
}
