package storage

import (
	"time"

	"github.com/google/uuid"
)

// UserType values for a link.
const (
	UserTypeNormal       = "normal"
	UserTypeConsultation = "consultation"
)

// Orientation values for a selected card.
const (
	OrientationUpright  = "upright"
	OrientationReversed = "reversed"
)

// Link is one issued access grant. Token is the bearer credential the
// client presents; ReadingType is fixed at issuance.
type Link struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Token       string     `json:"link_token" db:"link_token"`
	ReadingType string     `json:"reading_type" db:"reading_type"`
	IsUsed      bool       `json:"is_used" db:"is_used"`
	IsMaster    bool       `json:"is_master" db:"is_master"`
	UserType    string     `json:"user_type" db:"user_type"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UsedAt      *time.Time `json:"used_at,omitempty" db:"used_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
}

// ConsultationUser is the identity record collected before a consultation
// session may proceed. Email is unique across the table.
type ConsultationUser struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	Email         string    `json:"email" db:"email"`
	BirthDate     time.Time `json:"birth_date" db:"birth_date"`
	ReferenceCode string    `json:"reference_code" db:"reference_code"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SelectedCard records one card pick: position is 1-based selection order,
// orientation is fixed at selection time.
type SelectedCard struct {
	CardID      string `json:"card_id"`
	Position    int    `json:"position"`
	Orientation string `json:"orientation"`
}

// Consultation is the finished artifact of a consultation session. It is
// written once, after the reading has been generated, and never mutated.
type Consultation struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	UserID        uuid.UUID      `json:"user_id" db:"user_id"`
	ReferenceCode string         `json:"reference_code" db:"reference_code"`
	ReadingType   string         `json:"reading_type" db:"reading_type"`
	Question      string         `json:"question" db:"question"`
	Cards         []SelectedCard `json:"cards" db:"cards"`
	Reading       string         `json:"reading" db:"reading"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
