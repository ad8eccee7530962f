package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLinkStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresLinkStorage(pool *pgxpool.Pool) *PostgresLinkStorage {
	return &PostgresLinkStorage{pool: pool}
}

func (s *PostgresLinkStorage) Create(ctx context.Context, link *Link) error {
	query := `INSERT INTO one_time_links (id, link_token, reading_type, is_used, is_master, user_type, created_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.pool.Exec(ctx, query, link.ID, link.Token, link.ReadingType, link.IsUsed, link.IsMaster, link.UserType, link.CreatedAt, link.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenCollision
		}
		return err
	}
	return nil
}

func (s *PostgresLinkStorage) GetByToken(ctx context.Context, token string) (*Link, error) {
	query := `SELECT id, link_token, reading_type, is_used, is_master, user_type, created_at, used_at, expires_at
	          FROM one_time_links WHERE link_token = $1`
	row := s.pool.QueryRow(ctx, query, token)
	var link Link
	err := row.Scan(&link.ID, &link.Token, &link.ReadingType, &link.IsUsed, &link.IsMaster, &link.UserType, &link.CreatedAt, &link.UsedAt, &link.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// MarkUsed is the compare-and-set consumption step. The is_used = false
// guard is what makes a concurrent double-consume lose: the second writer
// matches zero rows.
func (s *PostgresLinkStorage) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	query := `UPDATE one_time_links SET is_used = true, used_at = $2 WHERE id = $1 AND is_used = false`
	tag, err := s.pool.Exec(ctx, query, id, usedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type PostgresConsultationStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresConsultationStorage(pool *pgxpool.Pool) *PostgresConsultationStorage {
	return &PostgresConsultationStorage{pool: pool}
}

func (s *PostgresConsultationStorage) CreateUser(ctx context.Context, user *ConsultationUser) error {
	query := `INSERT INTO consultation_users (id, first_name, last_name, email, birth_date, reference_code, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.pool.Exec(ctx, query, user.ID, user.FirstName, user.LastName, user.Email, user.BirthDate, user.ReferenceCode, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *PostgresConsultationStorage) SaveConsultation(ctx context.Context, consultation *Consultation) error {
	cards, err := json.Marshal(consultation.Cards)
	if err != nil {
		return err
	}
	query := `INSERT INTO consultations (id, user_id, reference_code, reading_type, question, cards, reading, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = s.pool.Exec(ctx, query, consultation.ID, consultation.UserID, consultation.ReferenceCode, consultation.ReadingType, consultation.Question, cards, consultation.Reading, consultation.CreatedAt)
	return err
}
