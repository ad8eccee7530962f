package service

import (
	"context"
	"testing"
	"time"

	"tarot-service/pkg/logging"
	"tarot-service/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsultationService(t *testing.T) (*ConsultationService, *mockConsultationStorage) {
	t.Helper()
	store := newMockConsultationStorage()
	logger := logging.NewLogger(logging.LevelError)
	return NewConsultationService(store, logger), store
}

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Email:     "ayse@example.com",
		BirthDate: "1990-04-12",
	}
}

func TestRegister(t *testing.T) {
	svc, store := newTestConsultationService(t)

	user, err := svc.Register(context.Background(), validRegisterRequest(), "ref-token")
	require.NoError(t, err)

	assert.Equal(t, "Ayşe", user.FirstName)
	assert.Equal(t, "ref-token", user.ReferenceCode)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Len(t, store.users, 1)
}

func TestRegisterTrimsFields(t *testing.T) {
	svc, _ := newTestConsultationService(t)

	req := validRegisterRequest()
	req.FirstName = "  Ayşe  "
	req.Email = " ayse@example.com "

	user, err := svc.Register(context.Background(), req, "ref")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", user.FirstName)
	assert.Equal(t, "ayse@example.com", user.Email)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr error
	}{
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "   " }, ErrInvalidUserInfo},
		{"missing last name", func(r *RegisterRequest) { r.LastName = "" }, ErrInvalidUserInfo},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, ErrInvalidUserInfo},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-email" }, ErrInvalidUserInfo},
		{"email without tld dot", func(r *RegisterRequest) { r.Email = "a@b" }, ErrInvalidUserInfo},
		{"missing birth date", func(r *RegisterRequest) { r.BirthDate = "" }, ErrInvalidUserInfo},
		{"malformed birth date", func(r *RegisterRequest) { r.BirthDate = "12/04/1990" }, ErrInvalidUserInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestConsultationService(t)
			req := validRegisterRequest()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req, "ref")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterBirthDateInFuture(t *testing.T) {
	svc, _ := newTestConsultationService(t)

	req := validRegisterRequest()
	req.BirthDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	_, err := svc.Register(context.Background(), req, "ref")
	assert.ErrorIs(t, err, ErrBirthDateInFuture)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestConsultationService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest(), "ref-1")
	require.NoError(t, err)

	req := validRegisterRequest()
	req.FirstName = "Fatma"
	_, err = svc.Register(ctx, req, "ref-2")
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestSaveConsultation(t *testing.T) {
	svc, store := newTestConsultationService(t)

	consultation := &storage.Consultation{
		UserID:        uuid.New(),
		ReferenceCode: "ref",
		ReadingType:   "3-card",
		Question:      "What lies ahead?",
		Cards: []storage.SelectedCard{
			{CardID: "rw_00", Position: 1, Orientation: storage.OrientationUpright},
		},
		Reading: "The cards speak of change.",
	}

	err := svc.Save(context.Background(), consultation)
	require.NoError(t, err)

	require.Len(t, store.consultations, 1)
	saved := store.consultations[0]
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, "What lies ahead?", saved.Question)
}
