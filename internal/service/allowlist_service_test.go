package service

import (
	"context"
	"testing"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAllowlistRepo struct {
	byID map[uuid.UUID]*model.AllowedEmail
}

func newStubAllowlistRepo() *stubAllowlistRepo {
	return &stubAllowlistRepo{byID: make(map[uuid.UUID]*model.AllowedEmail)}
}

func (s *stubAllowlistRepo) FindActiveByEmail(_ context.Context, email string) (*model.AllowedEmail, error) {
	for _, e := range s.byID {
		if e.Email == email && e.Active {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAllowlistRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AllowedEmail, error) {
	e, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (s *stubAllowlistRepo) List(_ context.Context) ([]model.AllowedEmail, error) {
	var out []model.AllowedEmail
	for _, e := range s.byID {
		out = append(out, *e)
	}
	return out, nil
}

func (s *stubAllowlistRepo) Create(_ context.Context, e *model.AllowedEmail) error {
	for _, existing := range s.byID {
		if existing.Email == e.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	e.ID = uuid.New()
	s.byID[e.ID] = e
	return nil
}

func (s *stubAllowlistRepo) Update(_ context.Context, e *model.AllowedEmail) error {
	s.byID[e.ID] = e
	return nil
}

func (s *stubAllowlistRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if e, ok := s.byID[id]; ok {
		e.Active = false
	}
	return nil
}

func TestAllowlistCreateCanonicalizesEmail(t *testing.T) {
	repo := newStubAllowlistRepo()
	svc := NewAllowlistService(repo)

	resp, err := svc.Create(context.Background(), dto.CreateAllowedEmailRequest{
		Email: "  Staff@Example.COM ",
		Role:  model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", resp.Email)
	assert.True(t, resp.Active)
}

func TestAllowlistCreateRejectsDuplicates(t *testing.T) {
	repo := newStubAllowlistRepo()
	svc := NewAllowlistService(repo)

	_, err := svc.Create(context.Background(), dto.CreateAllowedEmailRequest{
		Email: "dup@example.com", Role: model.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateAllowedEmailRequest{
		Email: "DUP@example.com", Role: model.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAllowlistUpdateRoleAndActive(t *testing.T) {
	repo := newStubAllowlistRepo()
	svc := NewAllowlistService(repo)

	created, err := svc.Create(context.Background(), dto.CreateAllowedEmailRequest{
		Email: "a@b.c", Role: model.RoleStaff,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	admin := model.RoleAdmin
	inactive := false
	updated, err := svc.Update(context.Background(), id, dto.UpdateAllowedEmailRequest{
		Role:   &admin,
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.False(t, updated.Active)
}

func TestAllowlistUpdateUnknownIDIsNotFound(t *testing.T) {
	svc := NewAllowlistService(newStubAllowlistRepo())

	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateAllowedEmailRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
