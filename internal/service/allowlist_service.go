package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllowlistService manages who may sign in and with which role.
type AllowlistService interface {
	List(ctx context.Context) ([]dto.AllowedEmailResponse, error)
	Create(ctx context.Context, req dto.CreateAllowedEmailRequest) (*dto.AllowedEmailResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateAllowedEmailRequest) (*dto.AllowedEmailResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type allowlistService struct {
	repo repository.AllowlistRepository
}

func NewAllowlistService(repo repository.AllowlistRepository) AllowlistService {
	return &allowlistService{repo: repo}
}

func (s *allowlistService) List(ctx context.Context) ([]dto.AllowedEmailResponse, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("allowlist: list: %w", err)
	}
	out := make([]dto.AllowedEmailResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAllowedEmailResponse(&e))
	}
	return out, nil
}

func (s *allowlistService) Create(ctx context.Context, req dto.CreateAllowedEmailRequest) (*dto.AllowedEmailResponse, error) {
	entry := model.AllowedEmail{
		// Emails compare case-insensitively everywhere; store the canonical form.
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Role:   req.Role,
		Active: true,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("allowlist: create: %w", err)
	}
	resp := toAllowedEmailResponse(&entry)
	return &resp, nil
}

func (s *allowlistService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateAllowedEmailRequest) (*dto.AllowedEmailResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("allowlist: update: %w", err)
	}
	if req.Role != nil {
		entry.Role = *req.Role
	}
	if req.Active != nil {
		entry.Active = *req.Active
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("allowlist: update: %w", err)
	}
	resp := toAllowedEmailResponse(entry)
	return &resp, nil
}

func (s *allowlistService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("allowlist: lookup: %w", err)
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("allowlist: deactivate: %w", err)
	}
	return nil
}

func toAllowedEmailResponse(e *model.AllowedEmail) dto.AllowedEmailResponse {
	return dto.AllowedEmailResponse{
		ID:     e.ID.String(),
		Email:  e.Email,
		Role:   e.Role,
		Active: e.Active,
	}
}
