package service

import (
	"context"
	"strings"

	"gridcode/internal/models"
	"gridcode/internal/repository"

	"github.com/google/uuid"
)

type InviteService struct {
	inviteRepo repository.InviteRepository
}

func NewInviteService(inviteRepo repository.InviteRepository) *InviteService {
	return &InviteService{inviteRepo: inviteRepo}
}

// Validate checks an invite code without consuming it. A used code fails
// exactly like an unknown one would, just with a more specific message.
func (s *InviteService) Validate(ctx context.Context, code string) (*models.Invite, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, models.NewValidationError("Invite code is required")
	}

	invite, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, models.NewValidationError("Invalid invite code")
	}
	if invite.Used() {
		return nil, models.NewConflictError("Invite code has already been used")
	}
	return invite, nil
}

// Consume marks the invite used by the given user, exactly once.
func (s *InviteService) Consume(ctx context.Context, code string, usedByUserID uint) error {
	return s.inviteRepo.MarkUsed(ctx, strings.TrimSpace(code), usedByUserID)
}

// Generate mints n fresh single-use codes owned by the given user.
func (s *InviteService) Generate(ctx context.Context, invitedByUserID uint, n int) ([]*models.Invite, error) {
	if n <= 0 {
		n = 1
	}
	if n > 10 {
		n = 10
	}

	invites := make([]*models.Invite, 0, n)
	for i := 0; i < n; i++ {
		invite := &models.Invite{
			Code:            newInviteCode(),
			InvitedByUserID: invitedByUserID,
		}
		if err := s.inviteRepo.Create(ctx, invite); err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "GRID-" + strings.ToUpper(raw[:8])
}
