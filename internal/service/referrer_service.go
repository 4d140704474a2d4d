package service

import (
	"context"
	"fmt"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
)

// ReferrerService manages a user's traffic-source labels.
type ReferrerService struct {
	referrerRepo ReferrerRepository
}

func NewReferrerService(referrerRepo ReferrerRepository) *ReferrerService {
	return &ReferrerService{referrerRepo: referrerRepo}
}

func (s *ReferrerService) CreateReferrer(ctx context.Context, userID int64, name string) (*models.Referrer, error) {
	const op = "service.ReferrerService.CreateReferrer"

	referrer, err := s.referrerRepo.Create(ctx, &models.Referrer{
		Name:   name,
		UserID: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create referrer: %w", op, err)
	}

	return referrer, nil
}

func (s *ReferrerService) ListReferrers(ctx context.Context, userID int64) ([]*models.Referrer, error) {
	const op = "service.ReferrerService.ListReferrers"

	referrers, err := s.referrerRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list referrers: %w", op, err)
	}

	return referrers, nil
}

func (s *ReferrerService) UpdateReferrer(ctx context.Context, userID, id int64, name string) (*models.Referrer, error) {
	const op = "service.ReferrerService.UpdateReferrer"

	referrer, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	referrer.Name = name

	updated, err := s.referrerRepo.Update(ctx, referrer)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update referrer: %w", op, err)
	}

	return updated, nil
}

func (s *ReferrerService) DeleteReferrer(ctx context.Context, userID, id int64) error {
	const op = "service.ReferrerService.DeleteReferrer"

	referrer, err := s.owned(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.referrerRepo.SoftDelete(ctx, referrer.ID); err != nil {
		return fmt.Errorf("%s: failed to delete referrer: %w", op, err)
	}

	return nil
}

func (s *ReferrerService) owned(ctx context.Context, userID, id int64) (*models.Referrer, error) {
	referrer, err := s.referrerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if referrer.UserID != userID {
		return nil, database.ErrReferrerNotFound
	}

	return referrer, nil
}
