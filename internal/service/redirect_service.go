package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avoronov/linkpulse/internal/models"
)

// RedirectService resolves public aliases, accounts clicks and gates
// password-protected links.
type RedirectService struct {
	linkRepo  LinkRepository
	clickRepo ClickRepository
	logger    *slog.Logger
}

func NewRedirectService(linkRepo LinkRepository, clickRepo ClickRepository, logger *slog.Logger) *RedirectService {
	return &RedirectService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		logger:    logger,
	}
}

// Resolve handles a public hit on an alias. A hit on a servable link always
// counts as a click, even when the visitor still has to pass the password
// gate; successful_access_count grows only for links without one. Expiry and
// the click limit are rechecked against the fresh counters before the click
// is recorded, so a forbidden hit leaves the counters untouched.
func (s *RedirectService) Resolve(ctx context.Context, alias string, client models.ClientContext) (*models.RedirectResult, error) {
	const op = "service.RedirectService.Resolve"

	link, err := s.linkRepo.GetByAlias(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := refreshLinkStatus(ctx, s.linkRepo, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if link.Status != models.StatusActive {
		return nil, fmt.Errorf("%s: %w", op, ErrLinkNotServable)
	}

	now := time.Now()
	if link.ExpireAt != nil && !now.Before(*link.ExpireAt) {
		if err := s.linkRepo.UpdateStatus(ctx, link.ID, models.StatusExpired); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrLinkNotServable)
	}
	if link.MaxClicks != nil && link.ClicksCount >= *link.MaxClicks {
		if err := s.linkRepo.UpdateStatus(ctx, link.ID, models.StatusLimitReached); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrLinkNotServable)
	}

	if err := s.linkRepo.IncrementClicks(ctx, link.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to count click: %w", op, err)
	}
	link.ClicksCount++

	s.recordClick(ctx, link, client)

	if link.IsUsePassword {
		return &models.RedirectResult{Link: link, RequiresPassword: true}, nil
	}

	if err := s.linkRepo.IncrementSuccessfulAccess(ctx, link.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to count access: %w", op, err)
	}
	link.SuccessfulAccessCount++

	return &models.RedirectResult{Link: link}, nil
}

// VerifyPassword checks a visitor's password for a protected alias and, on
// success, counts the access. The click was already counted by Resolve.
func (s *RedirectService) VerifyPassword(ctx context.Context, alias, password string) (*models.Link, error) {
	const op = "service.RedirectService.VerifyPassword"

	link, err := s.linkRepo.GetByAlias(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := refreshLinkStatus(ctx, s.linkRepo, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if link.Status != models.StatusActive {
		return nil, fmt.Errorf("%s: %w", op, ErrLinkNotServable)
	}

	if !link.IsUsePassword || link.PasswordHash == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPasswordNotSet)
	}

	if !checkPassword(*link.PasswordHash, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidLinkPassword)
	}

	if err := s.linkRepo.IncrementSuccessfulAccess(ctx, link.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to count access: %w", op, err)
	}
	link.SuccessfulAccessCount++

	return link, nil
}

// PasswordRequired reports whether an alias points at a servable,
// password-protected link. Used by the password page, which must not count
// clicks on its own.
func (s *RedirectService) PasswordRequired(ctx context.Context, alias string) (bool, error) {
	const op = "service.RedirectService.PasswordRequired"

	link, err := s.linkRepo.GetByAlias(ctx, alias)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := refreshLinkStatus(ctx, s.linkRepo, link); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if link.Status != models.StatusActive {
		return false, fmt.Errorf("%s: %w", op, ErrLinkNotServable)
	}

	return link.IsUsePassword, nil
}

// recordClick stores the click row. Accounting is best effort: a failure is
// logged and never blocks the redirect.
func (s *RedirectService) recordClick(ctx context.Context, link *models.Link, client models.ClientContext) {
	click := &models.Click{
		LinkID:   link.ID,
		IP:       client.IP,
		Device:   ClassifyDevice(client.UserAgent),
		Browser:  ClassifyBrowser(client.UserAgent),
		Referrer: client.Referrer,
	}

	if err := s.clickRepo.Record(ctx, click); err != nil {
		s.logger.Error("failed to record click",
			slog.Int64("link_id", link.ID),
			slog.Any("error", err),
		)
	}
}
