package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const aliasAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CreateLinkInput carries the fields a link can be created with. Optional
// fields stay nil when the caller did not supply them.
type CreateLinkInput struct {
	OriginalURL string
	Alias       *string
	Password    *string
	ExpireAt    *time.Time
	MaxClicks   *int64
	ReferrerID  *int64
}

// UpdateLinkInput carries partial-update fields. A nil field leaves the
// stored value untouched; an empty Password clears the link password.
type UpdateLinkInput struct {
	OriginalURL *string
	Alias       *string
	Password    *string
	ExpireAt    *time.Time
	MaxClicks   *int64
	ReferrerID  *int64
}

// LinkService implements the link lifecycle: create, fetch, list, partial
// update, soft delete and the ACTIVE/DISABLED toggle.
type LinkService struct {
	linkRepo     LinkRepository
	referrerRepo ReferrerRepository
	aliasLength  int
}

func NewLinkService(linkRepo LinkRepository, referrerRepo ReferrerRepository, aliasLength int) *LinkService {
	return &LinkService{
		linkRepo:     linkRepo,
		referrerRepo: referrerRepo,
		aliasLength:  aliasLength,
	}
}

// CreateLink stores a new link for the user. A supplied alias must be unique
// among non-deleted links; without one a random alias is generated, retrying
// a bounded number of times on collision.
func (s *LinkService) CreateLink(ctx context.Context, userID int64, input CreateLinkInput) (*models.Link, error) {
	const op = "service.LinkService.CreateLink"
	const maxRetries = 5

	if input.ReferrerID != nil {
		if err := s.checkReferrer(ctx, userID, *input.ReferrerID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	link := &models.Link{
		OriginalURL: input.OriginalURL,
		Status:      models.StatusActive,
		UserID:      userID,
		ExpireAt:    input.ExpireAt,
		MaxClicks:   input.MaxClicks,
		ReferrerID:  input.ReferrerID,
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		link.PasswordHash = &hash
		link.IsUsePassword = true
	}

	if input.Alias != nil && *input.Alias != "" {
		link.Alias = *input.Alias

		created, err := s.linkRepo.Create(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}
		return created, nil
	}

	for i := 0; i < maxRetries; i++ {
		alias, err := gonanoid.Generate(aliasAlphabet, s.aliasLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate alias: %w", op, err)
		}
		link.Alias = alias

		created, err := s.linkRepo.Create(ctx, link)
		if err != nil {
			if errors.Is(err, database.ErrAliasExists) {
				continue
			}
			return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
		}

		return created, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// GetLink fetches one of the user's links by id, refreshing its status on
// the way out.
func (s *LinkService) GetLink(ctx context.Context, userID, id int64) (*models.Link, error) {
	const op = "service.LinkService.GetLink"

	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := refreshLinkStatus(ctx, s.linkRepo, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// ListLinks returns one page of the user's links. Filter and sort columns
// are validated up front; statuses of the returned links are refreshed so
// the listing never shows a stale ACTIVE.
func (s *LinkService) ListLinks(ctx context.Context, userID int64, opts models.LinkListOptions) (*models.LinkPage, error) {
	const op = "service.LinkService.ListLinks"

	if err := validateListOptions(&opts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page, err := s.linkRepo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	for _, link := range page.Links {
		if err := refreshLinkStatus(ctx, s.linkRepo, link); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return page, nil
}

// UpdateLink applies a partial update to one of the user's links.
func (s *LinkService) UpdateLink(ctx context.Context, userID, id int64, input UpdateLinkInput) (*models.Link, error) {
	const op = "service.LinkService.UpdateLink"

	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if input.OriginalURL != nil {
		link.OriginalURL = *input.OriginalURL
	}
	if input.Alias != nil && *input.Alias != link.Alias {
		link.Alias = *input.Alias
	}
	if input.Password != nil {
		if *input.Password == "" {
			link.PasswordHash = nil
			link.IsUsePassword = false
		} else {
			hash, err := hashPassword(*input.Password)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			link.PasswordHash = &hash
			link.IsUsePassword = true
		}
	}
	if input.ExpireAt != nil {
		link.ExpireAt = input.ExpireAt
	}
	if input.MaxClicks != nil {
		link.MaxClicks = input.MaxClicks
	}
	if input.ReferrerID != nil {
		if err := s.checkReferrer(ctx, userID, *input.ReferrerID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		link.ReferrerID = input.ReferrerID
	}

	updated, err := s.linkRepo.Update(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update link: %w", op, err)
	}

	if err := refreshLinkStatus(ctx, s.linkRepo, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

// DeleteLink soft deletes one of the user's links.
func (s *LinkService) DeleteLink(ctx context.Context, userID, id int64) error {
	const op = "service.LinkService.DeleteLink"

	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.linkRepo.SoftDelete(ctx, link.ID); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}

// ToggleActive flips a link between ACTIVE and DISABLED. Links that turned
// EXPIRED or LIMIT_REACHED cannot be toggled back.
func (s *LinkService) ToggleActive(ctx context.Context, userID, id int64) (*models.Link, error) {
	const op = "service.LinkService.ToggleActive"

	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := refreshLinkStatus(ctx, s.linkRepo, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var next models.LinkStatus
	switch link.Status {
	case models.StatusActive:
		next = models.StatusDisabled
	case models.StatusDisabled:
		next = models.StatusActive
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrStatusNotToggleable)
	}

	if err := s.linkRepo.UpdateStatus(ctx, link.ID, next); err != nil {
		return nil, fmt.Errorf("%s: failed to toggle link status: %w", op, err)
	}
	link.Status = next

	return link, nil
}

func (s *LinkService) ownedLink(ctx context.Context, userID, id int64) (*models.Link, error) {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if link.UserID != userID {
		return nil, ErrPermissionDenied
	}

	return link, nil
}

func (s *LinkService) checkReferrer(ctx context.Context, userID, referrerID int64) error {
	referrer, err := s.referrerRepo.GetByID(ctx, referrerID)
	if err != nil {
		return err
	}

	// Foreign referrers stay hidden.
	if referrer.UserID != userID {
		return database.ErrReferrerNotFound
	}

	return nil
}

var validFilterColumns = map[string]struct{}{
	"alias":       {},
	"originalUrl": {},
	"userId":      {},
	"status":      {},
	"createdAt":   {},
}

var validSortColumns = map[string]struct{}{
	"alias":       {},
	"originalUrl": {},
	"status":      {},
	"clicksCount": {},
	"createdAt":   {},
}

func validateListOptions(opts *models.LinkListOptions) error {
	for _, f := range opts.Filters {
		if _, ok := validFilterColumns[f.Column]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidFilter, f.Column)
		}
	}

	for _, s := range opts.Sort {
		if _, ok := validSortColumns[s.Column]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSort, s.Column)
		}
		if s.Order != "" && s.Order != "asc" && s.Order != "desc" {
			return fmt.Errorf("%w: order %q", ErrInvalidSort, s.Order)
		}
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 10
	}

	return nil
}
