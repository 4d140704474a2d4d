package service

import (
	"context"
	"time"

	"github.com/avoronov/linkpulse/internal/models"
)

// LinkRepository defines the persistence operations the link, redirect and
// stats services need over link records.
type LinkRepository interface {
	// Create inserts a new link. Returns database.ErrAliasExists when the
	// alias is taken by a non-deleted link.
	Create(ctx context.Context, link *models.Link) (*models.Link, error)

	// GetByID retrieves a non-deleted link by id.
	GetByID(ctx context.Context, id int64) (*models.Link, error)

	// GetByAlias retrieves a non-deleted link by its alias.
	GetByAlias(ctx context.Context, alias string) (*models.Link, error)

	// Update writes the mutable columns of a link.
	Update(ctx context.Context, link *models.Link) (*models.Link, error)

	// UpdateStatus persists a newly derived status.
	UpdateStatus(ctx context.Context, id int64, status models.LinkStatus) error

	// SoftDelete stamps the link deleted, hiding it from all queries.
	SoftDelete(ctx context.Context, id int64) error

	// IncrementClicks atomically bumps the attempted-access counter.
	IncrementClicks(ctx context.Context, id int64) error

	// IncrementSuccessfulAccess atomically bumps the successful-access counter.
	IncrementSuccessfulAccess(ctx context.Context, id int64) error

	// List returns one page of a user's links.
	List(ctx context.Context, userID int64, opts models.LinkListOptions) (*models.LinkPage, error)

	// CountByStatus groups a user's links by persisted status.
	CountByStatus(ctx context.Context, userID int64, f models.StatsFilter) ([]models.StatusCount, error)

	// Overview summarizes a user's links.
	Overview(ctx context.Context, userID int64, f models.StatsFilter) (*models.Overview, error)
}

// ClickRepository defines the persistence operations over the append-only
// click log.
type ClickRepository interface {
	Record(ctx context.Context, click *models.Click) error
	Trend(ctx context.Context, userID int64, period models.TrendPeriod, f models.StatsFilter) ([]models.TrendPoint, error)
	TopCountries(ctx context.Context, userID int64, f models.StatsFilter, limit int) ([]models.DimensionCount, error)
	DeviceBreakdown(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error)
	BrowserBreakdown(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error)
}

// UserRepository defines the persistence operations over user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ReferrerRepository defines the persistence operations over referrer tags.
type ReferrerRepository interface {
	Create(ctx context.Context, referrer *models.Referrer) (*models.Referrer, error)
	GetByID(ctx context.Context, id int64) (*models.Referrer, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Referrer, error)
	Update(ctx context.Context, referrer *models.Referrer) (*models.Referrer, error)
	SoftDelete(ctx context.Context, id int64) error
}

// TokenStore tracks revoked JWT ids until their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
