package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/avoronov/linkpulse/internal/models"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	args := r.Called(ctx, link)
	l, _ := args.Get(0).(*models.Link)
	return l, args.Error(1)
}

func (r *MockLinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	args := r.Called(ctx, id)
	l, _ := args.Get(0).(*models.Link)
	return l, args.Error(1)
}

func (r *MockLinkRepository) GetByAlias(ctx context.Context, alias string) (*models.Link, error) {
	args := r.Called(ctx, alias)
	l, _ := args.Get(0).(*models.Link)
	return l, args.Error(1)
}

func (r *MockLinkRepository) Update(ctx context.Context, link *models.Link) (*models.Link, error) {
	args := r.Called(ctx, link)
	l, _ := args.Get(0).(*models.Link)
	return l, args.Error(1)
}

func (r *MockLinkRepository) UpdateStatus(ctx context.Context, id int64, status models.LinkStatus) error {
	args := r.Called(ctx, id, status)
	return args.Error(0)
}

func (r *MockLinkRepository) SoftDelete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockLinkRepository) IncrementClicks(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockLinkRepository) IncrementSuccessfulAccess(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockLinkRepository) List(ctx context.Context, userID int64, opts models.LinkListOptions) (*models.LinkPage, error) {
	args := r.Called(ctx, userID, opts)
	p, _ := args.Get(0).(*models.LinkPage)
	return p, args.Error(1)
}

func (r *MockLinkRepository) CountByStatus(ctx context.Context, userID int64, f models.StatsFilter) ([]models.StatusCount, error) {
	args := r.Called(ctx, userID, f)
	c, _ := args.Get(0).([]models.StatusCount)
	return c, args.Error(1)
}

func (r *MockLinkRepository) Overview(ctx context.Context, userID int64, f models.StatsFilter) (*models.Overview, error) {
	args := r.Called(ctx, userID, f)
	o, _ := args.Get(0).(*models.Overview)
	return o, args.Error(1)
}

type MockClickRepository struct {
	mock.Mock
}

func (r *MockClickRepository) Record(ctx context.Context, click *models.Click) error {
	args := r.Called(ctx, click)
	return args.Error(0)
}

func (r *MockClickRepository) Trend(ctx context.Context, userID int64, period models.TrendPeriod, f models.StatsFilter) ([]models.TrendPoint, error) {
	args := r.Called(ctx, userID, period, f)
	p, _ := args.Get(0).([]models.TrendPoint)
	return p, args.Error(1)
}

func (r *MockClickRepository) TopCountries(ctx context.Context, userID int64, f models.StatsFilter, limit int) ([]models.DimensionCount, error) {
	args := r.Called(ctx, userID, f, limit)
	c, _ := args.Get(0).([]models.DimensionCount)
	return c, args.Error(1)
}

func (r *MockClickRepository) DeviceBreakdown(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	args := r.Called(ctx, userID, f)
	c, _ := args.Get(0).([]models.DimensionCount)
	return c, args.Error(1)
}

func (r *MockClickRepository) BrowserBreakdown(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	args := r.Called(ctx, userID, f)
	c, _ := args.Get(0).([]models.DimensionCount)
	return c, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (r *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := r.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (r *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := r.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (r *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := r.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type MockReferrerRepository struct {
	mock.Mock
}

func (r *MockReferrerRepository) Create(ctx context.Context, referrer *models.Referrer) (*models.Referrer, error) {
	args := r.Called(ctx, referrer)
	ref, _ := args.Get(0).(*models.Referrer)
	return ref, args.Error(1)
}

func (r *MockReferrerRepository) GetByID(ctx context.Context, id int64) (*models.Referrer, error) {
	args := r.Called(ctx, id)
	ref, _ := args.Get(0).(*models.Referrer)
	return ref, args.Error(1)
}

func (r *MockReferrerRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Referrer, error) {
	args := r.Called(ctx, userID)
	refs, _ := args.Get(0).([]*models.Referrer)
	return refs, args.Error(1)
}

func (r *MockReferrerRepository) Update(ctx context.Context, referrer *models.Referrer) (*models.Referrer, error) {
	args := r.Called(ctx, referrer)
	ref, _ := args.Get(0).(*models.Referrer)
	return ref, args.Error(1)
}

func (r *MockReferrerRepository) SoftDelete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockTokenStore struct {
	mock.Mock
}

func (s *MockTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := s.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (s *MockTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := s.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
