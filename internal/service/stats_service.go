package service

import (
	"context"
	"fmt"

	"github.com/avoronov/linkpulse/internal/models"
)

const topCountriesLimit = 10

// StatsService aggregates per-user link and click statistics.
type StatsService struct {
	linkRepo  LinkRepository
	clickRepo ClickRepository
}

func NewStatsService(linkRepo LinkRepository, clickRepo ClickRepository) *StatsService {
	return &StatsService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
	}
}

// StatusCounts returns one entry per known status, zero-filled for statuses
// the user has no links in, in a fixed order.
func (s *StatsService) StatusCounts(ctx context.Context, userID int64, f models.StatsFilter) ([]models.StatusCount, error) {
	const op = "service.StatsService.StatusCounts"

	counts, err := s.linkRepo.CountByStatus(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count links by status: %w", op, err)
	}

	byStatus := make(map[models.LinkStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	result := make([]models.StatusCount, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		result = append(result, models.StatusCount{
			Status: status,
			Count:  byStatus[status],
		})
	}

	return result, nil
}

func (s *StatsService) Overview(ctx context.Context, userID int64, f models.StatsFilter) (*models.Overview, error) {
	const op = "service.StatsService.Overview"

	overview, err := s.linkRepo.Overview(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build overview: %w", op, err)
	}

	return overview, nil
}

// Trend returns click counts bucketed by day, week or month.
func (s *StatsService) Trend(ctx context.Context, userID int64, period models.TrendPeriod, f models.StatsFilter) ([]models.TrendPoint, error) {
	const op = "service.StatsService.Trend"

	if !period.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidPeriod, period)
	}

	points, err := s.clickRepo.Trend(ctx, userID, period, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build trend: %w", op, err)
	}

	return points, nil
}

func (s *StatsService) TopCountries(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	const op = "service.StatsService.TopCountries"

	counts, err := s.clickRepo.TopCountries(ctx, userID, f, topCountriesLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count countries: %w", op, err)
	}

	return counts, nil
}

func (s *StatsService) Devices(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	const op = "service.StatsService.Devices"

	counts, err := s.clickRepo.DeviceBreakdown(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count devices: %w", op, err)
	}

	return counts, nil
}

func (s *StatsService) Browsers(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	const op = "service.StatsService.Browsers"

	counts, err := s.clickRepo.BrowserBreakdown(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count browsers: %w", op, err)
	}

	return counts, nil
}
