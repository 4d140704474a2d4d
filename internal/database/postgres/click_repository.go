package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/avoronov/linkpulse/internal/models"
	"github.com/jmoiron/sqlx"
)

type ClickRepository struct {
	db *sqlx.DB
}

func NewClickRepository(db *sqlx.DB) *ClickRepository {
	return &ClickRepository{
		db: db,
	}
}

func (r *ClickRepository) Record(ctx context.Context, click *models.Click) error {
	const op = "database.postgres.ClickRepository.Record"

	query := `INSERT INTO clicks(link_id, ip, device, browser, referrer, country)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		click.LinkID,
		click.IP,
		click.Device,
		click.Browser,
		click.Referrer,
		click.Country,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to record click: %w", op, err)
	}

	return nil
}

// Trend buckets the user's clicks by the given period, ascending by bucket.
// Clicks on soft-deleted links or links of other users never show up because
// of the inner join.
func (r *ClickRepository) Trend(ctx context.Context, userID int64, period models.TrendPeriod, f models.StatsFilter) ([]models.TrendPoint, error) {
	const op = "database.postgres.ClickRepository.Trend"

	where, args := buildClickStatsWhere(userID, f)
	bucket := fmt.Sprintf("date_trunc($%d, c.created_at)", len(args)+1)
	args = append(args, string(period))

	query := `SELECT to_char(` + bucket + `, 'YYYY-MM-DD') AS period, COUNT(*) AS count
		FROM clicks c
		JOIN links l ON l.id = c.link_id
		WHERE ` + where + `
		GROUP BY 1
		ORDER BY 1 ASC`

	rows := []struct {
		Period string `db:"period"`
		Count  int64  `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get click trend: %w", op, err)
	}

	points := make([]models.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.TrendPoint{Period: row.Period, Count: row.Count})
	}

	return points, nil
}

// dimensionColumns whitelists the click columns breakdowns can group by.
var dimensionColumns = map[string]string{
	"country": "c.country",
	"device":  "c.device",
	"browser": "c.browser",
}

func (r *ClickRepository) TopCountries(ctx context.Context, userID int64, f models.StatsFilter, limit int) ([]models.DimensionCount, error) {
	return r.breakdown(ctx, "country", userID, f, limit)
}

func (r *ClickRepository) DeviceBreakdown(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	return r.breakdown(ctx, "device", userID, f, 0)
}

func (r *ClickRepository) BrowserBreakdown(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
	return r.breakdown(ctx, "browser", userID, f, 0)
}

func (r *ClickRepository) breakdown(ctx context.Context, dimension string, userID int64, f models.StatsFilter, limit int) ([]models.DimensionCount, error) {
	const op = "database.postgres.ClickRepository.breakdown"

	col, ok := dimensionColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("%s: unknown dimension %q", op, dimension)
	}

	where, args := buildClickStatsWhere(userID, f)

	query := `SELECT COALESCE(NULLIF(` + col + `, ''), 'Unknown') AS value, COUNT(*) AS count
		FROM clicks c
		JOIN links l ON l.id = c.link_id
		WHERE ` + where + `
		GROUP BY 1
		ORDER BY count DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows := []struct {
		Value string `db:"value"`
		Count int64  `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get %s breakdown: %w", op, dimension, err)
	}

	counts := make([]models.DimensionCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, models.DimensionCount{Value: row.Value, Count: row.Count})
	}

	return counts, nil
}

// buildClickStatsWhere scopes click aggregations to one user's live links.
// The alias filter applies to the joined link, the time bounds to the click.
func buildClickStatsWhere(userID int64, f models.StatsFilter) (string, []any) {
	conds := []string{"l.user_id = $1", "l.deleted_at IS NULL"}
	args := []any{userID}

	if f.Alias != "" {
		conds = append(conds, fmt.Sprintf("l.alias ILIKE $%d", len(args)+1))
		args = append(args, "%"+f.Alias+"%")
	}
	if f.From != nil {
		conds = append(conds, fmt.Sprintf("c.created_at >= $%d", len(args)+1))
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, fmt.Sprintf("c.created_at <= $%d", len(args)+1))
		args = append(args, *f.To)
	}

	return strings.Join(conds, " AND "), args
}
